package pipeline

import (
	trackerdto "jobtrack/internal/modules/tracker/dto"
	"jobtrack/internal/ui/components"
)

// Row is one line of the editable grid. New rows have no ID.
type Row struct {
	ID     string
	Values components.RecordValues
}

// Draft is the user's working copy of a filtered view. The view it was taken
// from is kept as the pre-edit side of the eventual reconcile.
type Draft struct {
	pre   []trackerdto.RecordOutput
	rows  []Row
	dirty bool
}

func NewDraft(pre []trackerdto.RecordOutput) Draft {
	d := Draft{pre: append([]trackerdto.RecordOutput(nil), pre...)}
	d.rows = make([]Row, 0, len(pre))
	for _, r := range pre {
		d.rows = append(d.rows, Row{ID: r.ID, Values: valuesOf(r)})
	}
	return d
}

func (d Draft) Pre() []trackerdto.RecordOutput { return d.pre }
func (d Draft) Rows() []Row                    { return d.rows }
func (d Draft) Dirty() bool                    { return d.dirty }

func (d *Draft) Edit(i int, v components.RecordValues) bool {
	if i < 0 || i >= len(d.rows) {
		return false
	}
	if d.rows[i].Values != v {
		d.rows[i].Values = v
		d.dirty = true
	}
	return true
}

func (d *Draft) Add(v components.RecordValues) {
	d.rows = append(d.rows, Row{Values: v})
	d.dirty = true
}

func (d *Draft) Delete(i int) bool {
	if i < 0 || i >= len(d.rows) {
		return false
	}
	d.rows = append(d.rows[:i:i], d.rows[i+1:]...)
	d.dirty = true
	return true
}

// Post is the post-edit view. Every column is sent; the tracker only treats
// a column as edited when it differs from the pre-edit view.
func (d Draft) Post() []trackerdto.EditedRowInput {
	out := make([]trackerdto.EditedRowInput, 0, len(d.rows))
	for _, row := range d.rows {
		v := row.Values
		out = append(out, trackerdto.EditedRowInput{
			ID:      row.ID,
			Date:    ptr(v.Date),
			Company: ptr(v.Company),
			Role:    ptr(v.Role),
			Type:    ptr(v.Type),
			Contact: ptr(v.Contact),
			Status:  ptr(v.Status),
			Notes:   ptr(v.Notes),
		})
	}
	return out
}

func valuesOf(r trackerdto.RecordOutput) components.RecordValues {
	return components.RecordValues{
		Date:    r.Date,
		Company: r.Company,
		Role:    r.Role,
		Type:    r.Type,
		Contact: r.Contact,
		Status:  r.Status,
		Notes:   r.Notes,
	}
}

func ptr(s string) *string { return &s }
