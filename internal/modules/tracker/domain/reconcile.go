package domain

import (
	"fmt"
	"time"
)

// EditedRow is one row of the post-edit view. An empty ID marks a row the
// user typed in; it becomes a new record.
type EditedRow struct {
	ID    string
	Patch Patch
}

// Outcome is the result of merging an edited view into the store.
type Outcome struct {
	Records []Record
	Added   []string
	Updated []string
	Deleted []string
	Errors  []RowError
}

func (o Outcome) Changed() bool {
	return len(o.Added)+len(o.Updated)+len(o.Deleted) > 0
}

// Reconcile merges an edited view back into current and returns the new
// canonical collection.
//
//   - a row whose id is in pre and post is updated in place
//   - an id in pre but missing from post is deleted
//   - a row without id is appended with a fresh id from newID
//
// Records whose id is not in pre are carried over untouched, whatever post
// says about them. A row that fails validation is reported and leaves its
// record as it was; the rest of the batch still applies. current is not
// modified.
func Reconcile(current []Record, pre []ViewRow, post []EditedRow, today time.Time, newID func() (string, error)) Outcome {
	index := make(map[string]int, len(current))
	for i, r := range current {
		index[r.ID] = i
	}
	before := make(map[string]Fields, len(pre))
	for _, row := range pre {
		before[row.ID] = row.Fields
	}

	out := Outcome{}
	next := make([]Record, len(current))
	copy(next, current)
	keep := make(map[string]bool, len(post))
	var added []Record

	for pos, row := range post {
		if row.ID == "" {
			record, err := newRecord(row.Patch, today, newID)
			if err != nil {
				out.Errors = append(out.Errors, invalidRow(pos, "", err))
				continue
			}
			added = append(added, record)
			out.Added = append(out.Added, record.ID)
			continue
		}

		at, known := index[row.ID]
		if !known {
			// reported once here, not again as a stale pre-view id
			keep[row.ID] = true
			out.Errors = append(out.Errors, unknownRow(pos, row.ID))
			continue
		}
		snapshot, inView := before[row.ID]
		if !inView {
			out.Errors = append(out.Errors, invalidRow(pos, row.ID, ErrOutsideView))
			continue
		}
		if keep[row.ID] {
			out.Errors = append(out.Errors, invalidRow(pos, row.ID, ErrDuplicateRow))
			continue
		}
		keep[row.ID] = true

		fields, changed, err := row.Patch.Apply(next[at].Fields, snapshot)
		if err != nil {
			out.Errors = append(out.Errors, invalidRow(pos, row.ID, err))
			continue
		}
		if changed {
			next[at].Fields = fields
			out.Updated = append(out.Updated, row.ID)
		}
	}

	drop := map[string]bool{}
	for _, row := range pre {
		if keep[row.ID] || drop[row.ID] {
			continue
		}
		if _, known := index[row.ID]; !known {
			out.Errors = append(out.Errors, unknownRow(-1, row.ID))
			continue
		}
		drop[row.ID] = true
		out.Deleted = append(out.Deleted, row.ID)
	}

	out.Records = make([]Record, 0, len(next)-len(drop)+len(added))
	for _, r := range next {
		if !drop[r.ID] {
			out.Records = append(out.Records, r)
		}
	}
	out.Records = append(out.Records, added...)
	return out
}

func newRecord(p Patch, today time.Time, newID func() (string, error)) (Record, error) {
	fields, err := p.Draft().Resolve(today)
	if err != nil {
		return Record{}, err
	}
	id, err := newID()
	if err != nil {
		return Record{}, fmt.Errorf("assign id: %w", err)
	}
	return Record{ID: id, Fields: fields}, nil
}
