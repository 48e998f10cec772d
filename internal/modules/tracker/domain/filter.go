package domain

import (
	"errors"
	"strings"
)

// Filter holds the categorical predicates of the pipeline view. An empty set
// places no restriction on that column; both sets must match.
type Filter struct {
	Statuses []Status
	Types    []InteractionType
}

// ParseFilter validates raw filter values against the enumerations. Blank
// entries are skipped.
func ParseFilter(rawStatuses, rawTypes []string) (Filter, error) {
	f := Filter{}
	var errs []error
	for _, raw := range rawStatuses {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		s, err := ParseStatus(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		f.Statuses = append(f.Statuses, s)
	}
	for _, raw := range rawTypes {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		t, err := ParseInteractionType(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		f.Types = append(f.Types, t)
	}
	if len(errs) > 0 {
		return Filter{}, errors.Join(errs...)
	}
	return f, nil
}

func (f Filter) Empty() bool {
	return len(f.Statuses) == 0 && len(f.Types) == 0
}

func (f Filter) Match(r Record) bool {
	return matchStatus(f.Statuses, r.Status) && matchType(f.Types, r.Type)
}

// ViewRow pairs a filtered record with the id it has in the canonical store.
type ViewRow struct {
	ID     string
	Fields Fields
}

// Apply returns the subsequence of records matching f, in store order. It
// never modifies records.
func (f Filter) Apply(records []Record) []ViewRow {
	out := make([]ViewRow, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, ViewRow{ID: r.ID, Fields: r.Fields})
		}
	}
	return out
}

// Options lists the statuses and types present in records, in enumeration
// order. These feed the filter pickers.
func Options(records []Record) ([]Status, []InteractionType) {
	seenStatus := map[Status]bool{}
	seenType := map[InteractionType]bool{}
	for _, r := range records {
		seenStatus[r.Status] = true
		seenType[r.Type] = true
	}
	var outStatus []Status
	for _, s := range statuses {
		if seenStatus[s] {
			outStatus = append(outStatus, s)
		}
	}
	var outType []InteractionType
	for _, t := range interactionTypes {
		if seenType[t] {
			outType = append(outType, t)
		}
	}
	return outStatus, outType
}

func matchStatus(set []Status, s Status) bool {
	if len(set) == 0 {
		return true
	}
	for _, candidate := range set {
		if candidate == s {
			return true
		}
	}
	return false
}

func matchType(set []InteractionType, t InteractionType) bool {
	if len(set) == 0 {
		return true
	}
	for _, candidate := range set {
		if candidate == t {
			return true
		}
	}
	return false
}
