package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidStatus  = errors.New("invalid status")
	ErrInvalidType    = errors.New("invalid interaction type")
	ErrInvalidDate    = errors.New("invalid date")
	ErrInvalidRowEdit = errors.New("invalid row edit")
	ErrUnknownID      = errors.New("unknown record id")
	ErrOutsideView    = errors.New("record is not part of the edited view")
	ErrDuplicateRow   = errors.New("record appears more than once in the edited view")
)

// RowError reports one rejected row of a reconcile batch. Row is the
// position in the post-edit view, or -1 when the id only appeared in the
// pre-edit view.
type RowError struct {
	Row int
	ID  string
	Err error
}

func (e RowError) Error() string {
	switch {
	case e.Row < 0:
		return fmt.Sprintf("record %s: %v", e.ID, e.Err)
	case e.ID == "":
		return fmt.Sprintf("row %d (new): %v", e.Row, e.Err)
	default:
		return fmt.Sprintf("row %d (%s): %v", e.Row, e.ID, e.Err)
	}
}

func (e RowError) Unwrap() error { return e.Err }

func invalidRow(row int, id string, cause error) RowError {
	return RowError{Row: row, ID: id, Err: fmt.Errorf("%w: %w", ErrInvalidRowEdit, cause)}
}

func unknownRow(row int, id string) RowError {
	return RowError{Row: row, ID: id, Err: fmt.Errorf("%w: %s", ErrUnknownID, id)}
}
