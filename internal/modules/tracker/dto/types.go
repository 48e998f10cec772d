package dto

type CreateInput struct {
	Date    string
	Company string
	Role    string
	Type    string
	Contact string
	Status  string
	Notes   string
}

// RecordOutput is one record, or one row of a filtered view. Date uses the
// YYYY-MM-DD layout.
type RecordOutput struct {
	ID      string `json:"id" yaml:"id"`
	Date    string `json:"date" yaml:"date"`
	Company string `json:"company" yaml:"company"`
	Role    string `json:"role" yaml:"role"`
	Type    string `json:"type" yaml:"type"`
	Contact string `json:"contact" yaml:"contact"`
	Status  string `json:"status" yaml:"status"`
	Notes   string `json:"notes" yaml:"notes"`
}

type FilterInput struct {
	Statuses []string
	Types    []string
}

type FilterOptionsOutput struct {
	Statuses []string `json:"statuses"`
	Types    []string `json:"types"`
}

// EditedRowInput is one row of the edited view. Nil fields were left out by
// the presenter; an empty ID marks a new row.
type EditedRowInput struct {
	ID      string
	Date    *string
	Company *string
	Role    *string
	Type    *string
	Contact *string
	Status  *string
	Notes   *string
}

type ReconcileInput struct {
	Pre  []RecordOutput
	Post []EditedRowInput
}

type RowErrorOutput struct {
	Row     int    `json:"row"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

type ReconcileOutput struct {
	Records []RecordOutput   `json:"records"`
	Added   []string         `json:"added,omitempty"`
	Updated []string         `json:"updated,omitempty"`
	Deleted []string         `json:"deleted,omitempty"`
	Errors  []RowErrorOutput `json:"errors,omitempty"`
}

type CountOutput struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type SummaryOutput struct {
	Total    int           `json:"total"`
	ByStatus []CountOutput `json:"by_status"`
	ByType   []CountOutput `json:"by_type"`
}

type ExportInput struct {
	SessionID string
	Label     string
}

type ExportOutput struct {
	Path    string `json:"path"`
	Records int    `json:"records"`
}
