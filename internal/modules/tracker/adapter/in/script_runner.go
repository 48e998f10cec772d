package in

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"jobtrack/internal/modules/tracker/dto"
	trackerin "jobtrack/internal/modules/tracker/port/in"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

const (
	emptyStateMessage = "No interactions tracked yet. Log one to get started."
	noMatchMessage    = "No interactions match the current filter."
)

// StepResult is what one script step produced. Only the fields relevant to
// the step's op are set.
type StepResult struct {
	Step      int                  `json:"step"`
	Op        string               `json:"op"`
	Message   string               `json:"message,omitempty"`
	Record    *dto.RecordOutput    `json:"record,omitempty"`
	Records   []dto.RecordOutput   `json:"records,omitempty"`
	Reconcile *dto.ReconcileOutput `json:"reconcile,omitempty"`
	Summary   *dto.SummaryOutput   `json:"summary,omitempty"`
	Export    *dto.ExportOutput    `json:"export,omitempty"`
}

type ScriptRunner struct {
	tracker   trackerin.Usecase
	sessionID string
	label     string
}

func NewScriptRunner(tracker trackerin.Usecase, sessionID, label string) ScriptRunner {
	return ScriptRunner{tracker: tracker, sessionID: sessionID, label: label}
}

// Run executes the steps in order and stops at the first step that fails as
// a whole. Rejected rows of an edit step do not stop the script; they are
// part of that step's result.
func (r ScriptRunner) Run(ctx context.Context, script Script) ([]StepResult, error) {
	label := r.label
	if strings.TrimSpace(script.Label) != "" {
		label = script.Label
	}
	refs := map[string]string{}
	results := make([]StepResult, 0, len(script.Steps))

	for idx, step := range script.Steps {
		result := StepResult{Step: idx + 1, Op: step.Op}
		var err error
		switch step.Op {
		case OpCreate:
			err = r.create(ctx, step, refs, &result)
		case OpList:
			result.Records, err = r.tracker.ListRecords(ctx)
			if err == nil && len(result.Records) == 0 {
				result.Message = emptyStateMessage
			}
		case OpFilter:
			result.Records, err = r.tracker.FilterRecords(ctx, dto.FilterInput{Statuses: step.Statuses, Types: step.Types})
			if err == nil && len(result.Records) == 0 {
				result.Message = noMatchMessage
			}
		case OpEdit:
			err = r.edit(ctx, step, refs, &result)
		case OpSummary:
			var summary dto.SummaryOutput
			summary, err = r.tracker.Summary(ctx)
			result.Summary = &summary
		case OpExport:
			var exported dto.ExportOutput
			exported, err = r.tracker.Export(ctx, dto.ExportInput{SessionID: r.sessionID, Label: label})
			result.Export = &exported
			result.Message = fmt.Sprintf("Report written to %s", exported.Path)
		default:
			err = fmt.Errorf("unknown op %q", step.Op)
		}
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", idx+1, step.Op, err)
		}
		results = append(results, result)
	}
	return results, nil
}

func (r ScriptRunner) create(ctx context.Context, step Step, refs map[string]string, result *StepResult) error {
	in := step.Record
	record, err := r.tracker.CreateRecord(ctx, dto.CreateInput{
		Date:    in.Date,
		Company: in.Company,
		Role:    in.Role,
		Type:    in.Type,
		Contact: in.Contact,
		Status:  in.Status,
		Notes:   in.Notes,
	})
	if err != nil {
		return err
	}
	if step.Ref != "" {
		refs[step.Ref] = record.ID
	}
	result.Record = &record
	result.Message = fmt.Sprintf("Logged interaction with %s!", displayCompany(record.Company))
	return nil
}

// edit builds the post-edit view from the filtered pre-edit view: rows named
// in delete are dropped, rows with a ref are patched, rows without one are
// added.
func (r ScriptRunner) edit(ctx context.Context, step Step, refs map[string]string, result *StepResult) error {
	pre, err := r.tracker.FilterRecords(ctx, dto.FilterInput{Statuses: step.Statuses, Types: step.Types})
	if err != nil {
		return err
	}
	dropped := map[string]bool{}
	for _, ref := range step.Delete {
		recordID, ok := refs[ref]
		if !ok {
			return fmt.Errorf("delete: unknown ref %q", ref)
		}
		dropped[recordID] = true
	}

	post := make([]dto.EditedRowInput, 0, len(pre)+len(step.Rows))
	position := map[string]int{}
	for _, row := range pre {
		if dropped[row.ID] {
			continue
		}
		position[row.ID] = len(post)
		post = append(post, dto.EditedRowInput{ID: row.ID})
	}
	for _, rowSpec := range step.Rows {
		edited := dto.EditedRowInput{
			Date:    rowSpec.Date,
			Company: rowSpec.Company,
			Role:    rowSpec.Role,
			Type:    rowSpec.Type,
			Contact: rowSpec.Contact,
			Status:  rowSpec.Status,
			Notes:   rowSpec.Notes,
		}
		if rowSpec.Ref == "" {
			post = append(post, edited)
			continue
		}
		recordID, ok := refs[rowSpec.Ref]
		if !ok {
			return fmt.Errorf("rows: unknown ref %q", rowSpec.Ref)
		}
		edited.ID = recordID
		if at, inView := position[recordID]; inView {
			post[at] = edited
			continue
		}
		// not in the view; the engine rejects it, which the result reports
		post = append(post, edited)
	}

	reconciled, err := r.tracker.Reconcile(ctx, dto.ReconcileInput{Pre: pre, Post: post})
	if err != nil {
		return err
	}
	result.Reconcile = &reconciled
	result.Message = fmt.Sprintf("added %d, updated %d, deleted %d, rejected %d",
		len(reconciled.Added), len(reconciled.Updated), len(reconciled.Deleted), len(reconciled.Errors))
	return nil
}

// WriteResults renders results as text or as a JSON array.
func WriteResults(w io.Writer, format string, results []StepResult) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(results); err != nil {
			return fmt.Errorf("encode results: %w", err)
		}
		return nil
	case FormatText, "":
		for _, result := range results {
			writeText(w, result)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func writeText(w io.Writer, result StepResult) {
	_, _ = fmt.Fprintf(w, "[%d] %s", result.Step, result.Op)
	if result.Message != "" {
		_, _ = fmt.Fprintf(w, ": %s", result.Message)
	}
	_, _ = fmt.Fprintln(w)

	if result.Record != nil {
		writeRecord(w, *result.Record)
	}
	for _, record := range result.Records {
		writeRecord(w, record)
	}
	if result.Reconcile != nil {
		for _, rowErr := range result.Reconcile.Errors {
			_, _ = fmt.Fprintf(w, "  rejected %s\n", rowErr.Message)
		}
	}
	if result.Summary != nil {
		_, _ = fmt.Fprintf(w, "  total\t%d\n", result.Summary.Total)
		for _, c := range result.Summary.ByStatus {
			if c.Count > 0 {
				_, _ = fmt.Fprintf(w, "  %s\t%d\n", c.Value, c.Count)
			}
		}
	}
}

func writeRecord(w io.Writer, r dto.RecordOutput) {
	_, _ = fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.Date, displayCompany(r.Company), r.Role, r.Type, r.Status)
}

func displayCompany(company string) string {
	if strings.TrimSpace(company) == "" {
		return "(no company)"
	}
	return company
}
