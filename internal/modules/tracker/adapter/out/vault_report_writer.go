package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"jobtrack/internal/modules/tracker/domain"
	trackerout "jobtrack/internal/modules/tracker/port/out"
	"jobtrack/internal/platform/markdown"
	"jobtrack/internal/platform/slug"
)

const (
	recordsBlockStart = "<!-- jobtrack:records:start -->"
	recordsBlockEnd   = "<!-- jobtrack:records:end -->"
)

// VaultReportWriter renders session reports as markdown notes. Re-exporting
// to the same file only rewrites the frontmatter and the records block.
type VaultReportWriter struct {
	dir string
}

func NewVaultReportWriter(dir string) trackerout.ReportWriter {
	return &VaultReportWriter{dir: dir}
}

func (w *VaultReportWriter) Write(_ context.Context, report domain.Report) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s.md", slug.Make(report.Label), report.GeneratedAt.Format("20060102"))
	path := filepath.Join(w.dir, name)

	doc, err := loadOrNew(path, report.Label)
	if err != nil {
		return "", err
	}
	byStatus := map[string]int{}
	for _, s := range domain.Statuses() {
		if n := report.Summary.ByStatus[s]; n > 0 {
			byStatus[string(s)] = n
		}
	}
	doc.Meta["schema_version"] = domain.ReportSchemaVersion
	doc.Meta["session_id"] = report.SessionID
	doc.Meta["generated_at"] = report.GeneratedAt.Format("2006-01-02T15:04:05Z07:00")
	doc.Meta["records"] = len(report.Records)
	doc.Meta["by_status"] = byStatus
	doc.ReplaceBlock(recordsBlockStart, recordsBlockEnd, renderTable(report.Records))

	rendered, err := doc.Render()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func loadOrNew(path, label string) (markdown.Document, error) {
	payload, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return markdown.Document{Meta: map[string]any{}, Body: fmt.Sprintf("# Pipeline: %s\n\n", label)}, nil
	}
	if err != nil {
		return markdown.Document{}, fmt.Errorf("read report: %w", err)
	}
	doc, err := markdown.Parse(string(payload))
	if err != nil {
		return markdown.Document{}, fmt.Errorf("parse report %s: %w", path, err)
	}
	if doc.Meta == nil {
		doc.Meta = map[string]any{}
	}
	return doc, nil
}

func renderTable(records []domain.Record) string {
	if len(records) == 0 {
		return "_No interactions logged yet._"
	}
	b := strings.Builder{}
	b.WriteString("| Date | Company | Role | Type | HR Contact | Status | Notes |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for _, r := range records {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			r.Date.Format(domain.DisplayDateLayout),
			cell(r.Company),
			cell(r.Role),
			cell(string(r.Type)),
			cell(r.Contact),
			cell(string(r.Status)),
			cell(r.Notes),
		)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", "<br>")
	return strings.ReplaceAll(s, "\n", "<br>")
}
