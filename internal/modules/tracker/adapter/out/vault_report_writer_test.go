package out_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	trackerstore "jobtrack/internal/modules/tracker/adapter/out"
	"jobtrack/internal/modules/tracker/domain"
)

func TestVaultReportWriterRendersAndKeepsUserText(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writer := trackerstore.NewVaultReportWriter(dir)
	records := []domain.Record{
		sample("a", "acme", domain.StatusApplied),
		sample("b", "pipe|co", domain.StatusOffer),
	}
	report := domain.Report{
		SessionID:   "sess-1",
		Label:       "Spring Search",
		GeneratedAt: time.Date(2024, 3, 2, 9, 30, 0, 0, time.UTC),
		Records:     records,
		Summary:     domain.Summarize(records),
	}

	path, err := writer.Write(context.Background(), report)
	if err != nil {
		t.Fatalf("write report: %v", err)
	}
	if want := filepath.Join(dir, "spring-search-20240302.md"); path != want {
		t.Fatalf("expected path %s, got %s", want, path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	note := string(b)
	for _, want := range []string{"session_id: sess-1", "records: 2", "Offer: 1", "| 01/03/2024 | acme |", `pipe\|co`, "line one<br>line two"} {
		if !strings.Contains(note, want) {
			t.Fatalf("report missing %q:\n%s", want, note)
		}
	}

	edited := strings.Replace(note, "# Pipeline: Spring Search", "# Pipeline: Spring Search\n\nFollow up with acme on Monday.", 1)
	if err := os.WriteFile(path, []byte(edited), 0o644); err != nil {
		t.Fatalf("edit report: %v", err)
	}
	report.Records = records[:1]
	report.Summary = domain.Summarize(report.Records)
	if _, err := writer.Write(context.Background(), report); err != nil {
		t.Fatalf("rewrite report: %v", err)
	}
	b, err = os.ReadFile(path)
	if err != nil {
		t.Fatalf("read rewritten report: %v", err)
	}
	note = string(b)
	if !strings.Contains(note, "Follow up with acme on Monday.") {
		t.Fatalf("user text lost on re-export:\n%s", note)
	}
	if strings.Contains(note, `pipe\|co`) || !strings.Contains(note, "records: 1") {
		t.Fatalf("records block not refreshed:\n%s", note)
	}
	if strings.Count(note, "jobtrack:records:start") != 1 {
		t.Fatalf("expected a single managed block:\n%s", note)
	}
}

func TestVaultReportWriterEmptyState(t *testing.T) {
	t.Parallel()
	writer := trackerstore.NewVaultReportWriter(t.TempDir())
	path, err := writer.Write(context.Background(), domain.Report{
		SessionID:   "sess-2",
		Label:       "",
		GeneratedAt: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		Summary:     domain.Summarize(nil),
	})
	if err != nil {
		t.Fatalf("write empty report: %v", err)
	}
	if filepath.Base(path) != "untitled-20240302.md" {
		t.Fatalf("unexpected file name %s", filepath.Base(path))
	}
	b, _ := os.ReadFile(path)
	if !strings.Contains(string(b), "No interactions logged yet") {
		t.Fatalf("missing empty state:\n%s", b)
	}
}
