package pipeline_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	trackerdto "jobtrack/internal/modules/tracker/dto"
	"jobtrack/internal/ui/views/pipeline"
)

type fakePort struct {
	pre  []trackerdto.RecordOutput
	post []trackerdto.EditedRowInput
}

func (f *fakePort) Filter(context.Context, []string, []string) ([]trackerdto.RecordOutput, error) {
	return preView(), nil
}

func (f *fakePort) Summary(context.Context) (trackerdto.SummaryOutput, error) {
	return trackerdto.SummaryOutput{Total: 2}, nil
}

func (f *fakePort) Reconcile(_ context.Context, pre []trackerdto.RecordOutput, post []trackerdto.EditedRowInput) (trackerdto.ReconcileOutput, error) {
	f.pre, f.post = pre, post
	return trackerdto.ReconcileOutput{Updated: []string{"a"}, Deleted: []string{"b"}}, nil
}

func press(m pipeline.Model, keys ...tea.KeyMsg) (pipeline.Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = m.Update(k)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func loaded(t *testing.T, port *fakePort) pipeline.Model {
	t.Helper()
	m := pipeline.New(port, []string{"Formal Application", "LinkedIn DM"}, []string{"Applied", "Interviewing"})
	msg := m.Init()()
	m, _ = m.Update(msg)
	return m
}

func TestEditAndDeleteAreSentAsOneReconcile(t *testing.T) {
	t.Parallel()
	port := &fakePort{}
	m := loaded(t, port)
	if !strings.Contains(m.View(), "Acme") {
		t.Fatalf("grid should list the loaded records:\n%s", m.View())
	}

	// status of the first row: company is focused, status is four fields down
	m, _ = press(m, runes("e"))
	if !m.Editing() {
		t.Fatalf("e should open the row editor")
	}
	down := tea.KeyMsg{Type: tea.KeyDown}
	m, _ = press(m, down, down, down, down, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Editing() || !m.Dirty() {
		t.Fatalf("enter should keep the edit in the draft")
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyDown}, runes("d"))
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatalf("ctrl+s should save a dirty draft")
	}
	msg, ok := cmd().(pipeline.ReconciledMsg)
	if !ok || msg.Err != nil {
		t.Fatalf("unexpected save result %#v", msg)
	}
	if len(port.pre) != 2 || len(port.post) != 1 {
		t.Fatalf("expected full pre view and one surviving row, got %d/%d", len(port.pre), len(port.post))
	}
	if port.post[0].ID != "a" || *port.post[0].Status != "Interviewing" {
		t.Fatalf("unexpected post row %+v", port.post[0])
	}

	m, reload := m.Update(msg)
	if reload == nil || !strings.Contains(m.View(), "added 0, updated 1, deleted 1") {
		t.Fatalf("save should report counts and reload:\n%s", m.View())
	}
}

func TestEscDiscardsDraftAndEmptyStates(t *testing.T) {
	t.Parallel()
	m := loaded(t, &fakePort{})
	m, _ = press(m, runes("d"))
	if !m.Dirty() {
		t.Fatalf("delete should dirty the draft")
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Dirty() || !strings.Contains(m.View(), "Globex") {
		t.Fatalf("esc should restore the loaded view")
	}
	if _, cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlS}); cmd != nil {
		t.Fatalf("clean draft must not be saved")
	}

	empty, _ := m.Update(pipeline.ViewLoadedMsg{})
	if !strings.Contains(empty.View(), "No interactions tracked yet") {
		t.Fatalf("expected empty state:\n%s", empty.View())
	}
	noMatch, _ := m.Update(pipeline.ViewLoadedMsg{Summary: trackerdto.SummaryOutput{Total: 3}})
	if !strings.Contains(noMatch.View(), "No interactions match") {
		t.Fatalf("expected no-match state:\n%s", noMatch.View())
	}
}

func TestReloadKeepsUncommittedEdits(t *testing.T) {
	t.Parallel()
	m := loaded(t, &fakePort{})
	m, _ = press(m, runes("d"))

	// a record logged on the other tab triggers a reload
	m, _ = m.Update(m.Reload()())
	if !m.Dirty() || !m.Stale() {
		t.Fatalf("reload must not replace a dirty draft")
	}
	if len(m.Draft().Rows()) != 1 {
		t.Fatalf("deleted row came back: %+v", m.Draft().Rows())
	}
	if cmd, err := m.SetFilter([]string{"Offer"}, nil); !errors.Is(err, pipeline.ErrUnsavedEdits) || cmd != nil {
		t.Fatalf("filter change must be refused while dirty, got %v", err)
	}
	if m.FilterLabel() != "all" {
		t.Fatalf("refused filter must not be applied, got %s", m.FilterLabel())
	}

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Dirty() || cmd == nil {
		t.Fatalf("discarding a stale draft should reload")
	}
	m, _ = m.Update(cmd())
	if m.Stale() || len(m.Draft().Rows()) != 2 {
		t.Fatalf("expected a fresh view after discard, got %d rows", len(m.Draft().Rows()))
	}
}

func TestReloadWhileRowEditorIsOpen(t *testing.T) {
	t.Parallel()
	m := loaded(t, &fakePort{})
	m, _ = press(m, runes("e"))
	m, _ = m.Update(m.Reload()())
	if !m.Editing() || !m.Stale() {
		t.Fatalf("reload must not close the row editor")
	}
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Editing() || cmd == nil {
		t.Fatalf("closing the editor on a stale clean draft should reload")
	}
}
