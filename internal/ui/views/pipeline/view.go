package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	trackerdto "jobtrack/internal/modules/tracker/dto"
	"jobtrack/internal/ui/components"
	"jobtrack/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type TrackerPort interface {
	Filter(ctx context.Context, statuses, types []string) ([]trackerdto.RecordOutput, error)
	Summary(ctx context.Context) (trackerdto.SummaryOutput, error)
	Reconcile(ctx context.Context, pre []trackerdto.RecordOutput, post []trackerdto.EditedRowInput) (trackerdto.ReconcileOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type ViewLoadedMsg struct {
	Records []trackerdto.RecordOutput
	Summary trackerdto.SummaryOutput
	Err     error
}

type ReconciledMsg struct {
	Out trackerdto.ReconcileOutput
	Err error
}

// ErrUnsavedEdits is returned when an action would replace a dirty draft.
var ErrUnsavedEdits = errors.New("unsaved pipeline edits: ctrl+s to save or esc to discard first")

const (
	emptyStateMessage = "No interactions tracked yet. Log one to get started."
	noMatchMessage    = "No interactions match the current filter."

	// addingRow marks the form as editing a row that is not in the draft yet.
	addingRow = -1
)

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the Pipeline tab: the filtered view as an editable grid. Edits
// accumulate in a draft until ctrl+s hands both views to the tracker.
type Model struct {
	port     TrackerPort
	table    table.Model
	form     components.RecordForm
	draft    Draft
	editRow  int
	statuses []string
	types    []string
	summary  trackerdto.SummaryOutput
	rejected []trackerdto.RowErrorOutput
	loaded   bool
	// stale is set when a reload arrived while the draft was being edited
	stale    bool
	status   string
	width    int
	height   int
}

func New(port TrackerPort, types, statuses []string) Model {
	t := table.New(
		table.WithColumns(columns(100)),
		table.WithFocused(true),
		table.WithHeight(10),
		table.WithWidth(100),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Surface1).
		BorderBottom(true).
		Foreground(theme.Sapphire).
		Bold(true)
	styles.Selected = styles.Selected.Foreground(theme.Base).Background(theme.Peach).Bold(false)
	t.SetStyles(styles)

	return Model{
		port:  port,
		table: t,
		form:  components.NewRecordForm(types, statuses),
	}
}

func (m Model) Init() tea.Cmd { return m.loadCmd() }

// Editing reports whether the row editor holds keyboard focus.
func (m Model) Editing() bool { return m.form.Active() }

// Dirty reports whether the grid holds uncommitted edits.
func (m Model) Dirty() bool { return m.draft.Dirty() }

// SetFilter replaces the filter and reloads the view. It refuses while the
// draft holds uncommitted edits.
func (m *Model) SetFilter(statuses, types []string) (tea.Cmd, error) {
	if m.busy() {
		return nil, ErrUnsavedEdits
	}
	m.statuses = append([]string(nil), statuses...)
	m.types = append([]string(nil), types...)
	return m.loadCmd(), nil
}

// Draft returns the working copy behind the grid.
func (m Model) Draft() Draft { return m.draft }

// Stale reports whether the store changed under an open draft.
func (m Model) Stale() bool { return m.stale }

func (m Model) busy() bool { return m.draft.Dirty() || m.form.Active() }

// FilterLabel describes the active filter for the status bar.
func (m Model) FilterLabel() string {
	var parts []string
	if len(m.statuses) > 0 {
		parts = append(parts, "status="+strings.Join(m.statuses, ","))
	}
	if len(m.types) > 0 {
		parts = append(parts, "type="+strings.Join(m.types, ","))
	}
	if len(parts) == 0 {
		return "all"
	}
	return strings.Join(parts, " ")
}

// Filter returns the active status and type filter.
func (m Model) Filter() (statuses, types []string) { return m.statuses, m.types }

func (m Model) Reload() tea.Cmd { return m.loadCmd() }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case ViewLoadedMsg:
		if msg.Err != nil {
			m.status = "load failed: " + msg.Err.Error()
			return m, nil
		}
		m.summary = msg.Summary
		if m.loaded && m.busy() {
			// keep the user's draft; its pre-edit view still reconciles safely
			m.stale = true
			return m, nil
		}
		m.loaded = true
		m.stale = false
		m.draft = NewDraft(msg.Records)
		m.syncRows()
		return m, nil

	case ReconciledMsg:
		if msg.Err != nil {
			m.status = "save failed: " + msg.Err.Error()
			return m, nil
		}
		m.rejected = msg.Out.Errors
		m.status = fmt.Sprintf("saved: added %d, updated %d, deleted %d", len(msg.Out.Added), len(msg.Out.Updated), len(msg.Out.Deleted))
		if len(msg.Out.Errors) > 0 {
			m.status += fmt.Sprintf(", rejected %d", len(msg.Out.Errors))
		}
		return m, m.loadCmd()

	case tea.KeyMsg:
		if m.form.Active() {
			return m.updateForm(msg)
		}
		switch msg.String() {
		case "e", "enter":
			rows := m.draft.Rows()
			i := m.table.Cursor()
			if i < 0 || i >= len(rows) {
				return m, nil
			}
			m.editRow = i
			m.form.SetValues(rows[i].Values)
			return m, m.form.Focus()
		case "a":
			m.editRow = addingRow
			m.form.Reset()
			return m, m.form.Focus()
		case "d":
			if m.draft.Delete(m.table.Cursor()) {
				m.syncRows()
			}
			return m, nil
		case "ctrl+s":
			if !m.draft.Dirty() {
				m.status = "nothing to save"
				return m, nil
			}
			return m, m.reconcileCmd(m.draft.Pre(), m.draft.Post())
		case "esc":
			if m.draft.Dirty() {
				m.draft = NewDraft(m.draft.Pre())
				m.syncRows()
				m.status = "edits discarded"
			}
			if m.stale {
				return m, m.loadCmd()
			}
			return m, nil
		case "r":
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.form.Blur()
		if m.stale && !m.draft.Dirty() {
			return m, m.loadCmd()
		}
		return m, nil
	case "enter":
		values := m.form.Values()
		if m.editRow == addingRow {
			m.draft.Add(values)
		} else {
			m.draft.Edit(m.editRow, values)
		}
		m.form.Blur()
		m.syncRows()
		if m.editRow == addingRow {
			m.table.SetCursor(len(m.draft.Rows()) - 1)
		}
		if m.stale && !m.draft.Dirty() {
			return m, m.loadCmd()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	var sb strings.Builder
	title := "Pipeline"
	if m.draft.Dirty() {
		title += " *"
	}
	if m.stale {
		title += " (records changed; save or discard to refresh)"
	}
	sb.WriteString(theme.Title.Render(title) + "  " + theme.Muted.Render("filter: "+m.FilterLabel()) + "\n")
	sb.WriteString(m.renderSummary() + "\n\n")

	switch {
	case !m.loaded:
		sb.WriteString(theme.Muted.Render("loading…") + "\n")
	case len(m.draft.Rows()) == 0 && m.summary.Total == 0 && !m.draft.Dirty():
		sb.WriteString(theme.Muted.Render(emptyStateMessage) + "\n")
	case len(m.draft.Rows()) == 0 && !m.draft.Dirty():
		sb.WriteString(theme.Muted.Render(noMatchMessage) + "\n")
	default:
		sb.WriteString(m.table.View() + "\n")
	}

	if m.form.Active() {
		heading := "Edit row"
		if m.editRow == addingRow {
			heading = "New row"
		}
		sb.WriteString("\n" + theme.Hot.Render(heading) + "\n" + m.form.View())
	}
	for _, rejected := range m.rejected {
		where := fmt.Sprintf("row %d", rejected.Row+1)
		if rejected.Row < 0 {
			where = "record " + rejected.ID
		}
		sb.WriteString(theme.Warn.Render(where+" rejected: "+rejected.Message) + "\n")
	}
	if m.status != "" {
		sb.WriteString(theme.Muted.Render(m.status) + "\n")
	}
	if m.form.Active() {
		sb.WriteString(theme.Muted.Render("↑/↓ field  ←/→ choose  enter keep  esc cancel"))
	} else {
		sb.WriteString(theme.Muted.Render("e edit  a add  d delete  ctrl+s save  esc discard  r reload"))
	}

	pane := theme.Pane
	if m.form.Active() || m.draft.Dirty() {
		pane = theme.PaneActive
	}
	w := m.width - 2
	if w < 20 {
		w = 100
	}
	return pane.Width(w).Render(sb.String())
}

func (m Model) renderSummary() string {
	parts := []string{fmt.Sprintf("%d interactions", m.summary.Total)}
	for _, c := range m.summary.ByStatus {
		if c.Count == 0 {
			continue
		}
		style := lipgloss.NewStyle().Foreground(theme.StatusColors[c.Value])
		parts = append(parts, style.Render(fmt.Sprintf("%s %d", c.Value, c.Count)))
	}
	return strings.Join(parts, theme.Muted.Render(" · "))
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func columns(width int) []table.Column {
	// date, type and status are fixed; the free-text columns share the rest
	flex := max((width-12-20-22-8)/4, 8)
	return []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Company", Width: flex},
		{Title: "Role", Width: flex},
		{Title: "Type", Width: 20},
		{Title: "HR Contact", Width: flex},
		{Title: "Status", Width: 22},
		{Title: "Notes", Width: flex},
	}
}

func (m *Model) resize() {
	w := max(m.width-6, 40)
	m.table.SetColumns(columns(w))
	m.table.SetWidth(w)
	m.form.SetWidth(min(w, 90))
	// leave room for the title, summary, hints and an open editor
	m.table.SetHeight(max(m.height-18, 4))
}

func (m *Model) syncRows() {
	rows := make([]table.Row, 0, len(m.draft.Rows()))
	for _, row := range m.draft.Rows() {
		v := row.Values
		rows = append(rows, table.Row{displayDate(v.Date), v.Company, v.Role, v.Type, v.Contact, v.Status, oneLine(v.Notes)})
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// displayDate renders YYYY-MM-DD as DD/MM/YYYY and leaves anything else as
// typed. A blank date on a new row reads as today.
func displayDate(value string) string {
	if strings.TrimSpace(value) == "" {
		return "(today)"
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return value
	}
	return t.Format("02/01/2006")
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) loadCmd() tea.Cmd {
	if m.port == nil {
		return nil
	}
	statuses, types := m.statuses, m.types
	return func() tea.Msg {
		ctx := context.Background()
		records, err := m.port.Filter(ctx, statuses, types)
		if err != nil {
			return ViewLoadedMsg{Err: err}
		}
		summary, err := m.port.Summary(ctx)
		return ViewLoadedMsg{Records: records, Summary: summary, Err: err}
	}
}

func (m Model) reconcileCmd(pre []trackerdto.RecordOutput, post []trackerdto.EditedRowInput) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Reconcile(context.Background(), pre, post)
		return ReconciledMsg{Out: out, Err: err}
	}
}
