package entry

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	trackerdto "jobtrack/internal/modules/tracker/dto"
	"jobtrack/internal/ui/components"
	"jobtrack/internal/ui/theme"
)

type TrackerPort interface {
	Create(ctx context.Context, date, company, role, kind, contact, status, notes string) (trackerdto.RecordOutput, error)
}

// CreatedMsg reports the outcome of a submitted form.
type CreatedMsg struct {
	Record trackerdto.RecordOutput
	Err    error
}

// Model is the Log tab: one form that appends an interaction on enter.
type Model struct {
	port    TrackerPort
	form    components.RecordForm
	last    string
	lastErr bool
	width   int
	height  int
}

func New(port TrackerPort, types, statuses []string) Model {
	return Model{port: port, form: components.NewRecordForm(types, statuses)}
}

func (m Model) Init() tea.Cmd { return nil }

// Editing reports whether the form holds keyboard focus.
func (m Model) Editing() bool { return m.form.Active() }

// StartEditing focuses the form.
func (m *Model) StartEditing() tea.Cmd { return m.form.Focus() }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.form.SetWidth(min(msg.Width-4, 90))
		return m, nil

	case CreatedMsg:
		if msg.Err != nil {
			m.last = msg.Err.Error()
			m.lastErr = true
			return m, nil
		}
		m.last = "Logged interaction with " + companyOrPlaceholder(msg.Record.Company) + "!"
		m.lastErr = false
		m.form.Reset()
		return m, m.form.Focus()

	case tea.KeyMsg:
		if !m.form.Active() {
			if msg.String() == "enter" || msg.String() == "i" {
				return m, m.form.Focus()
			}
			return m, nil
		}
		switch msg.String() {
		case "esc":
			m.form.Blur()
			return m, nil
		case "enter":
			return m, m.submitCmd(m.form.Values())
		}
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Log an interaction") + "\n\n")
	sb.WriteString(m.form.View())
	sb.WriteString("\n")
	if m.last != "" {
		if m.lastErr {
			sb.WriteString(theme.Err.Render(m.last) + "\n")
		} else {
			sb.WriteString(theme.Ok.Render(m.last) + "\n")
		}
	}
	if m.form.Active() {
		sb.WriteString(theme.Muted.Render("↑/↓ field  ←/→ choose  enter log  esc done"))
	} else {
		sb.WriteString(theme.Muted.Render("enter or i: start typing"))
	}
	pane := theme.Pane
	if m.form.Active() {
		pane = theme.PaneActive
	}
	w := m.width - 2
	if w < 20 {
		w = 60
	}
	return pane.Width(w).Render(sb.String())
}

func (m Model) submitCmd(v components.RecordValues) tea.Cmd {
	return func() tea.Msg {
		record, err := m.port.Create(context.Background(), v.Date, v.Company, v.Role, v.Type, v.Contact, v.Status, v.Notes)
		return CreatedMsg{Record: record, Err: err}
	}
}

func companyOrPlaceholder(company string) string {
	if strings.TrimSpace(company) == "" {
		return "(no company)"
	}
	return company
}
