package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"jobtrack/internal/ui/theme"
)

// RecordValues are the raw column values of one interaction as typed by the
// user.
type RecordValues struct {
	Date    string
	Company string
	Role    string
	Type    string
	Contact string
	Status  string
	Notes   string
}

const (
	fieldDate = iota
	fieldCompany
	fieldRole
	fieldType
	fieldContact
	fieldStatus
	fieldNotes
	fieldCount
)

type formField struct {
	label   string
	input   textinput.Model
	options []string
	// choice is -1 when nothing is picked
	choice int
}

func (f formField) isChoice() bool { return f.options != nil }

func (f formField) value() string {
	if f.isChoice() {
		if f.choice < 0 || f.choice >= len(f.options) {
			return ""
		}
		return f.options[f.choice]
	}
	return f.input.Value()
}

// RecordForm edits one interaction: text inputs for free-text columns and
// cycling selectors for interaction type and status. Enter and esc are left
// to the owner.
type RecordForm struct {
	fields [fieldCount]formField
	focus  int
	active bool
	width  int
}

var (
	labelStyle   = lipgloss.NewStyle().Foreground(theme.Subtext0).Width(12)
	focusLabel   = labelStyle.Foreground(theme.Lavender).Bold(true)
	choiceStyle  = lipgloss.NewStyle().Foreground(theme.Text)
	choiceActive = lipgloss.NewStyle().Foreground(theme.Peach).Bold(true)
)

func NewRecordForm(types, statuses []string) RecordForm {
	text := func(placeholder string, limit int) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = limit
		ti.Prompt = ""
		return ti
	}
	f := RecordForm{}
	f.fields[fieldDate] = formField{label: "Date", input: text("today (YYYY-MM-DD or DD/MM/YYYY)", 10)}
	f.fields[fieldCompany] = formField{label: "Company", input: text("", 120)}
	f.fields[fieldRole] = formField{label: "Role", input: text("", 120)}
	f.fields[fieldType] = formField{label: "Type", options: append([]string{}, types...)}
	f.fields[fieldContact] = formField{label: "HR Contact", input: text("name or email", 120)}
	f.fields[fieldStatus] = formField{label: "Status", options: append([]string{}, statuses...)}
	f.fields[fieldNotes] = formField{label: "Notes", input: text("", 500)}
	f.Reset()
	return f
}

// Reset clears the text fields and points each selector at its first option.
func (f *RecordForm) Reset() {
	for i := range f.fields {
		if f.fields[i].isChoice() {
			f.fields[i].choice = 0
			continue
		}
		f.fields[i].input.SetValue("")
	}
	f.focus = fieldCompany
}

func (f *RecordForm) SetValues(v RecordValues) {
	f.fields[fieldDate].input.SetValue(v.Date)
	f.fields[fieldCompany].input.SetValue(v.Company)
	f.fields[fieldRole].input.SetValue(v.Role)
	f.fields[fieldContact].input.SetValue(v.Contact)
	f.fields[fieldNotes].input.SetValue(v.Notes)
	f.fields[fieldType].choice = indexOf(f.fields[fieldType].options, v.Type)
	f.fields[fieldStatus].choice = indexOf(f.fields[fieldStatus].options, v.Status)
}

func (f RecordForm) Values() RecordValues {
	return RecordValues{
		Date:    strings.TrimSpace(f.fields[fieldDate].value()),
		Company: f.fields[fieldCompany].value(),
		Role:    f.fields[fieldRole].value(),
		Type:    f.fields[fieldType].value(),
		Contact: f.fields[fieldContact].value(),
		Status:  f.fields[fieldStatus].value(),
		Notes:   f.fields[fieldNotes].value(),
	}
}

func (f RecordForm) Active() bool { return f.active }

func (f *RecordForm) SetWidth(w int) { f.width = w }

func (f *RecordForm) Focus() tea.Cmd {
	f.active = true
	return f.focusField(f.focus)
}

func (f *RecordForm) Blur() {
	f.active = false
	for i := range f.fields {
		f.fields[i].input.Blur()
	}
}

func (f RecordForm) Update(msg tea.Msg) (RecordForm, tea.Cmd) {
	if !f.active {
		return f, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		current := &f.fields[f.focus]
		switch key.String() {
		case "up":
			return f, f.focusField((f.focus + fieldCount - 1) % fieldCount)
		case "down":
			return f, f.focusField((f.focus + 1) % fieldCount)
		case "left":
			if current.isChoice() {
				current.choice = cycle(current.choice, -1, len(current.options))
				return f, nil
			}
		case "right", " ":
			if current.isChoice() {
				current.choice = cycle(current.choice, 1, len(current.options))
				return f, nil
			}
		}
	}
	var cmd tea.Cmd
	field := &f.fields[f.focus]
	if !field.isChoice() {
		field.input, cmd = field.input.Update(msg)
	}
	return f, cmd
}

func (f RecordForm) View() string {
	var sb strings.Builder
	inputW := f.width - 16
	if inputW < 20 {
		inputW = 40
	}
	for i, field := range f.fields {
		label := labelStyle.Render(field.label)
		if f.active && i == f.focus {
			label = focusLabel.Render(field.label)
		}
		var value string
		if field.isChoice() {
			value = renderChoice(field, f.active && i == f.focus)
		} else {
			field.input.Width = inputW
			value = field.input.View()
		}
		sb.WriteString(label + "  " + value + "\n")
	}
	return sb.String()
}

func (f *RecordForm) focusField(i int) tea.Cmd {
	for j := range f.fields {
		f.fields[j].input.Blur()
	}
	f.focus = i
	if f.fields[i].isChoice() {
		return nil
	}
	return f.fields[i].input.Focus()
}

func renderChoice(field formField, focused bool) string {
	value := field.value()
	if value == "" {
		value = "(choose)"
	}
	if focused {
		return choiceActive.Render("‹ " + value + " ›")
	}
	return choiceStyle.Render(value)
}

func cycle(i, step, n int) int {
	if n == 0 {
		return -1
	}
	if i < 0 {
		return 0
	}
	return (i + step + n) % n
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if strings.EqualFold(option, strings.TrimSpace(value)) {
			return i
		}
	}
	return -1
}
