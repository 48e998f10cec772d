package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "jobtrack/internal/modules/session/dto"
	trackerdto "jobtrack/internal/modules/tracker/dto"
	"jobtrack/internal/ui/components"
	"jobtrack/internal/ui/theme"
	entryview "jobtrack/internal/ui/views/entry"
	pipelineview "jobtrack/internal/ui/views/pipeline"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type trackerPort interface {
	Create(ctx context.Context, date, company, role, kind, contact, status, notes string) (trackerdto.RecordOutput, error)
	Filter(ctx context.Context, statuses, types []string) ([]trackerdto.RecordOutput, error)
	Options(ctx context.Context) (trackerdto.FilterOptionsOutput, error)
	Reconcile(ctx context.Context, pre []trackerdto.RecordOutput, post []trackerdto.EditedRowInput) (trackerdto.ReconcileOutput, error)
	Summary(ctx context.Context) (trackerdto.SummaryOutput, error)
	Export(ctx context.Context, sessionID, label string) (trackerdto.ExportOutput, error)
}

type sessionPort interface {
	End(ctx context.Context, sessionID string, exportReport bool) (sessiondto.EndOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabLog tabID = iota
	tabPipeline
	tabCount
)

var tabLabels = [tabCount]string{"Log", "Pipeline"}

var paletteHints = []string{
	"filter:status <status>[, <status>...]",
	"filter:type <type>[, <type>...]",
	"filter:clear",
	"filter:options",
	"export",
	"session:end [export]",
}

// ─── async messages ──────────────────────────────────────────────────────────

type optionsLoadedMsg struct {
	options trackerdto.FilterOptionsOutput
	err     error
}

type exportedMsg struct {
	out trackerdto.ExportOutput
	err error
}

type sessionEndedMsg struct {
	out sessiondto.EndOutput
	err error
}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Edit    key.Binding
	Add     key.Binding
	Delete  key.Binding
	Save    key.Binding
	Discard key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit row")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add row")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete row")),
		Save:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save edits")),
		Discard: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "discard edits")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Palette},
		{k.Edit, k.Add, k.Delete},
		{k.Save, k.Discard},
		{k.Help, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the session status
// bar, the help overlay and the command palette. Sub-views talk to the
// tracker through narrowed bridges.
type Model struct {
	sessionID string
	label     string

	tracker trackerPort
	session sessionPort

	logView      entryview.Model
	pipelineView pipelineview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	ended     bool
	width     int
	height    int
}

func NewModel(sessionID, label string, tracker trackerPort, session sessionPort, types, statuses []string) Model {
	return Model{
		sessionID:    sessionID,
		label:        label,
		tracker:      tracker,
		session:      session,
		logView:      entryview.New(entryPortBridge{p: tracker}, types, statuses),
		pipelineView: pipelineview.New(pipelinePortBridge{p: tracker}, types, statuses),
		activeTab:    tabLog,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(paletteHints),
		status:       "ready",
	}
}

// Ended reports whether the session was closed from inside the UI.
func (m Model) Ended() bool { return m.ended }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.logView.Init(), m.pipelineView.Init())
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette takes all keys while open; async results still land.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		if _, isKey := msg.(tea.KeyMsg); isKey {
			return m, cmd
		}
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case entryview.CreatedMsg:
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		if msg.Err == nil {
			m.status = "logged " + msg.Record.Company
			return m, tea.Batch(cmd, m.pipelineView.Reload())
		}
		return m, cmd

	case pipelineview.ViewLoadedMsg, pipelineview.ReconciledMsg:
		var cmd tea.Cmd
		m.pipelineView, cmd = m.pipelineView.Update(msg)
		return m, tea.Batch(append(cmds, cmd)...)

	case optionsLoadedMsg:
		if msg.err != nil {
			m.status = "options: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("statuses: %s │ types: %s", orNone(msg.options.Statuses), orNone(msg.options.Types))
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.status = "export failed: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("exported %d records to %s", msg.out.Records, msg.out.Path)
		}
		return m, nil

	case sessionEndedMsg:
		if msg.err != nil {
			m.status = "session end failed: " + msg.err.Error()
			return m, nil
		}
		m.ended = true
		m.status = fmt.Sprintf("session ended with %d records", msg.out.Records)
		return m, tea.Quit

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to the sub-view while one of its forms is being typed into.
		if m.subViewEditing() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabLog:
		m.logView, tabCmd = m.logView.Update(msg)
	case tabPipeline:
		m.pipelineView, tabCmd = m.pipelineView.Update(msg)
	}
	cmds = append(cmds, tabCmd)
	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.activeTab == tabPipeline:
		content = m.pipelineView.View()
	default:
		content = m.logView.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + tabLabels[i] + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + tabLabels[i] + " ")
		}
	}
	bar := "jobtrack  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := theme.Hot.Render("● "+m.label) + "  " + theme.Muted.Render("filter: "+m.pipelineView.FilterLabel()) + "  " + m.status
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ───────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	input = strings.TrimSpace(input)
	if input == "" {
		return m, nil
	}
	command, args, _ := strings.Cut(input, " ")

	switch command {
	case "filter:status":
		values := splitList(args)
		if len(values) == 0 {
			m.status = "usage: filter:status <status>[, <status>...]"
			return m, nil
		}
		return m.applyFilter(values, m.currentTypes())

	case "filter:type":
		values := splitList(args)
		if len(values) == 0 {
			m.status = "usage: filter:type <type>[, <type>...]"
			return m, nil
		}
		return m.applyFilter(m.currentStatuses(), values)

	case "filter:clear":
		return m.applyFilter(nil, nil)

	case "filter:options":
		return m, m.optionsCmd()

	case "export":
		return m, m.exportCmd()

	case "session:end":
		exportReport := strings.TrimSpace(args) == "export"
		if m.pipelineView.Dirty() {
			m.activeTab = tabPipeline
			m.status = pipelineview.ErrUnsavedEdits.Error()
			return m, nil
		}
		return m, m.endSessionCmd(exportReport)

	default:
		m.status = "unknown command: " + command
	}
	return m, nil
}

// applyFilter switches to the pipeline and reloads it, unless that would
// throw away uncommitted grid edits.
func (m Model) applyFilter(statuses, types []string) (tea.Model, tea.Cmd) {
	m.activeTab = tabPipeline
	cmd, err := m.pipelineView.SetFilter(statuses, types)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	return m, cmd
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m Model) subViewEditing() bool {
	switch m.activeTab {
	case tabLog:
		return m.logView.Editing()
	case tabPipeline:
		return m.pipelineView.Editing()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.logView, _ = m.logView.Update(sz)
	m.pipelineView, _ = m.pipelineView.Update(sz)
}

func (m Model) currentStatuses() []string {
	statuses, _ := m.pipelineView.Filter()
	return statuses
}

func (m Model) currentTypes() []string {
	_, types := m.pipelineView.Filter()
	return types
}

// splitList reads "a, b ,c" as three values. Values may contain spaces.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func orNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) optionsCmd() tea.Cmd {
	return func() tea.Msg {
		options, err := m.tracker.Options(context.Background())
		return optionsLoadedMsg{options: options, err: err}
	}
}

func (m Model) exportCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.tracker.Export(context.Background(), m.sessionID, m.label)
		return exportedMsg{out: out, err: err}
	}
}

func (m Model) endSessionCmd(exportReport bool) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.End(context.Background(), m.sessionID, exportReport)
		return sessionEndedMsg{out: out, err: err}
	}
}

// ─── port bridges ────────────────────────────────────────────────────────────

type entryPortBridge struct{ p trackerPort }

func (b entryPortBridge) Create(ctx context.Context, date, company, role, kind, contact, status, notes string) (trackerdto.RecordOutput, error) {
	return b.p.Create(ctx, date, company, role, kind, contact, status, notes)
}

type pipelinePortBridge struct{ p trackerPort }

func (b pipelinePortBridge) Filter(ctx context.Context, statuses, types []string) ([]trackerdto.RecordOutput, error) {
	return b.p.Filter(ctx, statuses, types)
}
func (b pipelinePortBridge) Summary(ctx context.Context) (trackerdto.SummaryOutput, error) {
	return b.p.Summary(ctx)
}
func (b pipelinePortBridge) Reconcile(ctx context.Context, pre []trackerdto.RecordOutput, post []trackerdto.EditedRowInput) (trackerdto.ReconcileOutput, error) {
	return b.p.Reconcile(ctx, pre, post)
}
