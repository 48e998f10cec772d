package components_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"jobtrack/internal/ui/components"
)

func typeText(p components.Palette, s string) components.Palette {
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return p
}

func TestPaletteCompletesAndSubmits(t *testing.T) {
	t.Parallel()
	p := components.NewPalette([]string{"filter:status <status>", "filter:type <type>", "export"})
	p.Open()
	p = typeText(p, "filter:t")
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyTab})
	p = typeText(p, "LinkedIn DM")

	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if p.Visible() || cmd == nil {
		t.Fatalf("enter should close the palette and submit")
	}
	msg, ok := cmd().(components.PaletteSubmitMsg)
	if !ok || msg.Input != "filter:type LinkedIn DM" {
		t.Fatalf("unexpected submit %#v", msg)
	}
}

func TestPaletteEscCancels(t *testing.T) {
	t.Parallel()
	p := components.NewPalette(nil)
	p.Open()
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if p.Visible() {
		t.Fatalf("esc should close the palette")
	}
	if _, ok := cmd().(components.PaletteCancelMsg); !ok {
		t.Fatalf("esc should emit a cancel message")
	}
}

func TestRecordFormRoundTripAndCycling(t *testing.T) {
	t.Parallel()
	f := components.NewRecordForm([]string{"Formal Application", "Cold Email"}, []string{"Applied", "Offer", "Ghosted"})
	want := components.RecordValues{
		Date:    "2024-03-01",
		Company: "Acme",
		Role:    "Ops",
		Type:    "Cold Email",
		Contact: "hr@acme.com",
		Status:  "offer",
		Notes:   "met at meetup",
	}
	f.SetValues(want)
	got := f.Values()
	want.Status = "Offer"
	if got != want {
		t.Fatalf("round trip: got %+v want %+v", got, want)
	}

	f.Focus()
	down := tea.KeyMsg{Type: tea.KeyDown}
	for range 4 {
		f, _ = f.Update(down)
	}
	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRight})
	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRight})
	if f.Values().Status != "Applied" {
		t.Fatalf("status selector should wrap around, got %q", f.Values().Status)
	}
	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if f.Values().Status != "Ghosted" {
		t.Fatalf("left should step back, got %q", f.Values().Status)
	}

	f.Reset()
	if v := f.Values(); v.Company != "" || v.Type != "Formal Application" || v.Status != "Applied" {
		t.Fatalf("reset should clear text and pick first options, got %+v", v)
	}
}
