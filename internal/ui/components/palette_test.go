package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func keyEnter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }

func TestMatchHints(t *testing.T) {
	t.Parallel()
	if got := MatchHints("", 3); len(got) != 3 {
		t.Fatalf("empty input should list the first hints, got %v", got)
	}
	got := MatchHints("goal:", 5)
	if len(got) != 2 || got[0] != "goal:set <level> <text>" {
		t.Fatalf("unexpected goal hints %v", got)
	}
	if got := MatchHints("goal:set 2 read the intro", 5); len(got) != 1 {
		t.Fatalf("arguments should not break matching, got %v", got)
	}
	if got := MatchHints("nope", 5); len(got) != 0 {
		t.Fatalf("unknown prefix should match nothing, got %v", got)
	}
}

func TestPaletteSubmit(t *testing.T) {
	t.Parallel()
	p := NewPalette()
	p.Open()
	if !p.Visible() {
		t.Fatalf("palette should be visible after open")
	}
	p.input.SetValue("  session:start ")
	p, cmd := p.Update(keyEnter())
	if p.Visible() {
		t.Fatalf("palette should close on enter")
	}
	msg, ok := cmd().(PaletteSubmitMsg)
	if !ok || msg.Input != "session:start" {
		t.Fatalf("unexpected submit message %#v", msg)
	}
}
