package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func key(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func TestMenu_SkipsDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "a", Disabled: true},
		{Label: "b"},
		{Label: "c", Disabled: true},
		{Label: "d"},
	})
	if m.Selected != 1 {
		t.Fatalf("initial selection = %d, want 1", m.Selected)
	}

	m, _ = m.Update(key(tea.KeyDown))
	if m.Selected != 3 {
		t.Errorf("after down = %d, want 3", m.Selected)
	}
	m, _ = m.Update(key(tea.KeyDown))
	if m.Selected != 3 {
		t.Errorf("down at bottom should stay, got %d", m.Selected)
	}
	m, _ = m.Update(key(tea.KeyUp))
	if m.Selected != 1 {
		t.Errorf("after up = %d, want 1", m.Selected)
	}
}

func TestMenu_EnterRunsAction(t *testing.T) {
	type picked struct{}
	m := NewMenu([]MenuItem{{Label: "go", Action: func() tea.Cmd {
		return func() tea.Msg { return picked{} }
	}}})

	_, cmd := m.Update(key(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(picked); !ok {
		t.Error("expected the item's action to run")
	}
}

func TestMenu_ViewScrollsToCursor(t *testing.T) {
	var items []MenuItem
	for _, l := range []string{"one", "two", "three", "four", "five"} {
		items = append(items, MenuItem{Label: l})
	}
	m := NewMenu(items)
	m.Selected = 4

	view := m.View(2)
	if strings.Contains(view, "one") {
		t.Errorf("first item should have scrolled out: %q", view)
	}
	if !strings.Contains(view, "five") || !strings.Contains(view, "four") {
		t.Errorf("cursor item should be visible: %q", view)
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		done, total int
		percent     int
	}{
		{1, 4, 25},
		{2, 3, 67},
		{3, 0, 0},
		{5, 4, 100},
		{0, 7, 0},
	}
	for _, tt := range tests {
		p := NewProgressBar(tt.done, tt.total, 20)
		if got := p.Percent(); got != tt.percent {
			t.Errorf("Percent(%d/%d) = %d, want %d", tt.done, tt.total, got, tt.percent)
		}
	}

	view := NewProgressBar(1, 4, 20).View()
	if !strings.Contains(view, " 25%") {
		t.Errorf("view %q should end with the percentage", view)
	}
}

func TestMultiChoice(t *testing.T) {
	m := NewMultiChoice(1, "2+2?", []string{"3", "4"})
	if m.IsCorrect() {
		t.Error("ungraded question cannot be correct")
	}
	m.Chosen = 1
	m.Graded = true
	m.Correct = 1
	if !m.IsCorrect() {
		t.Error("expected correct")
	}
	view := m.View()
	if !strings.Contains(view, "B) 4") || !strings.Contains(view, "✓") {
		t.Errorf("unexpected view %q", view)
	}
	if OptionLabel(2) != "C" {
		t.Errorf("OptionLabel(2) = %q", OptionLabel(2))
	}
}

func TestTextInput_Matches(t *testing.T) {
	ti := NewTextInput("search", 40)
	if !ti.Matches("anything") {
		t.Error("empty filter should match")
	}
	ti.Model.SetValue("GO")
	if !ti.Matches("Intro", "Learn Go fast") {
		t.Error("expected case-insensitive match")
	}
	if ti.Matches("Rust") {
		t.Error("unexpected match")
	}
}

func TestButton(t *testing.T) {
	if !strings.Contains(NewButton("s", "Submit", true).View(), "[s] Submit") {
		t.Error("button should show its key")
	}
}
