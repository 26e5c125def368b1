package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursekit/internal/ui/theme"
)

// MenuItem represents a single item in a vertical list.
type MenuItem struct {
	Label    string
	Detail   string // dim second line, optional
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list with a cursor.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a new menu with the given items. The cursor starts on
// the first enabled item.
func NewMenu(items []MenuItem) Menu {
	selected := 0
	for i, item := range items {
		if !item.Disabled {
			selected = i
			break
		}
	}
	return Menu{
		Items:    items,
		Selected: selected,
	}
}

// Init returns nil (no initial command).
func (m Menu) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		for i := m.Selected - 1; i >= 0; i-- {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "down", "j":
		for i := m.Selected + 1; i < len(m.Items); i++ {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "enter":
		if item, ok := m.Current(); ok && item.Action != nil && !item.Disabled {
			return m, item.Action()
		}
	}

	return m, nil
}

// Current returns the item under the cursor.
func (m Menu) Current() (MenuItem, bool) {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return MenuItem{}, false
	}
	return m.Items[m.Selected], true
}

// View renders at most height lines, scrolling to keep the cursor visible.
// A non-positive height renders everything.
func (m Menu) View(height int) string {
	perItem := 1
	for _, item := range m.Items {
		if item.Detail != "" {
			perItem = 2
			break
		}
	}

	start, end := 0, len(m.Items)
	if height > 0 {
		visible := height / perItem
		if visible < 1 {
			visible = 1
		}
		if visible < len(m.Items) {
			start = m.Selected - visible + 1
			if start < 0 {
				start = 0
			}
			end = start + visible
		}
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		item := m.Items[i]
		switch {
		case i == m.Selected:
			b.WriteString(theme.Selected.Render("  ▸ " + item.Label))
		case item.Disabled:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("    " + item.Label))
		default:
			b.WriteString(theme.Unselected.Render("    " + item.Label))
		}
		b.WriteString("\n")
		if perItem == 2 {
			b.WriteString(theme.Subtitle.Render("      " + item.Detail))
			b.WriteString("\n")
		}
	}
	return b.String()
}
