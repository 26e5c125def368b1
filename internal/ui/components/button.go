package components

import (
	"github.com/abhisek/coursekit/internal/ui/theme"
)

// Button is a labelled action with a key shortcut. Disabled buttons render
// dimmed.
type Button struct {
	Key     string
	Label   string
	Enabled bool
}

// NewButton creates a new button.
func NewButton(key, label string, enabled bool) Button {
	return Button{Key: key, Label: label, Enabled: enabled}
}

// View renders the button.
func (b Button) View() string {
	label := b.Label
	if b.Key != "" {
		label = "[" + b.Key + "] " + b.Label
	}
	if b.Enabled {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}
