// Package screen defines what the router needs from a screen and the
// optional capabilities the app shell looks for.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/coursekit/internal/ui/layout"
)

// Screen is one page of the TUI.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View draws the body between the header and the footer.
	View(width, height int) string

	// Title names the screen in the header.
	Title() string
}

// KeyHintProvider replaces the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// ProgressProvider puts a course's completed/total chapter count in the
// header.
type ProgressProvider interface {
	Progress() (completed, total int)
}

// InputCapturer reports whether the screen is reading free text. While it
// is, esc and q go to the screen instead of navigating or quitting.
type InputCapturer interface {
	CapturingInput() bool
}

// LocationMsg announces the chapter the learner is on. The last one seen
// is printed as a resume command on exit.
type LocationMsg struct {
	CourseID  string
	ChapterID string
}

// ResumedMsg is delivered to a screen when the one above it is closed.
type ResumedMsg struct{}

// Leaver is told when its screen is closed, so it can stop timers and
// drop work that no longer has anywhere to go.
type Leaver interface {
	Leave()
}
