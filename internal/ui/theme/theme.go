// Package theme holds the colours and lipgloss styles shared by every
// coursekit screen.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette
var (
	Primary   = lipgloss.Color("#6366F1") // Indigo
	Secondary = lipgloss.Color("#0EA5E9") // Sky
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	BgDark    = lipgloss.Color("#0F172A")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")
)

// Text
var (
	Title    = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	Subtitle = lipgloss.NewStyle().Foreground(TextDim)
	Body     = lipgloss.NewStyle().Foreground(Text)
	Hint     = lipgloss.NewStyle().Foreground(TextDim).Italic(true)

	// Link marks resolved video and PDF URLs.
	Link = lipgloss.NewStyle().Foreground(Secondary).Underline(true)
)

// Curriculum sidebar
var (
	Sidebar = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(Border).
		PaddingRight(1)

	Selected   = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Unselected = lipgloss.NewStyle().Foreground(Text)

	// Active is the chapter shown in the content pane.
	Active = lipgloss.NewStyle().Foreground(BgDark).Background(Secondary).Bold(true)

	// Done marks completed chapters.
	Done = lipgloss.NewStyle().Foreground(Success)

	// Badge marks free preview chapters.
	Badge = lipgloss.NewStyle().Foreground(Accent).Bold(true)
)

// chapterColors tints the sidebar icon of each chapter type.
var chapterColors = map[string]color.Color{
	"video": Error,
	"text":  Text,
	"pdf":   Accent,
	"quiz":  Primary,
}

// ChapterIcon returns the icon style for a chapter type. Unknown types
// are dimmed.
func ChapterIcon(chapterType string) lipgloss.Style {
	c, ok := chapterColors[chapterType]
	if !ok {
		c = TextDim
	}
	return lipgloss.NewStyle().Foreground(c)
}

// Quiz
var (
	Correct   = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Incorrect = lipgloss.NewStyle().Foreground(Error).Bold(true)
)

// Widgets
var (
	ProgressFilled = lipgloss.NewStyle().Background(Secondary)
	ProgressEmpty  = lipgloss.NewStyle().Background(Border)

	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(Text).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Foreground(TextDim).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)
)
