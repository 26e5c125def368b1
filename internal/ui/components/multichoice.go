package components

import (
	"fmt"
	"strings"

	"github.com/abhisek/coursekit/internal/ui/theme"
)

// MultiChoice renders one quiz question. It holds no state of its own; the
// caller passes the chosen option and, once graded, the correct one.
type MultiChoice struct {
	Number   int // 1-based
	Question string
	Options  []string
	Focused  bool

	// Chosen is the selected option, -1 when unanswered.
	Chosen int

	// Graded is set once the quiz has been scored. Correct is only
	// meaningful when Graded is true.
	Graded  bool
	Correct int
}

// NewMultiChoice creates an unanswered question view.
func NewMultiChoice(number int, question string, options []string) MultiChoice {
	return MultiChoice{
		Number:   number,
		Question: question,
		Options:  options,
		Chosen:   -1,
		Correct:  -1,
	}
}

// OptionLabel returns the letter for option i: A, B, C...
func OptionLabel(i int) string {
	if i >= 0 && i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprint(i + 1)
}

// View renders the question and its options.
func (m MultiChoice) View() string {
	var b strings.Builder

	head := fmt.Sprintf("%d. %s", m.Number, m.Question)
	if m.Focused && !m.Graded {
		b.WriteString(theme.Selected.Render("▸ " + head))
	} else {
		b.WriteString(theme.Body.Bold(true).Render("  " + head))
	}
	b.WriteString("\n")

	for i, opt := range m.Options {
		mark := "○"
		if i == m.Chosen {
			mark = "●"
		}
		line := fmt.Sprintf("    %s %s) %s", mark, OptionLabel(i), opt)

		switch {
		case m.Graded && i == m.Correct:
			b.WriteString(theme.Correct.Render(line + "  ✓"))
		case m.Graded && i == m.Chosen:
			b.WriteString(theme.Incorrect.Render(line + "  ✗"))
		case m.Graded:
			b.WriteString(theme.Subtitle.Render(line))
		case i == m.Chosen:
			b.WriteString(theme.Selected.Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// IsCorrect returns true if a graded question was answered correctly.
func (m MultiChoice) IsCorrect() bool {
	return m.Graded && m.Chosen >= 0 && m.Chosen == m.Correct
}
