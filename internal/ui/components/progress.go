package components

import (
	"fmt"
	"strings"

	"github.com/abhisek/coursekit/internal/ui/theme"
)

// ProgressBar shows completed chapters out of a course's total as a filled
// bar followed by a percentage.
type ProgressBar struct {
	Done  int
	Total int
	Width int
}

func NewProgressBar(done, total, width int) ProgressBar {
	return ProgressBar{Done: done, Total: total, Width: width}
}

// Ratio is Done/Total clamped to [0, 1]. An empty course is 0.
func (p ProgressBar) Ratio() float64 {
	if p.Total <= 0 || p.Done <= 0 {
		return 0
	}
	if p.Done >= p.Total {
		return 1
	}
	return float64(p.Done) / float64(p.Total)
}

// Percent is Ratio rounded to a whole percentage.
func (p ProgressBar) Percent() int {
	return int(p.Ratio()*100 + 0.5)
}

func (p ProgressBar) View() string {
	pct := fmt.Sprintf(" %3d%%", p.Percent())
	cells := p.Width - len(pct)
	if cells < 4 {
		cells = 4
	}
	filled := int(float64(cells) * p.Ratio())

	return theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", cells-filled)) +
		theme.Subtitle.Render(pct)
}
