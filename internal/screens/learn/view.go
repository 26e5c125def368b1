package learn

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursekit/internal/api"
	"github.com/abhisek/coursekit/internal/curriculum"
	"github.com/abhisek/coursekit/internal/quiz"
	"github.com/abhisek/coursekit/internal/ui/components"
	"github.com/abhisek/coursekit/internal/ui/layout"
	"github.com/abhisek/coursekit/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	if s.loadErr != nil {
		return s.renderError(width, height)
	}
	if !s.state.Loaded() {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  Loading course...")
	}

	sw := layout.Sidebar(width)
	sidebar := theme.Sidebar.Width(sw).Height(height).Render(s.renderSidebar(sw-2, height))
	content := lipgloss.NewStyle().
		PaddingLeft(2).
		Width(width - sw - 1).
		Render(s.renderContent(width-sw-4, height))

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, content)
}

func (s *Screen) renderError(width, height int) string {
	msg := "Could not load this course.\n\n" + s.loadErr.Error()
	switch {
	case s.notFound():
		msg = "Course not found."
	case api.IsUnauthorized(s.loadErr):
		msg = "Your API token was rejected.\n\nSet a new one with --token or COURSEKIT_TOKEN."
	case api.IsTransport(s.loadErr):
		msg = "Could not reach the server.\n\n" + s.loadErr.Error()
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Error).
		Render(msg + "\n\n" + theme.Hint.Render("r to retry · esc to go back"))
}

func (s *Screen) renderSidebar(width, height int) string {
	done, total := s.Progress()
	bar := components.NewProgressBar(done, total, width).View()

	rows := s.rows()
	if len(rows) == 0 {
		return bar + "\n\n" + theme.Hint.Render("No sections yet.")
	}
	height -= 2

	start := 0
	if height > 0 && len(rows) > height {
		start = s.cursor - height + 1
		if start < 0 {
			start = 0
		}
	}
	end := len(rows)
	if height > 0 && start+height < end {
		end = start + height
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, s.renderRow(rows[i], i == s.cursor, width))
	}
	return bar + "\n\n" + strings.Join(lines, "\n")
}

func (s *Screen) renderRow(r sidebarRow, atCursor bool, width int) string {
	sec := s.state.Curriculum[r.section]
	pointer := "  "
	if atCursor {
		pointer = "› "
	}

	if r.chapter < 0 {
		arrow := "▸"
		if s.state.Expanded.Has(sec.ID) {
			arrow = "▾"
		}
		done := 0
		for _, ch := range sec.Chapters {
			if s.state.Completed.Has(ch.ID) {
				done++
			}
		}
		count := fmt.Sprintf(" %d/%d", done, len(sec.Chapters))
		title := layout.Truncate(fmt.Sprintf("%s %d. %s", arrow, r.section+1, sec.Title), width-len(pointer)-len(count))
		style := theme.Title
		if atCursor {
			style = theme.Selected
		}
		return pointer + style.Render(title) + theme.Subtitle.Render(count)
	}

	ch := sec.Chapters[r.chapter]
	check := "  "
	if s.state.Completed.Has(ch.ID) {
		check = theme.Done.Render("✓ ")
	}
	free := ""
	if ch.IsFree {
		free = " " + theme.Badge.Render("free")
	}
	icon := theme.ChapterIcon(string(ch.Type)).Render(ch.Type.Icon()) + " "
	title := layout.Truncate(ch.Title, width-len(pointer)-4-lipgloss.Width(icon)-lipgloss.Width(free))

	var styled string
	switch {
	case ch.ID == s.state.ActiveID:
		styled = theme.Active.Render(title)
	case atCursor:
		styled = theme.Selected.Render(title)
	default:
		styled = theme.Unselected.Render(title)
	}
	return pointer + "  " + check + icon + styled + free
}

func (s *Screen) renderContent(width, height int) string {
	ch, ok := s.state.ActiveChapter()
	if !ok {
		msg := "Select a chapter to start learning."
		if s.state.Curriculum.ChapterCount() == 0 {
			msg = "This course has no chapters yet."
		}
		return "\n" + theme.Hint.Render(msg)
	}

	var b strings.Builder

	label := ch.Type.Label()
	if pos, ok := s.state.Position(); ok {
		label = fmt.Sprintf("Chapter %s · %s", pos.Label(), label)
	}
	b.WriteString(theme.Subtitle.Render(label))
	if s.state.Completed.Has(ch.ID) {
		b.WriteString("  " + theme.Done.Render("✓ Completed"))
	}
	b.WriteString("\n")
	b.WriteString(theme.Title.Render(ch.Title))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width, 1))))
	b.WriteString("\n\n")

	switch ch.Type {
	case curriculum.TypeVideo:
		b.WriteString(s.renderMedia(ch, "Video", "Open the link to watch. Press v when you finish."))
	case curriculum.TypePDF:
		b.WriteString(s.renderMedia(ch, "PDF document", s.dwellHint()))
	case curriculum.TypeText:
		body := strings.TrimSpace(ch.Content)
		if body == "" {
			body = "This chapter has no text yet."
		}
		b.WriteString(theme.Body.Width(width).Render(body))
		if hint := s.dwellHint(); hint != "" {
			b.WriteString("\n\n" + theme.Hint.Render(hint))
		}
	case curriculum.TypeQuiz:
		b.WriteString(s.renderQuiz(ch, width))
	default:
		b.WriteString(theme.Hint.Render("This chapter type is not supported."))
	}

	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		components.NewButton("p", "Previous", s.state.HasPrevious()).View(),
		" ",
		components.NewButton("n", "Next", s.state.HasNext()).View(),
	))

	return lipgloss.NewStyle().MaxHeight(height).Render(b.String())
}

func (s *Screen) renderMedia(ch curriculum.Chapter, kind, hint string) string {
	url := ch.ContentURL(s.opts.BaseURL)
	if url == "" {
		return theme.Hint.Render(kind + ": content unavailable.")
	}
	out := theme.Body.Render(kind+": ") + theme.Link.Render(url)
	if !s.state.Authenticated {
		hint = "Sign in to track your progress."
	}
	if hint != "" {
		out += "\n\n" + theme.Hint.Render(hint)
	}
	return out
}

func (s *Screen) dwellHint() string {
	if !s.state.Authenticated {
		return ""
	}
	return fmt.Sprintf("Marked complete after %s on this chapter.", s.dweller.Delay())
}

func (s *Screen) renderQuiz(ch curriculum.Chapter, width int) string {
	q := s.state.Quiz
	if q == nil || len(ch.Questions) == 0 {
		return theme.Hint.Render("This quiz has no questions yet.")
	}

	var b strings.Builder
	submitted := q.State() == quiz.Submitted

	if submitted && q.Score() != nil {
		score, total := *q.Score(), q.Questions()
		line := fmt.Sprintf("Score: %d/%d", score, total)
		if quiz.Passed(score, total) {
			b.WriteString(theme.Correct.Render(line + " · Passed"))
		} else {
			b.WriteString(theme.Incorrect.Render(fmt.Sprintf("%s · Not passed (%d%% needed)", line, int(quiz.PassThreshold*100))))
		}
		b.WriteString("\n\n")
	}

	for i, question := range ch.Questions {
		mc := components.NewMultiChoice(i+1, question.Question, question.Options)
		mc.Focused = i == s.question
		if a, ok := q.Answer(i); ok {
			mc.Chosen = a
		}
		if r, ok := q.Result(i); ok && submitted {
			mc.Graded = true
			mc.Correct = r.CorrectAnswer
		}
		b.WriteString(lipgloss.NewStyle().Width(width).Render(mc.View()))
		b.WriteString("\n")
	}

	switch {
	case q.Submitting():
		b.WriteString(theme.Hint.Render("Submitting..."))
	case submitted:
		b.WriteString(components.NewButton("r", "Retake", true).View())
	default:
		b.WriteString(components.NewButton("s", "Submit", s.state.CanSubmit()).View())
	}
	if s.notice != "" {
		b.WriteString("\n" + theme.Incorrect.Render(s.notice))
	} else if !s.state.Authenticated && !submitted {
		b.WriteString("\n" + theme.Hint.Render("Sign in to submit this quiz."))
	}
	return b.String()
}
