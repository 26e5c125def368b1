package learn

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/coursekit/internal/curriculum"
	lrn "github.com/abhisek/coursekit/internal/learn"
	"github.com/abhisek/coursekit/internal/screen"
	"github.com/abhisek/coursekit/internal/store"
)

// run turns state-machine effects into commands. Dwell cancellation is
// applied immediately, before any command is scheduled.
func (s *Screen) run(effects []lrn.Effect) tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range effects {
		switch e := e.(type) {
		case lrn.CancelDwell:
			s.dweller.Cancel()
		case lrn.StartDwell:
			cmds = append(cmds, waitDwell(s.dweller.Start(), s.token, e.Epoch, e.ChapterID))
		case lrn.FetchProgress:
			cmds = append(cmds, s.fetchProgress())
		case lrn.FetchAttempt:
			cmds = append(cmds, s.fetchAttempt(e.Epoch, e.ChapterID))
		case lrn.MarkComplete:
			cmds = append(cmds, s.markComplete(e))
		case lrn.SubmitQuiz:
			cmds = append(cmds, s.submitQuiz(e))
		case lrn.SetLocation:
			s.location = e.ChapterID
			cmds = append(cmds, announce(s.opts.CourseID, e.ChapterID))
		}
	}
	return tea.Batch(cmds...)
}

func (s *Screen) fetchCurriculum() tea.Cmd {
	backend, ctx, courseID, token := s.backend, s.ctx, s.opts.CourseID, s.token
	return func() tea.Msg {
		cur, err := backend.Curriculum(ctx, courseID)
		return curriculumLoadedMsg{Token: token, CourseID: courseID, Curriculum: cur, Err: err}
	}
}

// waitDwell blocks until the dwell elapses or is cancelled. A cancelled
// dwell produces no message.
func waitDwell(ch <-chan bool, token, epoch uint64, id curriculum.ID) tea.Cmd {
	return func() tea.Msg {
		if !<-ch {
			return nil
		}
		return dwellElapsedMsg{Token: token, Epoch: epoch, ChapterID: id}
	}
}

func (s *Screen) fetchProgress() tea.Cmd {
	tracker, ctx, courseID, token := s.tracker, s.ctx, s.opts.CourseID, s.token
	return func() tea.Msg {
		ids, ok := tracker.Load(ctx)
		if !ok {
			return nil
		}
		return progressLoadedMsg{Token: token, CourseID: courseID, IDs: ids}
	}
}

func (s *Screen) fetchAttempt(epoch uint64, id curriculum.ID) tea.Cmd {
	backend, ctx, courseID, log, token := s.backend, s.ctx, s.opts.CourseID, s.log, s.token
	return func() tea.Msg {
		att, err := backend.QuizAttempt(ctx, courseID, id)
		if err != nil {
			log.Warn("fetch quiz attempt failed", "chapter_id", id, "err", err)
			att = nil
		}
		return attemptLoadedMsg{Token: token, Epoch: epoch, ChapterID: id, Attempt: att}
	}
}

func (s *Screen) markComplete(e lrn.MarkComplete) tea.Cmd {
	tracker, ctx := s.tracker, s.ctx
	return func() tea.Msg {
		tracker.MarkComplete(ctx, e.ChapterID, e.Trigger)
		return nil
	}
}

func (s *Screen) submitQuiz(e lrn.SubmitQuiz) tea.Cmd {
	backend, tracker, ctx, courseID, log, token := s.backend, s.tracker, s.ctx, s.opts.CourseID, s.log, s.token
	total := 0
	if s.state.Quiz != nil {
		total = s.state.Quiz.Questions()
	}
	return func() tea.Msg {
		sub, err := backend.SubmitQuiz(ctx, courseID, e.ChapterID, e.Answers)
		if err != nil {
			log.Warn("submit quiz failed", "chapter_id", e.ChapterID, "err", err)
			return quizSubmitFailedMsg{Token: token, Epoch: e.Epoch, Err: err}
		}
		tracker.Record(ctx, store.LearningEventData{
			Kind:      store.KindQuizSubmit,
			ChapterID: string(e.ChapterID),
			Score:     sub.Score,
			Total:     total,
			Passed:    sub.Passed,
		})
		return quizSubmittedMsg{Token: token, Epoch: e.Epoch, ChapterID: e.ChapterID, Submission: sub}
	}
}

func announce(courseID string, id curriculum.ID) tea.Cmd {
	return func() tea.Msg {
		return screen.LocationMsg{CourseID: courseID, ChapterID: string(id)}
	}
}
