// Package learn models the learning page: which chapter is active, which
// sections are open, what is complete and the quiz in progress. Every
// transition is a pure function from State to a new State plus the
// effects the caller must run.
package learn

import (
	"github.com/abhisek/coursekit/internal/curriculum"
	"github.com/abhisek/coursekit/internal/navigation"
	"github.com/abhisek/coursekit/internal/progress"
	"github.com/abhisek/coursekit/internal/quiz"
)

// State is the learning page state for one course.
type State struct {
	CourseID      string
	Curriculum    curriculum.Curriculum
	Authenticated bool

	ActiveID  curriculum.ID
	Expanded  navigation.Expanded
	Completed *progress.Set

	// Quiz is set only while a quiz chapter is active.
	Quiz *quiz.Session

	// Epoch increments on every chapter activation.
	Epoch uint64

	loaded         bool
	attemptPending bool
}

// New returns the state of a course whose curriculum has not loaded yet.
func New(courseID string) State {
	return State{CourseID: courseID, Completed: progress.NewSet()}
}

func (s State) clone() State {
	s.Expanded = s.Expanded.Clone()
	s.Completed = s.Completed.Clone()
	s.Quiz = s.Quiz.Clone()
	return s
}

// Loaded reports whether a curriculum has been loaded.
func (s State) Loaded() bool { return s.loaded }

// Load handles a freshly fetched curriculum. Initial selection runs here
// and nowhere else.
func (s State) Load(c curriculum.Curriculum, requested curriculum.ID, authenticated bool) (State, []Effect) {
	s = s.clone()
	s.Curriculum = c
	s.Authenticated = authenticated
	s.loaded = true
	s.Expanded = navigation.Expanded{}

	var effects []Effect
	if authenticated {
		effects = append(effects, FetchProgress{})
	}

	sel := navigation.Initial(c, requested)
	if !sel.Found {
		s.ActiveID = ""
		s.Quiz = nil
		s.attemptPending = false
		return s, append(effects, CancelDwell{})
	}

	s.Expanded.Only(sel.SectionID)
	s, more := s.activate(sel.ChapterID, false)
	return s, append(effects, more...)
}

// Select activates a chapter chosen from the sidebar. Reselecting the
// active chapter is treated as a fresh activation.
func (s State) Select(id curriculum.ID) (State, []Effect) {
	if _, ok := s.Curriculum.FindChapter(id); !ok {
		return s, nil
	}
	return s.clone().activate(id, true)
}

// Next activates the successor chapter, opening its section when the move
// crosses a section boundary.
func (s State) Next() (State, []Effect) {
	t, ok := navigation.Next(s.Curriculum, s.ActiveID)
	if !ok {
		return s, nil
	}
	return s.moveTo(t)
}

// Previous activates the predecessor chapter.
func (s State) Previous() (State, []Effect) {
	t, ok := navigation.Previous(s.Curriculum, s.ActiveID)
	if !ok {
		return s, nil
	}
	return s.moveTo(t)
}

func (s State) moveTo(t navigation.Target) (State, []Effect) {
	s = s.clone()
	if t.ExpandSection != "" {
		s.Expanded.Add(t.ExpandSection)
	}
	return s.activate(t.ChapterID, true)
}

// activate makes id the active chapter. s must already be a clone.
func (s State) activate(id curriculum.ID, announce bool) (State, []Effect) {
	s.Epoch++
	s.ActiveID = id
	s.Quiz = nil
	s.attemptPending = false

	ch, _ := s.Curriculum.FindChapter(id)
	if ch.Type == curriculum.TypeQuiz {
		s.Quiz = quiz.NewSession(optionCounts(ch))
	}

	effects := []Effect{CancelDwell{}}
	if announce {
		effects = append(effects, SetLocation{ChapterID: id})
	}
	if !s.Authenticated {
		return s, effects
	}

	switch progress.Rule(ch.Type) {
	case progress.TriggerDwell:
		effects = append(effects, StartDwell{Epoch: s.Epoch, ChapterID: id})
	case progress.TriggerQuizPass:
		s.attemptPending = true
		effects = append(effects, FetchAttempt{Epoch: s.Epoch, ChapterID: id})
	}
	return s, effects
}

func optionCounts(ch curriculum.Chapter) []int {
	out := make([]int, len(ch.Questions))
	for i, q := range ch.Questions {
		out[i] = len(q.Options)
	}
	return out
}

// complete adds id to the local set and asks for the backend call. s must
// already be a clone.
func (s State) complete(id curriculum.ID, trigger progress.Trigger) (State, []Effect) {
	s.Completed.Add(id)
	return s, []Effect{MarkComplete{ChapterID: id, Trigger: trigger}}
}

// VideoEnded handles the end of playback of the active video chapter.
func (s State) VideoEnded() (State, []Effect) {
	ch, ok := s.ActiveChapter()
	if !ok || ch.Type != curriculum.TypeVideo || !s.Authenticated {
		return s, nil
	}
	return s.clone().complete(ch.ID, progress.TriggerPlaybackEnd)
}

// DwellElapsed handles a dwell timer that ran to completion.
func (s State) DwellElapsed(epoch uint64, id curriculum.ID) (State, []Effect) {
	if epoch != s.Epoch || id != s.ActiveID || !s.Authenticated {
		return s, nil
	}
	return s.clone().complete(id, progress.TriggerDwell)
}

// ProgressLoaded merges the server's completion set into the local one.
func (s State) ProgressLoaded(ids []curriculum.ID) State {
	s = s.clone()
	s.Completed.Merge(ids)
	return s
}

// AttemptLoaded restores a previous quiz attempt. A nil attempt means the
// learner has not taken the quiz. Responses from an earlier activation,
// or arriving after the learner already submitted, are ignored.
func (s State) AttemptLoaded(epoch uint64, id curriculum.ID, attempt *quiz.Attempt) State {
	if epoch != s.Epoch || id != s.ActiveID || s.Quiz == nil || !s.attemptPending {
		return s
	}
	s = s.clone()
	s.attemptPending = false
	if attempt != nil && s.Quiz.State() == quiz.Unanswered && !s.Quiz.Submitting() {
		s.Quiz.Restore(*attempt)
	}
	return s
}

// Answer selects option for question q of the active quiz. It is a no-op
// without a quiz. On error the returned state is s unchanged; the error is
// quiz.ErrLocked or quiz.ErrOutOfRange.
func (s State) Answer(q, option int) (State, error) {
	if s.Quiz == nil {
		return s, nil
	}
	next := s.clone()
	if err := next.Quiz.Select(q, option); err != nil {
		return s, err
	}
	return next, nil
}

// CanSubmit reports whether the active quiz can be submitted.
func (s State) CanSubmit() bool {
	return s.Authenticated && s.Quiz != nil && s.Quiz.State() == quiz.Unanswered &&
		!s.Quiz.Submitting() && s.Quiz.Complete()
}

// Submit sends the active quiz for grading.
func (s State) Submit() (State, []Effect) {
	if !s.CanSubmit() {
		return s, nil
	}
	s = s.clone()
	answers, err := s.Quiz.BeginSubmit()
	if err != nil {
		return s, nil
	}
	s.attemptPending = false
	return s, []Effect{SubmitQuiz{Epoch: s.Epoch, ChapterID: s.ActiveID, Answers: answers}}
}

// QuizSubmitted applies the server's grading. A pass updates the
// completion set from the server's set, or optimistically when the server
// omitted it.
func (s State) QuizSubmitted(epoch uint64, id curriculum.ID, res quiz.Submission) State {
	if epoch != s.Epoch || id != s.ActiveID || s.Quiz == nil {
		return s
	}
	s = s.clone()
	s.Quiz.ApplyResult(res.Score, res.Results)
	if res.Passed {
		s.Completed.ApplyQuizPass(id, res.CompletedChapters)
	}
	return s
}

// QuizSubmitFailed returns the quiz to unanswered with answers intact.
func (s State) QuizSubmitFailed(epoch uint64) State {
	if epoch != s.Epoch || s.Quiz == nil {
		return s
	}
	s = s.clone()
	s.Quiz.FailSubmit()
	return s
}

// Retake clears the submitted quiz so it can be answered again.
func (s State) Retake() State {
	if s.Quiz == nil || s.Quiz.State() != quiz.Submitted {
		return s
	}
	s = s.clone()
	s.attemptPending = false
	s.Quiz.Retake()
	return s
}

// ToggleSection opens or closes a sidebar section.
func (s State) ToggleSection(id curriculum.ID) State {
	s = s.clone()
	s.Expanded.Toggle(id)
	return s
}

// ActiveChapter returns the active chapter.
func (s State) ActiveChapter() (curriculum.Chapter, bool) {
	if s.ActiveID == "" {
		return curriculum.Chapter{}, false
	}
	return s.Curriculum.FindChapter(s.ActiveID)
}

// Position returns the active chapter's location.
func (s State) Position() (navigation.Position, bool) {
	return navigation.Locate(s.Curriculum, s.ActiveID)
}

// HasPrevious reports whether the previous button is enabled.
func (s State) HasPrevious() bool { return !navigation.IsFirst(s.Curriculum, s.ActiveID) }

// HasNext reports whether the next button is enabled.
func (s State) HasNext() bool { return !navigation.IsLast(s.Curriculum, s.ActiveID) }

// CompletedCount returns how many of this curriculum's chapters are done.
func (s State) CompletedCount() int { return s.Completed.CountIn(s.Curriculum) }
