package learn

import (
	"github.com/abhisek/coursekit/internal/curriculum"
	"github.com/abhisek/coursekit/internal/progress"
)

// Effect is work the caller must perform after a state transition. Effects
// that produce a response carry the epoch they were issued under; the
// response is handed back with that epoch so stale results can be dropped.
type Effect interface {
	isEffect()
}

// FetchProgress loads the learner's completion set for the course.
type FetchProgress struct{}

// FetchAttempt loads the learner's previous attempt at a quiz chapter.
type FetchAttempt struct {
	Epoch     uint64
	ChapterID curriculum.ID
}

// StartDwell arms the dwell timer for a text or PDF chapter.
type StartDwell struct {
	Epoch     uint64
	ChapterID curriculum.ID
}

// CancelDwell disarms any pending dwell timer.
type CancelDwell struct{}

// MarkComplete reports a completed chapter to the backend. The local set
// already contains the chapter when this effect is emitted.
type MarkComplete struct {
	ChapterID curriculum.ID
	Trigger   progress.Trigger
}

// SubmitQuiz sends quiz answers for grading.
type SubmitQuiz struct {
	Epoch     uint64
	ChapterID curriculum.ID
	Answers   map[int]int
}

// SetLocation updates the externally visible current chapter.
type SetLocation struct {
	ChapterID curriculum.ID
}

func (FetchProgress) isEffect() {}
func (FetchAttempt) isEffect()  {}
func (StartDwell) isEffect()    {}
func (CancelDwell) isEffect()   {}
func (MarkComplete) isEffect()  {}
func (SubmitQuiz) isEffect()    {}
func (SetLocation) isEffect()   {}
