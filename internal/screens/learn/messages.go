package learn

import (
	"github.com/abhisek/coursekit/internal/curriculum"
	"github.com/abhisek/coursekit/internal/quiz"
)

// Every message below carries the token of the Screen that issued the
// command. A screen drops messages stamped with another token.

// curriculumLoadedMsg is sent when the curriculum fetch finishes.
type curriculumLoadedMsg struct {
	Token      uint64
	CourseID   string
	Curriculum curriculum.Curriculum
	Err        error
}

// progressLoadedMsg carries the learner's completion set.
type progressLoadedMsg struct {
	Token    uint64
	CourseID string
	IDs      []curriculum.ID
}

// dwellElapsedMsg is sent when a text or PDF chapter stayed active for the
// dwell delay.
type dwellElapsedMsg struct {
	Token     uint64
	Epoch     uint64
	ChapterID curriculum.ID
}

// attemptLoadedMsg carries a previous quiz attempt, nil when there is none
// or the fetch failed.
type attemptLoadedMsg struct {
	Token     uint64
	Epoch     uint64
	ChapterID curriculum.ID
	Attempt   *quiz.Attempt
}

// quizSubmittedMsg carries the server's grading.
type quizSubmittedMsg struct {
	Token      uint64
	Epoch      uint64
	ChapterID  curriculum.ID
	Submission quiz.Submission
}

// quizSubmitFailedMsg is sent when grading could not be obtained.
type quizSubmitFailedMsg struct {
	Token uint64
	Epoch uint64
	Err   error
}
