// Package quiz holds the interactive state of a quiz chapter and the
// local-only standalone preview.
package quiz

import "errors"

// PassThreshold is the fraction of correct answers that counts as a pass
// everywhere a score is styled.
const PassThreshold = 0.7

// Passed reports whether score out of total meets PassThreshold.
func Passed(score, total int) bool {
	if total <= 0 {
		return false
	}
	return float64(score)/float64(total) >= PassThreshold
}

// State is the lifecycle state of a Session.
type State int

const (
	Unanswered State = iota // answers mutable
	Submitted               // answers locked, results visible
)

func (s State) String() string {
	if s == Submitted {
		return "submitted"
	}
	return "unanswered"
}

// Result is the server's verdict on one question.
type Result struct {
	QuestionIndex int  `json:"questionIndex"`
	IsCorrect     bool `json:"isCorrect"`
	CorrectAnswer int  `json:"correctAnswer"`
}

// Attempt is a persisted submission as returned by the backend.
type Attempt struct {
	Answers Answers  `json:"answers"`
	Score   int      `json:"score"`
	Results []Result `json:"results"`
}

var (
	// ErrLocked is returned when answers are changed after submission.
	ErrLocked = errors.New("quiz already submitted")
	// ErrIncomplete is returned when submitting with unanswered questions.
	ErrIncomplete = errors.New("not every question is answered")
	// ErrOutOfRange is returned for an unknown question or option.
	ErrOutOfRange = errors.New("question or option out of range")
)

// Session is the state of one quiz attempt. Grading is the server's job;
// a Session never computes a score itself.
type Session struct {
	options []int // option count per question

	state      State
	answers    map[int]int
	score      *int
	results    []Result
	submitting bool
}

// NewSession creates an unanswered session. optionCounts holds the number
// of options for each question, in order.
func NewSession(optionCounts []int) *Session {
	return &Session{
		options: append([]int(nil), optionCounts...),
		answers: make(map[int]int),
	}
}

// Questions returns the number of questions.
func (s *Session) Questions() int { return len(s.options) }

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Submitting reports whether a submission is in flight.
func (s *Session) Submitting() bool { return s.submitting }

// Answer returns the chosen option for question q.
func (s *Session) Answer(q int) (int, bool) {
	a, ok := s.answers[q]
	return a, ok
}

// Answers returns a copy of the answer mapping.
func (s *Session) Answers() map[int]int {
	out := make(map[int]int, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// Score returns the server score, or nil before submission.
func (s *Session) Score() *int { return s.score }

// Results returns the per-question results as the server sent them.
func (s *Session) Results() []Result { return s.results }

// Result returns the result for question q, if any.
func (s *Session) Result(q int) (Result, bool) {
	for _, r := range s.results {
		if r.QuestionIndex == q {
			return r, true
		}
	}
	return Result{}, false
}

// Select records option for question q, replacing any prior choice. It is
// only allowed while unanswered.
func (s *Session) Select(q, option int) error {
	if s.state != Unanswered || s.submitting {
		return ErrLocked
	}
	if q < 0 || q >= len(s.options) || option < 0 || option >= s.options[q] {
		return ErrOutOfRange
	}
	s.answers[q] = option
	return nil
}

// Complete reports whether every question has an answer.
func (s *Session) Complete() bool {
	if len(s.options) == 0 {
		return false
	}
	for q := range s.options {
		if _, ok := s.answers[q]; !ok {
			return false
		}
	}
	return true
}

// BeginSubmit marks a submission in flight and returns the answers to send.
func (s *Session) BeginSubmit() (map[int]int, error) {
	if s.state != Unanswered || s.submitting {
		return nil, ErrLocked
	}
	if !s.Complete() {
		return nil, ErrIncomplete
	}
	s.submitting = true
	return s.Answers(), nil
}

// ApplyResult stores the server's grading and locks the session.
func (s *Session) ApplyResult(score int, results []Result) {
	s.submitting = false
	s.state = Submitted
	s.score = &score
	s.results = append([]Result(nil), results...)
}

// FailSubmit abandons an in-flight submission, leaving answers intact.
func (s *Session) FailSubmit() {
	s.submitting = false
}

// Restore enters the submitted state with a previous attempt exactly as
// the server returned it.
func (s *Session) Restore(a Attempt) {
	s.answers = make(map[int]int, len(a.Answers))
	for k, v := range a.Answers {
		s.answers[k] = v
	}
	s.ApplyResult(a.Score, a.Results)
}

// Retake clears every answer and result and returns to unanswered. The
// server's record of the previous attempt is untouched.
func (s *Session) Retake() {
	s.state = Unanswered
	s.answers = make(map[int]int)
	s.score = nil
	s.results = nil
	s.submitting = false
}

// Passed reports whether the submitted score meets PassThreshold.
func (s *Session) Passed() bool {
	if s.score == nil {
		return false
	}
	return Passed(*s.score, len(s.options))
}

// Clone returns an independent copy.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := &Session{
		options:    append([]int(nil), s.options...),
		state:      s.state,
		answers:    s.Answers(),
		results:    append([]Result(nil), s.results...),
		submitting: s.submitting,
	}
	if s.score != nil {
		v := *s.score
		out.score = &v
	}
	return out
}
