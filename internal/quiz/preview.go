package quiz

import "github.com/abhisek/coursekit/internal/curriculum"

// Preview is the read-only quiz renderer used outside the learner flow.
// It grades locally and has no completion side effects.
type Preview struct {
	questions []curriculum.Question
	answers   map[int]int
	submitted bool
	score     int
}

// NewPreview creates a preview over questions.
func NewPreview(questions []curriculum.Question) *Preview {
	return &Preview{questions: questions, answers: make(map[int]int)}
}

// Questions returns the previewed questions.
func (p *Preview) Questions() []curriculum.Question { return p.questions }

// Select records option for question q. Ignored after Submit.
func (p *Preview) Select(q, option int) error {
	if p.submitted {
		return ErrLocked
	}
	if q < 0 || q >= len(p.questions) || option < 0 || option >= len(p.questions[q].Options) {
		return ErrOutOfRange
	}
	p.answers[q] = option
	return nil
}

// Answer returns the chosen option for question q.
func (p *Preview) Answer(q int) (int, bool) {
	a, ok := p.answers[q]
	return a, ok
}

// Complete reports whether every question has an answer.
func (p *Preview) Complete() bool {
	if len(p.questions) == 0 {
		return false
	}
	return len(p.answers) == len(p.questions)
}

// Submit grades the answers and locks further edits. The score is the
// number of questions whose chosen option equals the correct answer.
func (p *Preview) Submit() int {
	score := 0
	for i, q := range p.questions {
		if a, ok := p.answers[i]; ok && a == q.CorrectAnswer {
			score++
		}
	}
	p.score = score
	p.submitted = true
	return score
}

// Submitted reports whether Submit was called since the last Reset.
func (p *Preview) Submitted() bool { return p.submitted }

// Score returns the graded score; zero before Submit.
func (p *Preview) Score() int { return p.score }

// Passed reports whether the graded score meets PassThreshold.
func (p *Preview) Passed() bool {
	return p.submitted && Passed(p.score, len(p.questions))
}

// Correct reports whether question q was answered correctly.
func (p *Preview) Correct(q int) bool {
	a, ok := p.answers[q]
	return ok && q < len(p.questions) && a == p.questions[q].CorrectAnswer
}

// Reset clears answers and unlocks the preview.
func (p *Preview) Reset() {
	p.answers = make(map[int]int)
	p.submitted = false
	p.score = 0
}
