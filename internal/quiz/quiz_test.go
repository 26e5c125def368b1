package quiz

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/coursekit/internal/curriculum"
)

func TestPassed(t *testing.T) {
	tests := []struct {
		score, total int
		want         bool
	}{
		{7, 10, true},
		{6, 10, false},
		{2, 3, false}, // 0.67
		{3, 3, true},
		{1, 2, false}, // 50% is not a pass
		{0, 0, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Passed(tt.score, tt.total), "%d/%d", tt.score, tt.total)
	}
}

func TestSelectOverwrites(t *testing.T) {
	s := NewSession([]int{3, 2})
	require.NoError(t, s.Select(0, 1))
	require.NoError(t, s.Select(0, 2))

	a, ok := s.Answer(0)
	assert.True(t, ok)
	assert.Equal(t, 2, a)
	assert.Len(t, s.Answers(), 1)
}

func TestSelectOutOfRange(t *testing.T) {
	s := NewSession([]int{2})
	assert.ErrorIs(t, s.Select(1, 0), ErrOutOfRange)
	assert.ErrorIs(t, s.Select(0, 2), ErrOutOfRange)
	assert.ErrorIs(t, s.Select(0, -1), ErrOutOfRange)
}

func TestSubmitFlow(t *testing.T) {
	s := NewSession([]int{2, 2})
	_, err := s.BeginSubmit()
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.False(t, s.Complete())

	require.NoError(t, s.Select(0, 1))
	require.NoError(t, s.Select(1, 0))
	assert.True(t, s.Complete())

	answers, err := s.BeginSubmit()
	require.NoError(t, err)
	assert.Equal(t, map[int]int{0: 1, 1: 0}, answers)
	assert.True(t, s.Submitting())
	assert.ErrorIs(t, s.Select(0, 0), ErrLocked, "no edits while submitting")

	s.ApplyResult(1, []Result{{QuestionIndex: 0, IsCorrect: true, CorrectAnswer: 1}, {QuestionIndex: 1, IsCorrect: false, CorrectAnswer: 1}})
	assert.Equal(t, Submitted, s.State())
	require.NotNil(t, s.Score())
	assert.Equal(t, 1, *s.Score())
	assert.False(t, s.Passed())
	assert.ErrorIs(t, s.Select(0, 0), ErrLocked)

	r, ok := s.Result(1)
	assert.True(t, ok)
	assert.False(t, r.IsCorrect)
}

func TestFailSubmitLeavesUnanswered(t *testing.T) {
	s := NewSession([]int{2})
	require.NoError(t, s.Select(0, 1))
	_, err := s.BeginSubmit()
	require.NoError(t, err)

	s.FailSubmit()
	assert.Equal(t, Unanswered, s.State())
	assert.False(t, s.Submitting())
	assert.Nil(t, s.Score())
	a, _ := s.Answer(0)
	assert.Equal(t, 1, a, "answers survive a failed submit")
	assert.NoError(t, s.Select(0, 0))
}

func TestRestoreUsesServerValues(t *testing.T) {
	s := NewSession([]int{3, 3})
	results := []Result{
		{QuestionIndex: 0, IsCorrect: true, CorrectAnswer: 1},
		{QuestionIndex: 1, IsCorrect: false, CorrectAnswer: 0},
	}
	s.Restore(Attempt{Answers: Answers{0: 1, 1: 2}, Score: 1, Results: results})

	assert.Equal(t, Submitted, s.State())
	assert.Equal(t, map[int]int{0: 1, 1: 2}, s.Answers())
	require.NotNil(t, s.Score())
	assert.Equal(t, 1, *s.Score())
	assert.Equal(t, results, s.Results())
}

func TestRestoreDoesNotRegrade(t *testing.T) {
	// The server's score is kept even when it disagrees with the results.
	s := NewSession([]int{2})
	s.Restore(Attempt{Answers: Answers{0: 0}, Score: 5})
	assert.Equal(t, 5, *s.Score())
}

func TestRetakeClears(t *testing.T) {
	s := NewSession([]int{2, 2})
	s.Restore(Attempt{Answers: Answers{0: 1, 1: 1}, Score: 2, Results: []Result{{QuestionIndex: 0}}})

	s.Retake()
	assert.Equal(t, Unanswered, s.State())
	assert.Empty(t, s.Answers())
	assert.Nil(t, s.Score())
	assert.Empty(t, s.Results())
	assert.NoError(t, s.Select(0, 0))
}

func TestClone(t *testing.T) {
	s := NewSession([]int{2})
	require.NoError(t, s.Select(0, 1))
	c := s.Clone()
	require.NoError(t, c.Select(0, 0))

	a, _ := s.Answer(0)
	assert.Equal(t, 1, a)
}

func TestAnswersUnmarshal(t *testing.T) {
	tests := []struct {
		raw  string
		want Answers
	}{
		{`{"0": 1, "1": 2}`, Answers{0: 1, 1: 2}},
		{`[1, null, 0]`, Answers{0: 1, 2: 0}},
		{`null`, Answers{}},
	}
	for _, tt := range tests {
		var a Attempt
		require.NoError(t, json.Unmarshal([]byte(`{"answers": `+tt.raw+`, "score": 1}`), &a), tt.raw)
		assert.Equal(t, tt.want, a.Answers, tt.raw)
	}

	var bad Answers
	assert.Error(t, json.Unmarshal([]byte(`{"x": 1}`), &bad))
}

func previewQuestions() []curriculum.Question {
	return []curriculum.Question{
		{Question: "a", Options: []string{"0", "1", "2"}, CorrectAnswer: 1},
		{Question: "b", Options: []string{"0", "1", "2"}, CorrectAnswer: 1},
		{Question: "c", Options: []string{"0", "1", "2"}, CorrectAnswer: 2},
	}
}

func TestPreviewGrading(t *testing.T) {
	p := NewPreview(previewQuestions())
	for q, a := range []int{1, 0, 2} {
		require.NoError(t, p.Select(q, a))
	}
	assert.True(t, p.Complete())

	assert.Equal(t, 2, p.Submit())
	assert.True(t, p.Submitted())
	assert.False(t, p.Passed(), "2/3 is below the pass threshold")
	assert.True(t, p.Correct(0))
	assert.False(t, p.Correct(1))
	assert.ErrorIs(t, p.Select(0, 0), ErrLocked)
}

func TestPreviewReset(t *testing.T) {
	p := NewPreview(previewQuestions())
	require.NoError(t, p.Select(0, 1))
	p.Submit()

	p.Reset()
	assert.False(t, p.Submitted())
	assert.Equal(t, 0, p.Score())
	_, ok := p.Answer(0)
	assert.False(t, ok)
	assert.NoError(t, p.Select(0, 2))
}

func TestPreviewUnansweredCountsWrong(t *testing.T) {
	p := NewPreview(previewQuestions())
	require.NoError(t, p.Select(2, 2))
	assert.False(t, p.Complete())
	assert.Equal(t, 1, p.Submit())
}
