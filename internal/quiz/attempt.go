package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/abhisek/coursekit/internal/curriculum"
)

// Answers maps question index to chosen option index.
type Answers map[int]int

// UnmarshalJSON accepts an object keyed by question index, an array whose
// positions are question indexes (null entries are unanswered), or null.
func (a *Answers) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	out := make(Answers)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
	case b[0] == '[':
		var arr []*int
		if err := json.Unmarshal(b, &arr); err != nil {
			return fmt.Errorf("decode answers: %w", err)
		}
		for i, v := range arr {
			if v != nil {
				out[i] = *v
			}
		}
	default:
		var obj map[string]int
		if err := json.Unmarshal(b, &obj); err != nil {
			return fmt.Errorf("decode answers: %w", err)
		}
		for k, v := range obj {
			q, err := strconv.Atoi(k)
			if err != nil {
				return fmt.Errorf("decode answers: question index %q: %w", k, err)
			}
			out[q] = v
		}
	}
	*a = out
	return nil
}

// Submission is the server's response to a quiz submission.
type Submission struct {
	Score   int      `json:"score"`
	Results []Result `json:"results"`
	Passed  bool     `json:"passed"`
	// CompletedChapters is the learner's updated completion set, when the
	// server includes it.
	CompletedChapters []curriculum.ID `json:"completedChapters,omitempty"`
}
