package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/abhisek/coursekit/internal/curriculum"
	"github.com/abhisek/coursekit/internal/progress"
	"github.com/abhisek/coursekit/internal/quiz"
)

const (
	routeProgress    = "/api/courses/{courseId}/progress"
	routeComplete    = "/api/courses/{courseId}/chapters/{chapterId}/complete"
	routeQuizAttempt = "/api/courses/{courseId}/chapters/{chapterId}/quiz/attempt"
	routeQuizSubmit  = "/api/courses/{courseId}/chapters/{chapterId}/quiz/submit"
)

func chapterParams(courseID string, chapterID curriculum.ID) map[string]string {
	return map[string]string{"courseId": courseID, "chapterId": string(chapterID)}
}

// Progress fetches the learner's completed chapter ids, normalized to
// their canonical string form.
func (c *Client) Progress(ctx context.Context, courseID string) ([]curriculum.ID, error) {
	body, err := c.do(ctx, call{
		method: http.MethodGet,
		route:  routeProgress,
		params: map[string]string{"courseId": courseID},
		auth:   true,
	})
	if err != nil {
		return nil, err
	}
	if isEmpty(body) {
		return nil, nil
	}

	var payload struct {
		CompletedChapters []any `json:"completedChapters"`
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode progress: %w", err)
	}
	return progress.NormalizeIDs(payload.CompletedChapters), nil
}

// CompleteChapter marks a chapter complete for the learner.
func (c *Client) CompleteChapter(ctx context.Context, courseID string, chapterID curriculum.ID) error {
	_, err := c.do(ctx, call{
		method: http.MethodPost,
		route:  routeComplete,
		params: chapterParams(courseID, chapterID),
		auth:   true,
	})
	return err
}

// QuizAttempt fetches the learner's previous attempt at a quiz chapter.
// It returns nil when there is none.
func (c *Client) QuizAttempt(ctx context.Context, courseID string, chapterID curriculum.ID) (*quiz.Attempt, error) {
	body, err := c.do(ctx, call{
		method: http.MethodGet,
		route:  routeQuizAttempt,
		params: chapterParams(courseID, chapterID),
		auth:   true,
	})
	if err != nil {
		return nil, err
	}
	if isEmpty(body) {
		return nil, nil
	}

	var payload struct {
		Attempt *quiz.Attempt `json:"attempt"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode quiz attempt: %w", err)
	}
	return payload.Attempt, nil
}

// SubmitQuiz sends the learner's answers for grading. Grading is done by
// the backend only.
func (c *Client) SubmitQuiz(ctx context.Context, courseID string, chapterID curriculum.ID, answers map[int]int) (quiz.Submission, error) {
	wire := make(map[string]int, len(answers))
	for q, o := range answers {
		wire[strconv.Itoa(q)] = o
	}

	body, err := c.do(ctx, call{
		method: http.MethodPost,
		route:  routeQuizSubmit,
		params: chapterParams(courseID, chapterID),
		body:   map[string]any{"answers": wire},
		auth:   true,
	})
	if err != nil {
		return quiz.Submission{}, err
	}
	if isEmpty(body) {
		return quiz.Submission{}, ErrNoData
	}

	var sub quiz.Submission
	if err := json.Unmarshal(body, &sub); err != nil {
		return quiz.Submission{}, fmt.Errorf("decode quiz submission: %w", err)
	}
	return sub, nil
}
