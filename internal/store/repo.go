package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit    int       // max results (0 = unlimited)
	After    int64     // sequence > After
	From      time.Time // recorded_at >= From
	SessionID string
	CourseID  string // learning events only
	Kind      string // learning events only
}

// Record holds the columns every stored event carries.
type Record struct {
	ID         int
	Sequence   int64
	RecordedAt time.Time
}

// RequestEventData captures a single REST call to the backend.
type RequestEventData struct {
	SessionID    string
	Method       string
	Route        string
	Status       int
	LatencyMs    int64
	Success      bool
	RequestID    string
	ErrorMessage string
}

// RequestEvent is a stored RequestEventData.
type RequestEvent struct {
	Record
	RequestEventData
}

// Learning event kinds.
const (
	KindSessionStart    = "session_start"
	KindSessionEnd      = "session_end"
	KindChapterComplete = "chapter_complete"
	KindQuizSubmit      = "quiz_submit"
)

// LearningEventData captures one piece of learner activity.
type LearningEventData struct {
	SessionID string
	Kind      string
	CourseID  string
	ChapterID string
	Score     int
	Total     int
	Passed    bool
}

// LearningEvent is a stored LearningEventData.
type LearningEvent struct {
	Record
	LearningEventData
}

// RouteStats aggregates request events per method and route.
type RouteStats struct {
	Method       string
	Route        string
	Calls        int
	Failures     int
	AvgLatencyMs float64
}

// KindCount counts learning events of one kind.
type KindCount struct {
	Kind  string
	Count int
}

// EventRepo provides append access to domain events.
type EventRepo interface {
	// AppendRequest records a REST call event.
	AppendRequest(ctx context.Context, data RequestEventData) error

	// AppendLearning records a learner activity event.
	AppendLearning(ctx context.Context, data LearningEventData) error
}

// EventReader provides read access to recorded events. The activity log
// is history only and is never consulted as a source of truth.
type EventReader interface {
	// Requests returns request events, newest first.
	Requests(ctx context.Context, opts QueryOpts) ([]RequestEvent, error)

	// Learning returns learning events, newest first.
	Learning(ctx context.Context, opts QueryOpts) ([]LearningEvent, error)

	// RequestStats aggregates request events per route, busiest first.
	RequestStats(ctx context.Context, opts QueryOpts) ([]RouteStats, error)

	// LearningStats counts learning events per kind.
	LearningStats(ctx context.Context, opts QueryOpts) ([]KindCount, error)
}
