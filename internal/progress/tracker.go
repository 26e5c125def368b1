package progress

import (
	"context"
	"log/slog"

	"github.com/abhisek/coursekit/internal/curriculum"
	"github.com/abhisek/coursekit/internal/store"
)

// Remote is the backend surface the tracker needs.
type Remote interface {
	Progress(ctx context.Context, courseID string) ([]curriculum.ID, error)
	CompleteChapter(ctx context.Context, courseID string, chapterID curriculum.ID) error
}

// Tracker performs the network side of completion tracking for one course.
// Every failure is logged and swallowed; completion never blocks or fails
// the learner's flow.
type Tracker struct {
	remote    Remote
	courseID  string
	sessionID string
	events    store.EventRepo
	log       *slog.Logger
}

// TrackerOptions configures a Tracker.
type TrackerOptions struct {
	CourseID  string
	SessionID string
	// Events is optional; when set, completions are recorded locally.
	Events store.EventRepo
	Logger *slog.Logger
}

// NewTracker creates a Tracker for one course.
func NewTracker(remote Remote, opts TrackerOptions) *Tracker {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{
		remote:    remote,
		courseID:  opts.CourseID,
		sessionID: opts.SessionID,
		events:    opts.Events,
		log:       log.With("course_id", opts.CourseID),
	}
}

// Load fetches the learner's completion set. It reports false when the
// fetch failed, in which case the caller keeps its current set.
func (t *Tracker) Load(ctx context.Context) ([]curriculum.ID, bool) {
	ids, err := t.remote.Progress(ctx, t.courseID)
	if err != nil {
		t.log.Warn("fetch progress failed", "err", err)
		return nil, false
	}
	t.log.Debug("progress loaded", "completed", len(ids))
	return ids, true
}

// MarkComplete reports a completed chapter to the backend. Errors are
// logged, never returned.
func (t *Tracker) MarkComplete(ctx context.Context, chapterID curriculum.ID, trigger Trigger) {
	if err := t.remote.CompleteChapter(ctx, t.courseID, chapterID); err != nil {
		t.log.Warn("mark chapter complete failed", "chapter_id", chapterID, "trigger", trigger.String(), "err", err)
		return
	}
	t.log.Info("chapter complete", "chapter_id", chapterID, "trigger", trigger.String())
	t.Record(ctx, store.LearningEventData{
		Kind:      store.KindChapterComplete,
		ChapterID: string(chapterID),
	})
}

// Record appends a learning event for this course and session. Recording
// failures never affect the caller.
func (t *Tracker) Record(ctx context.Context, data store.LearningEventData) {
	if t.events == nil {
		return
	}
	data.CourseID = t.courseID
	data.SessionID = t.sessionID
	if err := t.events.AppendLearning(ctx, data); err != nil {
		t.log.Warn("record learning event failed", "kind", data.Kind, "err", err)
	}
}
