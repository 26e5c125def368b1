package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo and EventReader on top of ent's SQL
// builder and the global sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (r *eventRepo) AppendRequest(ctx context.Context, data RequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(RequestEventsTable.Name).
		Columns("sequence", "recorded_at", "session_id", "method", "route", "status", "latency_ms", "success", "request_id", "error_message").
		Values(seqNum, time.Now().UTC(), data.SessionID, data.Method, data.Route, data.Status, data.LatencyMs, data.Success, data.RequestID, data.ErrorMessage).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save request event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendLearning(ctx context.Context, data LearningEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(LearningEventsTable.Name).
		Columns("sequence", "recorded_at", "session_id", "kind", "course_id", "chapter_id", "score", "total", "passed").
		Values(seqNum, time.Now().UTC(), data.SessionID, data.Kind, data.CourseID, data.ChapterID, data.Score, data.Total, data.Passed).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save learning event: %w", err)
	}
	return nil
}

// applyOpts adds the common filters and pagination to a selector.
func applyOpts(s *entsql.Selector, opts QueryOpts, learning bool) *entsql.Selector {
	if opts.After > 0 {
		s.Where(entsql.GT("sequence", opts.After))
	}
	if !opts.From.IsZero() {
		s.Where(entsql.GTE("recorded_at", opts.From.UTC()))
	}
	if opts.SessionID != "" {
		s.Where(entsql.EQ("session_id", opts.SessionID))
	}
	if learning && opts.CourseID != "" {
		s.Where(entsql.EQ("course_id", opts.CourseID))
	}
	if learning && opts.Kind != "" {
		s.Where(entsql.EQ("kind", opts.Kind))
	}
	return s
}

func (r *eventRepo) Requests(ctx context.Context, opts QueryOpts) ([]RequestEvent, error) {
	b := builder()
	s := b.Select("id", "sequence", "recorded_at", "session_id", "method", "route", "status", "latency_ms", "success", "request_id", "error_message").
		From(b.Table(RequestEventsTable.Name))
	applyOpts(s, opts, false).OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		s.Limit(opts.Limit)
	}

	query, args := s.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query request events: %w", err)
	}
	defer rows.Close()

	var out []RequestEvent
	for rows.Next() {
		var e RequestEvent
		if err := rows.Scan(&e.ID, &e.Sequence, &e.RecordedAt, &e.SessionID, &e.Method, &e.Route, &e.Status,
			&e.LatencyMs, &e.Success, &e.RequestID, &e.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan request event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventRepo) Learning(ctx context.Context, opts QueryOpts) ([]LearningEvent, error) {
	b := builder()
	s := b.Select("id", "sequence", "recorded_at", "session_id", "kind", "course_id", "chapter_id", "score", "total", "passed").
		From(b.Table(LearningEventsTable.Name))
	applyOpts(s, opts, true).OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		s.Limit(opts.Limit)
	}

	query, args := s.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query learning events: %w", err)
	}
	defer rows.Close()

	var out []LearningEvent
	for rows.Next() {
		var e LearningEvent
		if err := rows.Scan(&e.ID, &e.Sequence, &e.RecordedAt, &e.SessionID, &e.Kind, &e.CourseID,
			&e.ChapterID, &e.Score, &e.Total, &e.Passed); err != nil {
			return nil, fmt.Errorf("scan learning event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventRepo) RequestStats(ctx context.Context, opts QueryOpts) ([]RouteStats, error) {
	b := builder()
	s := b.Select(
		"method",
		"route",
		entsql.As(entsql.Count("*"), "calls"),
		entsql.As(entsql.Sum("success"), "successes"),
		entsql.As(entsql.Avg("latency_ms"), "avg_latency"),
	).From(b.Table(RequestEventsTable.Name))
	applyOpts(s, opts, false).
		GroupBy("method", "route").
		OrderBy(entsql.Desc("calls"), "route")

	query, args := s.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query request stats: %w", err)
	}
	defer rows.Close()

	var out []RouteStats
	for rows.Next() {
		var (
			st        RouteStats
			successes int
			avg       sql.NullFloat64
		)
		if err := rows.Scan(&st.Method, &st.Route, &st.Calls, &successes, &avg); err != nil {
			return nil, fmt.Errorf("scan request stats: %w", err)
		}
		st.Failures = st.Calls - successes
		st.AvgLatencyMs = avg.Float64
		out = append(out, st)
	}
	return out, rows.Err()
}

func (r *eventRepo) LearningStats(ctx context.Context, opts QueryOpts) ([]KindCount, error) {
	b := builder()
	s := b.Select("kind", entsql.As(entsql.Count("*"), "n")).
		From(b.Table(LearningEventsTable.Name))
	applyOpts(s, opts, true).
		GroupBy("kind").
		OrderBy("kind")

	query, args := s.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query learning stats: %w", err)
	}
	defer rows.Close()

	var out []KindCount
	for rows.Next() {
		var kc KindCount
		if err := rows.Scan(&kc.Kind, &kc.Count); err != nil {
			return nil, fmt.Errorf("scan learning stats: %w", err)
		}
		out = append(out, kc)
	}
	return out, rows.Err()
}
