package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter hands out the log's global sequence numbers. Per-table
// auto-increment ids can't order a request against a learning event, so
// every append draws from this one counter row.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter seeds the counter row if migration just created the
// table.
func newSequenceCounter(ctx context.Context, db *sql.DB) (*sequenceCounter, error) {
	query, args := builder().Insert(SequenceTable.Name).
		Columns("id", "next_val").
		Values(1, 1).
		OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing()).
		Query()
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}
	return &sequenceCounter{db: db}, nil
}

// Next returns the next sequence number. The mutex orders callers in this
// process and RETURNING makes the increment atomic in the database.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		"UPDATE "+SequenceTable.Name+" SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1",
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}
