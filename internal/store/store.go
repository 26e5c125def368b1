// Package store is the local activity log: an append-only SQLite record of
// the backend calls and learning events of each coursekit invocation.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store owns the connection to the activity log.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
	seq *sequenceCounter
}

// pragmas run once on the store's only connection.
var pragmas = []string{
	"journal_mode = WAL",
	"busy_timeout = 5000",
	"foreign_keys = ON",
	"synchronous = NORMAL",
}

// Open opens the activity log at dsn and migrates it to the current schema.
func Open(dsn string) (*Store, error) {
	ctx := context.Background()

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection serializes writers and keeps the pragmas in force.
	db.SetMaxOpenConns(1)
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, "PRAGMA "+p); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %s: %w", p, err)
		}
	}

	s := &Store{db: db, drv: entsql.OpenDB(dialect.SQLite, db)}
	if err := s.migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	if s.seq, err = newSequenceCounter(ctx, db); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	m, err := schema.NewMigrate(s.drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// DB exposes the connection for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Close() error {
	return s.drv.Close()
}

// EventRepo returns the append side of the log.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db, seq: s.seq}
}

// EventReader returns the query side of the log.
func (s *Store) EventReader() EventReader {
	return &eventRepo{db: s.db, seq: s.seq}
}
