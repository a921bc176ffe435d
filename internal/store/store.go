// Package store provides PostgreSQL access to the filtering engine's inputs
// (candidates, rules, lists, synonyms) and its output (filter outcomes and
// the AI cost ledger).
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Scope identifies whose data a query touches. It is threaded explicitly
// into every call; nothing here reads ambient request state.
type Scope struct {
	UserID string
	JobID  string
}

func (s Scope) validate() error {
	if s.UserID == "" {
		return fmt.Errorf("scope is missing a user id")
	}
	if s.JobID == "" {
		return fmt.Errorf("scope is missing a job id")
	}
	return nil
}

// Store wraps a PostgreSQL connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool and verifies it.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
