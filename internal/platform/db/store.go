package db

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AccessMode tags a statement as a read or a write. The authorization engine
// only ever issues reads; the tag feeds query logging and keeps a seam open
// for replica routing.
type AccessMode string

const (
	// ModeRead marks read-path statements.
	ModeRead AccessMode = "read"
	// ModeWrite marks write-path statements.
	ModeWrite AccessMode = "write"
)

// Store is the parameterized-query facade over the connection pool. Retries
// and timeouts are the pool's responsibility, not the callers'.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewStore constructs a Store. A nil logger disables query logging.
func NewStore(pool *pgxpool.Pool, logger *slog.Logger) *Store {
	return &Store{pool: pool, logger: logger}
}

// Pool exposes the underlying pool for transaction helpers.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Query runs a parameterized statement returning rows.
func (s *Store) Query(ctx context.Context, mode AccessMode, sql string, args ...any) (pgx.Rows, error) {
	s.log(ctx, mode, sql)
	return s.pool.Query(ctx, sql, args...)
}

// QueryRow runs a parameterized statement returning a single row.
func (s *Store) QueryRow(ctx context.Context, mode AccessMode, sql string, args ...any) pgx.Row {
	s.log(ctx, mode, sql)
	return s.pool.QueryRow(ctx, sql, args...)
}

// Exec runs a parameterized statement returning its command tag.
func (s *Store) Exec(ctx context.Context, mode AccessMode, sql string, args ...any) (pgconn.CommandTag, error) {
	s.log(ctx, mode, sql)
	return s.pool.Exec(ctx, sql, args...)
}

func (s *Store) log(ctx context.Context, mode AccessMode, sql string) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelDebug, "store query",
		slog.String("mode", string(mode)),
		slog.String("sql", sql))
}
