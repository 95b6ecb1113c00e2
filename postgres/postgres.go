// Package postgres implements automation.Store and automation.Catalog on
// PostgreSQL via pgx.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/meikuraledutech/automation"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DBPool is the part of *pgxpool.Pool the store uses, so tests can mock it.
type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGStore implements automation.Store and automation.Catalog using
// PostgreSQL.
type PGStore struct {
	db    DBPool
	log   *zap.Logger
	posts automation.PostSource
}

var (
	_ automation.Store   = (*PGStore)(nil)
	_ automation.Catalog = (*PGStore)(nil)
)

// Option customizes a PGStore.
type Option func(*PGStore)

// WithLogger sets the store logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *PGStore) {
		if log != nil {
			s.log = log.Named("postgres")
		}
	}
}

// WithPostSource sets where SyncPosts pulls posts from.
func WithPostSource(src automation.PostSource) Option {
	return func(s *PGStore) {
		s.posts = src
	}
}

// New creates a new PGStore backed by the given pgx connection pool.
func New(db DBPool, opts ...Option) *PGStore {
	s := &PGStore{db: db, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// rollback is deferred after Begin. It is a no-op once the tx is committed.
func (s *PGStore) rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		s.log.Error("rollback failed", zap.Error(err))
	}
}
