// Package postgres is the PostgreSQL credential store, backed by a bounded
// pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"

	"github.com/aussiebroadwan/cookieauth/internal/auth/store"
)

// DefaultMaxConns bounds the pool when the caller passes zero.
const DefaultMaxConns = 10

type Store struct {
	pool *pgxpool.Pool
	url  string
}

// NewStore connects to databaseURL and verifies the connection.
func NewStore(ctx context.Context, databaseURL string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, oops.Code("DB_CONFIG_INVALID").With("operation", "parse database url").Wrap(err)
	}
	if maxConns <= 0 {
		maxConns = DefaultMaxConns
	}
	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("operation", "create pool").Wrap(err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, oops.Code("DB_CONNECT_FAILED").With("operation", "ping").Wrap(err)
	}

	return &Store{pool: pool, url: databaseURL}, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Acquire checks out a pooled connection, waiting while the pool is at
// MaxConns.
func (s *Store) Acquire(ctx context.Context) (store.Conn, error) {
	c, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, oops.Code("DB_ACQUIRE_FAILED").Wrap(err)
	}
	return &conn{c: c}, nil
}

type conn struct {
	c    *pgxpool.Conn
	once sync.Once
}

func (c *conn) Users() store.Users { return &usersRepo{q: c.c} }

func (c *conn) Release() {
	c.once.Do(c.c.Release)
}

// querier is the subset of pgx used by the repos. *pgxpool.Conn and
// pgxmock connections both satisfy it.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
