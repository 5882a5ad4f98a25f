package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/aussiebroadwan/cookieauth/internal/auth/store"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DefaultMaxConns bounds the pool when the caller passes zero.
const DefaultMaxConns = 4

type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens the database file at path. Each pooled connection gets a
// busy timeout so concurrent writers queue instead of failing.
//
// path must name a file: with ":memory:" every pooled connection would see
// its own empty database.
func NewStore(path string, maxConns int) (*Store, error) {
	if maxConns <= 0 {
		maxConns = DefaultMaxConns
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)

	return &Store{db: db, path: path}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Acquire reserves one pooled connection. It waits while the pool is
// exhausted.
func (s *Store) Acquire(ctx context.Context) (store.Conn, error) {
	c, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return &conn{c: c}, nil
}

type conn struct {
	c    *sql.Conn
	once sync.Once
}

func (c *conn) Users() store.Users { return &usersRepo{q: c.c} }

func (c *conn) Release() {
	c.once.Do(func() { _ = c.c.Close() })
}

// querier is satisfied by *sql.Conn, *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func mapUnique(err error) error {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %s", store.ErrAlreadyExists, se.Error())
		}
	}
	return err
}
