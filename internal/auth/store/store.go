package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/cookieauth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. Work happens on a Conn checked out with Acquire; the pool
// behind it is bounded, so every Acquire must be paired with Release.
type Store interface {
	// Acquire checks out a connection. It blocks until one is free or ctx
	// is done.
	Acquire(ctx context.Context) (Conn, error)

	ApplyMigrations() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error

	// Close releases the pool. Outstanding Conns must be released first.
	Close() error
}

// Conn is one checked-out connection. Release is safe to call more than once.
type Conn interface {
	Users() Users
	Release()
}

type Users interface {
	// GetUserByEmail is used by login and the session check.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByUsername is used for the signup conflict check.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID). A
	// duplicate email or username yields ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// ListUsers returns every user, oldest first.
	ListUsers(ctx context.Context) ([]domain.User, error)
}
