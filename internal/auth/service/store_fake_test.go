package service_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/aussiebroadwan/cookieauth/internal/auth/domain"
	"github.com/aussiebroadwan/cookieauth/internal/auth/store"
)

// memStore is an in-memory store.Store with a bounded pool that counts
// every Acquire and Release.
type memStore struct {
	mu     sync.Mutex
	users  map[string]domain.User // by email
	slots  chan struct{}
	failOn string // Users method name that returns errBoom

	acquired atomic.Int64
	released atomic.Int64
}

var errBoom = errors.New("boom")

func newMemStore(poolSize int) *memStore {
	return &memStore{
		users: make(map[string]domain.User),
		slots: make(chan struct{}, poolSize),
	}
}

func (s *memStore) Acquire(ctx context.Context) (store.Conn, error) {
	select {
	case s.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	s.acquired.Add(1)
	return &memConn{s: s}, nil
}

func (s *memStore) ApplyMigrations() error         { return nil }
func (s *memStore) Ping(ctx context.Context) error { return nil }
func (s *memStore) Close() error                   { return nil }

func (s *memStore) balanced() bool {
	return s.acquired.Load() == s.released.Load()
}

type memConn struct {
	s    *memStore
	once sync.Once
}

func (c *memConn) Users() store.Users { return memUsers{s: c.s} }

func (c *memConn) Release() {
	c.once.Do(func() {
		c.s.released.Add(1)
		<-c.s.slots
	})
}

type memUsers struct{ s *memStore }

func (u memUsers) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	if u.s.failOn == "GetUserByEmail" {
		return domain.User{}, errBoom
	}
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	usr, ok := u.s.users[email]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return usr, nil
}

func (u memUsers) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for _, usr := range u.s.users {
		if usr.Username == username {
			return usr, nil
		}
	}
	return domain.User{}, store.ErrNotFound
}

func (u memUsers) CreateUser(ctx context.Context, usr domain.User) error {
	if u.s.failOn == "CreateUser" {
		return errBoom
	}
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if _, ok := u.s.users[usr.Email]; ok {
		return store.ErrAlreadyExists
	}
	for _, existing := range u.s.users {
		if existing.Username == usr.Username {
			return store.ErrAlreadyExists
		}
	}
	u.s.users[usr.Email] = usr
	return nil
}

func (u memUsers) ListUsers(ctx context.Context) ([]domain.User, error) {
	if u.s.failOn == "ListUsers" {
		return nil, errBoom
	}
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	out := make([]domain.User, 0, len(u.s.users))
	for _, usr := range u.s.users {
		out = append(out, usr)
	}
	return out, nil
}
