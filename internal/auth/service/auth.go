package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/samber/oops"

	"github.com/aussiebroadwan/cookieauth/internal/auth/domain"
	"github.com/aussiebroadwan/cookieauth/internal/auth/store"
	"github.com/aussiebroadwan/cookieauth/pkg/cryptox"
	"github.com/aussiebroadwan/cookieauth/pkg/idx"
	"github.com/aussiebroadwan/cookieauth/pkg/jwtx"
	"github.com/aussiebroadwan/cookieauth/pkg/metrics"
	"github.com/aussiebroadwan/cookieauth/pkg/slogx"
	"github.com/aussiebroadwan/cookieauth/pkg/validate"
)

// maxPasswordBytes is the most bcrypt will hash.
const maxPasswordBytes = 72

// Tokens issues and verifies session tokens.
type Tokens interface {
	jwtx.Issuer
	jwtx.Verifier
}

// AuthService runs the signup, login, session and refresh flows. It is safe
// for concurrent use; the only shared mutable state is behind Store.
type AuthService struct {
	Store   store.Store
	Hasher  cryptox.Hasher
	Tokens  Tokens
	Metrics *metrics.Metrics

	// AccessTTL and RefreshTTL default to jwtx.AccessTokenTTL and
	// jwtx.RefreshTokenTTL when zero.
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type SignupInput struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// normalizeEmail only trims. Emails are compared exactly as stored, so
// addresses differing in case are distinct accounts.
func normalizeEmail(s string) string { return strings.TrimSpace(s) }

func (s *AuthService) accessTTL() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return jwtx.AccessTokenTTL
}

func (s *AuthService) refreshTTL() time.Duration {
	if s.RefreshTTL > 0 {
		return s.RefreshTTL
	}
	return jwtx.RefreshTokenTTL
}

func (s *AuthService) record(op string, err error) {
	s.Metrics.RecordAuth(op, outcome(err))
}

func checkPasswordLength(password string) error {
	if len(password) > maxPasswordBytes {
		return &validate.Error{Reasons: []validate.Reason{{Field: "password", Message: "too long"}}}
	}
	return nil
}

// Signup registers a new user. It fails with ErrConflict when the email or
// username is already taken, including when a concurrent signup wins the
// race between the check and the insert.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (err error) {
	defer func() { s.record("signup", err) }()

	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	if err := validate.Struct(in); err != nil {
		return err
	}
	if err := checkPasswordLength(in.Password); err != nil {
		return err
	}

	conn, err := s.Store.Acquire(ctx)
	if err != nil {
		return oops.Code("SIGNUP_FAILED").With("operation", "acquire connection").Wrap(err)
	}
	defer conn.Release()
	users := conn.Users()

	if _, err := users.GetUserByEmail(ctx, in.Email); err == nil {
		return ErrConflict
	} else if !errors.Is(err, store.ErrNotFound) {
		return oops.Code("SIGNUP_FAILED").With("operation", "lookup email").Wrap(err)
	}

	if _, err := users.GetUserByUsername(ctx, in.Username); err == nil {
		return ErrConflict
	} else if !errors.Is(err, store.ErrNotFound) {
		return oops.Code("SIGNUP_FAILED").With("operation", "lookup username").Wrap(err)
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return oops.Code("SIGNUP_FAILED").With("operation", "hash password").Wrap(err)
	}

	u := domain.User{
		ID:           idx.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrConflict
		}
		return oops.Code("SIGNUP_FAILED").With("operation", "insert user").Wrap(err)
	}

	slogx.FromContext(ctx).Info("user signed up", "user_id", u.ID)
	return nil
}

// Login checks credentials and issues an access and refresh token pair. An
// unknown email is ErrNotFound; a wrong password is ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (pair domain.TokenPair, err error) {
	defer func() { s.record("login", err) }()

	in.Email = normalizeEmail(in.Email)
	if err := validate.Struct(in); err != nil {
		return domain.TokenPair{}, err
	}

	u, err := s.lookupByEmail(ctx, in.Email)
	if err != nil {
		return domain.TokenPair{}, err
	}

	ok, err := s.Hasher.Verify(in.Password, u.PasswordHash)
	if err != nil {
		return domain.TokenPair{}, oops.Code("LOGIN_FAILED").With("operation", "verify password").With("user_id", u.ID).Wrap(err)
	}
	if !ok {
		slogx.FromContext(ctx).Info("login rejected", "user_id", u.ID)
		return domain.TokenPair{}, ErrUnauthorized
	}

	pair = domain.TokenPair{AccessTTL: s.accessTTL(), RefreshTTL: s.refreshTTL()}
	if pair.AccessToken, err = s.Tokens.Issue(u.Email, pair.AccessTTL); err != nil {
		return domain.TokenPair{}, oops.Code("LOGIN_FAILED").With("operation", "issue access token").Wrap(err)
	}
	if pair.RefreshToken, err = s.Tokens.Issue(u.Email, pair.RefreshTTL); err != nil {
		return domain.TokenPair{}, oops.Code("LOGIN_FAILED").With("operation", "issue refresh token").Wrap(err)
	}

	slogx.FromContext(ctx).Info("user logged in", "user_id", u.ID)
	return pair, nil
}

// WhoAmI re-reads the user behind a verified session so deleted accounts
// stop resolving even while their token is still valid.
func (s *AuthService) WhoAmI(ctx context.Context, email string) (id domain.Identity, err error) {
	defer func() { s.record("auth", err) }()

	u, err := s.lookupByEmail(ctx, email)
	if err != nil {
		return domain.Identity{}, err
	}
	return domain.Identity{ID: u.ID, Email: u.Email}, nil
}

// Refresh mints a new access token from a valid refresh token. It does not
// touch the store and does not rotate the refresh token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (tok domain.AccessToken, err error) {
	defer func() { s.record("refresh", err) }()

	if refreshToken == "" {
		return domain.AccessToken{}, ErrUnauthenticated
	}

	claims, err := s.Tokens.Verify(refreshToken)
	if err != nil {
		slogx.FromContext(ctx).Warn("refresh token rejected", "err", err)
		return domain.AccessToken{}, ErrForbidden
	}

	tok = domain.AccessToken{TTL: s.accessTTL()}
	if tok.Token, err = s.Tokens.Issue(claims.Subject, tok.TTL); err != nil {
		return domain.AccessToken{}, oops.Code("REFRESH_FAILED").With("operation", "issue access token").Wrap(err)
	}
	return tok, nil
}

// ListUsers returns the public view of every user.
func (s *AuthService) ListUsers(ctx context.Context) (out []domain.Identity, err error) {
	defer func() { s.record("list_users", err) }()

	conn, err := s.Store.Acquire(ctx)
	if err != nil {
		return nil, oops.Code("LIST_USERS_FAILED").With("operation", "acquire connection").Wrap(err)
	}
	defer conn.Release()

	users, err := conn.Users().ListUsers(ctx)
	if err != nil {
		return nil, oops.Code("LIST_USERS_FAILED").With("operation", "list users").Wrap(err)
	}

	out = make([]domain.Identity, len(users))
	for i, u := range users {
		out[i] = u.Identity()
	}
	return out, nil
}

func (s *AuthService) lookupByEmail(ctx context.Context, email string) (domain.User, error) {
	conn, err := s.Store.Acquire(ctx)
	if err != nil {
		return domain.User{}, oops.Code("USER_LOOKUP_FAILED").With("operation", "acquire connection").Wrap(err)
	}
	defer conn.Release()

	u, err := conn.Users().GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrNotFound
	}
	if err != nil {
		return domain.User{}, oops.Code("USER_LOOKUP_FAILED").With("operation", "get user by email").Wrap(err)
	}
	return u, nil
}
