package jwtx

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// minSecretLen matches the HS256 output size.
const minSecretLen = 32

// HS256 signs and verifies tokens with a single shared secret. It holds no
// mutable state and is safe for concurrent use.
type HS256 struct {
	secret []byte
	issuer string
	now    func() time.Time
}

type Option func(*HS256)

// WithClock replaces time.Now, letting tests move time past a token's expiry.
func WithClock(now func() time.Time) Option {
	return func(h *HS256) { h.now = now }
}

// NewHS256 creates the signer. An empty secret is ErrMissingKey, which the
// application treats as fatal at startup.
func NewHS256(secret []byte, issuer string, opts ...Option) (*HS256, error) {
	if len(secret) == 0 {
		return nil, ErrMissingKey
	}
	if len(secret) < minSecretLen {
		return nil, fmt.Errorf("jwtx: secret must be at least %d bytes, got %d", minSecretLen, len(secret))
	}

	h := &HS256{
		secret: append([]byte(nil), secret...),
		issuer: issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

func (h *HS256) Alg() string { return jwt.SigningMethodHS256.Alg() }

// Issue signs a token for subject that expires ttl from now.
func (h *HS256) Issue(subject string, ttl time.Duration) (string, error) {
	claims := NewClaims(subject, h.issuer, ttl, h.now())
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := t.SignedString(h.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, algorithm, issuer and expiry of token.
func (h *HS256) Verify(token string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(h.now),
		jwt.WithExpirationRequired(),
	)

	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return h.secret, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return Claims{}, ErrInvalidToken
	}

	if err := claims.ValidateIssuer(h.issuer); err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if err := claims.ValidateExpiry(h.now()); err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	return *claims, nil
}
