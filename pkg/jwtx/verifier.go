package jwtx

import (
	"errors"
	"time"
)

// Issuer mints signed tokens.
type Issuer interface {
	Issue(subject string, ttl time.Duration) (string, error)
}

// Verifier validates a JWT and gives you back the claims if it's legit.
//
// Every failure wraps ErrInvalidToken. Callers must treat them alike so that
// responses never reveal whether a token was malformed, tampered or expired.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	ErrMissingKey   = errors.New("jwtx: signing key is not configured")
	ErrInvalidToken = errors.New("jwtx: invalid token")

	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
)
