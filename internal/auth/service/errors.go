package service

import (
	"errors"

	"github.com/aussiebroadwan/cookieauth/pkg/metrics"
	"github.com/aussiebroadwan/cookieauth/pkg/validate"
)

var (
	ErrConflict        = errors.New("user already exists")
	ErrNotFound        = errors.New("user not found")
	ErrUnauthenticated = errors.New("no session token")
	ErrUnauthorized    = errors.New("invalid password")
	ErrForbidden       = errors.New("invalid session token")
)

// Kind classifies service errors for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindUnauthenticated
	KindUnauthorized
	KindForbidden
)

// KindOf maps err to its Kind. Anything not recognised is internal.
func KindOf(err error) Kind {
	var verr *validate.Error
	switch {
	case errors.As(err, &verr):
		return KindValidation
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	default:
		return KindInternal
	}
}

func outcome(err error) string {
	if err == nil {
		return metrics.OutcomeSuccess
	}
	switch KindOf(err) {
	case KindValidation:
		return metrics.OutcomeInvalid
	case KindConflict:
		return metrics.OutcomeConflict
	case KindNotFound:
		return metrics.OutcomeNotFound
	case KindUnauthenticated:
		return metrics.OutcomeUnauthenticated
	case KindUnauthorized:
		return metrics.OutcomeUnauthorized
	case KindForbidden:
		return metrics.OutcomeForbidden
	default:
		return metrics.OutcomeError
	}
}
