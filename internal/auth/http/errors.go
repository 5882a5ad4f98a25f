package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/cookieauth/internal/auth/service"
	"github.com/aussiebroadwan/cookieauth/pkg/authsdk"
	"github.com/aussiebroadwan/cookieauth/pkg/slogx"
	"github.com/aussiebroadwan/cookieauth/pkg/validate"
)

// writeServiceError maps a service error onto its response. Internal errors
// are logged in full and answered with a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch service.KindOf(err) {
	case service.KindValidation:
		var verr *validate.Error
		errors.As(err, &verr)
		details := make([]string, len(verr.Reasons))
		for i, reason := range verr.Reasons {
			details[i] = reason.String()
		}
		authsdk.ErrInvalidRequest.WithDetails(details...).WriteError(w)
	case service.KindConflict:
		authsdk.ErrUserExists.WriteError(w)
	case service.KindNotFound:
		authsdk.ErrUserNotFound.WriteError(w)
	case service.KindUnauthenticated:
		authsdk.ErrUnauthenticated.WriteError(w)
	case service.KindUnauthorized:
		authsdk.ErrInvalidPassword.WriteError(w)
	case service.KindForbidden:
		authsdk.ErrForbidden.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
	}
}
