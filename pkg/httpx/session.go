package httpx

import (
	"net/http"

	"github.com/aussiebroadwan/cookieauth/pkg/jwtx"
	"github.com/aussiebroadwan/cookieauth/pkg/slogx"
)

// Subject is the verified identity behind a session cookie.
type Subject struct {
	// Email is the token's sub claim.
	Email string
	// TokenID is the jti of the presenting token, for log correlation.
	TokenID string
}

// AuthedHandlerFunc is a handler that runs only with a verified Subject.
type AuthedHandlerFunc func(w http.ResponseWriter, r *http.Request, s Subject)

// RequireSession gates handlers behind a valid token in cookieName.
//
// A request with no cookie gets 401 unauthenticated. A cookie whose token
// fails verification gets 403 forbidden. Tokens are never refreshed here;
// clients call the refresh endpoint explicitly.
func RequireSession(v jwtx.Verifier, cookieName string) func(AuthedHandlerFunc) http.Handler {
	return func(next AuthedHandlerFunc) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw := CookieValue(r, cookieName)
			if raw == "" {
				WriteError(w, http.StatusUnauthorized, "unauthenticated", "Missing session token")
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("session token rejected", "err", err)
				WriteError(w, http.StatusForbidden, "forbidden", "Invalid session token")
				return
			}

			s := Subject{Email: claims.Subject, TokenID: claims.ID}
			ctx = slogx.With(ctx, "subject", s.Email)
			ctx = WithSubject(ctx, s)
			next(w, r.WithContext(ctx), s)
		})
	}
}

// Within runs mws between RequireSession and next, so they can see the
// verified subject in the request context.
func Within(next AuthedHandlerFunc, mws ...Middleware) AuthedHandlerFunc {
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, _ := SubjectFromContext(r.Context())
		next(w, r, s)
	}), mws...)

	return func(w http.ResponseWriter, r *http.Request, _ Subject) {
		h.ServeHTTP(w, r)
	}
}
