package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/cookieauth/internal/auth/service"
	"github.com/aussiebroadwan/cookieauth/internal/auth/store"
	"github.com/aussiebroadwan/cookieauth/pkg/httpx"
	"github.com/aussiebroadwan/cookieauth/pkg/jwtx"
	"github.com/aussiebroadwan/cookieauth/pkg/metrics"
	"github.com/aussiebroadwan/cookieauth/pkg/slogx"

	_ "github.com/aussiebroadwan/cookieauth/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// LegacyPrefix is where the session routes were mounted before they moved to
// the root. Both mounts stay live.
const LegacyPrefix = "/v1/users"

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store
	metrics      *metrics.Metrics

	AuthService *service.AuthService
	Cookies     httpx.CookieOptions
	CORSOrigins []string
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		metrics:      m,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	if len(r.CORSOrigins) > 0 {
		r.middlewares = append(r.middlewares, httpx.CORS(r.CORSOrigins))
	}

	r.registerSession()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Cookie Session Authentication API
//	@version		0.1.0
//	@description	Signup, login and session checks for first-party web clients.
//	@description
//	@description				Sessions are carried in HttpOnly cookies: accessToken (1h) and refreshToken (7d), both HS256 JWTs.
//	@description				Every session route is also served under /v1/users.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/cookieauth
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	CookieAuth
//	@in							cookie
//	@name						accessToken
//	@description				Session access token set by /login.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// handle registers h under pattern on the root and on the legacy prefix. The
// same handler value is shared so both mounts draw from one rate limit.
func (r *Router) handle(method, path string, h http.Handler) {
	for _, prefix := range []string{"", LegacyPrefix} {
		pattern := method + " " + prefix + path
		r.Mux.Handle(pattern, r.metrics.Instrument(pattern, h))
	}
}

func (r *Router) registerSession() {
	h := &AuthHandler{AuthService: r.AuthService, Cookies: r.Cookies}
	session := httpx.RequireSession(r.verifier, httpx.AccessTokenCookie)

	// POST /signup - strict rate limit by IP (account creation)
	r.handle(http.MethodPost, "/signup",
		httpx.Chain(http.HandlerFunc(h.HandleSignup),
			httpx.RateLimitByIP(httpx.RateLimitFromEnv("SIGNUP", httpx.StrictLimit)),
		),
	)

	// POST /login - strict rate limit by IP + email to slow password guessing
	r.handle(http.MethodPost, "/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndEmail(httpx.RateLimitFromEnv("LOGIN", httpx.StrictLimit)),
		),
	)

	r.handle(http.MethodGet, "/auth", session(h.HandleAuth))

	// POST /refresh - moderate rate limit by IP
	r.handle(http.MethodPost, "/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.RateLimitFromEnv("REFRESH", httpx.ModerateLimit)),
		),
	)

	r.handle(http.MethodPost, "/logout", http.HandlerFunc(h.HandleLogout))

	// GET /users - authenticated, moderate rate limit by subject
	listUsers := session(httpx.Within(h.HandleListUsers,
		httpx.RateLimitBySubject(httpx.RateLimitFromEnv("USERS", httpx.ModerateLimit)),
	))
	r.Mux.Handle("GET /users", r.metrics.Instrument("GET /users", listUsers))
	r.Mux.Handle("GET "+LegacyPrefix+"/{$}", r.metrics.Instrument("GET "+LegacyPrefix+"/", listUsers))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
	r.Mux.HandleFunc("GET /health", HealthHandler)
	r.Mux.Handle("GET /metrics", r.metrics.Handler())
}
