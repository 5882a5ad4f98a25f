package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/cookieauth/pkg/authsdk"
	"github.com/aussiebroadwan/cookieauth/pkg/httpx"
)

// LivezHandler godoc
//
//	@Summary		Liveness probe
//	@Description	Always returns 200 while the process is serving, with uptime and version.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, authsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: version,
		})
	}
}

// HealthHandler godoc
//
//	@Summary		Plain health check
//	@Description	Returns the text "Ok". Kept for load balancers configured against the original service.
//	@Tags			Health
//	@Produce		plain
//	@Success		200	{string}	string	"Ok"
//	@Router			/health [get].
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Ok"))
}
