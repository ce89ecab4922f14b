package http

import (
	"net/http"
	"time"

	"github.com/oakhall/depot/pkg/httpx"
	"github.com/oakhall/depot/pkg/sessionsdk"
)

// LivezHandler is the liveness probe. It answers 200 whenever the process
// is up, regardless of store health.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, sessionsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}
