package http

import (
	"net/http"
	"time"

	"github.com/oakhall/depot/internal/session/store"
	"github.com/oakhall/depot/pkg/httpx"
	"github.com/oakhall/depot/pkg/sessionsdk"
)

// ReadyzHandler is the readiness probe. The service cannot do anything
// useful without its store, so store reachability decides readiness.
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &sessionsdk.HealthChecks{Store: "ok"}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Store = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, sessionsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
