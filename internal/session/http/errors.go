package http

import (
	"errors"
	"net/http"

	"github.com/oakhall/depot/internal/session/service"
	"github.com/oakhall/depot/pkg/sessionsdk"
	"github.com/oakhall/depot/pkg/slogx"
)

// errorsIsStoreFault reports whether a validation failure is an
// infrastructure fault rather than a verdict about the token.
func errorsIsStoreFault(err error) bool {
	return errors.Is(err, service.ErrStoreUnavailable)
}

// writeServiceError maps the service's rejection taxonomy onto the wire
// error shape. Unknown errors are logged and surfaced as a generic server
// error so internals never leak into responses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrMalformed),
		errors.Is(err, service.ErrBadSignature):
		sessionsdk.ErrInvalidToken.WriteError(w)
	case errors.Is(err, service.ErrExpired):
		sessionsdk.ErrTokenExpired.WriteError(w)
	case errors.Is(err, service.ErrSessionExpired):
		sessionsdk.ErrSessionExpired.WriteError(w)
	case errors.Is(err, service.ErrTheftDetected):
		sessionsdk.ErrTheftDetected.WriteError(w)
	case errors.Is(err, service.ErrRevoked):
		sessionsdk.ErrTokenRevoked.WriteError(w)
	case errors.Is(err, service.ErrRefreshReused):
		sessionsdk.ErrRefreshExpired.WriteError(w)
	case errors.Is(err, service.ErrStoreUnavailable):
		slogx.FromContext(r.Context()).Error("store unavailable", "error", err)
		sessionsdk.ErrUnavailable.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("unexpected service error", "error", err)
		sessionsdk.ErrServerError.WriteError(w)
	}
}
