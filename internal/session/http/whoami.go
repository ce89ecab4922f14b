package http

import (
	"net/http"

	"github.com/oakhall/depot/pkg/httpx"
	"github.com/oakhall/depot/pkg/sessionsdk"
)

// WhoAmIHandler serves GET /v1/session/whoami, echoing the identity the
// authentication middleware verified. Useful for clients checking what a
// stored token still grants, and for smoke tests of the full chain.
type WhoAmIHandler struct{}

func (h *WhoAmIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		sessionsdk.ErrInvalidToken.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, sessionsdk.IntrospectionResponse{
		Active:      true,
		Username:    identity.Username,
		UserID:      identity.UserID,
		Authorities: identity.Authorities,
		TokenType:   "Bearer",
		Sub:         identity.Username,
		Jti:         identity.TokenID,
		SessionID:   identity.SessionID,
	})
}
