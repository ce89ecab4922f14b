package http

import (
	"net/http"

	"github.com/oakhall/depot/internal/session/service"
	"github.com/oakhall/depot/pkg/httpx"
)

// RevokeHandler serves POST /v1/session/revoke. Revocation is idempotent:
// a well-formed token gets 200 whether or not its session was still alive,
// so callers cannot probe session state through this endpoint.
type RevokeHandler struct {
	TokenService *service.TokenService
}

func (h *RevokeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.TokenService.Revoke(r.Context(), r.Header.Get("Authorization")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}
