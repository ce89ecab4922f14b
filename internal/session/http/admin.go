package http

import (
	"net/http"

	"github.com/oakhall/depot/internal/session/store"
	"github.com/oakhall/depot/pkg/httpx"
	"github.com/oakhall/depot/pkg/sessionsdk"
	"github.com/oakhall/depot/pkg/slogx"
)

// AdminSessionRevokeHandler serves DELETE /v1/session/sessions/{id}, the
// operator force-logout. Destroying the session record invalidates the
// matching access token on its next validation; an outstanding refresh
// token is unaffected and ages out on its own TTL. Idempotent, deleting an
// already-gone session still returns 200.
type AdminSessionRevokeHandler struct {
	Store store.Store
}

func (h *AdminSessionRevokeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID := r.PathValue("id")
	if sessionID == "" {
		sessionsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.Store.Sessions().Delete(ctx, sessionID); err != nil {
		slogx.FromContext(ctx).Error("failed to delete session", "session_id", sessionID, "error", err)
		sessionsdk.ErrUnavailable.WriteError(w)
		return
	}

	slogx.FromContext(ctx).Info("session force-revoked by operator", "session_id", sessionID)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}
