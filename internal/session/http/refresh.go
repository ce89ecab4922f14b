package http

import (
	"net/http"

	"github.com/oakhall/depot/internal/session/service"
	"github.com/oakhall/depot/pkg/fingerprint"
	"github.com/oakhall/depot/pkg/httpx"
	"github.com/oakhall/depot/pkg/sessionsdk"
)

// RefreshHandler serves POST /v1/session/refresh. The one-time refresh
// token travels in the Authorization header and the new pair is bound to
// the device presenting it.
type RefreshHandler struct {
	TokenService *service.TokenService
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	pair, err := h.TokenService.Refresh(r.Context(), r.Header.Get("Authorization"), fingerprint.FromRequest(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, sessionsdk.TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(pair.ExpiresIn.Seconds()),
	})
}
