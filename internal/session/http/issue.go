package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/oakhall/depot/internal/session/service"
	"github.com/oakhall/depot/pkg/fingerprint"
	"github.com/oakhall/depot/pkg/httpx"
	"github.com/oakhall/depot/pkg/sessionsdk"
)

// IssueHandler serves POST /v1/session/issue. The caller has already
// verified the user's credentials; this endpoint mints the token pair and
// binds it to the device details observed on this request.
type IssueHandler struct {
	TokenService *service.TokenService
}

func (h *IssueHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		sessionsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	var req sessionsdk.IssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sessionsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.UserID <= 0 || req.Username == "" {
		sessionsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.TokenService.Issue(
		r.Context(),
		req.UserID,
		req.Username,
		req.Authorities,
		fingerprint.FromRequest(r),
	)
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
