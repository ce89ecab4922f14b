package http

import (
	"net/http"

	"github.com/oakhall/depot/internal/session/service"
	"github.com/oakhall/depot/pkg/fingerprint"
	"github.com/oakhall/depot/pkg/httpx"
	"github.com/oakhall/depot/pkg/sessionsdk"
	"github.com/oakhall/depot/pkg/slogx"
)

// IntrospectHandler serves POST /v1/session/introspect. The access token
// travels in the Authorization header; an invalid token of any kind yields
// active=false rather than an error, so the endpoint never reveals why a
// token failed. Store faults are the one exception and surface as 503.
type IntrospectHandler struct {
	TokenService *service.TokenService
}

func (h *IntrospectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	auth, err := h.TokenService.Validate(ctx, r.Header.Get("Authorization"), fingerprint.FromRequest(r))
	if err != nil {
		if errorsIsStoreFault(err) {
			writeServiceError(w, r, err)
			return
		}
		slogx.FromContext(ctx).Debug("token inactive during introspection", "error", err)
		httpx.WriteJSON(w, http.StatusOK, sessionsdk.IntrospectionResponse{Active: false})
		return
	}

	resp := sessionsdk.IntrospectionResponse{
		Active:      true,
		Username:    auth.Claims.Subject,
		UserID:      auth.Claims.UserID,
		Authorities: auth.Claims.Authorities,
		TokenType:   "Bearer",
		Sub:         auth.Claims.Subject,
		Jti:         auth.Claims.ID,
		SessionID:   auth.SessionID,
	}
	if auth.Claims.ExpiresAt != nil {
		resp.Exp = auth.Claims.ExpiresAt.Unix()
	}
	if auth.Claims.IssuedAt != nil {
		resp.Iat = auth.Claims.IssuedAt.Unix()
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}
