package http

import (
	"net/http"

	"github.com/oakhall/depot/internal/session/service"
	"github.com/oakhall/depot/pkg/fingerprint"
	"github.com/oakhall/depot/pkg/httpx"
)

// AuthnMiddleware validates the bearer token on each request and installs
// the verified identity in the request context for downstream handlers
// and for httpx.RequireAnyRole. Requests that fail validation never reach
// the wrapped handler, and any identity a caller smuggled into the
// context is cleared first.
func AuthnMiddleware(tokens *service.TokenService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := httpx.ClearIdentity(r.Context())

			auth, err := tokens.Validate(ctx, r.Header.Get("Authorization"), fingerprint.FromRequest(r))
			if err != nil {
				writeServiceError(w, r, err)
				return
			}

			ctx = httpx.WithIdentity(ctx, httpx.Identity{
				UserID:      auth.Claims.UserID,
				Username:    auth.Claims.Subject,
				Authorities: auth.Claims.Authorities,
				SessionID:   auth.SessionID,
				TokenID:     auth.Claims.ID,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
