// Package http exposes the session service over a small internal JSON
// surface: issuance, introspection, refresh, revocation and health probes.
// Platform business endpoints live in their own services and call this
// one through pkg/sessionsdk.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/oakhall/depot/internal/session/service"
	"github.com/oakhall/depot/internal/session/store"
	"github.com/oakhall/depot/pkg/httpx"
	"github.com/oakhall/depot/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store        store.Store
	TokenService *service.TokenService
}

func NewRouter(
	buildVersion string,
	st store.Store,
	tokens *service.TokenService,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		TokenService: tokens,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSession()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSession() {
	// POST /issue - strict limit by IP, this sits behind the platform's
	// login controller and normal traffic is one call per login.
	issueHandler := &IssueHandler{TokenService: r.TokenService}
	r.Mux.Handle("POST /v1/session/issue",
		httpx.Chain(issueHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /introspect - the presented token is itself the credential, so
	// no separate authentication middleware applies.
	introspectHandler := &IntrospectHandler{TokenService: r.TokenService}
	r.Mux.Handle("POST /v1/session/introspect",
		httpx.Chain(introspectHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /refresh - strict limit by IP, rotation is expected roughly
	// once per access TTL per client.
	refreshHandler := &RefreshHandler{TokenService: r.TokenService}
	r.Mux.Handle("POST /v1/session/refresh",
		httpx.Chain(refreshHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /revoke - moderate limit by IP.
	revokeHandler := &RevokeHandler{TokenService: r.TokenService}
	r.Mux.Handle("POST /v1/session/revoke",
		httpx.Chain(revokeHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// GET /whoami - authenticated echo of the verified identity, limited
	// per user once the middleware has established one.
	r.Mux.Handle("GET /v1/session/whoami",
		httpx.Chain(&WhoAmIHandler{},
			AuthnMiddleware(r.TokenService),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// DELETE /sessions/{id} - operator force-logout, ADMIN only.
	adminRevokeHandler := &AdminSessionRevokeHandler{Store: r.store}
	r.Mux.Handle("DELETE /v1/session/sessions/{id}",
		httpx.Chain(adminRevokeHandler,
			AuthnMiddleware(r.TokenService),
			httpx.RequireAnyRole("ADMIN"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health probes get lenient limits, monitors poll them frequently.
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
