package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dchubs/hub/internal/hub/cache"
	"github.com/dchubs/hub/internal/hub/service"
	"github.com/dchubs/hub/internal/hub/store"
	"github.com/dchubs/hub/pkg/httpx"
	"github.com/dchubs/hub/pkg/jwtx"
	"github.com/dchubs/hub/pkg/slogx"

	_ "github.com/dchubs/hub/api/hub" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	// Sessions verifies browser session tokens.
	Sessions jwtx.Verifier
	CSRF     *httpx.CSRFGuard
	Origin   *httpx.OriginGuard
	Metrics  *httpx.HTTPMetrics // optional
	Cache    cache.Cache        // optional, checked by /readyz

	TokenService *service.TokenService
	VoteService  *service.VoteService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	// Innermost, so the mux has set r.Pattern by the time it records.
	if r.Metrics != nil {
		r.middlewares = append(r.middlewares, r.Metrics.Middleware())
	}

	r.registerTokens()
	r.registerVotes()
	r.registerSecurity()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			DCHubs Trust API
//	@version		0.1.0
//	@description	API token issuance and rotation, CSRF issuance and vote notification relay for the DCHubs directory.
//	@description
//	@description	Tokens are HS256 JWTs. Access and refresh tokens are signed with separate secrets, and only the most recently issued pair for a subject is accepted.
//
//	@contact.name	DCHubs Team
//	@contact.url	https://dchubs.org
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				API access token. Format: "Bearer {token}".
//
//	@securityDefinitions.apikey	SessionAuth
//	@in							header
//	@name						Authorization
//	@description				Browser session token, normally sent as the dchubs_session cookie. Format: "Session {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerTokens() {
	h := &TokensHandler{TokenService: r.TokenService}

	// Cookie-authenticated and state-changing: origin, then CSRF, then session.
	browser := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			r.Origin.Middleware(),
			r.CSRF.Middleware(),
			httpx.SessionMiddleware(r.Sessions),
			httpx.RateLimitBySubject(httpx.StrictLimit),
		)
	}

	r.Mux.Handle("POST /v1/tokens", browser(h.HandleIssue))
	r.Mux.Handle("DELETE /v1/tokens", browser(h.HandleRevoke))

	// Bearer of the refresh token is the credential; strict limit by IP.
	r.Mux.Handle("POST /v1/tokens/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("GET /v1/tokens/self",
		httpx.Chain(http.HandlerFunc(h.HandleSelf),
			httpx.AuthnMiddleware(r.TokenService),
			httpx.RateLimitBySubject(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerVotes() {
	// Origin is checked before CSRF so disallowed origins learn nothing
	// about CSRF validity.
	r.Mux.Handle("POST /v1/votes/notify",
		httpx.Chain(&VoteHandler{VoteService: r.VoteService},
			httpx.RateLimitByIP(httpx.ModerateLimit),
			r.Origin.Middleware(),
			r.CSRF.Middleware(),
		),
	)
}

func (r *Router) registerSecurity() {
	r.Mux.Handle("GET /v1/csrf",
		httpx.Chain(&CSRFHandler{Guard: r.CSRF},
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.Cache),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	if r.Metrics != nil {
		r.Mux.Handle("GET /metrics",
			httpx.Chain(r.Metrics.Handler(),
				httpx.RateLimitByIP(httpx.PublicLimit),
			),
		)
	}
}
