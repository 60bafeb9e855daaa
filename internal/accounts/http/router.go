package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/stackfort/accountd/internal/accounts/service"
	"github.com/stackfort/accountd/internal/accounts/store"
	"github.com/stackfort/accountd/pkg/httpx"
	"github.com/stackfort/accountd/pkg/jwtx"
	"github.com/stackfort/accountd/pkg/slogx"

	_ "github.com/stackfort/accountd/api/accounts" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store        store.Store
	TokenService *service.TokenService
	UserService  *service.UserService
	AuthService  *service.AuthService
	AdminService *service.AdminService
}

func NewRouter(
	keys *jwtx.KeySet,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.RateLimitByIP(httpx.GlobalLimit),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerMe()
	r.registerAdminUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Account Service API
//	@version		0.1.0
//	@description	User account and authentication service providing registration, password login,
//	@description	and stateless JWT access/refresh tokens. Profile self-service lives under /auth/me
//	@description	and superuser administration under /admin/users.
//	@description
//	@description				Tokens are signed with EdDSA or ES256 and can be verified using the JWKS endpoint.
//
//	@contact.name				StackFort Engineering
//	@contact.url				https://github.com/stackfort/accountd
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /auth/register - strict rate limit by IP (account creation)
	registerHandler := &RegisterHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /auth/register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /auth/login - strict rate limit (authentication attempts)
	// Note: Rate limited by IP + username form field to prevent brute force
	loginHandler := &LoginHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "username"),
		),
	)

	// POST /auth/refresh - strict rate limit by IP
	refreshHandler := &RefreshHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /auth/refresh",
		httpx.Chain(refreshHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerMe() {
	h := &MeHandler{AuthService: r.AuthService}

	// All /auth/me routes require a valid access token belonging to an
	// active account.
	guard := []httpx.Middleware{
		Authenticate(r.TokenService, r.UserService),
		ActiveUser(),
	}

	r.Mux.Handle("GET /auth/me", httpx.Chain(http.HandlerFunc(h.HandleGet), guard...))
	r.Mux.Handle("PATCH /auth/me", httpx.Chain(http.HandlerFunc(h.HandlePatch), guard...))
	r.Mux.Handle("DELETE /auth/me", httpx.Chain(http.HandlerFunc(h.HandleDelete), guard...))
}

func (r *Router) registerAdminUsers() {
	h := &AdminUsersHandler{AdminService: r.AdminService}

	// The admin surface adds the superuser stage on top of the /auth/me
	// guard.
	guard := []httpx.Middleware{
		Authenticate(r.TokenService, r.UserService),
		ActiveUser(),
		Superuser(),
	}

	r.Mux.Handle("GET /admin/users", httpx.Chain(http.HandlerFunc(h.HandleList), guard...))
	r.Mux.Handle("GET /admin/users/count", httpx.Chain(http.HandlerFunc(h.HandleCount), guard...))
	r.Mux.Handle("POST /admin/users", httpx.Chain(http.HandlerFunc(h.HandleCreate), guard...))
	r.Mux.Handle("GET /admin/users/{id}", httpx.Chain(http.HandlerFunc(h.HandleGet), guard...))
	r.Mux.Handle("PATCH /admin/users/{id}", httpx.Chain(http.HandlerFunc(h.HandleUpdate), guard...))
	r.Mux.Handle("DELETE /admin/users/{id}", httpx.Chain(http.HandlerFunc(h.HandleDelete), guard...))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys))
	r.Mux.Handle("GET /.well-known/jwks.json", JWKSHandler(r.keys))
}
