// Package router arma el árbol de rutas HTTP sobre chi.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	adminctrl "github.com/dropDatabas3/shelfauth/internal/http/controllers/admin"
	authctrl "github.com/dropDatabas3/shelfauth/internal/http/controllers/auth"
	healthctrl "github.com/dropDatabas3/shelfauth/internal/http/controllers/health"
	httperrors "github.com/dropDatabas3/shelfauth/internal/http/errors"
	mw "github.com/dropDatabas3/shelfauth/internal/http/middlewares"
	"github.com/dropDatabas3/shelfauth/internal/rate"
)

// Deps contiene todas las dependencias del router.
type Deps struct {
	Auth   *authctrl.Controllers
	Admin  *adminctrl.Controllers
	Health *healthctrl.Controllers

	// Authenticate
	Verifier  mw.TokenVerifier
	Blacklist mw.BlacklistChecker
	Accounts  mw.AccountFinder

	// RateLimiter opcional para login y reissue (por IP + ruta).
	RateLimiter    rate.Limiter
	// TrustedProxies vacío: la IP del cliente es la del socket.
	TrustedProxies mw.TrustedProxies

	// Metrics handler de /metrics; nil no monta la ruta.
	Metrics     http.Handler
	CORSOrigins []string
}

// New construye el handler raíz.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	// Orden: request id → IP cliente → recover → logging → métricas → headers → CORS → identidad
	r.Use(
		mw.WithRequestID(),
		mw.WithClientIP(d.TrustedProxies),
		mw.WithRecover(),
		mw.WithLogging(),
		mw.WithMetrics(),
		mw.WithSecurityHeaders(),
		mw.WithCORS(d.CORSOrigins),
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	registerHealthRoutes(r, d)

	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(d.Verifier, d.Blacklist, d.Accounts))
		r.Route("/api/v1", func(r chi.Router) {
			registerAuthRoutes(r, d.Auth, d.RateLimiter)
			registerAdminRoutes(r, d.Admin)
		})
	})

	return r
}

// registerHealthRoutes: sin identidad, sólo infra.
func registerHealthRoutes(r chi.Router, d Deps) {
	if d.Health != nil {
		r.Get("/healthz", d.Health.Health.Healthz)
		r.Get("/readyz", d.Health.Health.Readyz)
	}
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", mw.Chain(d.Metrics, mw.WithNoStore()))
	}
}

func registerAuthRoutes(r chi.Router, c *authctrl.Controllers, limiter rate.Limiter) {
	if c == nil {
		return
	}

	r.Group(func(r chi.Router) {
		r.Use(mw.WithNoStore())

		limited := r.With(mw.WithRateLimit(mw.RateLimitConfig{Limiter: limiter}))

		// GET /api/v1/oauth2/{provider}?code=...
		limited.Get("/oauth2/{provider}", c.Login.Login)
		limited.Post("/auth/reissue", c.Reissue.Reissue)

		r.Post("/auth/logout", c.Logout.Logout)

		r.With(mw.Require(mw.Authenticated)).Get("/auth/me", c.Me.Me)
	})
}

func registerAdminRoutes(r chi.Router, c *adminctrl.Controllers) {
	if c == nil {
		return
	}

	r.With(mw.Require(mw.Authenticated, mw.Admin)).Get("/admin/ping", c.Ping.Ping)
}
