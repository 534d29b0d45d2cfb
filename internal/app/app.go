// Package app arma el servicio: config → stores → services → router, y
// maneja el ciclo de vida del servidor HTTP y del sweeper.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/shelfauth/internal/config"
	adminctrl "github.com/dropDatabas3/shelfauth/internal/http/controllers/admin"
	authctrl "github.com/dropDatabas3/shelfauth/internal/http/controllers/auth"
	healthctrl "github.com/dropDatabas3/shelfauth/internal/http/controllers/health"
	mw "github.com/dropDatabas3/shelfauth/internal/http/middlewares"
	"github.com/dropDatabas3/shelfauth/internal/http/router"
	authsvc "github.com/dropDatabas3/shelfauth/internal/http/services/auth"
	healthsvc "github.com/dropDatabas3/shelfauth/internal/http/services/health"
	jwtx "github.com/dropDatabas3/shelfauth/internal/jwt"
	"github.com/dropDatabas3/shelfauth/internal/members"
	"github.com/dropDatabas3/shelfauth/internal/metrics"
	"github.com/dropDatabas3/shelfauth/internal/observability/logger"
	"github.com/dropDatabas3/shelfauth/internal/providers"
	"github.com/dropDatabas3/shelfauth/internal/tokenstore"

	// Registro de proveedores vía init()
	_ "github.com/dropDatabas3/shelfauth/internal/providers/github"
	_ "github.com/dropDatabas3/shelfauth/internal/providers/google"
	_ "github.com/dropDatabas3/shelfauth/internal/providers/kakao"
	_ "github.com/dropDatabas3/shelfauth/internal/providers/naver"
)

// Option ajusta el armado (tests).
type Option func(*options)

type options struct {
	providerHTTP *http.Client
	registry     *providers.Registry
	now          func() time.Time
}

// WithProviderHTTPClient reemplaza el http.Client usado contra los proveedores.
func WithProviderHTTPClient(hc *http.Client) Option { return func(o *options) { o.providerHTTP = hc } }

// WithProviderRegistry reemplaza el registry global de proveedores.
func WithProviderRegistry(r *providers.Registry) Option { return func(o *options) { o.registry = r } }

// WithClock reemplaza time.Now en issuer, token store y resolver.
func WithClock(now func() time.Time) Option { return func(o *options) { o.now = now } }

// App es el servicio cableado.
type App struct {
	cfg          *config.Config
	stores       *Stores
	closeLimiter func() error
	Handler      http.Handler
	Sweeper      *tokenstore.Sweeper
	Issuer       *jwtx.Issuer
}

// New construye la aplicación completa. El caller debe llamar Close.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := options{now: time.Now}
	for _, fn := range opts {
		fn(&o)
	}
	log := logger.From(ctx).With(logger.Component("app"))

	trusted, err := mw.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	stores, err := OpenStores(ctx, cfg, o.now)
	if err != nil {
		return nil, err
	}

	issuer, err := jwtx.NewIssuer(jwtx.Config{
		AccessSecret:  []byte(cfg.JWT.AccessSecret),
		RefreshSecret: []byte(cfg.JWT.RefreshSecret),
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
		Issuer:        cfg.JWT.Issuer,
		Leeway:        cfg.JWT.Leeway,
		Now:           o.now,
	})
	if err != nil {
		stores.Close()
		return nil, fmt.Errorf("jwt issuer: %w", err)
	}

	creds := make(map[string]providers.Credentials, len(cfg.Providers))
	for tag, p := range cfg.Providers {
		creds[tag] = providers.Credentials{
			ClientID:     p.ClientID,
			ClientSecret: p.ClientSecret,
			RedirectURL:  p.RedirectURL,
			TokenURL:     p.TokenURL,
			UserInfoURL:  p.UserInfoURL,
		}
	}
	provClient := providers.NewClient(o.registry, creds, o.providerHTTP)
	log.Info("providers enabled", logger.Any("providers", provClient.Enabled()))

	// 1. Services
	authServices := authsvc.NewServices(authsvc.Deps{
		Providers: provClient,
		Members:   members.NewResolver(stores.Accounts, members.WithClock(o.now)),
		Issuer:    issuer,
		Tokens:    stores.Tokens,
		Accounts:  stores.Accounts,
	})
	healthDeps := healthsvc.Deps{
		Version:    cfg.App.Version,
		TokenStore: stores.Tokens.Ping,
	}
	if stores.PG != nil {
		healthDeps.DB = stores.PG.Ping
	}
	healthServices := healthsvc.NewServices(healthDeps)

	// 2. Metrics
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		mcfg := metrics.Config{Registry: reg}
		if stores.PG != nil {
			mcfg.Pool = stores.PG.Pool
		}
		if metricsHandler, err = metrics.Register(mcfg); err != nil {
			stores.Close()
			return nil, fmt.Errorf("metrics: %w", err)
		}
	}

	// 3. Controllers + rutas
	limiter, closeLimiter := newRateLimiter(cfg, o.now)
	handler := router.New(router.Deps{
		Auth:           authctrl.NewControllers(authServices),
		Admin:          adminctrl.NewControllers(),
		Health:         healthctrl.NewControllers(healthServices),
		Verifier:       issuer,
		Blacklist:      stores.Tokens,
		Accounts:       stores.Accounts,
		RateLimiter:    limiter,
		TrustedProxies: trusted,
		Metrics:        metricsHandler,
		CORSOrigins:    cfg.Server.CORSAllowedOrigins,
	})

	return &App{
		cfg:          cfg,
		stores:       stores,
		closeLimiter: closeLimiter,
		Handler:      handler,
		Sweeper:      tokenstore.NewSweeper(stores.Tokens, cfg.TokenStore.SweepInterval),
		Issuer:       issuer,
	}, nil
}

// Run sirve HTTP y corre el sweeper hasta que ctx termina; después hace un
// shutdown ordenado dentro de server.shutdown_timeout.
func (a *App) Run(ctx context.Context) error {
	log := logger.From(ctx).With(logger.Component("app"))

	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           a.Handler,
		ReadHeaderTimeout: a.cfg.Server.ReadHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http server listening", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return a.Sweeper.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down http server")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close libera stores, pool y el cliente del rate limiter.
func (a *App) Close() error {
	return errors.Join(a.closeLimiter(), a.stores.Close())
}

// Stores expone la persistencia cableada (comandos de operación, tests).
func (a *App) Stores() *Stores { return a.stores }
