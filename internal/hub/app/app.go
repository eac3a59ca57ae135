package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dchubs/hub/internal/hub/cache"
	httpapi "github.com/dchubs/hub/internal/hub/http"
	"github.com/dchubs/hub/internal/hub/service"
	"github.com/dchubs/hub/internal/hub/store"
	"github.com/dchubs/hub/internal/hub/store/drivers/sqlite"
	"github.com/dchubs/hub/pkg/cryptox"
	"github.com/dchubs/hub/pkg/httpx"
	"github.com/dchubs/hub/pkg/jwtx"
	"github.com/dchubs/hub/pkg/slogx"
	"github.com/dchubs/hub/pkg/webhook"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// BuildVersion is overridden at build time with -ldflags "-X ...".
var BuildVersion = "v0.1.0"

const metricsNamespace = "hub"

// Sealing purposes. Changing one makes everything sealed under it unreadable.
const (
	sealStore = "hub/store"
	sealCache = "hub/cache"
)

// Application wires the hub service together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	keys     Keys
	db       store.Store
	cache    cache.Cache
	registry *prometheus.Registry
	signer   *jwtx.Signer
	verifier *jwtx.HS256Verifier

	// Services
	tokenService        *service.TokenService
	targetService       *service.TargetService
	voteService         *service.VoteService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg:    cfg,
		logger: NewLogger(cfg),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	keys, err := InitKeys(cfg, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize keys: %w", err)
	}
	app.keys = keys

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initServices(); err != nil {
		_ = app.closeResources()
		return nil, err
	}
	if err := app.initHTTP(); err != nil {
		_ = app.closeResources()
		return nil, err
	}

	return app, nil
}

// NewLogger builds the service logger from cfg.
func NewLogger(cfg Config) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "hub",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
}

// Handler is the root HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Targets is the vote target service, for operator tooling.
func (app *Application) Targets() *service.TargetService { return app.targetService }

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("hub service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		app.housekeepingService.Stop()
		_ = app.closeResources()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains the HTTP server, stops background work and closes the
// store and cache.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down hub service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.closeResources(); err != nil {
		return err
	}

	app.logger.Info("hub service stopped")
	return nil
}

// Close releases the store and cache without touching the server. Used by
// CLI commands that never call Run.
func (app *Application) Close() error { return app.closeResources() }

func (app *Application) closeResources() error {
	var errs []error
	if app.cache != nil {
		if err := app.cache.Close(); err != nil {
			app.logger.Error("error closing cache", "error", err)
			errs = append(errs, err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// OpenStore opens the SQLite database at path and applies pending migrations.
func OpenStore(path string) (*sqlite.Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	return db, nil
}

// initDatabase opens the store and seals it with the configured key.
func (app *Application) initDatabase() error {
	db, err := OpenStore(app.cfg.DatabaseFile)
	if err != nil {
		return err
	}

	sealer, err := cryptox.NewSealer(app.keys.Sealing, sealStore)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize store sealer: %w", err)
	}
	app.db = store.NewSealedStore(db, sealer)

	app.logger.Info("database migrations applied successfully", "file", app.cfg.DatabaseFile)
	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices() error {
	var err error

	app.signer, err = jwtx.NewSigner(app.keys.Signing, jwtx.SignerOptions{
		Issuer:     app.cfg.Issuer,
		AccessTTL:  app.cfg.AccessTTL,
		RefreshTTL: app.cfg.RefreshTTL,
		SessionTTL: app.cfg.SessionTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize signer: %w", err)
	}
	app.verifier = jwtx.NewVerifierHS256(app.keys.Signing, jwtx.VerifyOptions{
		Issuer: app.cfg.Issuer,
		Leeway: 30 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	app.cache, err = cache.New(ctx, cache.Config{
		Driver:        app.cfg.CacheDriver,
		DefaultTTL:    app.cfg.CacheTTL,
		Prefix:        metricsNamespace,
		RedisAddr:     app.cfg.RedisAddr,
		RedisPassword: app.cfg.RedisPassword.Reveal(),
		RedisDB:       app.cfg.RedisDB,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	app.logger.Info("target cache ready", "driver", app.cfg.CacheDriver, "ttl", app.cfg.CacheTTL)

	cacheSealer, err := cryptox.NewSealer(app.keys.Sealing, sealCache)
	if err != nil {
		return fmt.Errorf("failed to initialize cache sealer: %w", err)
	}

	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deliveryMetrics, err := service.NewMetrics(app.registry, metricsNamespace)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	app.tokenService = &service.TokenService{
		Store:    app.db,
		Signer:   app.signer,
		Verifier: app.verifier,
	}
	app.targetService = &service.TargetService{
		Store:  app.db,
		Cache:  app.cache,
		TTL:    app.cfg.CacheTTL,
		Sealer: cacheSealer,
	}
	app.voteService = &service.VoteService{
		Targets: app.targetService,
		Sender:  webhook.NewSender(webhook.SenderOptions{Timeout: app.cfg.WebhookTimeout}),
		Metrics: deliveryMetrics,
		SiteURL: app.cfg.SiteURL,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
	return nil
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() error {
	httpMetrics, err := httpx.NewHTTPMetrics(app.registry, metricsNamespace)
	if err != nil {
		return fmt.Errorf("failed to register http metrics: %w", err)
	}

	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)
	router.Sessions = app.verifier
	router.Metrics = httpMetrics
	router.Cache = app.cache
	router.CSRF = httpx.NewCSRFGuard(httpx.CSRFConfig{
		Domain:   app.cfg.CSRFDomain,
		Secure:   app.cfg.CSRFSecure,
		OnReject: func(*http.Request) { httpMetrics.CSRFRejections.Inc() },
	})
	router.Origin = httpx.NewOriginGuard(app.cfg.AllowedOrigins, func(*http.Request) {
		httpMetrics.OriginRejections.Inc()
	})

	router.TokenService = app.tokenService
	router.VoteService = app.voteService
	router.ApplyRoutes()

	app.router = router
	app.logger.Info("origin allow-list", "origins", app.cfg.AllowedOrigins)

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
