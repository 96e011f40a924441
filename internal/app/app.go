// Package app wires the application: configuration, logger, repository,
// cache, services, handlers and the HTTP server lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"pricecal/internal/cache"
	"pricecal/internal/config"
	"pricecal/internal/dataset"
	apierrors "pricecal/internal/errors"
	"pricecal/internal/infrastructure"
	"pricecal/internal/middleware"
	"pricecal/internal/services"
	handlers "pricecal/internal/transport/http"
)

// Application is the dependency container for one server process.
type Application struct {
	Config     *config.Config
	Logger     *slog.Logger
	Router     *chi.Mux
	Server     *http.Server
	Repository *dataset.Repository
	Cache      *cache.Cache
	Calendar   *services.CalendarService
}

// NewApplication builds the full dependency graph. Configuration and
// reference data problems fail fast here, before the server binds.
func NewApplication(configFile string) (*Application, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.Int("port", cfg.Server.Port),
		slog.String("data_dir", cfg.Data.Dir),
	)

	repo := dataset.NewRepository(cfg.Data.Dir, logger)
	if err := repo.Reload(); err != nil {
		return nil, fmt.Errorf("load reference data: %w", err)
	}

	store := cache.New()

	calendarService, err := services.NewCalendarService(repo, store, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("build calendar service: %w", err)
	}

	app := &Application{
		Config:     cfg,
		Logger:     logger,
		Repository: repo,
		Cache:      store,
		Calendar:   calendarService,
	}
	app.Router = app.buildRouter()
	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return app, nil
}

// buildRouter assembles the middleware chain and mounts the handlers.
func (a *Application) buildRouter() *chi.Mux {
	errorHandler := apierrors.NewHandler(a.Logger)
	rateLimiter := middleware.NewRateLimiter(a.Config.Server.RateLimitRPS, a.Config.Server.RateLimitBurst, a.Logger)
	metrics := middleware.NewMetrics()

	calendarHandler := handlers.NewCalendarHandler(a.Calendar, a.Logger, errorHandler, a.Config.Calendar.ShowEmptyMonths)
	quoteHandler := handlers.NewQuoteHandler(a.Calendar, a.Logger, errorHandler)
	healthHandler := handlers.NewHealthHandler(a.Calendar, a.Repository, a.Logger, errorHandler)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(a.Logger))
	r.Use(metrics.Handler)
	r.Use(middleware.Recoverer(a.Logger))
	r.Use(rateLimiter.Handler)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/", healthHandler.Routes())
		r.Mount("/calendar", calendarHandler.Routes())
		r.Mount("/quote", quoteHandler.Routes())
	})
	r.Method(http.MethodGet, "/metrics", metrics.Expose())

	return r
}

// Run starts the HTTP server and blocks until shutdown.
func (a *Application) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		a.Logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()
	if err := a.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	a.Logger.Info("server stopped")
	return nil
}
