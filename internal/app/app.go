// Package app wires the service together and runs it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/bissquit/userdesk/internal/config"
	"github.com/bissquit/userdesk/internal/users/memory"
	"github.com/bissquit/userdesk/internal/version"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// App owns the user store and both HTTP servers. The store lives exactly
// as long as the App.
type App struct {
	cfg     *config.Config
	log     *slog.Logger
	store   *memory.Repository
	api     *http.Server
	metrics *http.Server
}

// New builds the application from cfg and seeds the bootstrap admin.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg:   cfg,
		log:   newLogger(cfg.Log),
		store: memory.NewRepository(),
	}

	if cfg.UsesDevSecret() {
		a.log.Warn("jwt.secret_key is not set, signing tokens with the development secret")
	}

	router, err := a.router()
	if err != nil {
		return nil, err
	}

	a.api = &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	metricsRouter := chi.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.Handler())
	a.metrics = &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.MetricsPort),
		Handler:           metricsRouter,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return a, nil
}

// Run serves until ctx is cancelled, then shuts down within
// server.shutdown_timeout.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)
	serve := func(name string, srv *http.Server) {
		a.log.Info(name+" listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("%s: %w", name, err)
		}
	}

	a.log.Info("starting", "version", version.Version, "environment", a.cfg.Environment)
	go serve("api server", a.api)
	go serve("metrics server", a.metrics)

	select {
	case <-ctx.Done():
		a.log.Info("shutdown signal received")
	case err := <-errCh:
		a.log.Error("server failed", "error", err)
		_ = a.Shutdown(context.Background())
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	return a.Shutdown(shutdownCtx)
}

// Shutdown stops both servers, waiting for in-flight requests until ctx ends.
func (a *App) Shutdown(ctx context.Context) error {
	errCh := make(chan error, 2)
	for _, srv := range []*http.Server{a.api, a.metrics} {
		go func() { errCh <- srv.Shutdown(ctx) }()
	}
	return errors.Join(<-errCh, <-errCh)
}

// MetricsServer returns the server exposing /metrics.
func (a *App) MetricsServer() *http.Server {
	return a.metrics
}

// Router returns the API handler.
func (a *App) Router() http.Handler {
	return a.api.Handler
}
