package main

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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/site-content-types/pkg/cms"
	"github.com/tendant/site-content-types/pkg/cms/config"
	"github.com/tendant/site-content-types/pkg/cms/store/memory"
	"github.com/tendant/site-content-types/pkg/cms/store/postgres"
	"github.com/tendant/site-content-types/pkg/contenttypes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx := context.Background()

	store, cleanup, err := newStore(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize store", "err", err)
		os.Exit(1)
	}
	defer cleanup()

	hostOpts, err := cfg.HostOptions(logger)
	if err != nil {
		slog.Error("Invalid host options", "err", err)
		os.Exit(1)
	}
	host, err := cms.New(store, hostOpts...)
	if err != nil {
		slog.Error("Failed to create host", "err", err)
		os.Exit(1)
	}

	registry, err := contenttypes.New(host, contenttypes.WithLogger(logger))
	if err != nil {
		slog.Error("Failed to create content type registry", "err", err)
		os.Exit(1)
	}
	if err := registry.Table().Validate(); err != nil {
		slog.Warn("Content type table is inconsistent", "err", err)
	}

	host.Use(contenttypes.LoggingHooks(logger))
	host.Use(registry.Hooks())

	if err := host.Start(ctx); err != nil {
		slog.Error("Failed to start host", "err", err)
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Mount("/", host)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: r,
	}

	go func() {
		slog.Info("Site server starting", "port", cfg.Port, "env", cfg.Environment,
			"host_version", host.Version(), "database", cfg.DatabaseType())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "err", err)
	}

	slog.Info("Server exiting")
}

func newStore(ctx context.Context, cfg *config.Config) (cms.Store, func(), error) {
	if cfg.DatabaseType() != "postgres" {
		return memory.New(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := postgres.NewWithPool(pool)
	if err := store.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return store, pool.Close, nil
}
