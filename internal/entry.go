// Package internal provides the main application initialization and runtime logic.
package internal

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
	"golang.org/x/sync/errgroup"

	"github.com/starford/tavle/internal/api"
	"github.com/starford/tavle/internal/assets"
	"github.com/starford/tavle/internal/contentservice"
	"github.com/starford/tavle/internal/index"
	"github.com/starford/tavle/internal/mcpserver"
	"github.com/starford/tavle/internal/models"
	"github.com/starford/tavle/internal/sse"
	"github.com/starford/tavle/internal/store"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("data_root", cfg.Data.Root),
		slog.String("store_path", cfg.SQLite.StorePath),
		slog.String("index_path", cfg.SQLite.IndexPath),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Create the managed data directory skeleton.
	if err := assets.EnsureLayout(cfg.Data.Root); err != nil {
		return fmt.Errorf("create data layout: %w", err)
	}
	astore, err := assets.NewStore(cfg.Data.Root)
	if err != nil {
		return fmt.Errorf("init asset store: %w", err)
	}

	// Initialize the entity store and search index databases.
	st, err := store.Open(cfg.SQLite.StorePath)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer st.Close()

	idx, err := index.Open(cfg.SQLite.IndexPath)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer idx.Close()

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	// Content service publishes every mutation to SSE clients.
	svc := contentservice.NewService(st, idx, logger, func(kind string, t models.EntityType, id string) {
		broker.PublishEntityEvent(kind, string(t), id)
	})

	// Rebuild the index from the store so a stale or missing index file
	// never serves wrong results.
	if report, rErr := svc.RebuildIndex(ctx); rErr != nil {
		logger.Warn("initial index rebuild failed", slog.String("error", rErr.Error()))
	} else {
		logger.Info("index rebuilt", slog.Int("records", report.Total))
	}

	if app.mcp {
		logger.Info("Starting MCP server on stdio")
		return mcpserver.New(svc, astore).ServeStdio()
	}

	apiRouter := api.NewRouter(svc, astore, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the asset tree for out-of-band changes and notify SSE clients.
	g.Go(func() error {
		if wErr := astore.Watch(gCtx, logger, func(kind string, loc assets.Locator) {
			broker.PublishAssetEvent(kind, string(loc))
		}); wErr != nil {
			logger.Warn("asset watcher stopped", slog.String("error", wErr.Error()))
		}
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
