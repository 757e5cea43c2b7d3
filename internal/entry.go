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

	"github.com/conduitapp/conduit/internal/api"
	"github.com/conduitapp/conduit/internal/inference"
	"github.com/conduitapp/conduit/internal/memorystore"
	"github.com/conduitapp/conduit/internal/sse"
	"github.com/conduitapp/conduit/internal/storage"
	"github.com/conduitapp/conduit/internal/watcher"
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
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("memories_path", cfg.Memories.Path),
		slog.String("inference_backend", cfg.Inference.Backend),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize storage and the memory store.
	fs, err := storage.NewFS(cfg.Memories.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	store := memorystore.New(fs)

	// Select the inference engine.
	engine, err := buildEngine(&cfg.Inference)
	if err != nil {
		return err
	}

	// SSE broker for memory change events.
	broker := sse.NewBroker()
	defer broker.Close()

	// Build API service and router.
	catalog := make([]api.CatalogEntry, 0, len(cfg.Models))
	for _, m := range cfg.Models {
		catalog = append(catalog, api.CatalogEntry{ID: m.ID, OwnedBy: m.OwnedBy})
	}
	svc := api.NewService(store, engine, catalog)
	apiRouter := api.NewRouter(svc, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints.
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

	r.Mount("/", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the memories directory and publish SSE events for external
	// edits as well as API writes.
	g.Go(func() error {
		if err := watcher.Watch(gCtx, fs, cfg.Memories.Path, logger, func(kind, id string) {
			broker.PublishMemoryEvent(kind, id)
		}); err != nil {
			logger.Warn("watcher stopped", slog.String("error", err.Error()))
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

func buildEngine(cfg *InferenceConfig) (inference.Engine, error) {
	switch cfg.Backend {
	case "", InferenceBackendStub:
		return inference.NewStub(), nil
	case InferenceBackendOpenAI:
		return inference.NewOpenAI(cfg.BaseURL, cfg.APIKey, cfg.ChatModel, cfg.EmbeddingModel), nil
	default:
		return nil, fmt.Errorf("unknown inference backend: %q", cfg.Backend)
	}
}
