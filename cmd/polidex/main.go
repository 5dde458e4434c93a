// Package main is the entry point for the polidex API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/text/language"

	"polidex/internal/app"
	"polidex/internal/config"
	"polidex/internal/handlers"
	"polidex/internal/imageproxy"
	"polidex/internal/middleware"
	"polidex/internal/router"
	"polidex/internal/sharecard"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON everywhere else.
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"store", cfg.StoreBackend,
	)

	services, err := app.Open(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open services", "error", err)
		os.Exit(1)
	}
	defer services.Close()

	// Image relay, also used by the card renderer to fetch photos.
	images := imageproxy.New(cfg.ImageAllowedHosts)

	var renderer *sharecard.Renderer
	if services.Cards != nil {
		renderer, err = sharecard.NewRenderer(images, services.Cards)
	} else {
		renderer, err = sharecard.NewRenderer(images, nil)
	}
	if err != nil {
		slog.Error("failed to initialize share-card renderer", "error", err)
		os.Exit(1)
	}

	cardLimiter := middleware.NewRateLimiter(cfg.ShareRateLimit, time.Minute)
	defer cardLimiter.Stop()

	publicHandlers := handlers.NewPublic(services.Catalog, language.English)
	shareHandlers := handlers.NewShare(services.Catalog, renderer, cfg.PublicBaseURL)

	r := router.New(services.Catalog, publicHandlers, shareHandlers, images, cardLimiter)

	// WriteTimeout covers a store fetch with retries plus a card render.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
