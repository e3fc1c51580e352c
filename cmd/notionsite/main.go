// Package main is the entry point for the site API server. It loads
// configuration, connects the cache, wires the ingestion pipeline, and
// starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"notionsite/internal/cache"
	"notionsite/internal/config"
	"notionsite/internal/fetcher"
	"notionsite/internal/handlers"
	"notionsite/internal/metrics"
	"notionsite/internal/notion"
	"notionsite/internal/router"
	"notionsite/internal/site"
)

func main() {
	// Optional .env file for local development; real environments set
	// variables directly.
	_ = godotenv.Load()

	// Structured logger — outputs JSON in production, text in development.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Load the static site-config layer (built-in defaults plus optional
	// YAML file).
	siteConf, err := config.LoadSite(cfg.SiteDefaultsFile)
	if err != nil {
		slog.Error("failed to load site defaults", "error", err)
		os.Exit(1)
	}

	// Pick the cache backend: Valkey when configured, in-memory otherwise.
	var store cache.Store
	if cfg.ValkeyHost != "" {
		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		store = cache.NewValkey(valkeyClient, cfg.CacheTTL)
	} else {
		slog.Warn("valkey not configured — using in-memory cache")
		store = cache.NewMemory()
	}
	loader := cache.NewLoader(store, cfg.CacheTTL)

	// Metrics registry with the standard process collectors.
	registry := prom.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewRecorder(registry)

	// Wire the ingestion pipeline: upstream client, fetch orchestrator,
	// assembler, and the service facade.
	client := notion.NewClient(notion.ClientConfig{
		TokenV2:    cfg.NotionToken,
		ActiveUser: cfg.NotionActiveUser,
	})
	fetch := fetcher.New(loader, client, recorder)
	assembler := site.NewAssembler(fetch, siteConf)
	service := site.NewService(fetch, assembler, siteConf)

	siteHandlers := handlers.NewSite(service, cfg.NotionPageID)
	r := router.New(siteHandlers, metrics.Handler(registry))

	// Write timeout must cover a cold-cache fetch with full retries.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
