package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/nkoval/coiserve/internal/livereload"
	"github.com/nkoval/coiserve/internal/metrics"
	"github.com/nkoval/coiserve/internal/ratelimit"
	"github.com/nkoval/coiserve/internal/server"
	"github.com/nkoval/coiserve/internal/webroot"
	"github.com/nkoval/coiserve/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)

	entry := filepath.Join(cfg.Site.Root, cfg.Site.Index)
	if _, err := os.Stat(entry); err != nil {
		// Not fatal: the file may appear later; requests 404 until then.
		logger.Warn("entry document not found at startup", "path", entry)
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	limiter := ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	webrootHandler := webroot.New(cfg.Site.Root, cfg.Site.Index, cfg.Site.StaticDir, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var reloadHandler *livereload.Handler
	if cfg.Reload.Enabled {
		hub := livereload.NewHub(logger)
		go hub.Run(ctx)

		watcher := livereload.NewWatcher(
			[]string{cfg.Site.Root, cfg.Site.StaticDir},
			cfg.Reload.PollInterval,
			hub,
			m,
			logger,
		)
		go watcher.Run(ctx)

		reloadHandler = livereload.NewHandler(hub, cfg.CORS.AllowedOrigins, logger)
		logger.Info("live reload enabled", "poll_interval", cfg.Reload.PollInterval.String())
	}

	router := server.NewRouter(cfg, webrootHandler, reloadHandler, limiter, m, registry, logger)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server started",
			"addr", cfg.Addr(),
			"site_root", cfg.Site.Root,
			"static_dir", cfg.Site.StaticDir,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	}
}

func newLogger(level string) *slog.Logger {
	var slogLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel})
	return slog.New(handler)
}
