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

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/suar-net/ghost-gateway/internal/config"
	"github.com/suar-net/ghost-gateway/internal/handler"
	"github.com/suar-net/ghost-gateway/internal/logging"
	"github.com/suar-net/ghost-gateway/internal/metrics"
	"github.com/suar-net/ghost-gateway/internal/proxy"
	"github.com/suar-net/ghost-gateway/internal/service"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ghost-gateway: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Uptime is measured from here.
	startedAt := time.Now()

	// Load .env file
	envErr := godotenv.Load()

	// load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(cfg.Log, os.Stdout)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	slog.SetDefault(logger)
	logStartupNotes(logger, envErr, cfg.Warnings)

	collector := metrics.NewCollector(nil, startedAt)
	upstream := service.NewUpstreamService(proxy.Target{
		BaseURL: cfg.Upstream.BaseURL,
		APIKey:  cfg.Upstream.APIKey,
		Timeout: cfg.Upstream.RequestTimeout,
	}, logger, collector)

	router := handler.SetupRouter(handler.Dependencies{
		Config:    cfg,
		Upstream:  upstream,
		Metrics:   collector,
		Logger:    logger,
		Version:   version,
		StartedAt: startedAt,
	})

	server := &http.Server{
		Addr:         cfg.Server.BindAddr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("gateway listening",
			"addr", cfg.Server.BindAddr,
			"upstream", cfg.Upstream.BaseURL,
			"version", version,
			"request_timeout", cfg.Upstream.RequestTimeout.String(),
			"max_request_size", cfg.Server.MaxRequestSize,
			"cors_origins", cfg.CORS.AllowedOrigins,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("cannot run server on %s: %w", cfg.Server.BindAddr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down the server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		logger.Info("server successfully shut down")
		return nil
	})

	return g.Wait()
}
