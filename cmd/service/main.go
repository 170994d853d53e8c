// cmd/service/main.go
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

	"gaslib-catalog/internal/api"
	"gaslib-catalog/internal/app"
	"gaslib-catalog/internal/config"
	"gaslib-catalog/internal/syncer"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Application startup error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Initialize structured logger
	logLevel := new(slog.LevelVar)
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	// 2. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.SetLogLevel(cfg.LogLevel, logLevel)
	logger.Info("Configuration loaded successfully", "store", cfg.Store, "github_mode", cfg.GithubMode)

	// 3. Setup context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// 4. Initialize storage, GitHub access and the catalog service
	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	// 5. Start the refresh loop in a separate goroutine
	if cfg.RefreshInterval > 0 {
		appSyncer, err := syncer.NewSyncer(application.Service, logger, cfg.SeedRepositories, cfg.RefreshInterval)
		if err != nil {
			return fmt.Errorf("failed to create syncer: %w", err)
		}
		go appSyncer.Start(ctx)
	} else {
		logger.Info("REFRESH_INTERVAL is 0, periodic refresh disabled")
	}

	// 6. Serve the HTTP API
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(application.Service, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// 7. Wait for shutdown signal
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received. Exiting.")
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}
