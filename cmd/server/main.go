package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"glimpse/internal/server/api"
	"glimpse/internal/server/config"
	"glimpse/internal/server/service"
	"glimpse/internal/server/storage"
)

func main() {
	// Structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load config
	cfg := config.Load()
	if cfg.APIKey == "" {
		slog.Error("API_KEY must be set")
		os.Exit(1)
	}
	slog.Info("configuration loaded",
		"port", cfg.Port,
		"storage_path", cfg.StoragePath,
		"return_domain", cfg.ReturnDomain,
		"max_file_size", cfg.MaxFileSize,
	)

	// Initialize storage
	store := storage.NewFileSystemStore(cfg.StoragePath)
	if err := store.EnsureDir(); err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	slog.Info("file storage initialized", "path", cfg.StoragePath)

	// Initialize service
	svc := service.NewUploadService(store, cfg.ReturnDomain)

	// Setup HTTP router
	handler := api.NewHandler(svc, cfg.MaxFileSize)
	uploadLimiter := api.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	e := api.SetupRouter(handler, cfg, uploadLimiter)

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		slog.Info("starting server", "addr", addr, "return_domain", cfg.ReturnDomain)
		if err := e.Start(addr); err != nil {
			slog.Info("server stopped", "reason", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutting down", "signal", sig)

	// Stop accepting new requests, finish in-flight with 30s timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	uploadLimiter.Stop()

	slog.Info("server exited cleanly")
}
