package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"glimpse/internal/bot/command"
	"glimpse/internal/bot/config"
	"glimpse/internal/bot/discord"
	"glimpse/internal/bot/index"
)

func main() {
	// Structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load config
	cfg := config.Load()
	if cfg.Token == "" {
		slog.Error("DISCORD_BOT_TOKEN must be set")
		os.Exit(1)
	}
	if cfg.APIKey == "" {
		slog.Error("API_KEY must be set")
		os.Exit(1)
	}
	slog.Info("configuration loaded",
		"upload_url", cfg.UploadURL,
		"database_url", cfg.DatabaseURL,
		"channel_id", cfg.ChannelID,
	)

	// Open the ownership index
	ctx := context.Background()
	repo, err := index.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to open ownership index", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	// Wire commands to the gateway client and index
	client := command.NewClient(cfg.UploadURL, cfg.APIKey, cfg.UploadTimeout)
	cmds := command.New(client, repo)

	// Connect to Discord
	bot, err := discord.New(cfg.Token, cmds)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}
	if err := bot.Start(); err != nil {
		slog.Error("failed to start bot", "error", err)
		os.Exit(1)
	}
	slog.Info("bot started")

	// Run until interrupted
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutting down", "signal", sig)

	if err := bot.Stop(); err != nil {
		slog.Error("failed to close discord session", "error", err)
	}

	slog.Info("bot exited cleanly")
}
