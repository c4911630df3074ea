// Package config loads bot configuration from a .env file and
// environment variables.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Token         string
	ChannelID     string
	APIKey        string
	UploadURL     string
	DatabaseURL   string
	UploadTimeout time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, reading from environment")
	}

	return &Config{
		Token:         getEnv("DISCORD_BOT_TOKEN", ""),
		ChannelID:     getEnv("DISCORD_CHANNEL_ID", ""),
		APIKey:        getEnv("API_KEY", ""),
		UploadURL:     getEnv("UPLOAD_URL", "http://localhost:5000/upload"),
		DatabaseURL:   getEnv("DATABASE_URL", "image_database.db"),
		UploadTimeout: getEnvDuration("UPLOAD_TIMEOUT", 30*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if secs, err := strconv.ParseFloat(val, 64); err == nil {
			return time.Duration(secs * float64(time.Second))
		}
	}
	return fallback
}
