// Package config loads gateway configuration from a .env file and
// environment variables.
package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	APIKey         string
	ReturnDomain   string
	StoragePath    string
	MaxFileSize    int64
	RateLimitRPS   float64
	RateLimitBurst int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, reading from environment")
	}

	return &Config{
		Port:           getEnv("PORT", "5000"),
		APIKey:         getEnv("API_KEY", ""),
		ReturnDomain:   getEnv("RETURN_DOMAIN", "localhost:5000"),
		StoragePath:    getEnv("STORAGE_PATH", "./static/uploads"),
		MaxFileSize:    getEnvInt64("MAX_FILE_SIZE", 32*1024*1024), // 32MB
		RateLimitRPS:   getEnvFloat64("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 20),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat64(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}
