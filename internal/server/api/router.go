package api

import (
	"glimpse/internal/server/config"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// SetupRouter creates and configures the echo router with all routes and
// middleware. The caller owns the rate limiter's lifecycle.
func SetupRouter(handler *Handler, cfg *config.Config, uploadLimiter *RateLimiter) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Global middleware
	e.Use(middleware.Recover())
	e.Use(RequestLogger())

	// Health
	e.GET("/health", handler.HandleHealth)

	// Upload (authenticated, rate-limited)
	e.POST("/upload", handler.HandleUpload, APIKeyAuth(cfg.APIKey), uploadLimiter.Middleware())

	// Retrieval
	e.GET("/i/:filename", handler.HandleServeFile)

	return e
}
