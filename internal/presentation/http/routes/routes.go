// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"time"

	"github.com/HearthApp/hearth-go/internal/application/container"
	"github.com/HearthApp/hearth-go/internal/presentation/http/handlers"
	"github.com/HearthApp/hearth-go/internal/presentation/http/middleware"
	"github.com/HearthApp/hearth-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.Recovery(container.Logger))
	r.Use(middleware.CORSMiddleware())

	analyticsHandlers := handlers.NewAnalyticsHandlers(container.ReportService, container.Logger, container.PerfTracker)
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.Logger, container.PerfTracker)
	healthHandlers := handlers.NewHealthHandlers(container.DB)

	analyticsLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RequestsPerWindow: config.RateLimitPerMinute,
		WindowDuration:    time.Minute,
	})
	authLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RequestsPerWindow: config.AuthRateLimitPerMinute,
		WindowDuration:    time.Minute,
	})

	api := r.Group("/api/v1")
	{
		api.GET("/health", healthHandlers.HandleHealth)
		api.POST("/auth/login", authLimiter.Middleware(), authHandlers.PostLogin)

		analytics := api.Group("/analytics")
		analytics.Use(analyticsLimiter.Middleware())
		analytics.Use(middleware.AdminOnly(container.AuthService, container.Logger))
		{
			analytics.GET("/lifecycle", analyticsHandlers.HandleLifecycleAnalytics)
		}
	}

	return r
}
