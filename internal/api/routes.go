package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes sets up the API routes
func SetupRoutes(handler *Handler, logger *slog.Logger, registry *prometheus.Registry) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(Recovery())
	router.Use(CORS())
	router.Use(Logger(logger))
	router.Use(Metrics(registry))

	// Health check
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// API v1
	v1 := router.Group("/api/v1")
	{
		owners := v1.Group("/owners/:owner")
		{
			owners.GET("/projects", handler.GetProjects)
			owners.GET("/projects/:name", handler.GetProject)
			owners.GET("/stats", handler.GetStats)
		}
	}

	return router
}
