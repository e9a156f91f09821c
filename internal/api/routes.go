package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/moderation/internal/handlers"
	"github.com/jonesrussell/moderation/internal/metrics"
	"github.com/jonesrussell/moderation/internal/middleware"
)

// SetupRoutes configures all API routes. The novice endpoints require a
// valid admin token carrying the author-activation permission.
func SetupRoutes(
	router *gin.Engine,
	noviceHandler *handlers.NoviceHandler,
	healthHandler *handlers.HealthHandler,
	m *metrics.Metrics,
	jwtSecret string,
) {
	router.Use(m.GinMiddleware())

	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	novices := router.Group("/api/v1/novices")
	novices.Use(middleware.Auth(jwtSecret))
	novices.Use(middleware.RequirePermission(middleware.PermActivateAuthors))

	novices.GET("", noviceHandler.List)
	novices.GET("/:username", noviceHandler.Lookup)
	novices.POST("/:username", noviceHandler.Decide)
}
