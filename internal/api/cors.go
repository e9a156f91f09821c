package api

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const corsMaxAgeHours = 12

// corsOrigins returns the allowed origins for the admin frontend, from the
// CORS_ORIGINS environment variable (comma-separated) or the local default.
func corsOrigins() []string {
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins := strings.Split(env, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		return origins
	}

	return []string{
		"http://localhost:3000", // admin dashboard frontend
	}
}

// corsMiddleware creates the CORS middleware for the admin API.
func corsMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins: corsOrigins(),
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Content-Length", "Accept",
			"Authorization", "X-Request-ID",
		},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           corsMaxAgeHours * time.Hour,
	})
}
