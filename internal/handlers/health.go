package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// healthPingTimeout bounds the database ping on health checks.
const healthPingTimeout = 2 * time.Second

// HealthHandler serves the service health endpoint.
type HealthHandler struct {
	db      *sql.DB
	service string
	version string
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(db *sql.DB, service, version string) *HealthHandler {
	return &HealthHandler{
		db:      db,
		service: service,
		version: version,
	}
}

// Health reports service status including database reachability.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	status := "healthy"
	code := http.StatusOK
	checks := gin.H{"database": "ok"}

	if err := h.db.PingContext(ctx); err != nil {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
		checks["database"] = err.Error()
	}

	c.JSON(code, gin.H{
		"status":  status,
		"service": h.service,
		"version": h.version,
		"checks":  checks,
	})
}
