package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/hearth/internal/middleware"
)

const (
	// APIVersion is the current version of the API
	APIVersion = "0.1.0"
	// HealthCheckTimeout is the timeout for database health checks
	HealthCheckTimeout = 2 * time.Second
)

// Pinger is satisfied by *database.Database.
type Pinger interface {
	Ping(ctx context.Context) error
}

// AvailabilityReporter reports whether an optional dependency is usable.
type AvailabilityReporter interface {
	Available() bool
}

// HealthHandler handles health check and readiness endpoints.
type HealthHandler struct {
	db         Pinger
	translator AvailabilityReporter
	startTime  time.Time
	env        string
}

// NewHealthHandler creates a new HealthHandler instance. translator may be
// nil, in which case it is reported as unavailable.
func NewHealthHandler(db Pinger, translator AvailabilityReporter, env string) *HealthHandler {
	return &HealthHandler{
		db:         db,
		translator: translator,
		startTime:  time.Now(),
		env:        env,
	}
}

// HealthResponse represents the basic health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	Status     string `json:"status"`
	Database   string `json:"database"`
	Translator string `json:"translator"`
}

// InfoResponse represents the API information response.
type InfoResponse struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Uptime      string `json:"uptime"`
}

// Health handles GET /health endpoint.
// It does not check any dependencies and is used for basic liveness checks.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "healthy",
	})
}

// Ready handles GET /health/ready endpoint.
// Returns 200 OK if the database is connected, 503 Service Unavailable
// otherwise. The translator is optional: searches fall back to filters
// without it, so its state is reported but never fails readiness.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), HealthCheckTimeout)
	defer cancel()

	translator := "unavailable"
	if h.translator != nil && h.translator.Available() {
		translator = "available"
	}

	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, ReadyResponse{
			Status:     "not_ready",
			Database:   "disconnected",
			Translator: translator,
		})
		return
	}

	if err := h.db.Ping(ctx); err != nil {
		if log := middleware.GetLogger(c); log != nil {
			log.Error("Database health check failed", err, map[string]interface{}{
				"timeout": HealthCheckTimeout.String(),
			})
		}

		c.JSON(http.StatusServiceUnavailable, ReadyResponse{
			Status:     "not_ready",
			Database:   "disconnected",
			Translator: translator,
		})
		return
	}

	c.JSON(http.StatusOK, ReadyResponse{
		Status:     "ready",
		Database:   "connected",
		Translator: translator,
	})
}

// Info handles GET /api/v1/info endpoint.
// Returns API metadata including version, environment, and uptime.
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, InfoResponse{
		Version:     APIVersion,
		Environment: h.env,
		Uptime:      formatUptime(time.Since(h.startTime)),
	})
}

// formatUptime formats a duration into a human-readable string.
func formatUptime(d time.Duration) string {
	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}
