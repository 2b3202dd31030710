package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/educontrol/educontrol-api/internal/models"
	"github.com/educontrol/educontrol-api/internal/service"
)

// Pinger is a dependency checked by the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

// Ping implements Pinger.
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics      *service.MetricsService
	database     Pinger
	cache        Pinger
	capabilities models.SchemaCapabilities
}

// NewMetricsHandler constructs a metrics handler. cache may be nil when caching is disabled.
func NewMetricsHandler(metrics *service.MetricsService, database, cache Pinger, caps models.SchemaCapabilities) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, database: database, cache: cache, capabilities: caps}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health responds with a generic OK payload for liveness usage.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready checks the database, the optional cache and the probed schema.
func (h *MetricsHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{}
	ready := true

	if h.database != nil {
		if err := h.database.Ping(ctx); err != nil {
			checks["database"] = err.Error()
			ready = false
		} else {
			checks["database"] = "ok"
		}
	}
	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			checks["cache"] = err.Error()
		} else {
			checks["cache"] = "ok"
		}
	}
	if err := h.capabilities.Validate(); err != nil {
		checks["schema"] = err.Error()
		ready = false
	} else {
		checks["schema"] = "ok"
	}

	status := http.StatusOK
	label := "ready"
	if !ready {
		status = http.StatusServiceUnavailable
		label = "unavailable"
	}
	c.JSON(status, gin.H{"status": label, "checks": checks})
}
