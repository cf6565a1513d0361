package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
)

// PoolReporter reports database pool usage.
type PoolReporter interface {
	Stats() persistence.PoolStats
}

// MetricsHandler exposes in-memory counters.
type MetricsHandler struct {
	metrics *observability.Metrics
	hub     *events.Hub
	pool    PoolReporter
}

// NewMetricsHandler constructs handler. hub and pool may be nil.
func NewMetricsHandler(metrics *observability.Metrics, hub *events.Hub, pool PoolReporter) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, hub: hub, pool: pool}
}

// Snapshot GET /metrics.
func (h *MetricsHandler) Snapshot(c *fiber.Ctx) error {
	data := fiber.Map{"counters": h.metrics.Snapshot()}
	if h.hub != nil {
		data["subscribers"] = h.hub.SubscriberCount()
	}
	if h.pool != nil {
		data["postgres"] = h.pool.Stats()
	}
	return c.JSON(fiber.Map{"data": data})
}
