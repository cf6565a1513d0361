package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// DashboardReader computes dashboard aggregates.
type DashboardReader interface {
	Stats(ctx context.Context, actor domain.Actor) (*service.DashboardStats, error)
}

// DashboardHandler serves the dashboard summary.
type DashboardHandler struct {
	service DashboardReader
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboard DashboardReader) *DashboardHandler {
	return &DashboardHandler{service: dashboard}
}

// Stats GET /api/dashboard.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return err
	}
	stats, err := h.service.Stats(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DashboardResponse{
		TotalTickets:     stats.TotalTickets,
		OpenTickets:      stats.OpenTickets,
		ResolvedThisWeek: stats.ResolvedThisWeek,
		RecentTickets:    ticketResponses(stats.RecentTickets),
	}})
}
