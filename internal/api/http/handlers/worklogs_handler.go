package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// WorkLogOperations records and lists work entries.
type WorkLogOperations interface {
	Create(ctx context.Context, log domain.WorkLog) (*domain.WorkLog, error)
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.WorkLog, error)
}

// WorkLogsHandler manages work log endpoints.
type WorkLogsHandler struct {
	service WorkLogOperations
}

// NewWorkLogsHandler constructs handler.
func NewWorkLogsHandler(workLogs WorkLogOperations) *WorkLogsHandler {
	return &WorkLogsHandler{service: workLogs}
}

// ListByTicket GET /api/worklogs/ticket/:ticketId.
func (h *WorkLogsHandler) ListByTicket(c *fiber.Ctx) error {
	ticketID, err := parseID(c, "ticketId")
	if err != nil {
		return err
	}
	logs, err := h.service.ListByTicket(c.UserContext(), ticketID)
	if err != nil {
		return err
	}
	items := make([]dto.WorkLogResponse, 0, len(logs))
	for i := range logs {
		items = append(items, workLogResponse(&logs[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Create POST /api/worklogs. The engineer defaults to the caller.
func (h *WorkLogsHandler) Create(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateWorkLogRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	log := domain.WorkLog{
		TicketID:    req.TicketID,
		EngineerID:  req.EngineerID,
		Description: req.Description,
		EndTime:     req.EndTime,
		IsInternal:  req.IsInternal,
	}
	if log.EngineerID == "" {
		log.EngineerID = principal.User.ID
	}
	if req.StartTime != nil {
		log.StartTime = *req.StartTime
	}
	created, err := h.service.Create(c.UserContext(), log)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": workLogResponse(created)})
}
