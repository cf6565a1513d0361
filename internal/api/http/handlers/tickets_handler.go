package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// TicketOperations is the ticket lifecycle surface the handler drives.
type TicketOperations interface {
	Create(ctx context.Context, draft service.TicketDraft) (*domain.Ticket, error)
	AssignToEngineer(ctx context.Context, ticketID int64, engineerID string) (*domain.Ticket, error)
	Update(ctx context.Context, id int64, ticket domain.Ticket) (*domain.Ticket, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*domain.Ticket, error)
	List(ctx context.Context, actor domain.Actor, filter service.TicketListFilter) ([]domain.Ticket, error)
}

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service TicketOperations
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService TicketOperations) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// ListTickets GET /api/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return err
	}
	filter, err := parseTicketQuery(c)
	if err != nil {
		return err
	}
	tickets, err := h.service.List(c.UserContext(), actor, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// GetTicket GET /api/tickets/:id. Tickets outside the caller's view are
// reported as missing.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ticket, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	if !service.CanSee(principal.Actor(), ticket) {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// CreateTicket POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Create(c.UserContext(), service.TicketDraft{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		CreatedByID: principal.User.ID,
		Priority:    req.Priority,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// AssignTicket PUT /api/tickets/:id/assign.
func (h *TicketsHandler) AssignTicket(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.AssignToEngineer(c.UserContext(), id, req.EngineerID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// UpdateTicket PUT /api/tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Update(c.UserContext(), id, domain.Ticket{
		ID:                 req.ID,
		Title:              req.Title,
		Description:        req.Description,
		Status:             req.Status,
		CategoryID:         req.CategoryID,
		CreatedByID:        req.CreatedByID,
		AssignedEngineerID: req.AssignedEngineerID,
		DateCreated:        req.DateCreated,
		DateResolved:       req.DateResolved,
		DateClosed:         req.DateClosed,
		SolutionSummary:    req.SolutionSummary,
		Priority:           req.Priority,
		Version:            req.Version,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// DeleteTicket DELETE /api/tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseTicketQuery(c *fiber.Ctx) (service.TicketListFilter, error) {
	filter := service.TicketListFilter{OrderBy: repository.OrderCreatedDesc}
	invalid := map[string]any{}

	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			status := domain.TicketStatus(strings.TrimSpace(part))
			if !status.Valid() {
				invalid["status"] = part
				continue
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			invalid["category_id"] = raw
		} else {
			filter.CategoryID = &id
		}
	}
	if createdBy := strings.TrimSpace(c.Query("created_by")); createdBy != "" {
		filter.CreatedByID = &createdBy
	}
	if assignedTo := strings.TrimSpace(c.Query("assigned_to")); assignedTo != "" {
		filter.AssignedEngineerID = &assignedTo
	}
	if raw := c.Query("priority"); raw != "" {
		value, err := strconv.Atoi(raw)
		priority := domain.TicketPriority(value)
		if err != nil || !priority.Valid() {
			invalid["priority"] = raw
		} else {
			filter.Priority = &priority
		}
	}
	filter.ResolvedFrom = parseTimeQuery(c, "resolved_from", invalid)
	filter.ResolvedTo = parseTimeQuery(c, "resolved_to", invalid)
	if filter.ResolvedFrom != nil && filter.ResolvedTo != nil && filter.ResolvedTo.Before(*filter.ResolvedFrom) {
		invalid["resolved_to"] = "must not precede resolved_from"
	}
	switch c.Query("sort") {
	case "", "created":
	case "priority":
		filter.OrderBy = repository.OrderPriority
	default:
		invalid["sort"] = c.Query("sort")
	}
	if pageSize := parseInt(c.Query("page_size"), 0); pageSize > 0 {
		page := parseInt(c.Query("page"), 1)
		filter.Limit = pageSize
		filter.Offset = (page - 1) * pageSize
	}

	if len(invalid) > 0 {
		return filter, apperrors.NewValidationError("invalid query", invalid)
	}
	return filter, nil
}

// parseTimeQuery reads an RFC3339 query value, recording it in invalid when
// it does not parse.
func parseTimeQuery(c *fiber.Ctx, key string, invalid map[string]any) *time.Time {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	value, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		invalid[key] = raw
		return nil
	}
	value = value.UTC()
	return &value
}
