package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

func currentPrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal, nil
}

// requestActor resolves whose view a read is computed for. Administrators may
// name any user_id and role, including a partial pair which yields the
// unfiltered view. Everyone else may only name themselves.
func requestActor(c *fiber.Ctx) (domain.Actor, error) {
	principal, err := currentPrincipal(c)
	if err != nil {
		return domain.Actor{}, err
	}
	actor := principal.Actor()
	userID := strings.TrimSpace(c.Query("user_id"))
	role := domain.Role(strings.TrimSpace(c.Query("role")))
	if userID == "" && role == "" {
		return actor, nil
	}
	if actor.Role != domain.RoleAdministrator {
		if (userID != "" && userID != actor.ID) || (role != "" && role != actor.Role) {
			return domain.Actor{}, apperrors.NewForbidden("cannot view tickets as another user")
		}
		return actor, nil
	}
	return domain.Actor{ID: userID, Role: role}, nil
}

func parseID(c *fiber.Ctx, param string) (int64, error) {
	raw := c.Params(param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", map[string]any{param: raw})
	}
	return id, nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:                 ticket.ID,
		Title:              ticket.Title,
		Description:        ticket.Description,
		Status:             ticket.Status,
		CategoryID:         ticket.CategoryID,
		CreatedByID:        ticket.CreatedByID,
		AssignedEngineerID: ticket.AssignedEngineerID,
		DateCreated:        ticket.DateCreated,
		DateResolved:       ticket.DateResolved,
		DateClosed:         ticket.DateClosed,
		SolutionSummary:    ticket.SolutionSummary,
		Priority:           ticket.Priority,
		Version:            ticket.Version,
	}
}

func ticketResponses(tickets []domain.Ticket) []dto.TicketResponse {
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return items
}

func userResponse(user *domain.User) dto.UserResponse {
	categoryIDs := user.CategoryIDs
	if categoryIDs == nil {
		categoryIDs = []int64{}
	}
	return dto.UserResponse{
		ID:             user.ID,
		DisplayName:    user.DisplayName,
		DomainUsername: user.DomainUsername,
		Email:          user.Email,
		Role:           user.Role,
		IsActive:       user.IsActive,
		CategoryIDs:    categoryIDs,
	}
}

func categoryResponse(category *domain.Category) dto.CategoryResponse {
	engineers := make([]dto.UserResponse, 0, len(category.Engineers))
	for i := range category.Engineers {
		engineers = append(engineers, userResponse(&category.Engineers[i]))
	}
	return dto.CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		Engineers:   engineers,
	}
}

func workLogResponse(log *domain.WorkLog) dto.WorkLogResponse {
	return dto.WorkLogResponse{
		ID:          log.ID,
		TicketID:    log.TicketID,
		EngineerID:  log.EngineerID,
		Description: log.Description,
		StartTime:   log.StartTime,
		EndTime:     log.EndTime,
		IsInternal:  log.IsInternal,
	}
}
