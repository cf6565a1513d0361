package service

import "github.com/spec-kit/helpdesk-service/internal/domain"

// Visible returns the tickets actor may see, preserving input order.
//
// Administrators and callers without a complete identity see everything;
// access control for that case belongs to the auth layer. Engineers see
// their own tickets plus the shared pool of unclaimed New tickets. Users see
// only the tickets they created.
func Visible(actor domain.Actor, tickets []domain.Ticket) []domain.Ticket {
	if !actor.Specified() || actor.Role == domain.RoleAdministrator {
		return tickets
	}
	visible := make([]domain.Ticket, 0, len(tickets))
	for i := range tickets {
		if CanSee(actor, &tickets[i]) {
			visible = append(visible, tickets[i])
		}
	}
	return visible
}

// CanSee applies the visibility rule to a single ticket.
func CanSee(actor domain.Actor, ticket *domain.Ticket) bool {
	if !actor.Specified() {
		return true
	}
	switch actor.Role {
	case domain.RoleAdministrator:
		return true
	case domain.RoleEngineer:
		if ticket.IsAssigned() {
			return *ticket.AssignedEngineerID == actor.ID
		}
		return ticket.Status == domain.TicketStatusNew
	case domain.RoleUser:
		return ticket.CreatedByID == actor.ID
	}
	return true
}
