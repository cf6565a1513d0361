package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload. The creator is the authenticated caller.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	CategoryID  int64                 `json:"category_id"`
	Priority    domain.TicketPriority `json:"priority"`
}

// UpdateTicketRequest carries the full replacement ticket.
type UpdateTicketRequest struct {
	ID                 int64                 `json:"id"`
	Title              string                `json:"title"`
	Description        string                `json:"description"`
	Status             domain.TicketStatus   `json:"status"`
	CategoryID         int64                 `json:"category_id"`
	CreatedByID        string                `json:"created_by_id"`
	AssignedEngineerID *string               `json:"assigned_engineer_id"`
	DateCreated        time.Time             `json:"date_created"`
	DateResolved       *time.Time            `json:"date_resolved"`
	DateClosed         *time.Time            `json:"date_closed"`
	SolutionSummary    *string               `json:"solution_summary"`
	Priority           domain.TicketPriority `json:"priority"`
	Version            int64                 `json:"version"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	EngineerID string `json:"engineer_id"`
}

// TicketResponse is the wire shape of a ticket.
type TicketResponse struct {
	ID                 int64                 `json:"id"`
	Title              string                `json:"title"`
	Description        string                `json:"description"`
	Status             domain.TicketStatus   `json:"status"`
	CategoryID         int64                 `json:"category_id"`
	CreatedByID        string                `json:"created_by_id"`
	AssignedEngineerID *string               `json:"assigned_engineer_id"`
	DateCreated        time.Time             `json:"date_created"`
	DateResolved       *time.Time            `json:"date_resolved"`
	DateClosed         *time.Time            `json:"date_closed"`
	SolutionSummary    *string               `json:"solution_summary"`
	Priority           domain.TicketPriority `json:"priority"`
	Version            int64                 `json:"version"`
}

// DashboardResponse aggregates ticket counts for the caller.
type DashboardResponse struct {
	TotalTickets     int              `json:"total_tickets"`
	OpenTickets      int              `json:"open_tickets"`
	ResolvedThisWeek int              `json:"resolved_this_week"`
	RecentTickets    []TicketResponse `json:"recent_tickets"`
}
