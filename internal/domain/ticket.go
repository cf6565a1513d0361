package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusNew        TicketStatus = "New"
	TicketStatusInProgress TicketStatus = "InProgress"
	TicketStatusOnHold     TicketStatus = "OnHold"
	TicketStatusResolved   TicketStatus = "Resolved"
	TicketStatusClosed     TicketStatus = "Closed"
	TicketStatusReopened   TicketStatus = "Reopened"
	TicketStatusCancelled  TicketStatus = "Cancelled"
)

// TicketStatuses lists every known status in declaration order.
var TicketStatuses = []TicketStatus{
	TicketStatusNew,
	TicketStatusInProgress,
	TicketStatusOnHold,
	TicketStatusResolved,
	TicketStatusClosed,
	TicketStatusReopened,
	TicketStatusCancelled,
}

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	for _, known := range TicketStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsOpen reports whether the ticket still needs engineer attention.
func (s TicketStatus) IsOpen() bool {
	switch s {
	case TicketStatusNew, TicketStatusInProgress, TicketStatusOnHold, TicketStatusReopened:
		return true
	}
	return false
}

// TicketPriority ranks urgency, lower is more urgent.
type TicketPriority int

const (
	TicketPriorityHigh   TicketPriority = 1
	TicketPriorityMedium TicketPriority = 2
	TicketPriorityLow    TicketPriority = 3
)

// Valid reports whether p is one of the three supported priorities.
func (p TicketPriority) Valid() bool {
	return p >= TicketPriorityHigh && p <= TicketPriorityLow
}

// Ticket is the aggregate for help-desk requests.
type Ticket struct {
	ID                 int64
	Title              string
	Description        string
	Status             TicketStatus
	CategoryID         int64
	CreatedByID        string
	AssignedEngineerID *string
	DateCreated        time.Time
	DateResolved       *time.Time
	DateClosed         *time.Time
	SolutionSummary    *string
	Priority           TicketPriority
	// Version is bumped by the store on every write and checked by full updates.
	Version int64
}

// IsAssigned reports whether an engineer owns the ticket.
func (t *Ticket) IsAssigned() bool {
	return t.AssignedEngineerID != nil && *t.AssignedEngineerID != ""
}
