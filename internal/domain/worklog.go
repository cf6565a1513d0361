package domain

import "time"

// WorkLog records time an engineer spent on a ticket.
type WorkLog struct {
	ID          int64
	TicketID    int64
	EngineerID  string
	Description string
	StartTime   time.Time
	EndTime     *time.Time
	// IsInternal is stored and returned but no view filters on it yet.
	IsInternal bool
}
