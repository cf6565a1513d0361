package events

import (
	"context"
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

// EventTicketUpdated is the only outbound event: a ticket was created,
// assigned, updated, deleted, or gained a work log.
const EventTicketUpdated EventType = "TicketUpdated"

// Event carries only the ticket id; subscribers re-fetch the state they need
// and apply their own visibility rules.
type Event struct {
	Type      EventType `json:"type"`
	TicketID  int64     `json:"ticket_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTicketUpdated builds a TicketUpdated event stamped with the current time.
func NewTicketUpdated(ticketID int64) Event {
	return Event{Type: EventTicketUpdated, TicketID: ticketID, Timestamp: time.Now().UTC()}
}

// Publisher notifies subscribers that a ticket changed. Implementations never
// report failure to the caller.
type Publisher interface {
	Publish(ctx context.Context, ticketID int64)
}
