package service

import (
	"fmt"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TransitionPolicy decides whether a full update may move a ticket from one
// status to another. Assignment bypasses it.
type TransitionPolicy func(from, to domain.TicketStatus) error

// AllowAnyTransition accepts every status change.
func AllowAnyTransition(_, _ domain.TicketStatus) error {
	return nil
}

var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusNew:        {domain.TicketStatusInProgress, domain.TicketStatusOnHold, domain.TicketStatusResolved, domain.TicketStatusCancelled},
	domain.TicketStatusInProgress: {domain.TicketStatusOnHold, domain.TicketStatusResolved, domain.TicketStatusCancelled},
	domain.TicketStatusOnHold:     {domain.TicketStatusInProgress, domain.TicketStatusResolved, domain.TicketStatusCancelled},
	domain.TicketStatusResolved:   {domain.TicketStatusClosed, domain.TicketStatusReopened},
	domain.TicketStatusClosed:     {domain.TicketStatusReopened},
	domain.TicketStatusReopened:   {domain.TicketStatusInProgress, domain.TicketStatusOnHold, domain.TicketStatusResolved, domain.TicketStatusCancelled},
	domain.TicketStatusCancelled:  {},
}

// StrictTransitions only accepts the moves in the transition table. Keeping
// the current status is always allowed.
func StrictTransitions(from, to domain.TicketStatus) error {
	if from == to {
		return nil
	}
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return nil
		}
	}
	return fmt.Errorf("status cannot change from %s to %s", from, to)
}
