package service

import (
	"context"
	"sort"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

const (
	recentTicketLimit = 5
	resolvedWindow    = 7 * 24 * time.Hour
)

// DashboardStats summarizes the tickets an actor can see.
type DashboardStats struct {
	TotalTickets     int
	OpenTickets      int
	ResolvedThisWeek int
	RecentTickets    []domain.Ticket
}

// DashboardService computes dashboard aggregates.
type DashboardService struct {
	tickets repository.TicketRepository
	now     func() time.Time
}

// NewDashboardService builds the service. A nil clock uses time.Now.
func NewDashboardService(tickets repository.TicketRepository, clock func() time.Time) *DashboardService {
	if clock == nil {
		clock = time.Now
	}
	return &DashboardService{tickets: tickets, now: clock}
}

// Stats counts totals over the actor's visible tickets. Without a fully
// specified actor every ticket is counted.
func (s *DashboardService) Stats(ctx context.Context, actor domain.Actor) (*DashboardStats, error) {
	tickets, err := s.tickets.List(ctx, repository.TicketFilter{OrderBy: repository.OrderCreatedDesc})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if actor.Specified() {
		tickets = Visible(actor, tickets)
	}
	return summarize(tickets, s.now().UTC()), nil
}

func summarize(tickets []domain.Ticket, now time.Time) *DashboardStats {
	stats := &DashboardStats{TotalTickets: len(tickets)}
	since := now.Add(-resolvedWindow)
	for i := range tickets {
		t := &tickets[i]
		if t.Status.IsOpen() {
			stats.OpenTickets++
		}
		if (t.Status == domain.TicketStatusResolved || t.Status == domain.TicketStatusClosed) &&
			t.DateResolved != nil && !t.DateResolved.Before(since) {
			stats.ResolvedThisWeek++
		}
	}

	recent := make([]domain.Ticket, len(tickets))
	copy(recent, tickets)
	sort.SliceStable(recent, func(i, j int) bool {
		if recent[i].DateCreated.Equal(recent[j].DateCreated) {
			return recent[i].ID > recent[j].ID
		}
		return recent[i].DateCreated.After(recent[j].DateCreated)
	})
	if len(recent) > recentTicketLimit {
		recent = recent[:recentTicketLimit]
	}
	stats.RecentTickets = recent
	return stats
}
