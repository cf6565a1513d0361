package service

import (
	"sort"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// AssignmentStrategy picks the engineer a new ticket is routed to. It must
// not touch the store; the caller persists the result. A nil return leaves
// the ticket unassigned.
type AssignmentStrategy interface {
	Assign(ticket *domain.Ticket, category *domain.Category) *string
}

// FirstEligibleStrategy routes every ticket to the eligible engineer with the
// lowest id. No load balancing.
type FirstEligibleStrategy struct{}

// Assign implements AssignmentStrategy.
func (FirstEligibleStrategy) Assign(_ *domain.Ticket, category *domain.Category) *string {
	eligible := EligibleEngineers(category)
	if len(eligible) == 0 {
		return nil
	}
	id := eligible[0].ID
	return &id
}

// EligibleEngineers returns the Engineer-role members of category sorted by id.
func EligibleEngineers(category *domain.Category) []domain.User {
	if category == nil {
		return nil
	}
	eligible := make([]domain.User, 0, len(category.Engineers))
	for _, member := range category.Engineers {
		if member.Role == domain.RoleEngineer {
			eligible = append(eligible, member)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].ID < eligible[j].ID
	})
	return eligible
}
