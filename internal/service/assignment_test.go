package service

import (
	"testing"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func TestFirstEligibleStrategy(t *testing.T) {
	cases := []struct {
		name     string
		category *domain.Category
		want     string
	}{
		{"nil category", nil, ""},
		{"no members", &domain.Category{ID: 1}, ""},
		{"only non engineers", &domain.Category{ID: 1, Engineers: []domain.User{
			{ID: "a", Role: domain.RoleAdministrator},
			{ID: "b", Role: domain.RoleUser},
		}}, ""},
		{"lowest id wins", &domain.Category{ID: 1, Engineers: []domain.User{
			{ID: engineerTwo, Role: domain.RoleEngineer},
			{ID: engineerOne, Role: domain.RoleEngineer},
		}}, engineerOne},
		{"skips admins", &domain.Category{ID: 1, Engineers: []domain.User{
			{ID: "00000000-0000-0000-0000-000000000000", Role: domain.RoleAdministrator},
			{ID: engineerTwo, Role: domain.RoleEngineer},
		}}, engineerTwo},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FirstEligibleStrategy{}.Assign(&domain.Ticket{}, tc.category)
			if tc.want == "" {
				if got != nil {
					t.Fatalf("expected nil, got %s", *got)
				}
				return
			}
			if got == nil || *got != tc.want {
				t.Fatalf("got %v, want %s", got, tc.want)
			}
		})
	}
}

func TestFirstEligibleStrategyIsDeterministic(t *testing.T) {
	category := &domain.Category{Engineers: []domain.User{
		{ID: engineerTwo, Role: domain.RoleEngineer},
		{ID: engineerOne, Role: domain.RoleEngineer},
	}}
	first := FirstEligibleStrategy{}.Assign(nil, category)
	for i := 0; i < 5; i++ {
		again := FirstEligibleStrategy{}.Assign(nil, category)
		if *again != *first {
			t.Fatalf("assignment changed between calls")
		}
	}
	if category.Engineers[0].ID != engineerTwo {
		t.Fatalf("strategy must not reorder the category")
	}
}

func TestStrictTransitions(t *testing.T) {
	cases := []struct {
		from, to domain.TicketStatus
		ok       bool
	}{
		{domain.TicketStatusNew, domain.TicketStatusInProgress, true},
		{domain.TicketStatusNew, domain.TicketStatusNew, true},
		{domain.TicketStatusResolved, domain.TicketStatusClosed, true},
		{domain.TicketStatusClosed, domain.TicketStatusReopened, true},
		{domain.TicketStatusClosed, domain.TicketStatusInProgress, false},
		{domain.TicketStatusCancelled, domain.TicketStatusNew, false},
		{domain.TicketStatusNew, domain.TicketStatusClosed, false},
	}
	for _, tc := range cases {
		err := StrictTransitions(tc.from, tc.to)
		if (err == nil) != tc.ok {
			t.Errorf("%s -> %s: err=%v, want ok=%v", tc.from, tc.to, err, tc.ok)
		}
		if AllowAnyTransition(tc.from, tc.to) != nil {
			t.Errorf("permissive policy rejected %s -> %s", tc.from, tc.to)
		}
	}
}
