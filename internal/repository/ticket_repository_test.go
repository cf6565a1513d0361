package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func TestTicketClausesEmptyFilter(t *testing.T) {
	clauses, args := ticketClauses(TicketFilter{})
	if len(clauses) != 1 || clauses[0] != "1=1" {
		t.Errorf("clauses = %v", clauses)
	}
	if len(args) != 0 {
		t.Errorf("args = %v", args)
	}
}

func TestTicketClausesNumbersPlaceholdersInOrder(t *testing.T) {
	category := int64(4)
	creator := "u-1"
	priority := domain.TicketPriorityHigh
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	clauses, args := ticketClauses(TicketFilter{
		Statuses:     []domain.TicketStatus{domain.TicketStatusNew, domain.TicketStatusReopened},
		CategoryID:   &category,
		CreatedByID:  &creator,
		Priority:     &priority,
		ResolvedFrom: &since,
	})

	got := strings.Join(clauses, " AND ")
	want := "1=1 AND status IN ($1,$2) AND category_id=$3 AND created_by_id=$4 AND priority=$5 AND date_resolved >= $6"
	if got != want {
		t.Errorf("clauses =\n  %s\nwant\n  %s", got, want)
	}
	if len(args) != 6 {
		t.Fatalf("len(args) = %d, want 6", len(args))
	}
	if args[0] != domain.TicketStatusNew || args[2] != category || args[3] != creator {
		t.Errorf("args = %v", args)
	}
}

func TestTicketClausesAssignee(t *testing.T) {
	engineer := "e-1"
	clauses, args := ticketClauses(TicketFilter{AssignedEngineerID: &engineer})
	if clauses[1] != "assigned_engineer_id=$1" || args[0] != engineer {
		t.Errorf("clauses = %v args = %v", clauses, args)
	}
}
