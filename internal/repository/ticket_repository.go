package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TicketOrder selects the ordering of ticket listings.
type TicketOrder string

const (
	OrderCreatedDesc TicketOrder = "created_desc"
	OrderPriority    TicketOrder = "priority"
)

// TicketFilter captures equality and range predicates for ticket listing.
type TicketFilter struct {
	Statuses           []domain.TicketStatus
	CategoryID         *int64
	CreatedByID        *string
	AssignedEngineerID *string
	Priority           *domain.TicketPriority
	ResolvedFrom       *time.Time
	ResolvedTo         *time.Time
	OrderBy            TicketOrder
	// Limit <= 0 returns every matching row.
	Limit  int
	Offset int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	Assign(ctx context.Context, id int64, engineerID string, status domain.TicketStatus) (*domain.Ticket, error)
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, title, description, status, category_id, created_by_id::text, assigned_engineer_id::text,
               date_created, date_resolved, date_closed, solution_summary, priority, version`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, status, category_id, created_by_id, assigned_engineer_id,
            date_created, date_resolved, date_closed, solution_summary, priority)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, version`
	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.CategoryID,
		ticket.CreatedByID,
		ticket.AssignedEngineerID,
		ticket.DateCreated,
		ticket.DateResolved,
		ticket.DateClosed,
		ticket.SolutionSummary,
		ticket.Priority,
	).Scan(&ticket.ID, &ticket.Version)
}

// Update replaces every mutable column, provided ticket.Version still matches
// the stored row. A mismatch or a missing row yields ErrConcurrencyConflict.
func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, status=$3, category_id=$4, created_by_id=$5,
            assigned_engineer_id=$6, date_created=$7, date_resolved=$8, date_closed=$9,
            solution_summary=$10, priority=$11, version=version+1
        WHERE id=$12 AND version=$13
        RETURNING version`
	err := r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.CategoryID,
		ticket.CreatedByID,
		ticket.AssignedEngineerID,
		ticket.DateCreated,
		ticket.DateResolved,
		ticket.DateClosed,
		ticket.SolutionSummary,
		ticket.Priority,
		ticket.ID,
		ticket.Version,
	).Scan(&ticket.Version)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrConcurrencyConflict
	}
	return err
}

// Assign sets the assignee and status without a version check.
func (r *ticketRepository) Assign(ctx context.Context, id int64, engineerID string, status domain.TicketStatus) (*domain.Ticket, error) {
	query := `
        UPDATE tickets SET assigned_engineer_id=$1, status=$2, version=version+1
        WHERE id=$3
        RETURNING ` + ticketColumns
	return scanTicket(r.pool.QueryRow(ctx, query, engineerID, status, id))
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	return scanTicket(r.pool.QueryRow(ctx, query, id))
}

func (r *ticketRepository) Exists(ctx context.Context, id int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM tickets WHERE id=$1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *ticketRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses, args := ticketClauses(filter)

	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE ` + strings.Join(clauses, " AND ")
	switch filter.OrderBy {
	case OrderPriority:
		query += " ORDER BY priority ASC, date_created DESC, id DESC"
	default:
		query += " ORDER BY date_created DESC, id DESC"
	}
	if filter.Limit > 0 {
		offset := filter.Offset
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func ticketClauses(filter TicketFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		clauses = append(clauses, fmt.Sprintf("category_id=$%d", len(args)))
	}
	if filter.CreatedByID != nil {
		args = append(args, *filter.CreatedByID)
		clauses = append(clauses, fmt.Sprintf("created_by_id=$%d", len(args)))
	}
	if filter.AssignedEngineerID != nil {
		args = append(args, *filter.AssignedEngineerID)
		clauses = append(clauses, fmt.Sprintf("assigned_engineer_id=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.ResolvedFrom != nil {
		args = append(args, *filter.ResolvedFrom)
		clauses = append(clauses, fmt.Sprintf("date_resolved >= $%d", len(args)))
	}
	if filter.ResolvedTo != nil {
		args = append(args, *filter.ResolvedTo)
		clauses = append(clauses, fmt.Sprintf("date_resolved <= $%d", len(args)))
	}
	return clauses, args
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.CategoryID,
		&ticket.CreatedByID,
		&ticket.AssignedEngineerID,
		&ticket.DateCreated,
		&ticket.DateResolved,
		&ticket.DateClosed,
		&ticket.SolutionSummary,
		&ticket.Priority,
		&ticket.Version,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}
