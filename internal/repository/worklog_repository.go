package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// WorkLogRepository stores engineer work entries.
type WorkLogRepository interface {
	Create(ctx context.Context, log *domain.WorkLog) error
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.WorkLog, error)
}

type workLogRepository struct {
	pool *pgxpool.Pool
}

// NewWorkLogRepository builds repository.
func NewWorkLogRepository(pool *pgxpool.Pool) WorkLogRepository {
	return &workLogRepository{pool: pool}
}

func (r *workLogRepository) Create(ctx context.Context, log *domain.WorkLog) error {
	const query = `
        INSERT INTO work_logs (ticket_id, engineer_id, description, start_time, end_time, is_internal)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		log.TicketID,
		log.EngineerID,
		log.Description,
		log.StartTime,
		log.EndTime,
		log.IsInternal,
	).Scan(&log.ID)
}

func (r *workLogRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.WorkLog, error) {
	const query = `
        SELECT id, ticket_id, engineer_id::text, description, start_time, end_time, is_internal
        FROM work_logs WHERE ticket_id=$1 ORDER BY start_time DESC, id DESC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.WorkLog{}
	for rows.Next() {
		var log domain.WorkLog
		if err := rows.Scan(
			&log.ID,
			&log.TicketID,
			&log.EngineerID,
			&log.Description,
			&log.StartTime,
			&log.EndTime,
			&log.IsInternal,
		); err != nil {
			return nil, err
		}
		result = append(result, log)
	}
	return result, rows.Err()
}
