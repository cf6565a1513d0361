package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// WorkLogService records engineer work against tickets.
type WorkLogService struct {
	logs      repository.WorkLogRepository
	tickets   repository.TicketRepository
	users     repository.UserRepository
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// WorkLogDependencies bundles collaborators for the work log service.
type WorkLogDependencies struct {
	WorkLogRepo repository.WorkLogRepository
	TicketRepo  repository.TicketRepository
	UserRepo    repository.UserRepository
	Publisher   events.Publisher
	Logger      *zap.Logger
	Clock       func() time.Time
}

// NewWorkLogService constructs the service.
func NewWorkLogService(deps WorkLogDependencies) *WorkLogService {
	s := &WorkLogService{
		logs:      deps.WorkLogRepo,
		tickets:   deps.TicketRepo,
		users:     deps.UserRepo,
		publisher: deps.Publisher,
		logger:    deps.Logger,
		now:       deps.Clock,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Create stores a work entry and announces the owning ticket as updated.
func (s *WorkLogService) Create(ctx context.Context, log domain.WorkLog) (*domain.WorkLog, error) {
	log.EngineerID = strings.TrimSpace(log.EngineerID)
	log.Description = strings.TrimSpace(log.Description)

	details := map[string]any{}
	if _, err := uuid.Parse(log.EngineerID); err != nil {
		details["engineer_id"] = "must be a valid id"
	}
	if log.Description == "" {
		details["description"] = "required"
	}
	if log.StartTime.IsZero() {
		log.StartTime = s.now().UTC()
	}
	if log.EndTime != nil && log.EndTime.Before(log.StartTime) {
		details["end_time"] = "must not precede start_time"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid work log", details)
	}

	exists, err := s.tickets.Exists(ctx, log.TicketID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if !exists {
		return nil, ticketNotFound(log.TicketID)
	}
	if _, err := requireUser(ctx, s.users, log.EngineerID, "engineer_id", "engineer"); err != nil {
		return nil, err
	}

	if err := s.logs.Create(ctx, &log); err != nil {
		return nil, storeError(err)
	}
	s.logger.Info("work logged",
		zap.Int64("ticket_id", log.TicketID),
		zap.Int64("work_log_id", log.ID),
		zap.String("engineer_id", log.EngineerID))
	if s.publisher != nil {
		s.publisher.Publish(ctx, log.TicketID)
	}
	return &log, nil
}

// ListByTicket returns the ticket's work entries, newest start first.
func (s *WorkLogService) ListByTicket(ctx context.Context, ticketID int64) ([]domain.WorkLog, error) {
	logs, err := s.logs.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return logs, nil
}
