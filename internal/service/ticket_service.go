package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// TicketService validates and applies ticket mutations and announces them.
type TicketService struct {
	tickets     repository.TicketRepository
	categories  repository.CategoryRepository
	users       repository.UserRepository
	strategy    AssignmentStrategy
	transitions TransitionPolicy
	publisher   events.Publisher
	logger      *zap.Logger
	now         func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	CategoryRepo repository.CategoryRepository
	UserRepo     repository.UserRepository
	// Strategy defaults to FirstEligibleStrategy.
	Strategy AssignmentStrategy
	// Transitions defaults to AllowAnyTransition.
	Transitions TransitionPolicy
	Publisher   events.Publisher
	Logger      *zap.Logger
	Clock       func() time.Time
}

// TicketDraft is the caller-supplied part of a new ticket.
type TicketDraft struct {
	Title       string
	Description string
	CategoryID  int64
	CreatedByID string
	Priority    domain.TicketPriority
}

// TicketListFilter narrows ticket listings before visibility is applied.
type TicketListFilter struct {
	Statuses           []domain.TicketStatus
	CategoryID         *int64
	CreatedByID        *string
	AssignedEngineerID *string
	Priority           *domain.TicketPriority
	ResolvedFrom       *time.Time
	ResolvedTo         *time.Time
	OrderBy            repository.TicketOrder
	Limit              int
	Offset             int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	s := &TicketService{
		tickets:     deps.TicketRepo,
		categories:  deps.CategoryRepo,
		users:       deps.UserRepo,
		strategy:    deps.Strategy,
		transitions: deps.Transitions,
		publisher:   deps.Publisher,
		logger:      deps.Logger,
		now:         deps.Clock,
	}
	if s.strategy == nil {
		s.strategy = FirstEligibleStrategy{}
	}
	if s.transitions == nil {
		s.transitions = AllowAnyTransition
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Create validates the draft, routes it through the assignment strategy and
// stores it as a New ticket.
func (s *TicketService) Create(ctx context.Context, draft TicketDraft) (*domain.Ticket, error) {
	ticket := &domain.Ticket{
		Title:       strings.TrimSpace(draft.Title),
		Description: strings.TrimSpace(draft.Description),
		Status:      domain.TicketStatusNew,
		CategoryID:  draft.CategoryID,
		CreatedByID: strings.TrimSpace(draft.CreatedByID),
		DateCreated: s.now().UTC(),
		Priority:    draft.Priority,
	}
	if ticket.Priority == 0 {
		ticket.Priority = domain.TicketPriorityLow
	}
	if err := validateTicketFields(ticket); err != nil {
		return nil, err
	}

	category, err := s.categories.GetByID(ctx, ticket.CategoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("category does not exist", map[string]any{"category_id": ticket.CategoryID})
		}
		return nil, apperrors.NewInternalError(err)
	}

	ticket.AssignedEngineerID = s.strategy.Assign(ticket, category)

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, storeError(err)
	}
	s.logger.Info("ticket created",
		zap.Int64("ticket_id", ticket.ID),
		zap.Int64("category_id", ticket.CategoryID),
		zap.Stringp("assigned_engineer_id", ticket.AssignedEngineerID))
	s.publish(ctx, ticket.ID)
	return ticket, nil
}

// AssignToEngineer hands the ticket to engineerID and moves it to InProgress,
// whatever its previous status. Concurrent assignments are last-write-wins.
func (s *TicketService) AssignToEngineer(ctx context.Context, ticketID int64, engineerID string) (*domain.Ticket, error) {
	engineerID = strings.TrimSpace(engineerID)
	if _, err := uuid.Parse(engineerID); err != nil {
		return nil, apperrors.NewValidationError("engineer_id must be a valid id", map[string]any{"engineer_id": engineerID})
	}

	exists, err := s.tickets.Exists(ctx, ticketID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if !exists {
		return nil, ticketNotFound(ticketID)
	}
	if _, err := requireUser(ctx, s.users, engineerID, "engineer_id", "engineer"); err != nil {
		return nil, err
	}

	ticket, err := s.tickets.Assign(ctx, ticketID, engineerID, domain.TicketStatusInProgress)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ticketNotFound(ticketID)
		}
		return nil, storeError(err)
	}
	s.logger.Info("ticket assigned", zap.Int64("ticket_id", ticketID), zap.String("engineer_id", engineerID))
	s.publish(ctx, ticketID)
	return ticket, nil
}

// Update replaces the stored ticket with ticket. A zero Version means the
// caller holds no token, in which case the version just read is used.
func (s *TicketService) Update(ctx context.Context, id int64, ticket domain.Ticket) (*domain.Ticket, error) {
	if ticket.ID != id {
		return nil, apperrors.NewBadRequest("ticket id does not match path", map[string]any{"path_id": id, "body_id": ticket.ID})
	}
	ticket.Title = strings.TrimSpace(ticket.Title)
	ticket.Description = strings.TrimSpace(ticket.Description)
	if err := validateTicketFields(&ticket); err != nil {
		return nil, err
	}
	if !ticket.Status.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": ticket.Status})
	}

	current, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ticketNotFound(id)
		}
		return nil, apperrors.NewInternalError(err)
	}
	if err := s.transitions(current.Status, ticket.Status); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), map[string]any{"from": current.Status, "to": ticket.Status})
	}
	if ticket.CategoryID != current.CategoryID {
		if _, err := s.categories.GetByID(ctx, ticket.CategoryID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError("category does not exist", map[string]any{"category_id": ticket.CategoryID})
			}
			return nil, apperrors.NewInternalError(err)
		}
	}
	if ticket.Version == 0 {
		ticket.Version = current.Version
	}
	if ticket.DateCreated.IsZero() {
		ticket.DateCreated = current.DateCreated
	}
	if ticket.AssignedEngineerID != nil {
		engineerID := strings.TrimSpace(*ticket.AssignedEngineerID)
		if engineerID == "" {
			ticket.AssignedEngineerID = nil
		} else {
			if _, err := requireUser(ctx, s.users, engineerID, "assigned_engineer_id", "engineer"); err != nil {
				return nil, err
			}
			ticket.AssignedEngineerID = &engineerID
		}
	}
	ticket.CreatedByID = strings.TrimSpace(ticket.CreatedByID)
	if ticket.CreatedByID != current.CreatedByID {
		if _, err := requireUser(ctx, s.users, ticket.CreatedByID, "created_by_id", "user"); err != nil {
			return nil, err
		}
	}
	stampResolution(&ticket, s.now().UTC())

	if err := s.tickets.Update(ctx, &ticket); err != nil {
		if errors.Is(err, repository.ErrConcurrencyConflict) {
			return nil, s.resolveConflict(ctx, id, err)
		}
		return nil, storeError(err)
	}
	s.logger.Info("ticket updated", zap.Int64("ticket_id", id), zap.String("status", string(ticket.Status)))
	s.publish(ctx, id)
	return &ticket, nil
}

// resolveConflict re-checks existence once: a vanished row is NotFound, a
// row that is still there means somebody else won and the error is final.
func (s *TicketService) resolveConflict(ctx context.Context, id int64, conflict error) error {
	exists, err := s.tickets.Exists(ctx, id)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if !exists {
		return ticketNotFound(id)
	}
	s.logger.Warn("ticket update lost a concurrent write", zap.Int64("ticket_id", id))
	return apperrors.NewConcurrencyConflict("ticket", map[string]any{"ticket_id": id}, conflict)
}

// Delete removes the ticket and its work logs permanently.
func (s *TicketService) Delete(ctx context.Context, id int64) error {
	if err := s.tickets.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ticketNotFound(id)
		}
		return apperrors.NewInternalError(err)
	}
	s.logger.Info("ticket deleted", zap.Int64("ticket_id", id))
	s.publish(ctx, id)
	return nil
}

// Get returns a single ticket.
func (s *TicketService) Get(ctx context.Context, id int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ticketNotFound(id)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return ticket, nil
}

// List returns the tickets matching filter that actor may see.
func (s *TicketService) List(ctx context.Context, actor domain.Actor, filter TicketListFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx, repository.TicketFilter{
		Statuses:           filter.Statuses,
		CategoryID:         filter.CategoryID,
		CreatedByID:        filter.CreatedByID,
		AssignedEngineerID: filter.AssignedEngineerID,
		Priority:           filter.Priority,
		ResolvedFrom:       filter.ResolvedFrom,
		ResolvedTo:         filter.ResolvedTo,
		OrderBy:            filter.OrderBy,
		Limit:              filter.Limit,
		Offset:             filter.Offset,
	})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return Visible(actor, tickets), nil
}

func (s *TicketService) publish(ctx context.Context, ticketID int64) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, ticketID)
}

func validateTicketFields(ticket *domain.Ticket) error {
	details := map[string]any{}
	if ticket.Title == "" {
		details["title"] = "required"
	}
	if ticket.Description == "" {
		details["description"] = "required"
	}
	if ticket.CategoryID <= 0 {
		details["category_id"] = "required"
	}
	if ticket.CreatedByID == "" {
		details["created_by_id"] = "required"
	}
	if !ticket.Priority.Valid() {
		details["priority"] = "must be 1 (high), 2 (medium) or 3 (low)"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid ticket", details)
	}
	return nil
}

// stampResolution keeps the resolution timestamps consistent with status.
// Resolved and Closed keep (or receive) a resolution time, only Closed keeps
// a closing time, every other status clears both.
func stampResolution(ticket *domain.Ticket, now time.Time) {
	switch ticket.Status {
	case domain.TicketStatusResolved:
		if ticket.DateResolved == nil {
			ticket.DateResolved = &now
		}
		ticket.DateClosed = nil
	case domain.TicketStatusClosed:
		if ticket.DateResolved == nil {
			ticket.DateResolved = &now
		}
		if ticket.DateClosed == nil {
			ticket.DateClosed = &now
		}
	default:
		ticket.DateResolved = nil
		ticket.DateClosed = nil
	}
}

func ticketNotFound(id int64) error {
	return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
}
