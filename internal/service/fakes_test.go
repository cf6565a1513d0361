package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

type fakeTicketRepo struct {
	mu      sync.Mutex
	nextID  int64
	tickets map[int64]domain.Ticket
	// staleOnce makes the next Update fail with a version conflict.
	staleOnce bool
	// deleteOnConflict removes the row while reporting the conflict.
	deleteOnConflict bool
	listErr          error
	// writeErr fails Create and Update.
	writeErr   error
	lastFilter repository.TicketFilter
}

func newFakeTicketRepo(seed ...domain.Ticket) *fakeTicketRepo {
	r := &fakeTicketRepo{tickets: map[int64]domain.Ticket{}}
	for _, t := range seed {
		if t.Version == 0 {
			t.Version = 1
		}
		r.tickets[t.ID] = t
		if t.ID > r.nextID {
			r.nextID = t.ID
		}
	}
	return r
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writeErr != nil {
		return r.writeErr
	}
	r.nextID++
	ticket.ID = r.nextID
	ticket.Version = 1
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writeErr != nil {
		return r.writeErr
	}
	current, ok := r.tickets[ticket.ID]
	if r.staleOnce {
		r.staleOnce = false
		if r.deleteOnConflict {
			delete(r.tickets, ticket.ID)
		}
		return repository.ErrConcurrencyConflict
	}
	if !ok || current.Version != ticket.Version {
		return repository.ErrConcurrencyConflict
	}
	ticket.Version++
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *fakeTicketRepo) Assign(_ context.Context, id int64, engineerID string, status domain.TicketStatus) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	t.AssignedEngineerID = &engineerID
	t.Status = status
	t.Version++
	r.tickets[id] = t
	return &t, nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &t, nil
}

func (r *fakeTicketRepo) Exists(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.tickets[id]
	return ok, nil
}

func (r *fakeTicketRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tickets, id)
	return nil
}

func (r *fakeTicketRepo) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter = filter
	out := make([]domain.Ticket, 0, len(r.tickets))
	for _, t := range r.tickets {
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, t.Status) {
			continue
		}
		if filter.CreatedByID != nil && t.CreatedByID != *filter.CreatedByID {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTicketRepo) get(id int64) (domain.Ticket, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[id]
	return t, ok
}

func containsStatus(list []domain.TicketStatus, s domain.TicketStatus) bool {
	for _, candidate := range list {
		if candidate == s {
			return true
		}
	}
	return false
}

type fakeCategoryRepo struct {
	categories map[int64]*domain.Category
	nextID     int64
	createErr  error
}

func newFakeCategoryRepo(seed ...domain.Category) *fakeCategoryRepo {
	r := &fakeCategoryRepo{categories: map[int64]*domain.Category{}}
	for i := range seed {
		c := seed[i]
		r.categories[c.ID] = &c
		if c.ID > r.nextID {
			r.nextID = c.ID
		}
	}
	return r
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	category.ID = r.nextID
	stored := *category
	r.categories[category.ID] = &stored
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCategoryRepo) AddEngineer(_ context.Context, categoryID int64, userID string) error {
	c, ok := r.categories[categoryID]
	if !ok {
		return errors.New("foreign key violation")
	}
	for _, e := range c.Engineers {
		if e.ID == userID {
			return nil
		}
	}
	c.Engineers = append(c.Engineers, domain.User{ID: userID, Role: domain.RoleEngineer})
	return nil
}

func (r *fakeCategoryRepo) RemoveEngineer(_ context.Context, categoryID int64, userID string) error {
	c, ok := r.categories[categoryID]
	if !ok {
		return pgx.ErrNoRows
	}
	for i, e := range c.Engineers {
		if e.ID == userID {
			c.Engineers = append(c.Engineers[:i], c.Engineers[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeUserRepo struct {
	users     map[string]domain.User
	passwords map[string]string
	createErr error
}

func newFakeUserRepo(seed ...domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]domain.User{}, passwords: map[string]string{}}
	for _, u := range seed {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &u, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.DomainUsername == username {
			copied := u
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context, role *domain.Role) ([]domain.User, error) {
	out := []domain.User{}
	for _, u := range r.users {
		if role == nil || u.Role == *role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) SetPasswordHash(_ context.Context, userID, hash string) error {
	r.passwords[userID] = hash
	return nil
}

func (r *fakeUserRepo) GetPasswordHash(_ context.Context, userID string) (string, error) {
	hash, ok := r.passwords[userID]
	if !ok {
		return "", pgx.ErrNoRows
	}
	return hash, nil
}

type fakeWorkLogRepo struct {
	logs   []domain.WorkLog
	nextID int64
}

func (r *fakeWorkLogRepo) Create(_ context.Context, log *domain.WorkLog) error {
	r.nextID++
	log.ID = r.nextID
	r.logs = append(r.logs, *log)
	return nil
}

func (r *fakeWorkLogRepo) ListByTicket(_ context.Context, ticketID int64) ([]domain.WorkLog, error) {
	out := []domain.WorkLog{}
	for _, l := range r.logs {
		if l.TicketID == ticketID {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out, nil
}

type recordingPublisher struct {
	mu  sync.Mutex
	ids []int64
}

func (p *recordingPublisher) Publish(_ context.Context, ticketID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids = append(p.ids, ticketID)
}

func (p *recordingPublisher) published() []int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int64(nil), p.ids...)
}

func strPtr(s string) *string { return &s }
