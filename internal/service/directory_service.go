package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// DirectoryService manages users and the categories engineers serve.
type DirectoryService struct {
	users      repository.UserRepository
	categories repository.CategoryRepository
	bcryptCost int
	logger     *zap.Logger
}

// DirectoryDependencies bundles collaborators for the directory service.
type DirectoryDependencies struct {
	UserRepo     repository.UserRepository
	CategoryRepo repository.CategoryRepository
	BcryptCost   int
	Logger       *zap.Logger
}

// NewDirectoryService constructs the service.
func NewDirectoryService(deps DirectoryDependencies) *DirectoryService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{
		users:      deps.UserRepo,
		categories: deps.CategoryRepo,
		bcryptCost: deps.BcryptCost,
		logger:     logger,
	}
}

// NewUser is the input for CreateUser. Password is optional.
type NewUser struct {
	DisplayName    string
	DomainUsername string
	Email          string
	Role           domain.Role
	Password       string
}

// ListUsers returns every user, or only those holding role.
func (s *DirectoryService) ListUsers(ctx context.Context, role *domain.Role) ([]domain.User, error) {
	if role != nil && !role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": *role})
	}
	users, err := s.users.List(ctx, role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return users, nil
}

// CreateUser registers an active user and, when given, its password.
func (s *DirectoryService) CreateUser(ctx context.Context, input NewUser) (*domain.User, error) {
	user := &domain.User{
		ID:             uuid.NewString(),
		DisplayName:    strings.TrimSpace(input.DisplayName),
		DomainUsername: strings.TrimSpace(input.DomainUsername),
		Email:          strings.TrimSpace(input.Email),
		Role:           input.Role,
		IsActive:       true,
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}

	details := map[string]any{}
	if user.DisplayName == "" {
		details["display_name"] = "required"
	}
	if user.DomainUsername == "" {
		details["domain_username"] = "required"
	}
	if !user.Role.Valid() {
		details["role"] = "must be User, Engineer or Administrator"
	}
	var hash string
	if input.Password != "" {
		var err error
		hash, err = auth.HashPassword(input.Password, s.bcryptCost)
		if errors.Is(err, auth.ErrPasswordTooShort) {
			details["password"] = "too short"
		} else if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid user", details)
	}

	if err := s.users.Create(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.NewConflict("username already taken", map[string]any{"domain_username": user.DomainUsername})
		}
		return nil, apperrors.NewInternalError(err)
	}
	if hash != "" {
		if err := s.users.SetPasswordHash(ctx, user.ID, hash); err != nil {
			return nil, apperrors.NewInternalError(err)
		}
	}
	s.logger.Info("user created", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// ListCategories returns every category with its engineers.
func (s *DirectoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return categories, nil
}

// CreateCategory stores a new, initially empty, category.
func (s *DirectoryService) CreateCategory(ctx context.Context, name, description string) (*domain.Category, error) {
	category := &domain.Category{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
	}
	if category.Name == "" {
		return nil, apperrors.NewValidationError("invalid category", map[string]any{"name": "required"})
	}
	if err := s.categories.Create(ctx, category); err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.NewConflict("category already exists", map[string]any{"name": category.Name})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return category, nil
}

// AddEngineer makes userID eligible for tickets in the category. Only users
// holding the Engineer role can be members.
func (s *DirectoryService) AddEngineer(ctx context.Context, categoryID int64, userID string) (*domain.Category, error) {
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		return nil, notFoundOr(err, "category", map[string]any{"category_id": categoryID})
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "user", map[string]any{"user_id": userID})
	}
	if user.Role != domain.RoleEngineer {
		return nil, apperrors.NewValidationError("only engineers can serve a category", map[string]any{"user_id": userID, "role": user.Role})
	}
	if err := s.categories.AddEngineer(ctx, categoryID, userID); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.logger.Info("engineer added to category", zap.Int64("category_id", categoryID), zap.String("user_id", userID))
	return s.reloadCategory(ctx, categoryID)
}

// RemoveEngineer drops the membership.
func (s *DirectoryService) RemoveEngineer(ctx context.Context, categoryID int64, userID string) (*domain.Category, error) {
	if err := s.categories.RemoveEngineer(ctx, categoryID, userID); err != nil {
		return nil, notFoundOr(err, "category membership", map[string]any{"category_id": categoryID, "user_id": userID})
	}
	s.logger.Info("engineer removed from category", zap.Int64("category_id", categoryID), zap.String("user_id", userID))
	return s.reloadCategory(ctx, categoryID)
}

func (s *DirectoryService) reloadCategory(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "category", map[string]any{"category_id": id})
	}
	return category, nil
}

func notFoundOr(err error, resource string, details map[string]any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, details)
	}
	return apperrors.NewInternalError(err)
}
