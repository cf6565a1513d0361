package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// DirectoryOperations manages users and category membership.
type DirectoryOperations interface {
	ListUsers(ctx context.Context, role *domain.Role) ([]domain.User, error)
	CreateUser(ctx context.Context, input service.NewUser) (*domain.User, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, name, description string) (*domain.Category, error)
	AddEngineer(ctx context.Context, categoryID int64, userID string) (*domain.Category, error)
	RemoveEngineer(ctx context.Context, categoryID int64, userID string) (*domain.Category, error)
}

// DirectoryHandler serves user and category endpoints.
type DirectoryHandler struct {
	service DirectoryOperations
}

// NewDirectoryHandler constructs handler.
func NewDirectoryHandler(directory DirectoryOperations) *DirectoryHandler {
	return &DirectoryHandler{service: directory}
}

// ListUsers GET /api/users?role=.
func (h *DirectoryHandler) ListUsers(c *fiber.Ctx) error {
	var role *domain.Role
	if raw := strings.TrimSpace(c.Query("role")); raw != "" {
		r := domain.Role(raw)
		role = &r
	}
	users, err := h.service.ListUsers(c.UserContext(), role)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateUser POST /api/users.
func (h *DirectoryHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.service.CreateUser(c.UserContext(), service.NewUser{
		DisplayName:    req.DisplayName,
		DomainUsername: req.DomainUsername,
		Email:          req.Email,
		Role:           req.Role,
		Password:       req.Password,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": userResponse(user)})
}

// ListCategories GET /api/categories.
func (h *DirectoryHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, categoryResponse(&categories[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateCategory POST /api/categories.
func (h *DirectoryHandler) CreateCategory(c *fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	category, err := h.service.CreateCategory(c.UserContext(), req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": categoryResponse(category)})
}

// AddEngineer POST /api/categories/:id/engineers/:userId.
func (h *DirectoryHandler) AddEngineer(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	category, err := h.service.AddEngineer(c.UserContext(), id, c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": categoryResponse(category)})
}

// RemoveEngineer DELETE /api/categories/:id/engineers/:userId.
func (h *DirectoryHandler) RemoveEngineer(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	category, err := h.service.RemoveEngineer(c.UserContext(), id, c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": categoryResponse(category)})
}
