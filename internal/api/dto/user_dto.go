package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// LoginRequest payload for login by domain login name.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// CreateUserRequest payload.
type CreateUserRequest struct {
	DisplayName    string      `json:"display_name"`
	DomainUsername string      `json:"domain_username"`
	Email          string      `json:"email"`
	Role           domain.Role `json:"role"`
	Password       string      `json:"password"`
}

// UserResponse is the wire shape of a user.
type UserResponse struct {
	ID             string      `json:"id"`
	DisplayName    string      `json:"display_name"`
	DomainUsername string      `json:"domain_username"`
	Email          string      `json:"email"`
	Role           domain.Role `json:"role"`
	IsActive       bool        `json:"is_active"`
	CategoryIDs    []int64     `json:"category_ids"`
}

// CreateCategoryRequest payload.
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CategoryResponse lists a category and the engineers serving it.
type CategoryResponse struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Engineers   []UserResponse `json:"engineers"`
}
