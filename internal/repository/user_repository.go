package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// UserRepository defines persistence access for users of every role.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context, role *domain.Role) ([]domain.User, error)
	SetPasswordHash(ctx context.Context, userID, hash string) error
	GetPasswordHash(ctx context.Context, userID string) (string, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `u.id::text, u.display_name, u.domain_username, u.email, u.role, u.is_active,
               ARRAY(SELECT ce.category_id FROM category_engineers ce WHERE ce.user_id = u.id ORDER BY ce.category_id)`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (id, display_name, domain_username, email, role, is_active)
        VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.DisplayName,
		user.DomainUsername,
		user.Email,
		user.Role,
		user.IsActive,
	)
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.id=$1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.domain_username=$1`
	return scanUser(r.pool.QueryRow(ctx, query, username))
}

func (r *userRepository) List(ctx context.Context, role *domain.Role) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u`
	args := []any{}
	if role != nil {
		args = append(args, *role)
		query += ` WHERE u.role=$1`
	}
	query += ` ORDER BY u.display_name, u.id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *user)
	}
	return result, rows.Err()
}

func (r *userRepository) SetPasswordHash(ctx context.Context, userID, hash string) error {
	const query = `
        INSERT INTO user_passwords (user_id, password_hash) VALUES ($1, $2)
        ON CONFLICT (user_id) DO UPDATE SET password_hash = EXCLUDED.password_hash`
	_, err := r.pool.Exec(ctx, query, userID, hash)
	return err
}

func (r *userRepository) GetPasswordHash(ctx context.Context, userID string) (string, error) {
	var hash string
	if err := r.pool.QueryRow(ctx, `SELECT password_hash FROM user_passwords WHERE user_id=$1`, userID).Scan(&hash); err != nil {
		return "", err
	}
	return hash, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.DisplayName,
		&user.DomainUsername,
		&user.Email,
		&user.Role,
		&user.IsActive,
		&user.CategoryIDs,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
