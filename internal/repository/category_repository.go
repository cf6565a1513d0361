package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CategoryRepository manages categories and their engineer membership.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	AddEngineer(ctx context.Context, categoryID int64, userID string) error
	RemoveEngineer(ctx context.Context, categoryID int64, userID string) error
}

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository builds the repository.
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	const query = `
        INSERT INTO categories (name, description)
        VALUES ($1,$2)
        RETURNING id`
	return r.pool.QueryRow(ctx, query, category.Name, category.Description).Scan(&category.ID)
}

// GetByID loads the category together with its members, ordered by user id.
func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	const query = `SELECT id, name, description FROM categories WHERE id=$1`
	var category domain.Category
	if err := r.pool.QueryRow(ctx, query, id).Scan(&category.ID, &category.Name, &category.Description); err != nil {
		return nil, err
	}
	members, err := r.members(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	category.Engineers = members[id]
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, description FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	ids := []int64{}
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Description); err != nil {
			return nil, err
		}
		result = append(result, category)
		ids = append(ids, category.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	members, err := r.members(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Engineers = members[result[i].ID]
	}
	return result, nil
}

func (r *categoryRepository) AddEngineer(ctx context.Context, categoryID int64, userID string) error {
	const query = `
        INSERT INTO category_engineers (category_id, user_id) VALUES ($1,$2)
        ON CONFLICT DO NOTHING`
	_, err := r.pool.Exec(ctx, query, categoryID, userID)
	return err
}

func (r *categoryRepository) RemoveEngineer(ctx context.Context, categoryID int64, userID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM category_engineers WHERE category_id=$1 AND user_id=$2`, categoryID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *categoryRepository) members(ctx context.Context, categoryIDs []int64) (map[int64][]domain.User, error) {
	const query = `
        SELECT ce.category_id, u.id::text, u.display_name, u.domain_username, u.email, u.role, u.is_active
        FROM category_engineers ce JOIN users u ON u.id = ce.user_id
        WHERE ce.category_id = ANY($1)
        ORDER BY ce.category_id, u.id`
	result := make(map[int64][]domain.User, len(categoryIDs))
	if len(categoryIDs) == 0 {
		return result, nil
	}
	rows, err := r.pool.Query(ctx, query, categoryIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var categoryID int64
		var user domain.User
		if err := rows.Scan(&categoryID, &user.ID, &user.DisplayName, &user.DomainUsername, &user.Email, &user.Role, &user.IsActive); err != nil {
			return nil, err
		}
		result[categoryID] = append(result[categoryID], user)
	}
	return result, rows.Err()
}
