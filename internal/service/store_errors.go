package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// PostgreSQL SQLSTATE codes the services translate.
const (
	uniqueViolation           = "23505"
	foreignKeyViolation       = "23503"
	invalidTextRepresentation = "22P02"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// storeError translates a failed write. References to rows that are gone
// become NotFound and malformed ids become ValidationError; anything else is
// an internal error.
func storeError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case foreignKeyViolation:
			return apperrors.NewNotFound("referenced record", map[string]any{"constraint": pgErr.ConstraintName})
		case invalidTextRepresentation:
			return apperrors.NewValidationError("malformed identifier", nil)
		}
	}
	return apperrors.NewInternalError(err)
}

// requireUser checks that id is well formed and names a stored user.
// resource labels the NotFound error, e.g. "engineer".
func requireUser(ctx context.Context, users repository.UserRepository, id, field, resource string) (*domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewValidationError(field+" must be a valid id", map[string]any{field: id})
	}
	user, err := users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound(resource, map[string]any{field: id})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}
