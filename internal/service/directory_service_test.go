package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

func newDirectoryFixture() (*DirectoryService, *fakeUserRepo, *fakeCategoryRepo) {
	users := newFakeUserRepo(
		domain.User{ID: engineerOne, Role: domain.RoleEngineer, IsActive: true},
		domain.User{ID: requesterID, Role: domain.RoleUser, IsActive: true},
	)
	categories := newFakeCategoryRepo(domain.Category{ID: hardwareID, Name: "Hardware"})
	svc := NewDirectoryService(DirectoryDependencies{UserRepo: users, CategoryRepo: categories, BcryptCost: 4})
	return svc, users, categories
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc, users, _ := newDirectoryFixture()

	user, err := svc.CreateUser(context.Background(), NewUser{
		DisplayName: "Ana Engineer", DomainUsername: "CORP\\ana", Role: domain.RoleEngineer, Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.ID == "" || !user.IsActive {
		t.Fatalf("unexpected user %+v", user)
	}
	hash, ok := users.passwords[user.ID]
	if !ok {
		t.Fatalf("password hash not stored")
	}
	if err := auth.ComparePassword(hash, "s3cret-pass"); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestCreateUserDefaultsRoleAndValidates(t *testing.T) {
	svc, _, _ := newDirectoryFixture()

	user, err := svc.CreateUser(context.Background(), NewUser{DisplayName: "Bo", DomainUsername: "CORP\\bo"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("role = %s, want User", user.Role)
	}

	_, err = svc.CreateUser(context.Background(), NewUser{DisplayName: "x", DomainUsername: "y", Role: "Root"})
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	_, err = svc.CreateUser(context.Background(), NewUser{DisplayName: "x", DomainUsername: "y", Password: "short"})
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error for short password, got %v", err)
	}
}

func TestCreateUserDuplicateIsConflict(t *testing.T) {
	svc, users, _ := newDirectoryFixture()
	users.createErr = &pgconn.PgError{Code: "23505"}

	_, err := svc.CreateUser(context.Background(), NewUser{DisplayName: "x", DomainUsername: "dup"})
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestListUsersByRole(t *testing.T) {
	svc, _, _ := newDirectoryFixture()
	role := domain.RoleEngineer

	users, err := svc.ListUsers(context.Background(), &role)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 1 || users[0].ID != engineerOne {
		t.Fatalf("unexpected users %+v", users)
	}

	bad := domain.Role("Janitor")
	if _, err := svc.ListUsers(context.Background(), &bad); !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCategoryMembership(t *testing.T) {
	svc, _, _ := newDirectoryFixture()
	ctx := context.Background()

	category, err := svc.AddEngineer(ctx, hardwareID, engineerOne)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(category.Engineers) != 1 {
		t.Fatalf("engineer not added")
	}

	if _, err := svc.AddEngineer(ctx, hardwareID, requesterID); !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("non-engineer must be rejected, got %v", err)
	}
	if _, err := svc.AddEngineer(ctx, 99, engineerOne); !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("missing category must be not found, got %v", err)
	}
	if _, err := svc.AddEngineer(ctx, hardwareID, engineerTwo); !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("missing user must be not found, got %v", err)
	}

	category, err = svc.RemoveEngineer(ctx, hardwareID, engineerOne)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(category.Engineers) != 0 {
		t.Fatalf("engineer not removed")
	}
	if _, err := svc.RemoveEngineer(ctx, hardwareID, engineerOne); !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("second removal must be not found, got %v", err)
	}
}

func TestCreateCategory(t *testing.T) {
	svc, _, categories := newDirectoryFixture()

	category, err := svc.CreateCategory(context.Background(), " Software ", "apps")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if category.ID == 0 || category.Name != "Software" {
		t.Fatalf("unexpected category %+v", category)
	}
	if _, err := svc.CreateCategory(context.Background(), "", ""); !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	categories.createErr = &pgconn.PgError{Code: "23505"}
	if _, err := svc.CreateCategory(context.Background(), "Software", ""); !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}
