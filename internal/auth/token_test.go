package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	user := &domain.User{ID: "11111111-1111-1111-1111-111111111111", Role: domain.RoleAdministrator}

	token, exp, err := tm.GenerateToken(user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if exp.IsZero() {
		t.Fatalf("expected expiry")
	}
	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID() != user.ID || claims.Role != domain.RoleAdministrator {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestParseTokenRejectsForeignSignature(t *testing.T) {
	token, _, err := NewTokenManager("one", 5).GenerateToken(&domain.User{ID: "u", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewTokenManager("two", 5).ParseToken(token); err == nil {
		t.Fatalf("expected signature failure")
	}
	if _, err := NewTokenManager("one", 5).ParseToken("not-a-token"); err == nil {
		t.Fatalf("expected parse failure")
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("long-enough", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := ComparePassword(hash, "long-enough"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := ComparePassword(hash, "wrong-one"); err == nil {
		t.Fatalf("expected mismatch")
	}
	if _, err := HashPassword("short", 4); err != ErrPasswordTooShort {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	tm := NewTokenManager("secret", 1)
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := tm.GenerateToken(&domain.User{ID: "u", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := tm.ParseToken(token); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestParseTokenRejectsMissingRole(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	token, _, err := tm.GenerateToken(&domain.User{ID: "u"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := tm.ParseToken(token); !errors.Is(err, ErrTokenIdentity) {
		t.Fatalf("expected ErrTokenIdentity, got %v", err)
	}
}
