package token

import (
	"errors"
	"testing"
	"time"

	domain "github.com/LerianStudio/lerian-usa-site/backend/internal/domain/user"
)

func TestIssueAndParseRoundTrip(t *testing.T) {
	manager := NewJWTManager("secret", time.Hour)
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return fixed }

	raw, expiresAt, err := manager.Issue(&domain.User{ID: 7, OpenID: "oid-7", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !expiresAt.Equal(fixed.Add(time.Hour)) {
		t.Fatalf("unexpected expiry %v", expiresAt)
	}

	claims, err := manager.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 7 || claims.OpenID != "oid-7" || !claims.IsAdmin() {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.TokenID == "" {
		t.Fatalf("expected token id")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	manager := NewJWTManager("secret", time.Minute)
	issuedAt := time.Now().Add(-time.Hour)
	manager.now = func() time.Time { return issuedAt }

	raw, _, err := manager.Issue(&domain.User{ID: 1, Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	manager.now = time.Now
	if _, err := manager.Parse(raw); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParseRejectsForeignSignature(t *testing.T) {
	raw, _, err := NewJWTManager("one", time.Hour).Issue(&domain.User{ID: 1})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewJWTManager("two", time.Hour).Parse(raw); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if _, err := NewJWTManager("one", time.Hour).Parse("not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for garbage, got %v", err)
	}
}

func TestMissingSecretAndUser(t *testing.T) {
	empty := NewJWTManager("", time.Hour)
	if _, _, err := empty.Issue(&domain.User{ID: 1}); !errors.Is(err, ErrSecretMissing) {
		t.Fatalf("expected ErrSecretMissing, got %v", err)
	}
	if _, err := empty.Parse("x"); !errors.Is(err, ErrSecretMissing) {
		t.Fatalf("expected ErrSecretMissing on parse, got %v", err)
	}
	if _, _, err := NewJWTManager("s", time.Hour).Issue(nil); err == nil {
		t.Fatalf("expected error for nil user")
	}
}

func TestParseDefaultsRoleToUser(t *testing.T) {
	manager := NewJWTManager("secret", time.Hour)
	raw, _, err := manager.Issue(&domain.User{ID: 3})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := manager.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Role != domain.RoleUser || claims.IsAdmin() {
		t.Fatalf("expected plain user role, got %q", claims.Role)
	}
}
