package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"charityhub/internal/domain"
)

const testSecret = "test-secret"

func TestIssueVerify_RoundTrip(t *testing.T) {
	token, err := Issue(testSecret, "user-1", domain.UserRoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	identity, err := Verify(testSecret, token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if identity.UserID != "user-1" {
		t.Errorf("unexpected user id: %q", identity.UserID)
	}
	if identity.Role != domain.UserRoleAdmin {
		t.Errorf("unexpected role: %q", identity.Role)
	}
}

func TestVerify_FailsClosed(t *testing.T) {
	valid, err := Issue(testSecret, "user-1", domain.UserRoleMember, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	expired, err := Issue(testSecret, "user-1", domain.UserRoleMember, -time.Minute)
	if err != nil {
		t.Fatalf("issue expired: %v", err)
	}

	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + ".AAAA"

	cases := []struct {
		name       string
		credential string
	}{
		{"empty", ""},
		{"malformed", "not-a-token"},
		{"two parts", parts[0] + "." + parts[1]},
		{"bad signature", tampered},
		{"expired", expired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			identity, err := Verify(testSecret, tc.credential)
			if !errors.Is(err, domain.ErrUnauthorized) {
				t.Fatalf("expected ErrUnauthorized, got %v", err)
			}
			if identity != (Identity{}) {
				t.Fatalf("expected zero identity, got %+v", identity)
			}
		})
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	token, err := Issue(testSecret, "user-1", domain.UserRoleMember, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := Verify("other-secret", token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestVerify_RejectsUnknownRole(t *testing.T) {
	token, err := Issue(testSecret, "user-1", domain.UserRole("superuser"), time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := Verify(testSecret, token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "password123") {
		t.Error("expected matching password to verify")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("expected mismatched password to fail")
	}
}
