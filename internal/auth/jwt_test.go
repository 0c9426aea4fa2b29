package auth_test

import (
	"testing"
	"time"

	"github.com/jobhunt/jobhunt/internal/auth"
)

func newTestManager() *auth.Manager {
	return auth.NewManager("access-secret", "refresh-secret", 15*time.Minute, 14*24*time.Hour)
}

func TestIssueAndVerifyAccess(t *testing.T) {
	m := newTestManager()

	token, err := m.IssueAccess("user-1", "a@b.com")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	claims, err := m.VerifyAccess(token)
	if err != nil {
		t.Fatalf("VerifyAccess: %v", err)
	}

	if claims.UserID != "user-1" {
		t.Errorf("got userID %q, want %q", claims.UserID, "user-1")
	}
	if claims.Email != "a@b.com" {
		t.Errorf("got email %q, want %q", claims.Email, "a@b.com")
	}
}

func TestIssueAndVerifyRefresh(t *testing.T) {
	m := newTestManager()

	token, err := m.IssueRefresh("user-1", "a@b.com")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}

	claims, err := m.VerifyRefresh(token)
	if err != nil {
		t.Fatalf("VerifyRefresh: %v", err)
	}

	if claims.UserID != "user-1" {
		t.Errorf("got userID %q, want %q", claims.UserID, "user-1")
	}
}

// The two signing domains are independent: a token from one must never
// verify in the other.
func TestCrossDomainRejection(t *testing.T) {
	m := newTestManager()

	access, err := m.IssueAccess("user-1", "a@b.com")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	refresh, err := m.IssueRefresh("user-1", "a@b.com")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}

	if _, err := m.VerifyRefresh(access); err == nil {
		t.Errorf("access token verified in refresh domain")
	}

	if _, err := m.VerifyAccess(refresh); err == nil {
		t.Errorf("refresh token verified in access domain")
	}
}

func TestVerifyAccessFailures(t *testing.T) {
	m := newTestManager()

	expired := auth.NewManager("access-secret", "refresh-secret", -1*time.Minute, 14*24*time.Hour)
	expiredToken, err := expired.IssueAccess("user-1", "a@b.com")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	otherSecret := auth.NewManager("other-secret", "refresh-secret", 15*time.Minute, 14*24*time.Hour)
	foreignToken, err := otherSecret.IssueAccess("user-1", "a@b.com")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "malformed", token: "not.a.jwt"},
		{name: "empty", token: ""},
		{name: "expired", token: expiredToken},
		{name: "wrong_signature", token: foreignToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.VerifyAccess(tt.token)

			if err == nil {
				t.Fatalf("expected error for %s token", tt.name)
			}
		})
	}
}
