package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestService() *HMACService {
	return NewHMACService("access-secret", "refresh-secret", time.Minute, time.Hour, "jobmatch-test")
}

func TestIssueAndValidateAccessToken(t *testing.T) {
	svc := newTestService()
	sub := Subject{UserID: uuid.New(), Email: "a@b.c", UserType: "employer"}

	tok, err := svc.IssueAccessToken(sub)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if tok.ID == "" || tok.Value == "" {
		t.Fatalf("expected token value and id")
	}

	claims, err := svc.ValidateAccessToken(tok.Value)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != sub.UserID || claims.Email != sub.Email || claims.UserType != "employer" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ID != tok.ID {
		t.Fatalf("expected jti %s, got %s", tok.ID, claims.ID)
	}
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	svc := newTestService()
	sub := Subject{UserID: uuid.New()}

	refresh, err := svc.IssueRefreshToken(sub)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.ValidateAccessToken(refresh.Value); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh token accepted as access token: %v", err)
	}

	access, _ := svc.IssueAccessToken(sub)
	if _, err := svc.ValidateRefreshToken(access.Value); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("access token accepted as refresh token: %v", err)
	}
}

func TestExpiredToken(t *testing.T) {
	svc := newTestService()
	issuedAt := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issuedAt }

	tok, err := svc.IssueAccessToken(Subject{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	svc.now = time.Now
	if _, err := svc.ValidateAccessToken(tok.Value); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTamperedAndForeignTokens(t *testing.T) {
	svc := newTestService()
	tok, _ := svc.IssueAccessToken(Subject{UserID: uuid.New()})

	if _, err := svc.ValidateAccessToken(tok.Value + "x"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token for tampered signature, got %v", err)
	}

	other := NewHMACService("other", "other", time.Minute, time.Hour, "jobmatch-test")
	if _, err := other.ValidateAccessToken(tok.Value); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token for foreign secret, got %v", err)
	}

	if _, err := svc.IssueAccessToken(Subject{}); err == nil {
		t.Fatalf("expected error for empty subject")
	}
}
