package token

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestService(t *testing.T, ttl time.Duration) *Service {
	t.Helper()
	svc, err := NewService(&Config{Secret: "test-secret", SessionTTL: ttl})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestNewService_MissingSecret(t *testing.T) {
	if _, err := NewService(&Config{}); err == nil {
		t.Error("expected error for missing secret")
	}
}

func TestConfig_DefaultTTL(t *testing.T) {
	cfg := &Config{Secret: "s"}
	cfg.ApplyDefaults()
	if cfg.SessionTTL != 7*24*time.Hour {
		t.Errorf("expected 7-day default TTL, got %v", cfg.SessionTTL)
	}
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	svc := newTestService(t, time.Hour)

	tok, err := svc.Issue("ann")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	username, err := svc.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if username != "ann" {
		t.Errorf("expected identity ann, got %q", username)
	}
}

func TestVerify_Expired(t *testing.T) {
	svc := newTestService(t, -time.Minute)

	tok, err := svc.Issue("ann")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := svc.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	svc := newTestService(t, time.Hour)
	other, err := NewService(&Config{Secret: "other-secret"})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	tok, err := other.Issue("ann")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := svc.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for foreign signature, got %v", err)
	}
}

func TestVerify_Tampered(t *testing.T) {
	svc := newTestService(t, time.Hour)

	tok, err := svc.Issue("ann")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", tok)
	}
	// Flip a character in the payload segment.
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := svc.Verify(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	svc := newTestService(t, time.Hour)

	for _, tok := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		if _, err := svc.Verify(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("token %q: expected ErrInvalidToken, got %v", tok, err)
		}
	}
}

func TestVerify_MissingIdentity(t *testing.T) {
	svc := newTestService(t, time.Hour)

	tok, err := svc.Issue("")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := svc.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for empty identity, got %v", err)
	}
}
