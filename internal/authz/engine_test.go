package authz_test

import (
	"context"
	"errors"
	"testing"

	"github.com/kbukum/noteboard/internal/authz"
	"github.com/kbukum/noteboard/internal/logger"
	"github.com/kbukum/noteboard/internal/storage"
	"github.com/kbukum/noteboard/internal/token"
)

type fakeUsers struct {
	registered map[string]bool
	err        error
}

func (f *fakeUsers) Exists(_ context.Context, username string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.registered[username], nil
}

type fakeMessages struct {
	byID map[string]*storage.Message
	err  error
}

func (f *fakeMessages) FindByID(_ context.Context, id string) (*storage.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byID[id], nil
}

func newTestEngine(t *testing.T, users *fakeUsers, messages *fakeMessages) *authz.Engine {
	t.Helper()
	svc, err := token.NewService(&token.Config{Secret: "test-secret"})
	if err != nil {
		t.Fatalf("token.NewService: %v", err)
	}
	return authz.NewEngine(authz.NewResolver(svc), users, messages, logger.NewDefault("test"))
}

func anonymous() authz.Identity {
	return authz.Identity{State: authz.CredentialAbsent}
}

func invalid() authz.Identity {
	return authz.Identity{State: authz.CredentialInvalid}
}

func authenticated(username string) authz.Identity {
	return authz.Identity{State: authz.CredentialValid, Username: username}
}

// ---------------------------------------------------------------------------
// Visibility gate
// ---------------------------------------------------------------------------

func TestDecideSecretRead(t *testing.T) {
	engine := newTestEngine(t, &fakeUsers{}, &fakeMessages{})

	tests := []struct {
		name  string
		ident authz.Identity
		allow bool
	}{
		{"anonymous denied", anonymous(), false},
		{"invalid credential denied", invalid(), false},
		{"any authenticated identity allowed", authenticated("whoever"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := engine.DecideSecretRead(tt.ident)
			if d.Allowed != tt.allow {
				t.Errorf("expected allowed=%v, got %v (reason %s)", tt.allow, d.Allowed, d.Reason)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Actor-match gate
// ---------------------------------------------------------------------------

func TestDecideActorMatch(t *testing.T) {
	users := &fakeUsers{registered: map[string]bool{"ann": true}}
	engine := newTestEngine(t, users, &fakeMessages{})
	ctx := context.Background()

	tests := []struct {
		name   string
		ident  authz.Identity
		actor  string
		allow  bool
		reason authz.Reason
	}{
		{"valid credential matching actor", authenticated("ann"), "ann", true, ""},
		{"valid credential mismatched actor", authenticated("bob"), "ann", false, authz.ReasonIdentityMismatch},
		{"invalid credential", invalid(), "ann", false, authz.ReasonInvalidCredential},
		{"anonymous with registered actor", anonymous(), "ann", false, authz.ReasonRegisteredIdentity},
		{"anonymous with unregistered actor", anonymous(), "newcomer", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := engine.DecideActorMatch(ctx, tt.ident, tt.actor)
			if err != nil {
				t.Fatalf("DecideActorMatch: %v", err)
			}
			if d.Allowed != tt.allow {
				t.Errorf("expected allowed=%v, got %v", tt.allow, d.Allowed)
			}
			if !tt.allow && d.Reason != tt.reason {
				t.Errorf("expected reason %q, got %q", tt.reason, d.Reason)
			}
		})
	}
}

func TestDecideActorMatch_StorageFailure(t *testing.T) {
	users := &fakeUsers{err: errors.New("connection reset")}
	engine := newTestEngine(t, users, &fakeMessages{})

	_, err := engine.DecideActorMatch(context.Background(), anonymous(), "ann")
	if err == nil {
		t.Error("expected storage error to propagate, not resolve to allow")
	}
}

// ---------------------------------------------------------------------------
// Author-match gate
// ---------------------------------------------------------------------------

func TestDecideAuthorMatch(t *testing.T) {
	users := &fakeUsers{registered: map[string]bool{"ann": true}}
	messages := &fakeMessages{byID: map[string]*storage.Message{
		"m1": {Author: "ann", Body: "mine"},
		"m2": {Author: "drifter", Body: "unclaimed"},
	}}
	engine := newTestEngine(t, users, messages)
	ctx := context.Background()

	tests := []struct {
		name      string
		ident     authz.Identity
		messageID string
		allow     bool
	}{
		{"author updates own message", authenticated("ann"), "m1", true},
		{"other identity denied", authenticated("bob"), "m1", false},
		{"invalid credential denied", invalid(), "m1", false},
		{"anonymous denied for registered author", anonymous(), "m1", false},
		{"anonymous allowed for unregistered author", anonymous(), "m2", true},
		{"missing message bypasses the gate", anonymous(), "no-such-id", true},
		{"missing message bypasses even with foreign credential", authenticated("bob"), "no-such-id", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := engine.DecideAuthorMatch(ctx, tt.ident, tt.messageID)
			if err != nil {
				t.Fatalf("DecideAuthorMatch: %v", err)
			}
			if d.Allowed != tt.allow {
				t.Errorf("expected allowed=%v, got %v (reason %s)", tt.allow, d.Allowed, d.Reason)
			}
		})
	}
}

func TestDecideAuthorMatch_LookupFailure(t *testing.T) {
	messages := &fakeMessages{err: errors.New("connection reset")}
	engine := newTestEngine(t, &fakeUsers{}, messages)

	_, err := engine.DecideAuthorMatch(context.Background(), authenticated("ann"), "m1")
	if err == nil {
		t.Error("expected lookup error to propagate, not resolve to allow")
	}
}
