package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/kbukum/noteboard/internal/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := Config{
		DSN:         filepath.Join(t.TempDir(), "test.db"),
		AutoMigrate: true,
		MaxRetries:  1,
	}
	store, err := Open(context.Background(), cfg, logger.NewDefault("test"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func strptr(s string) *string { return &s }

// ---------------------------------------------------------------------------
// Config
// ---------------------------------------------------------------------------

func TestConfig_Validate_MissingDSN(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing DSN")
	}
}

func TestConfig_Validate_BadDuration(t *testing.T) {
	cfg := Config{DSN: ":memory:", ConnMaxLifetime: "tomorrow"}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unparseable conn_max_lifetime")
	}
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

func TestUserRepo_CreateAndExists(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	exists, err := store.Users().Exists(ctx, "ann")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Error("expected ann to be unregistered")
	}

	user, err := store.Users().Create(ctx, "ann", "hash")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("expected a generated id")
	}

	exists, err = store.Users().Exists(ctx, "ann")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !exists {
		t.Error("expected ann to be registered")
	}
}

func TestUserRepo_Create_DuplicateUsername(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Users().Create(ctx, "ann", "hash"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := store.Users().Create(ctx, "ann", "other"); err == nil {
		t.Error("expected unique constraint violation")
	}
}

func TestUserRepo_FindByUsername_Absent(t *testing.T) {
	store := newTestStore(t)

	user, err := store.Users().FindByUsername(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if user != nil {
		t.Error("expected nil for an unregistered username")
	}
}

func TestUserRepo_FindByUsername_Found(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Users().Create(ctx, "ann", "hash"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	user, err := store.Users().FindByUsername(ctx, "ann")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if user == nil || user.PasswordHash != "hash" {
		t.Errorf("unexpected user: %+v", user)
	}
}

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

func TestMessageRepo_CreateAndFind(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	msg := &Message{Body: "hello", Author: "ann", Secret: false}
	if err := store.Messages().Create(ctx, msg); err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := store.Messages().FindByID(ctx, msg.ID.String())
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found == nil || found.Body != "hello" || found.Author != "ann" {
		t.Errorf("unexpected message: %+v", found)
	}
}

func TestMessageRepo_FindByID_Absent(t *testing.T) {
	store := newTestStore(t)

	found, err := store.Messages().FindByID(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found != nil {
		t.Error("expected nil for a missing id")
	}
}

func TestMessageRepo_UpdateByID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	msg := &Message{Body: "before", Author: "ann"}
	if err := store.Messages().Create(ctx, msg); err != nil {
		t.Fatalf("Create: %v", err)
	}

	modified, err := store.Messages().UpdateByID(ctx, msg.ID.String(), MessagePatch{Body: strptr("after")})
	if err != nil {
		t.Fatalf("UpdateByID: %v", err)
	}
	if modified != 1 {
		t.Errorf("expected 1 modified row, got %d", modified)
	}

	found, err := store.Messages().FindByID(ctx, msg.ID.String())
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.Body != "after" {
		t.Errorf("expected updated body, got %q", found.Body)
	}
	if found.Author != "ann" {
		t.Errorf("author must be immutable, got %q", found.Author)
	}
}

func TestMessageRepo_UpdateByID_MissingID(t *testing.T) {
	store := newTestStore(t)

	modified, err := store.Messages().UpdateByID(context.Background(), "no-such-id", MessagePatch{Body: strptr("x")})
	if err != nil {
		t.Fatalf("UpdateByID: %v", err)
	}
	if modified != 0 {
		t.Errorf("expected 0 modified rows, got %d", modified)
	}
}

func TestMessageRepo_UpdateByID_EmptyPatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	msg := &Message{Body: "keep", Author: "ann"}
	if err := store.Messages().Create(ctx, msg); err != nil {
		t.Fatalf("Create: %v", err)
	}

	modified, err := store.Messages().UpdateByID(ctx, msg.ID.String(), MessagePatch{})
	if err != nil {
		t.Fatalf("UpdateByID: %v", err)
	}
	if modified != 0 {
		t.Errorf("expected 0 modified rows for an empty patch, got %d", modified)
	}
}

func TestMessageRepo_DeleteByID_Idempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	msg := &Message{Body: "bye", Author: "ann"}
	if err := store.Messages().Create(ctx, msg); err != nil {
		t.Fatalf("Create: %v", err)
	}

	deleted, err := store.Messages().DeleteByID(ctx, msg.ID.String())
	if err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted row, got %d", deleted)
	}

	// Deleting again reports zero affected rows, not an error.
	deleted, err = store.Messages().DeleteByID(ctx, msg.ID.String())
	if err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected 0 deleted rows, got %d", deleted)
	}
}

func TestMessageRepo_ListByVisibility_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older := &Message{Body: "older", Author: "ann", CreatedAt: time.Now().Add(-time.Hour)}
	newer := &Message{Body: "newer", Author: "bob", CreatedAt: time.Now()}
	hidden := &Message{Body: "hidden", Author: "ann", Secret: true}
	for _, m := range []*Message{older, newer, hidden} {
		if err := store.Messages().Create(ctx, m); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	public, err := store.Messages().ListByVisibility(ctx, false)
	if err != nil {
		t.Fatalf("ListByVisibility: %v", err)
	}
	if len(public) != 2 {
		t.Fatalf("expected 2 public messages, got %d", len(public))
	}
	if public[0].Body != "newer" || public[1].Body != "older" {
		t.Errorf("expected newest-first ordering, got %q then %q", public[0].Body, public[1].Body)
	}

	secret, err := store.Messages().ListByVisibility(ctx, true)
	if err != nil {
		t.Fatalf("ListByVisibility: %v", err)
	}
	if len(secret) != 1 || secret[0].Body != "hidden" {
		t.Errorf("unexpected secret list: %+v", secret)
	}
}
