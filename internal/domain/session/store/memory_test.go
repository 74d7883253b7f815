package store

import (
	"context"
	"testing"
	"time"

	"miscrits-atlas/internal/domain/session"
)

func TestMemoryStore_SaveLoad(t *testing.T) {
	s := NewMemory(Config{TTL: time.Hour})
	defer s.Close(context.Background())
	ctx := context.Background()

	sess := session.Session{
		Token:        "tok-1",
		RefreshToken: "refresh-1",
		UserID:       "user-1",
		Username:     "alice",
	}
	if err := s.Save(ctx, "default", sess, 0); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := s.Load(ctx, "default")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected session, got nil")
	}
	if got.Token != "tok-1" || got.Username != "alice" {
		t.Errorf("unexpected session: %+v", got)
	}
	if got.StoredAt.IsZero() {
		t.Error("StoredAt not stamped on save")
	}
	if got.ExpiresAt.IsZero() {
		t.Error("ExpiresAt not defaulted on save")
	}
}

func TestMemoryStore_LoadAbsent(t *testing.T) {
	s := NewMemory(Config{})
	defer s.Close(context.Background())

	got, err := s.Load(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for absent key, got %+v", got)
	}
}

func TestMemoryStore_ExpiredSessionDeleted(t *testing.T) {
	s := NewMemory(Config{TTL: time.Hour})
	defer s.Close(context.Background())
	ctx := context.Background()

	sess := session.Session{
		Token:     "tok-expired",
		ExpiresAt: time.Now().Add(-time.Second),
	}
	if err := s.Save(ctx, "stale", sess, time.Hour); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := s.Load(ctx, "stale")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected expired session to load as nil, got %+v", got)
	}

	keys, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for _, k := range keys {
		if k == "stale" {
			t.Error("expired record should have been deleted on load")
		}
	}
}

func TestMemoryStore_Clear(t *testing.T) {
	s := NewMemory(Config{})
	defer s.Close(context.Background())
	ctx := context.Background()

	if err := s.Save(ctx, "default", session.Session{Token: "tok"}, 0); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Clear(ctx, "default"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	got, err := s.Load(ctx, "default")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil after Clear, got %+v", got)
	}
	// Clearing an absent key is not an error.
	if err := s.Clear(ctx, "default"); err != nil {
		t.Errorf("Clear of absent key failed: %v", err)
	}
}

func TestMemoryStore_SaveOverwrite(t *testing.T) {
	s := NewMemory(Config{})
	defer s.Close(context.Background())
	ctx := context.Background()

	if err := s.Save(ctx, "default", session.Session{Token: "first"}, 0); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Save(ctx, "default", session.Session{Token: "second"}, 0); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := s.Load(ctx, "default")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got == nil || got.Token != "second" {
		t.Errorf("expected overwritten session, got %+v", got)
	}

	keys, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(keys) != 1 {
		t.Errorf("expected one key after overwrite, got %v", keys)
	}
}

func TestMemoryStore_CleanupExpired(t *testing.T) {
	s := NewMemory(Config{TTL: time.Hour})
	defer s.Close(context.Background())
	ctx := context.Background()

	if err := s.Save(ctx, "live", session.Session{Token: "a"}, time.Hour); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Save(ctx, "dead", session.Session{Token: "b"}, time.Millisecond); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if err := s.CleanupExpired(ctx); err != nil {
		t.Fatalf("CleanupExpired failed: %v", err)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats["total"] != 1 {
		t.Errorf("expected one remaining session, got %v", stats["total"])
	}
}

func TestFactory(t *testing.T) {
	s, err := New(Config{Driver: "memory"}, Dependencies{})
	if err != nil {
		t.Fatalf("New(memory) failed: %v", err)
	}
	s.Close(context.Background())

	if _, err := New(Config{Driver: "sqlite"}, Dependencies{}); err == nil {
		t.Error("expected error for sqlite driver without database")
	}
	if _, err := New(Config{Driver: "bogus"}, Dependencies{}); err == nil {
		t.Error("expected error for unknown driver")
	}
}
