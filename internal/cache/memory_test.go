package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestMemoryStore_SetGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Set(ctx, "categories", json.RawMessage(`[{"id":"1"}]`), []string{"categories"}, time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}

	e, ok, err := s.Get(ctx, "categories")
	if err != nil || !ok {
		t.Fatalf("expected hit, ok=%v err=%v", ok, err)
	}
	if string(e.Payload) != `[{"id":"1"}]` {
		t.Fatalf("unexpected payload %s", e.Payload)
	}
	if e.StoredAt.IsZero() {
		t.Fatalf("expected StoredAt assigned")
	}
}

func TestMemoryStore_ExpiryIsAMiss(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	now := time.Unix(1700000000, 0)
	s.clock = func() time.Time { return now }

	if err := s.Set(ctx, "k", json.RawMessage(`[]`), nil, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatalf("expected expired entry to be a miss")
	}
}

func TestMemoryStore_InvalidateTag(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Set(ctx, "categories", json.RawMessage(`[]`), []string{"categories"}, time.Hour)
	s.Set(ctx, "categories:featured", json.RawMessage(`[]`), []string{"categories"}, time.Hour)
	s.Set(ctx, "products:p1", json.RawMessage(`[]`), []string{"products"}, time.Hour)

	removed, err := s.InvalidateTag(ctx, "categories")
	if err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}

	if _, ok, _ := s.Get(ctx, "categories"); ok {
		t.Fatalf("expected tagged entry gone")
	}
	if _, ok, _ := s.Get(ctx, "products:p1"); !ok {
		t.Fatalf("expected untagged entry kept")
	}

	// Unknown tags are a no-op.
	if n, err := s.InvalidateTag(ctx, "nope"); err != nil || n != 0 {
		t.Fatalf("expected 0 removed for unknown tag, got %d err=%v", n, err)
	}
}

func TestEntry_Age(t *testing.T) {
	stored := time.Unix(1700000000, 0)
	e := Entry{StoredAt: stored}
	if got := e.Age(stored.Add(90 * time.Second)); got != 90*time.Second {
		t.Fatalf("expected 90s age, got %v", got)
	}
}
