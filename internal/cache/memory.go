package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MemoryStore is a process-local Store used in tests and when the process
// runs without redis (local dev). Expiry is enforced lazily on Get.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	tags    map[string]map[string]struct{}

	// clock is injectable for deterministic tests.
	clock func() time.Time
}

type memoryEntry struct {
	entry     Entry
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		tags:    make(map[string]map[string]struct{}),
		clock:   time.Now,
	}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	me, ok := s.entries[key]
	if !ok {
		return Entry{}, false, nil
	}
	if !s.clock().Before(me.expiresAt) {
		delete(s.entries, key)
		return Entry{}, false, nil
	}
	return me.entry, true, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, payload json.RawMessage, tags []string, ttl time.Duration) error {
	_ = ctx

	now := s.clock()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = memoryEntry{
		entry:     Entry{Payload: append(json.RawMessage(nil), payload...), StoredAt: now},
		expiresAt: now.Add(ttl),
	}
	for _, tag := range tags {
		if s.tags[tag] == nil {
			s.tags[tag] = make(map[string]struct{})
		}
		s.tags[tag][key] = struct{}{}
	}
	return nil
}

func (s *MemoryStore) InvalidateTag(ctx context.Context, tag string) (int, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	keys := s.tags[tag]
	removed := 0
	for key := range keys {
		if _, ok := s.entries[key]; ok {
			delete(s.entries, key)
			removed++
		}
	}
	delete(s.tags, tag)
	return removed, nil
}
