// Package cache is the server-side tier of the BFF's two-tier caching
// policy: cached upstream payloads with tag-based invalidation. The second
// tier (edge/CDN) is driven by response headers in the proxy layer.
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Entry is a cached upstream payload. StoredAt drives the
// stale-while-revalidate decision in the proxy layer.
type Entry struct {
	Payload  json.RawMessage `json:"payload"`
	StoredAt time.Time       `json:"storedAt"`
}

// Age reports how long ago the entry was stored.
func (e Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.StoredAt)
}

// Store is the persistence contract for cached payloads.
//
// Set associates the entry with logical tags; InvalidateTag removes every
// entry sharing a tag so an admin action can force a refresh without
// waiting out the TTL.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, payload json.RawMessage, tags []string, ttl time.Duration) error
	InvalidateTag(ctx context.Context, tag string) (int, error)
}
