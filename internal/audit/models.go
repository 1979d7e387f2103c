package audit

import "time"

// Event is an immutable, append-only audit record of an admin action.
//
// Invariants:
//   - Events are never updated or deleted.
//   - Actor and ip capture are best-effort; do not block admin flows on
//     audit failures.
type Event struct {
	ID string `json:"id"`

	// Type indicates the business category of the audit record.
	Type EventType `json:"type"`

	// ActorEmail is the authenticated user causing the event.
	ActorEmail string `json:"actor_email,omitempty"`
	ActorRoles string `json:"actor_roles,omitempty"`

	// IPAddress should capture the original client IP when available.
	IPAddress string `json:"ip_address,omitempty"`

	// CacheTag is the invalidated tag for cache events.
	CacheTag string `json:"cache_tag,omitempty"`
	// RemovedEntries is how many cached entries the invalidation dropped.
	RemovedEntries int `json:"removed_entries,omitempty"`

	// Message is a short human-readable description for internal ops.
	Message string `json:"message,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type EventType string

const (
	EventTypeCacheInvalidation EventType = "cache_invalidation"
	EventTypeAdminAction       EventType = "admin_action"
)
