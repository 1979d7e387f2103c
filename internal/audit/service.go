package audit

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
//
// It MUST be append-only. No Update/Delete methods are provided by design.
type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service records internal audit information. Callers should treat audit
// logging as best-effort; a failed append must not fail the admin action.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// LogCacheInvalidation records a forced cache refresh by an admin.
func (s *Service) LogCacheInvalidation(ctx context.Context, actorEmail string, actorRoles []string, ip, tag string, removed int) error {
	return s.Append(ctx, Event{
		Type:           EventTypeCacheInvalidation,
		ActorEmail:     actorEmail,
		ActorRoles:     strings.Join(actorRoles, ","),
		IPAddress:      ip,
		CacheTag:       tag,
		RemovedEntries: removed,
		Message:        "cache tag invalidated",
	})
}
