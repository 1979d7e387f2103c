package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	entryKeyPrefix = "bff:cache:"
	tagKeyPrefix   = "bff:tag:"
)

// invalidateTagScript atomically deletes every cache entry belonging to a
// tag, plus the tag set itself. Atomicity matters: a concurrent Set racing
// a partial invalidation could otherwise leave a stale entry reachable.
var invalidateTagScript = redis.NewScript(`
-- KEYS[1] = tag set key
-- Returns the number of cache entries deleted.
local members = redis.call('SMEMBERS', KEYS[1])
local removed = 0
for _, key in ipairs(members) do
  removed = removed + redis.call('DEL', key)
end
redis.call('DEL', KEYS[1])
return removed
`)

// RedisStore is the production Store. Entries are JSON blobs with a
// server-assigned StoredAt; tags are redis sets of member entry keys.
type RedisStore struct {
	rdb *redis.Client

	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewRedisStore(rdb *redis.Client) (*RedisStore, error) {
	if rdb == nil {
		return nil, errors.New("redis client is nil")
	}
	return &RedisStore{rdb: rdb, clock: time.Now}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	raw, err := s.rdb.Get(ctx, entryKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("cache get %q: %w", key, err)
	}

	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return Entry{}, false, fmt.Errorf("cache decode %q: %w", key, err)
	}
	return e, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, payload json.RawMessage, tags []string, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("cache ttl must be > 0")
	}

	e := Entry{Payload: payload, StoredAt: s.clock().UTC()}
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("cache encode %q: %w", key, err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, entryKeyPrefix+key, raw, ttl)
	for _, tag := range tags {
		tagKey := tagKeyPrefix + tag
		pipe.SAdd(ctx, tagKey, entryKeyPrefix+key)
		// The tag set must outlive its longest-lived member.
		pipe.Expire(ctx, tagKey, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}

func (s *RedisStore) InvalidateTag(ctx context.Context, tag string) (int, error) {
	removed, err := invalidateTagScript.Run(ctx, s.rdb, []string{tagKeyPrefix + tag}).Int()
	if err != nil {
		return 0, fmt.Errorf("cache invalidate tag %q: %w", tag, err)
	}
	return removed, nil
}
