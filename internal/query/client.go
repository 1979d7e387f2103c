// Package query provides keyed fetch deduplication and staleness control
// for remote data. Two concurrent fetches with structurally equal keys
// share one in-flight call and one cached result.
package query

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Key identifies a cached result by resource kind plus canonicalized
// parameters. Construct Params deterministically (sorted, encoded) so that
// structurally equal requests collapse to the same key.
type Key struct {
	Resource string
	Params   string
}

func (k Key) String() string {
	if k.Params == "" {
		return k.Resource
	}
	return k.Resource + "?" + k.Params
}

// Options tune staleness per resource kind: reference data like categories
// gets a long window, volatile product listings a short one.
type Options struct {
	StaleTime time.Duration
}

// FetchFunc loads fresh data for a key.
type FetchFunc func(ctx context.Context) (any, error)

type entry struct {
	value     any
	fetchedAt time.Time
}

// Client caches fetch results by key. It has no retry policy; errors from
// the fetch func surface to the caller as-is.
type Client struct {
	mu      sync.Mutex
	entries map[string]entry
	group   singleflight.Group

	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewClient() *Client {
	return &Client{entries: make(map[string]entry), clock: time.Now}
}

// Fetch returns the cached value for key when it is fresher than
// opts.StaleTime, otherwise it calls fn (collapsed across concurrent
// callers) and caches the result.
//
// Keep-previous-data: when a refetch fails and a previous result exists,
// Fetch returns that stale value alongside the error, so callers keep
// showing the last page instead of blanking while the upstream misbehaves.
//
// The collapsed fetch runs with the context of the caller that initiated
// it; late joiners share its outcome.
func (c *Client) Fetch(ctx context.Context, key Key, opts Options, fn FetchFunc) (any, error) {
	ck := key.String()

	if v, ok := c.fresh(ck, opts.StaleTime); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(ck, func() (any, error) {
		// Another caller may have completed a refresh while this one
		// was queued behind the flight.
		if v, ok := c.fresh(ck, opts.StaleTime); ok {
			return v, nil
		}

		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[ck] = entry{value: v, fetchedAt: c.clock()}
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		if prev, ok := c.peek(ck); ok {
			return prev, err
		}
		return nil, err
	}
	return v, nil
}

// Invalidate drops the cached result for one key.
func (c *Client) Invalidate(key Key) {
	c.mu.Lock()
	delete(c.entries, key.String())
	c.mu.Unlock()
}

// InvalidateResource drops every cached result for a resource kind,
// regardless of parameters.
func (c *Client) InvalidateResource(resource string) {
	prefix := Key{Resource: resource}.String()

	c.mu.Lock()
	for ck := range c.entries {
		if ck == prefix || len(ck) > len(prefix) && ck[:len(prefix)+1] == prefix+"?" {
			delete(c.entries, ck)
		}
	}
	c.mu.Unlock()
}

func (c *Client) fresh(ck string, staleTime time.Duration) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[ck]
	if !ok {
		return nil, false
	}
	if staleTime <= 0 || c.clock().Sub(e.fetchedAt) >= staleTime {
		return nil, false
	}
	return e.value, true
}

func (c *Client) peek(ck string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[ck]
	return e.value, ok
}
