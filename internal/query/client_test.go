package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestFetch_ConcurrentCallersShareOneFetch(t *testing.T) {
	c := NewClient()
	key := Key{Resource: "products", Params: "page=1"}

	var calls atomic.Int32
	release := make(chan struct{})

	fn := func(ctx context.Context) (any, error) {
		calls.Add(1)
		<-release
		return "page-1", nil
	}

	const n = 8
	var wg sync.WaitGroup
	results := make([]any, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Fetch(context.Background(), key, Options{StaleTime: time.Minute}, fn)
			if err != nil {
				t.Errorf("fetch %d: %v", i, err)
			}
			results[i] = v
		}(i)
	}

	// Let all callers pile onto the flight before releasing it.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected a single underlying fetch, got %d", got)
	}
	for i, v := range results {
		if v != "page-1" {
			t.Fatalf("caller %d got %v", i, v)
		}
	}
}

func TestFetch_FreshResultServedWithoutRefetch(t *testing.T) {
	c := NewClient()
	now := time.Unix(1700000000, 0)
	c.clock = func() time.Time { return now }

	key := Key{Resource: "categories"}
	var calls int
	fn := func(ctx context.Context) (any, error) {
		calls++
		return "v1", nil
	}

	opts := Options{StaleTime: 10 * time.Minute}
	if _, err := c.Fetch(context.Background(), key, opts, fn); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	now = now.Add(5 * time.Minute)
	if _, err := c.Fetch(context.Background(), key, opts, fn); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected cached result within stale window, got %d calls", calls)
	}

	now = now.Add(6 * time.Minute)
	if _, err := c.Fetch(context.Background(), key, opts, fn); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected refetch past stale window, got %d calls", calls)
	}
}

func TestFetch_DistinctParamsDoNotShare(t *testing.T) {
	c := NewClient()

	var calls atomic.Int32
	fn := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return "v", nil
	}

	opts := Options{StaleTime: time.Minute}
	c.Fetch(context.Background(), Key{Resource: "products", Params: "page=1"}, opts, fn)
	c.Fetch(context.Background(), Key{Resource: "products", Params: "page=2"}, opts, fn)

	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 fetches for distinct params, got %d", got)
	}
}

func TestFetch_KeepsPreviousDataOnFailedRefetch(t *testing.T) {
	c := NewClient()
	now := time.Unix(1700000000, 0)
	c.clock = func() time.Time { return now }

	key := Key{Resource: "products", Params: "page=1"}
	opts := Options{StaleTime: time.Minute}

	if _, err := c.Fetch(context.Background(), key, opts, func(ctx context.Context) (any, error) {
		return "old-page", nil
	}); err != nil {
		t.Fatalf("seed fetch: %v", err)
	}

	now = now.Add(2 * time.Minute)
	boom := errors.New("upstream down")
	v, err := c.Fetch(context.Background(), key, opts, func(ctx context.Context) (any, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fetch error surfaced, got %v", err)
	}
	if v != "old-page" {
		t.Fatalf("expected previous data preserved, got %v", v)
	}
}

func TestFetch_ErrorWithoutPreviousDataReturnsNil(t *testing.T) {
	c := NewClient()
	boom := errors.New("nope")

	v, err := c.Fetch(context.Background(), Key{Resource: "products"}, Options{StaleTime: time.Minute}, func(ctx context.Context) (any, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) || v != nil {
		t.Fatalf("expected (nil, err), got (%v, %v)", v, err)
	}
}

func TestInvalidateResource(t *testing.T) {
	c := NewClient()
	opts := Options{StaleTime: time.Hour}

	var calls int
	fn := func(ctx context.Context) (any, error) {
		calls++
		return "v", nil
	}

	c.Fetch(context.Background(), Key{Resource: "products", Params: "page=1"}, opts, fn)
	c.Fetch(context.Background(), Key{Resource: "products", Params: "page=2"}, opts, fn)
	c.Fetch(context.Background(), Key{Resource: "categories"}, opts, fn)

	c.InvalidateResource("products")

	c.Fetch(context.Background(), Key{Resource: "products", Params: "page=1"}, opts, fn)
	c.Fetch(context.Background(), Key{Resource: "categories"}, opts, fn)

	// 3 seeds + 1 refetch for the invalidated products page.
	if calls != 4 {
		t.Fatalf("expected 4 fetches, got %d", calls)
	}
}
