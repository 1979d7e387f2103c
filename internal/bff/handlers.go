// Package bff contains the backend-for-frontend route handlers: thin
// proxies that forward to the upstream storefront API, normalize the
// response envelope and apply the two-tier caching policy.
package bff

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"

	"storefront-bff/internal/audit"
	"storefront-bff/internal/auth"
	"storefront-bff/internal/cache"
	"storefront-bff/internal/catalog"
	"storefront-bff/internal/envelope"
	"storefront-bff/internal/metrics"
	"storefront-bff/internal/query"
	"storefront-bff/internal/session"
	"storefront-bff/internal/upstream"
	"storefront-bff/pkg/logger"
)

// Downstream caches/CDNs may serve a cached proxy response for up to an
// hour at the edge and keep serving it stale for a day while revalidating
// in the background.
const cacheControlValue = "public, s-maxage=3600, stale-while-revalidate=86400"

const categoriesCacheKey = "categories"

// Stale windows for client-facing query results: reference data is slow-
// moving, product listings are not.
const (
	categoriesStaleTime = 10 * time.Minute
	productsStaleTime   = 30 * time.Second
)

var emptyList = json.RawMessage("[]")

// Handlers groups the BFF route handlers for dependency injection.
// Keep these thin: proxy, normalize, cache — business logic stays upstream.
type Handlers struct {
	Upstream *upstream.Client
	Cache    cache.Store
	Queries  *query.Client
	Sessions *session.Manager
	Auth     *auth.Manager
	Audit    *audit.Service

	// RevalidateWindow is how long a cached payload is served without a
	// background refresh; HardTTL is the cache entry lifetime.
	RevalidateWindow time.Duration
	HardTTL          time.Duration

	refresh singleflight.Group
}

// Categories proxies GET /api/v1/categories with stale-while-revalidate
// semantics over the server-side cache.
func (h *Handlers) Categories(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromGin(c)

	e, ok, err := h.Cache.Get(ctx, categoriesCacheKey)
	if err != nil {
		// A broken cache tier degrades to a plain proxy.
		log.Warn("cache get failed", "key", categoriesCacheKey, "err", err)
		ok = false
	}

	if ok {
		if e.Age(time.Now()) < h.RevalidateWindow {
			metrics.RecordCacheOutcome(categoriesCacheKey, "hit")
		} else {
			metrics.RecordCacheOutcome(categoriesCacheKey, "stale")
			h.refreshCategoriesAsync(log)
		}
		respondList(c, http.StatusOK, e.Payload)
		return
	}

	metrics.RecordCacheOutcome(categoriesCacheKey, "miss")

	payload, status, upErr, err := h.fetchCategories(ctx)
	if err != nil {
		log.Error("categories fetch failed", "err", err)
		respondListError(c, http.StatusInternalServerError, &envelope.Error{Message: "upstream request failed"})
		return
	}
	if upErr != nil {
		log.Error("categories upstream error", "status", status, "code", upErr.Code)
		respondListError(c, status, upErr)
		return
	}

	if err := h.Cache.Set(ctx, categoriesCacheKey, payload, []string{catalog.CategoriesCacheTag}, h.HardTTL); err != nil {
		log.Warn("cache set failed", "key", categoriesCacheKey, "err", err)
	}
	respondList(c, http.StatusOK, payload)
}

// fetchCategories calls upstream and unwraps the list payload.
// The three return shapes mirror the error taxonomy: (payload, 200, nil, nil)
// on success, (nil, status, upstreamError, nil) on a non-2xx reply, and
// (nil, 0, nil, err) on transport/parse failure.
func (h *Handlers) fetchCategories(ctx context.Context) (json.RawMessage, int, *envelope.Error, error) {
	resp, err := h.Upstream.Get(ctx, upstream.PathCategories)
	if err != nil {
		metrics.RecordUpstreamFailure(upstream.PathCategories)
		return nil, 0, nil, err
	}
	metrics.RecordUpstream(upstream.PathCategories, resp.Status)

	if !resp.OK() {
		upErr := resp.Envelope.Error
		if upErr == nil {
			upErr = &envelope.Error{Message: fmt.Sprintf("upstream returned status %d", resp.Status)}
		}
		return nil, resp.Status, upErr, nil
	}

	return resp.Envelope.UnwrapList(), resp.Status, nil, nil
}

// refreshCategoriesAsync refreshes the cached categories in the background,
// collapsed across concurrent stale hits. The refresh is detached from the
// request context so a client disconnect does not abort it.
func (h *Handlers) refreshCategoriesAsync(log loggerIface) {
	go func() {
		_, _, _ = h.refresh.Do(categoriesCacheKey, func() (any, error) {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			payload, _, upErr, err := h.fetchCategories(ctx)
			if err != nil {
				log.Warn("background refresh failed", "key", categoriesCacheKey, "err", err)
				return nil, nil
			}
			if upErr != nil {
				log.Warn("background refresh upstream error", "key", categoriesCacheKey, "code", upErr.Code)
				return nil, nil
			}
			if err := h.Cache.Set(ctx, categoriesCacheKey, payload, []string{catalog.CategoriesCacheTag}, h.HardTTL); err != nil {
				log.Warn("background refresh cache set failed", "key", categoriesCacheKey, "err", err)
			}
			return nil, nil
		})
	}()
}

// loggerIface is the subset of *slog.Logger the handlers need.
type loggerIface interface {
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

func respondList(c *gin.Context, status int, payload json.RawMessage) {
	if len(payload) == 0 {
		payload = emptyList
	}
	c.Header("Cache-Control", cacheControlValue)
	c.JSON(status, gin.H{"data": payload})
}

// respondListError always carries an empty data sequence so clients can
// iterate without nil checks. Error responses are never edge-cached.
func respondListError(c *gin.Context, status int, upErr *envelope.Error) {
	c.JSON(status, gin.H{"error": upErr, "data": emptyList})
}
