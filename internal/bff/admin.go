package bff

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-bff/internal/auth"
	"storefront-bff/internal/catalog"
	"storefront-bff/internal/envelope"
	"storefront-bff/internal/metrics"
	"storefront-bff/internal/query"
	"storefront-bff/internal/upstream"
	"storefront-bff/pkg/logger"
)

const productsResource = "products"

// upstreamStatusError carries a non-2xx upstream reply through the query
// client so the handler can pass status and error object through verbatim.
type upstreamStatusError struct {
	Status int
	Err    *envelope.Error
}

func (e *upstreamStatusError) Error() string {
	return fmt.Sprintf("upstream status %d", e.Status)
}

// SearchProducts serves the admin inventory screen. Results are keyed by
// the canonical search params: concurrent identical searches share one
// upstream call, and a failed refresh keeps serving the previous page so
// the table does not blank out.
func (h *Handlers) SearchProducts(c *gin.Context) {
	log := logger.FromGin(c)

	params, err := catalog.ParseSearchParams(c.Request.URL.Query())
	if err != nil {
		respondListError(c, http.StatusBadRequest, &envelope.Error{Message: err.Error()})
		return
	}

	key := query.Key{Resource: productsResource, Params: params.Encode()}
	v, err := h.Queries.Fetch(c.Request.Context(), key, query.Options{StaleTime: productsStaleTime}, func(ctx context.Context) (any, error) {
		return h.fetchProducts(ctx, params)
	})

	if err != nil {
		if v != nil {
			// Keep-previous-data: show the last page alongside a hint
			// that it may be out of date.
			log.Warn("product search refresh failed, serving previous result", "err", err)
			c.JSON(http.StatusOK, gin.H{
				"data": v.(json.RawMessage),
				"meta": envelope.Meta{Message: "stale result: refresh failed"},
			})
			return
		}

		var upErr *upstreamStatusError
		if errors.As(err, &upErr) {
			log.Error("product search upstream error", "status", upErr.Status)
			respondListError(c, upErr.Status, upErr.Err)
			return
		}
		log.Error("product search failed", "err", err)
		respondListError(c, http.StatusInternalServerError, &envelope.Error{Message: "upstream request failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": v.(json.RawMessage)})
}

func (h *Handlers) fetchProducts(ctx context.Context, params catalog.SearchParams) (json.RawMessage, error) {
	path := upstream.PathProductSearch + "?" + params.Encode()

	resp, err := h.Upstream.Get(ctx, path)
	if err != nil {
		metrics.RecordUpstreamFailure(upstream.PathProductSearch)
		return nil, err
	}
	metrics.RecordUpstream(upstream.PathProductSearch, resp.Status)

	if !resp.OK() {
		upErr := resp.Envelope.Error
		if upErr == nil {
			upErr = &envelope.Error{Message: fmt.Sprintf("upstream returned status %d", resp.Status)}
		}
		return nil, &upstreamStatusError{Status: resp.Status, Err: upErr}
	}
	return resp.Envelope.UnwrapList(), nil
}

type invalidateRequest struct {
	Tag string `json:"tag"`
}

// InvalidateCache force-refreshes every cached entry sharing a tag, so an
// admin change shows up without waiting out the revalidation window.
func (h *Handlers) InvalidateCache(c *gin.Context) {
	log := logger.FromGin(c)

	var req invalidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, &envelope.Error{Message: "invalid json"})
		return
	}
	if req.Tag == "" || len(req.Tag) > 64 {
		respondError(c, http.StatusBadRequest, &envelope.Error{Message: "tag required (max 64 chars)"})
		return
	}

	removed, err := h.Cache.InvalidateTag(c.Request.Context(), req.Tag)
	if err != nil {
		log.Error("cache invalidation failed", "tag", req.Tag, "err", err)
		respondError(c, http.StatusInternalServerError, &envelope.Error{Message: "cache invalidation failed"})
		return
	}

	// Query-level results share the same logical tag names.
	h.Queries.InvalidateResource(req.Tag)
	metrics.RecordInvalidation(req.Tag)

	// Best-effort audit; a failed append must not fail the invalidation.
	if h.Audit != nil {
		actor, _ := auth.UserFromContext(c.Request.Context())
		email, roles := "", []string(nil)
		if actor != nil {
			email, roles = actor.Email, actor.Roles
		}
		if err := h.Audit.LogCacheInvalidation(c.Request.Context(), email, roles, c.ClientIP(), req.Tag, removed); err != nil {
			log.Warn("audit append failed", "err", err)
		}
	}

	log.Info("cache tag invalidated", "tag", req.Tag, "removed", removed)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"tag": req.Tag, "removedEntries": removed}})
}
