// Package upstream is the HTTP client for the storefront REST API that owns
// all business logic (auth, inventory, orders, pricing). The BFF only
// forwards, normalizes and caches.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"storefront-bff/internal/config"
	"storefront-bff/internal/envelope"
)

// Resource paths consumed by the BFF.
const (
	PathCategories    = "/api/v1/categories"
	PathProductSearch = "/api/v1/admin/products"
	PathLogin         = "/api/v1/auth/login"
	PathProfile       = "/api/v1/account/profile"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(cfg config.UpstreamConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.RequestTimeout},
	}
}

// Response is a decoded upstream reply. A non-2xx status is not a Go error:
// the proxy layer passes it through with the upstream error object intact.
// Go errors are reserved for transport and parse failures.
type Response struct {
	Status   int
	Envelope envelope.Envelope
}

func (r Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

func (c *Client) Get(ctx context.Context, path string) (Response, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (Response, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *Client) Put(ctx context.Context, path string, body any) (Response, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return Response{}, fmt.Errorf("upstream: encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return Response{}, fmt.Errorf("upstream: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("upstream: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return Response{}, fmt.Errorf("upstream: decode %s %s: %w", method, path, err)
	}

	return Response{Status: resp.StatusCode, Envelope: env}, nil
}
