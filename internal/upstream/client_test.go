package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront-bff/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.UpstreamConfig{BaseURL: srv.URL, RequestTimeout: 5 * time.Second})
}

func TestGet_DecodesEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != PathCategories {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("expected json accept header, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"data":[{"id":"1","name":"Shoes"}]},"meta":{"apiVersion":"v1"}}`))
	})

	resp, err := c.Get(context.Background(), PathCategories)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !resp.OK() {
		t.Fatalf("expected 2xx, got %d", resp.Status)
	}
	if resp.Envelope.Meta == nil || resp.Envelope.Meta.APIVersion != "v1" {
		t.Fatalf("expected meta decoded, got %+v", resp.Envelope.Meta)
	}
	var cats []struct {
		Name string `json:"name"`
	}
	if err := resp.Envelope.UnwrapListInto(&cats); err != nil {
		t.Fatalf("unwrap: %v", err)
	}
	if len(cats) != 1 || cats[0].Name != "Shoes" {
		t.Fatalf("unexpected categories %+v", cats)
	}
}

func TestGet_Non2xxIsNotAGoError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":{"code":"UNAVAILABLE"}}`))
	})

	resp, err := c.Get(context.Background(), PathCategories)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if resp.Status != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Status)
	}
	if !resp.Envelope.HasError() || resp.Envelope.Error.Code != "UNAVAILABLE" {
		t.Fatalf("expected upstream error preserved, got %+v", resp.Envelope.Error)
	}
}

func TestGet_MalformedBodyIsAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": not-json`))
	})

	if _, err := c.Get(context.Background(), PathCategories); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestGet_UnreachableUpstreamIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // dead on arrival

	c := NewClient(config.UpstreamConfig{BaseURL: srv.URL, RequestTimeout: time.Second})
	if _, err := c.Get(context.Background(), PathCategories); err == nil {
		t.Fatalf("expected transport error")
	}
}

func TestPost_SendsJSONBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("expected json content type, got %q", got)
		}
		w.Write([]byte(`{"data":{"accessToken":"tok"}}`))
	})

	resp, err := c.Post(context.Background(), PathLogin, map[string]string{"email": "a@b.com"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	var out struct {
		AccessToken string `json:"accessToken"`
	}
	if err := resp.Envelope.DecodeDataInto(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.AccessToken != "tok" {
		t.Fatalf("expected token decoded, got %+v", out)
	}
}
