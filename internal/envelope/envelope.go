// Package envelope implements the normalized {data, meta, error} response
// contract shared by the upstream storefront API and every BFF endpoint.
package envelope

import (
	"bytes"
	"encoding/json"
)

// Meta is optional and additive; upstream may attach any subset of fields.
type Meta struct {
	ServerTime string `json:"serverTime,omitempty"`
	APIVersion string `json:"apiVersion,omitempty"`
	TraceID    string `json:"traceId,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Error is the upstream error object. Details is kept raw so the BFF can
// forward it verbatim without knowing its shape.
type Error struct {
	Code    string          `json:"code,omitempty"`
	Message string          `json:"message,omitempty"`
	TraceID string          `json:"traceId,omitempty"`
	Details json.RawMessage `json:"details,omitempty"`
}

// Envelope is the wrapper every upstream response follows.
// Exactly one of Data or Error is meaningfully populated per response.
type Envelope struct {
	Data  json.RawMessage `json:"data,omitempty"`
	Meta  *Meta           `json:"meta,omitempty"`
	Error *Error          `json:"error,omitempty"`
}

var emptyList = json.RawMessage("[]")

// UnwrapList extracts the list payload from Data.
//
// Upstream is inconsistent about nesting: list payloads arrive either as
// {data: [...]} or {data: {data: [...]}}. The deeper nesting wins when
// present, else the shallow one, else an empty list. Unwrapping happens
// exactly once; a doubly-nested payload is not flattened further.
func (e Envelope) UnwrapList() json.RawMessage {
	raw := bytes.TrimSpace(e.Data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return emptyList
	}

	switch raw[0] {
	case '{':
		var nested struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &nested); err != nil {
			return emptyList
		}
		inner := bytes.TrimSpace(nested.Data)
		if len(inner) == 0 || bytes.Equal(inner, []byte("null")) {
			return emptyList
		}
		if inner[0] == '[' {
			return json.RawMessage(inner)
		}
		return emptyList
	case '[':
		return json.RawMessage(raw)
	default:
		return emptyList
	}
}

// UnwrapListInto unwraps the list payload and decodes it into v,
// which must be a pointer to a slice.
func (e Envelope) UnwrapListInto(v any) error {
	return json.Unmarshal(e.UnwrapList(), v)
}

// DecodeDataInto decodes the (non-list) Data payload into v.
func (e Envelope) DecodeDataInto(v any) error {
	raw := bytes.TrimSpace(e.Data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	return json.Unmarshal(raw, v)
}

// HasError reports whether the envelope carries a populated error object.
func (e Envelope) HasError() bool {
	return e.Error != nil && (e.Error.Code != "" || e.Error.Message != "")
}
