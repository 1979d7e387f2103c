package catalog

import (
	"errors"
	"net/url"
	"strings"
	"testing"
)

func TestParseSearchParams_Defaults(t *testing.T) {
	p, err := ParseSearchParams(url.Values{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.Page != 1 || p.PageSize != defaultPageSize {
		t.Fatalf("unexpected defaults: %+v", p)
	}
}

func TestParseSearchParams_RejectsBadValues(t *testing.T) {
	cases := []url.Values{
		{"page": {"0"}},
		{"page": {"-3"}},
		{"page": {"abc"}},
		{"pageSize": {"0"}},
		{"pageSize": {"101"}},
		{"sort": {"sneaky"}},
		{"query": {strings.Repeat("x", maxQueryLen+1)}},
	}
	for _, vals := range cases {
		if _, err := ParseSearchParams(vals); !errors.Is(err, ErrInvalidSearchParams) {
			t.Fatalf("values %v: expected ErrInvalidSearchParams, got %v", vals, err)
		}
	}
}

func TestParseSearchParams_TrimsAndParses(t *testing.T) {
	p, err := ParseSearchParams(url.Values{
		"query":    {"  silk scarf "},
		"category": {"accessories"},
		"sort":     {SortPriceDesc},
		"page":     {"3"},
		"pageSize": {"50"},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.Query != "silk scarf" || p.Category != "accessories" || p.Sort != SortPriceDesc || p.Page != 3 || p.PageSize != 50 {
		t.Fatalf("unexpected params: %+v", p)
	}
}

func TestEncode_CanonicalForEqualSearches(t *testing.T) {
	a, _ := ParseSearchParams(url.Values{"query": {"bag"}, "page": {"2"}})
	b, _ := ParseSearchParams(url.Values{"page": {"2"}, "query": {"bag"}})
	if a.Encode() != b.Encode() {
		t.Fatalf("expected canonical encoding, got %q vs %q", a.Encode(), b.Encode())
	}

	c, _ := ParseSearchParams(url.Values{"query": {"bag"}})
	if a.Encode() == c.Encode() {
		t.Fatalf("expected different pages to encode differently")
	}
}
