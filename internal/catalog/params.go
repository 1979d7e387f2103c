package catalog

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// SearchParams is the explicit, validated parameter structure for admin
// product search. Unknown query fields are ignored; invalid values are
// rejected rather than passed through to upstream.
type SearchParams struct {
	Query    string
	Category string
	Sort     string
	Page     int
	PageSize int
}

const (
	SortNameAsc   = "name"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNewest    = "newest"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxQueryLen     = 200
)

var ErrInvalidSearchParams = errors.New("invalid search params")

// ParseSearchParams builds SearchParams from a request query string,
// applying defaults and bounds.
func ParseSearchParams(values url.Values) (SearchParams, error) {
	p := SearchParams{
		Query:    strings.TrimSpace(values.Get("query")),
		Category: strings.TrimSpace(values.Get("category")),
		Sort:     strings.TrimSpace(values.Get("sort")),
		Page:     1,
		PageSize: defaultPageSize,
	}

	if len(p.Query) > maxQueryLen {
		return SearchParams{}, fmt.Errorf("%w: query longer than %d chars", ErrInvalidSearchParams, maxQueryLen)
	}

	if v := strings.TrimSpace(values.Get("page")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return SearchParams{}, fmt.Errorf("%w: page must be a positive integer, got %q", ErrInvalidSearchParams, v)
		}
		p.Page = n
	}

	if v := strings.TrimSpace(values.Get("pageSize")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxPageSize {
			return SearchParams{}, fmt.Errorf("%w: pageSize must be 1..%d, got %q", ErrInvalidSearchParams, maxPageSize, v)
		}
		p.PageSize = n
	}

	switch p.Sort {
	case "", SortNameAsc, SortPriceAsc, SortPriceDesc, SortNewest:
	default:
		return SearchParams{}, fmt.Errorf("%w: unknown sort %q", ErrInvalidSearchParams, p.Sort)
	}

	return p, nil
}

// Encode renders the params as a canonical query string: fields appear in
// a fixed sorted order and defaults are included, so structurally equal
// searches produce byte-equal strings. Used both for the upstream request
// and as the query cache key.
func (p SearchParams) Encode() string {
	v := url.Values{}
	if p.Query != "" {
		v.Set("query", p.Query)
	}
	if p.Category != "" {
		v.Set("category", p.Category)
	}
	if p.Sort != "" {
		v.Set("sort", p.Sort)
	}
	v.Set("page", strconv.Itoa(p.Page))
	v.Set("pageSize", strconv.Itoa(p.PageSize))
	return v.Encode()
}
