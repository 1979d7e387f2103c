// Package catalog defines the storefront resource shapes the BFF passes
// through. The upstream API owns the data; these types only pin down the
// contract the front-end relies on.
package catalog

// Category is shop-navigation reference data. It changes rarely, which is
// why the proxy gives it a long edge-cache window.
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// CategoriesCacheTag is the logical invalidation tag for category data.
const CategoriesCacheTag = "categories"

// Product is an inventory row as shown on the admin inventory screen.
type Product struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Brand      string `json:"brand,omitempty"`
	CategoryID string `json:"categoryId,omitempty"`
	PriceMinor int64  `json:"priceMinor"`
	Currency   string `json:"currency,omitempty"`
	Stock      int    `json:"stock"`
	ImageURL   string `json:"imageUrl,omitempty"`
}
