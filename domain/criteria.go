package domain

import "strings"

// SortKey selects the ordering applied after filtering
type SortKey string

const (
	SortDefault    SortKey = "default"
	SortPriceAsc   SortKey = "price-asc"
	SortPriceDesc  SortKey = "price-desc"
	SortRatingDesc SortKey = "rating-desc"
	SortNewest     SortKey = "newest"
)

// SortKeys lists the accepted sort keys in display order.
var SortKeys = []SortKey{SortDefault, SortPriceAsc, SortPriceDesc, SortRatingDesc, SortNewest}

// ParseSortKey maps user input to a SortKey. Unknown values fall back to
// SortDefault. The storefront's select values (price-low, price-high,
// rating) are accepted as aliases.
func ParseSortKey(s string) SortKey {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "price-asc", "price-low", "price":
		return SortPriceAsc
	case "price-desc", "price-high":
		return SortPriceDesc
	case "rating-desc", "rating":
		return SortRatingDesc
	case "newest":
		return SortNewest
	default:
		return SortDefault
	}
}

// PriceRange is an inclusive price bound. A nil bound means unbounded.
type PriceRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Contains reports whether price lies within the range.
func (r PriceRange) Contains(price float64) bool {
	if r.Min != nil && price < *r.Min {
		return false
	}
	if r.Max != nil && price > *r.Max {
		return false
	}
	return true
}

// FilterCriteria is the snapshot of filter and sort controls
type FilterCriteria struct {
	SearchTerm  string     `json:"searchTerm,omitempty"`
	PriceRange  PriceRange `json:"priceRange"`
	Brands      []string   `json:"brands,omitempty"`
	MinRating   float64    `json:"minRating,omitempty"`
	InStockOnly bool       `json:"inStockOnly,omitempty"`
	Sort        SortKey    `json:"sort,omitempty"`
}
