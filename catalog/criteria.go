package catalog

import (
	"math"
	"strings"

	"github.com/spf13/cast"

	"storefront/domain"
)

// RawCriteria is the unparsed state of the filter controls, as typed by a
// user or received in a query string.
type RawCriteria struct {
	Search    string
	MinPrice  string
	MaxPrice  string
	Brands    []string
	MinRating string
	InStock   bool
	Sort      string
}

// ParseCriteria builds FilterCriteria from raw control values. Malformed
// numbers never fail: a bad price bound means no bound and a bad rating
// means no rating restriction.
func ParseCriteria(raw RawCriteria) domain.FilterCriteria {
	c := domain.FilterCriteria{
		SearchTerm:  strings.TrimSpace(raw.Search),
		PriceRange:  domain.PriceRange{Min: parseBound(raw.MinPrice), Max: parseBound(raw.MaxPrice)},
		InStockOnly: raw.InStock,
		Sort:        domain.ParseSortKey(raw.Sort),
	}
	if r := parseBound(raw.MinRating); r != nil {
		c.MinRating = *r
	}
	for _, b := range raw.Brands {
		for _, part := range strings.Split(b, ",") {
			if part = strings.TrimSpace(part); part != "" {
				c.Brands = append(c.Brands, part)
			}
		}
	}
	return c
}

// parseBound returns nil for anything that is not a finite non-negative number.
func parseBound(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := cast.ToFloat64E(s)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return nil
	}
	return &v
}
