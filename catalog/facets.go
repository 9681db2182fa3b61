package catalog

import "storefront/domain"

// Facets summarises the catalog for building filter controls
type Facets struct {
	Brands     []string         `json:"brands" yaml:"brands"`
	PriceRange PriceBounds      `json:"priceRange" yaml:"priceRange"`
	InStock    int              `json:"inStock" yaml:"inStock"`
	OutOfStock int              `json:"outOfStock" yaml:"outOfStock"`
	SortKeys   []domain.SortKey `json:"sortKeys" yaml:"sortKeys"`
}

// PriceBounds is the lowest and highest price in the catalog
type PriceBounds struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// BuildFacets collects the distinct non-empty brands in first-seen order,
// the price bounds and the stock counts of all.
func BuildFacets(all []domain.Product) Facets {
	f := Facets{Brands: []string{}, SortKeys: domain.SortKeys}
	seen := make(map[string]struct{})
	for i, p := range all {
		if p.Brand != "" {
			if _, ok := seen[p.Brand]; !ok {
				seen[p.Brand] = struct{}{}
				f.Brands = append(f.Brands, p.Brand)
			}
		}
		if i == 0 || p.Price < f.PriceRange.Min {
			f.PriceRange.Min = p.Price
		}
		if i == 0 || p.Price > f.PriceRange.Max {
			f.PriceRange.Max = p.Price
		}
		if p.InStock() {
			f.InStock++
		} else {
			f.OutOfStock++
		}
	}
	return f
}
