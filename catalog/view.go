// Package catalog implements the catalog view pipeline: filtering, sorting
// and paginating an in-memory product collection.
package catalog

import (
	"sort"
	"strings"

	"storefront/domain"
)

// DefaultPerPage is the page size used when a caller passes a non-positive one.
const DefaultPerPage = 12

// View is one page of the filtered and sorted catalog
type View struct {
	Items      []domain.Product `json:"items" yaml:"items"`
	Page       int              `json:"page" yaml:"page"`
	PerPage    int              `json:"perPage" yaml:"perPage"`
	TotalItems int              `json:"totalItems" yaml:"totalItems"`
	TotalPages int              `json:"totalPages" yaml:"totalPages"`
}

// Predicate reports whether a product passes one filter control.
type Predicate func(domain.Product) bool

// Predicates returns the active filter predicates for c. Inactive controls
// contribute nothing. Each predicate depends only on the product, so the
// retained set is the same whatever order they run in.
func Predicates(c domain.FilterCriteria) []Predicate {
	var preds []Predicate

	if term := strings.ToLower(c.SearchTerm); term != "" {
		preds = append(preds, func(p domain.Product) bool {
			return strings.Contains(strings.ToLower(p.Title), term) ||
				strings.Contains(strings.ToLower(p.Brand), term) ||
				strings.Contains(strings.ToLower(p.Description), term)
		})
	}

	if c.PriceRange.Min != nil || c.PriceRange.Max != nil {
		r := c.PriceRange
		preds = append(preds, func(p domain.Product) bool {
			return r.Contains(p.Price)
		})
	}

	if len(c.Brands) > 0 {
		allowed := make(map[string]struct{}, len(c.Brands))
		for _, b := range c.Brands {
			allowed[b] = struct{}{}
		}
		preds = append(preds, func(p domain.Product) bool {
			_, ok := allowed[p.Brand]
			return ok
		})
	}

	if c.MinRating > 0 {
		minRating := c.MinRating
		preds = append(preds, func(p domain.Product) bool {
			return domain.EffectiveRating(p) >= minRating
		})
	}

	if c.InStockOnly {
		preds = append(preds, domain.Product.InStock)
	}

	return preds
}

// Filter returns the products passing every predicate, in input order.
// The input slice is not modified.
func Filter(all []domain.Product, preds []Predicate) []domain.Product {
	out := make([]domain.Product, 0, len(all))
next:
	for _, p := range all {
		for _, keep := range preds {
			if !keep(p) {
				continue next
			}
		}
		out = append(out, p)
	}
	return out
}

type ratedProduct struct {
	p      domain.Product
	rating float64
}

// Sort orders products in place by key. The sort is stable: products that
// compare equal keep their relative order. SortDefault leaves the slice as is.
func Sort(products []domain.Product, key domain.SortKey) {
	switch key {
	case domain.SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case domain.SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price > products[j].Price
		})
	case domain.SortRatingDesc:
		// ids are not guaranteed unique, so ratings travel with each element
		rated := make([]ratedProduct, len(products))
		for i, p := range products {
			rated[i] = ratedProduct{p: p, rating: domain.EffectiveRating(p)}
		}
		sort.SliceStable(rated, func(i, j int) bool {
			return rated[i].rating > rated[j].rating
		})
		for i := range rated {
			products[i] = rated[i].p
		}
	case domain.SortNewest:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].ID > products[j].ID
		})
	}
}

// Apply filters and sorts the full collection, returning the complete
// ordered result before pagination.
func Apply(all []domain.Product, c domain.FilterCriteria) []domain.Product {
	out := Filter(all, Predicates(c))
	Sort(out, c.Sort)
	return out
}

// ComputeView runs the pipeline and returns the requested page. It never
// fails: an empty result has zero pages, and a page outside the valid range
// is empty.
func ComputeView(all []domain.Product, c domain.FilterCriteria, page, perPage int) View {
	return Paginate(Apply(all, c), page, perPage)
}
