// Package domain defines core catalog types and interfaces.
package domain

import (
	"context"
	"math"
	"strings"
)

// DefaultRating is used when a product has neither reviews nor a fallback rating.
const DefaultRating = 5.0

// Review is a single customer review attached to a product
type Review struct {
	Rating       int    `json:"rating" yaml:"rating"`
	Comment      string `json:"comment" yaml:"comment"`
	ReviewerName string `json:"reviewerName,omitempty" yaml:"reviewerName,omitempty"`
	Date         string `json:"date,omitempty" yaml:"date,omitempty"`
}

// DisplayName returns the reviewer name, or "Anonymous" when blank.
func (r Review) DisplayName() string {
	if name := strings.TrimSpace(r.ReviewerName); name != "" {
		return name
	}
	return "Anonymous"
}

// Product represents a catalog product
type Product struct {
	ID                 int      `json:"id" yaml:"id"`
	Title              string   `json:"title" yaml:"title"`
	Brand              string   `json:"brand,omitempty" yaml:"brand,omitempty"`
	Description        string   `json:"description" yaml:"description"`
	Price              float64  `json:"price" yaml:"price"`
	Stock              int      `json:"stock" yaml:"stock"`
	Reviews            []Review `json:"reviews,omitempty" yaml:"reviews,omitempty"`
	Rating             *float64 `json:"rating,omitempty" yaml:"rating,omitempty"`
	DiscountPercentage float64  `json:"discountPercentage,omitempty" yaml:"discountPercentage,omitempty"`
	AvailabilityStatus string   `json:"availabilityStatus,omitempty" yaml:"availabilityStatus,omitempty"`
	Thumbnail          string   `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
	Images             []string `json:"images,omitempty" yaml:"images,omitempty"`
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// EffectiveRating combines review data with the static fallback rating.
// With reviews it is the mean rating rounded to one decimal place; without
// reviews it is the fallback rating, or DefaultRating when that is absent
// or zero.
func EffectiveRating(p Product) float64 {
	if len(p.Reviews) == 0 {
		if p.Rating != nil && *p.Rating != 0 {
			return *p.Rating
		}
		return DefaultRating
	}
	sum := 0
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(p.Reviews))
	return math.Round(avg*10) / 10
}

// ValidateProduct checks the fields every stored product must satisfy.
func ValidateProduct(p Product) error {
	if p.ID <= 0 {
		return NewInvalidProductError("id", "must be positive", p.ID)
	}
	if strings.TrimSpace(p.Title) == "" {
		return NewInvalidProductError("title", "cannot be empty", p.Title)
	}
	if p.Price < 0 || math.IsNaN(p.Price) {
		return NewInvalidProductError("price", "must be non-negative", p.Price)
	}
	if p.Stock < 0 {
		return NewInvalidProductError("stock", "must be non-negative", p.Stock)
	}
	for _, r := range p.Reviews {
		if r.Rating < 1 || r.Rating > 5 {
			return NewInvalidProductError("reviews.rating", "must be between 1 and 5", r.Rating)
		}
	}
	return nil
}

// NormalizeReview applies defaults to a submitted review and validates it.
// A zero rating becomes 5, matching the backend's default.
func NormalizeReview(r Review) (Review, error) {
	r.ReviewerName = strings.TrimSpace(r.ReviewerName)
	r.Comment = strings.TrimSpace(r.Comment)
	if r.ReviewerName == "" {
		return r, NewInvalidProductError("reviewerName", "cannot be empty", r.ReviewerName)
	}
	if r.Comment == "" {
		return r, NewInvalidProductError("comment", "cannot be empty", r.Comment)
	}
	if r.Rating == 0 {
		r.Rating = int(DefaultRating)
	}
	if r.Rating < 1 || r.Rating > 5 {
		return r, NewInvalidProductError("rating", "must be between 1 and 5", r.Rating)
	}
	return r, nil
}

// CatalogStore is the source of the product catalog. Catalog returns the
// full collection in catalog (insertion) order.
type CatalogStore interface {
	Catalog(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id int) (Product, error)
	Create(ctx context.Context, product Product) error
	AddReview(ctx context.Context, id int, review Review) (Product, error)
	BulkImport(ctx context.Context, products []Product) error
}
