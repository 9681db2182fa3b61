// Package store provides catalog sources for the storefront.
package store

import (
	"context"
	"sync"
	"time"

	"storefront/domain"
)

// InMemoryStore is a thread-safe in-memory domain.CatalogStore that keeps
// products in insertion order.
type InMemoryStore struct {
	mu       sync.RWMutex
	products map[int]domain.Product
	order    []int
}

// NewInMemoryStore constructs a new InMemoryStore
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		products: make(map[int]domain.Product),
	}
}

// compile-time assertion that InMemoryStore implements domain.CatalogStore
var _ domain.CatalogStore = (*InMemoryStore)(nil)

func (s *InMemoryStore) Catalog(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.products[id])
	}
	return out, nil
}

func (s *InMemoryStore) Get(ctx context.Context, id int) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, domain.NewProductNotFoundError(id)
	}
	return p, nil
}

func (s *InMemoryStore) Create(ctx context.Context, product domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := domain.ValidateProduct(product); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[product.ID]; exists {
		return domain.NewDuplicateProductError(product.ID)
	}
	s.insert(product)
	return nil
}

func (s *InMemoryStore) AddReview(ctx context.Context, id int, review domain.Review) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, err
	}
	review, err := prepareReview(review)
	if err != nil {
		return domain.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, domain.NewProductNotFoundError(id)
	}
	p.Reviews = append(append([]domain.Review(nil), p.Reviews...), review)
	s.products[id] = p
	return p, nil
}

func (s *InMemoryStore) BulkImport(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	accepted, err := validateBatch(ctx, products, func(id int) bool {
		_, ok := s.products[id]
		return ok
	})
	for _, p := range accepted {
		s.insert(p)
	}
	return err
}

// insert must be called with s.mu held.
// restore puts prev back in place of the stored product with the same id.
func (s *InMemoryStore) restore(prev domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[prev.ID] = prev
}

// remove drops a product created last, undoing Create.
func (s *InMemoryStore) remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.products, id)
	if n := len(s.order); n > 0 && s.order[n-1] == id {
		s.order = s.order[:n-1]
	}
}

func (s *InMemoryStore) insert(p domain.Product) {
	s.products[p.ID] = p
	s.order = append(s.order, p.ID)
}

// prepareReview validates a review and stamps its date when missing.
func prepareReview(r domain.Review) (domain.Review, error) {
	r, err := domain.NormalizeReview(r)
	if err != nil {
		return r, err
	}
	if r.Date == "" {
		r.Date = time.Now().UTC().Format(time.RFC3339)
	}
	return r, nil
}
