package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"storefront/domain"
)

// FileStore is a JSON file-backed domain.CatalogStore. The file holds a
// JSON array of products in catalog order, the same shape the REST backend
// serves from GET /products.
type FileStore struct {
	mu   sync.RWMutex
	mem  *InMemoryStore
	path string
}

// compile-time assertion
var _ domain.CatalogStore = (*FileStore)(nil)

// NewFileStore constructs a FileStore at the given path. If the file exists it will be loaded.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		mem:  NewInMemoryStore(),
		path: path,
	}
	if err := s.loadFromFile(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) loadFromFile() error {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			// no file yet; that's fine
			return nil
		}
		return err
	}
	if len(b) == 0 {
		return nil
	}
	var list []domain.Product
	if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("load %s: %w", s.path, err)
	}
	for _, p := range list {
		if _, dup := s.mem.products[p.ID]; dup {
			return fmt.Errorf("load %s: %w", s.path, domain.NewDuplicateProductError(p.ID))
		}
		s.mem.insert(p)
	}
	return nil
}

// saveToFile must be called with s.mu held.
func (s *FileStore) saveToFile(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	list, err := s.mem.Catalog(ctx)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) Catalog(ctx context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mem.Catalog(ctx)
}

func (s *FileStore) Get(ctx context.Context, id int) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mem.Get(ctx, id)
}

func (s *FileStore) Create(ctx context.Context, product domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mem.Create(ctx, product); err != nil {
		return err
	}
	if err := s.saveToFile(ctx); err != nil {
		s.mem.remove(product.ID)
		return err
	}
	return nil
}

func (s *FileStore) AddReview(ctx context.Context, id int, review domain.Review) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, err := s.mem.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	p, err := s.mem.AddReview(ctx, id, review)
	if err != nil {
		return domain.Product{}, err
	}
	if err := s.saveToFile(ctx); err != nil {
		// keep memory in step with the file
		s.mem.restore(prev)
		return domain.Product{}, err
	}
	return p, nil
}

func (s *FileStore) BulkImport(ctx context.Context, products []domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	collected := s.mem.BulkImport(ctx, products)
	if ctx.Err() != nil {
		return collected
	}
	if err := s.saveToFile(context.WithoutCancel(ctx)); err != nil {
		return errors.Join(collected, err)
	}
	return collected
}
