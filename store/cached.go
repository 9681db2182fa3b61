package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/domain"
)

// DefaultCacheTTL is how long a cached catalog stays valid in redis.
const DefaultCacheTTL = 5 * time.Minute

// CachedStore wraps a catalog source with a redis read-through cache of
// the full catalog. Redis failures are logged and the wrapped source is
// used directly; the cache never turns a good fetch into an error.
type CachedStore struct {
	next domain.CatalogStore
	rdb  redis.UniversalClient
	key  string
	ttl  time.Duration
}

var _ domain.CatalogStore = (*CachedStore)(nil)

// NewCachedStore returns next wrapped by a cache stored under key.
func NewCachedStore(next domain.CatalogStore, rdb redis.UniversalClient, key string, ttl time.Duration) *CachedStore {
	if key == "" {
		key = "storefront:catalog"
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedStore{next: next, rdb: rdb, key: key, ttl: ttl}
}

// NewRedisClient builds a client from a redis:// URL.
func NewRedisClient(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opt), nil
}

func (s *CachedStore) Catalog(ctx context.Context) ([]domain.Product, error) {
	b, err := s.rdb.Get(ctx, s.key).Bytes()
	switch {
	case err == nil:
		var out []domain.Product
		if uerr := json.Unmarshal(b, &out); uerr == nil {
			slog.Debug("catalog cache hit", "key", s.key, "products", len(out))
			return out, nil
		}
		slog.Warn("catalog cache entry unreadable, refetching", "key", s.key)
	case errors.Is(err, redis.Nil):
	default:
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.Warn("catalog cache unavailable", "key", s.key, "error", err)
	}

	out, err := s.next.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	if b, merr := json.Marshal(out); merr == nil {
		if serr := s.rdb.Set(ctx, s.key, b, s.ttl).Err(); serr != nil {
			slog.Warn("catalog cache store failed", "key", s.key, "error", serr)
		}
	}
	return out, nil
}

func (s *CachedStore) Get(ctx context.Context, id int) (domain.Product, error) {
	return s.next.Get(ctx, id)
}

func (s *CachedStore) Create(ctx context.Context, product domain.Product) error {
	if err := s.next.Create(ctx, product); err != nil {
		return err
	}
	s.Invalidate(ctx)
	return nil
}

func (s *CachedStore) AddReview(ctx context.Context, id int, review domain.Review) (domain.Product, error) {
	p, err := s.next.AddReview(ctx, id, review)
	if err != nil {
		return p, err
	}
	s.Invalidate(ctx)
	return p, nil
}

func (s *CachedStore) BulkImport(ctx context.Context, products []domain.Product) error {
	err := s.next.BulkImport(ctx, products)
	// partial imports still change the catalog
	s.Invalidate(context.WithoutCancel(ctx))
	return err
}

// Invalidate drops the cached catalog.
func (s *CachedStore) Invalidate(ctx context.Context) {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		slog.Warn("catalog cache invalidation failed", "key", s.key, "error", err)
	}
}
