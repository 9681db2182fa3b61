package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/domain"
)

func TestFileStore_CreateReviewReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "catalog.json")
	ctx := context.Background()

	s, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, s.Create(ctx, domain.Product{ID: 2, Title: "Second", Price: 3.14, Stock: 2}))
	require.NoError(t, s.Create(ctx, domain.Product{ID: 1, Title: "First", Brand: "Acme", Price: 1}))
	_, err = s.AddReview(ctx, 2, domain.Review{ReviewerName: "lee", Comment: "ok", Rating: 3})
	require.NoError(t, err)

	reloaded, err := NewFileStore(path)
	require.NoError(t, err)
	out, err := reloaded.Catalog(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 2, out[0].ID, "file keeps catalog order, not id order")
	assert.Equal(t, 1, out[1].ID)
	require.Len(t, out[0].Reviews, 1)
	assert.Equal(t, "lee", out[0].Reviews[0].ReviewerName)

	_, err = reloaded.Get(ctx, 99)
	assert.True(t, domain.IsProductNotFoundError(err))
}

func TestFileStore_LoadsBackendShapedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	raw := `[
	  {"id": 1, "title": "iPhone 15", "brand": "Apple", "description": "phone", "price": 999.0, "stock": 5,
	   "rating": 4.2, "reviews": [{"rating": 5, "comment": "great", "reviewerName": "A"}], "sold": 3},
	  {"id": 2, "title": "Cable", "description": "usb", "price": 9.5, "stock": 0}
	]`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	s, err := NewFileStore(path)
	require.NoError(t, err)
	out, err := s.Catalog(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Apple", out[0].Brand)
	assert.Equal(t, 5.0, domain.EffectiveRating(out[0]))
	assert.Equal(t, "", out[1].Brand)
}

func TestFileStore_BadFiles(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("not json"), 0o644))
	_, err := NewFileStore(bad)
	assert.Error(t, err)

	dup := filepath.Join(dir, "dup.json")
	b, _ := json.Marshal([]domain.Product{{ID: 1, Title: "a"}, {ID: 1, Title: "b"}})
	require.NoError(t, os.WriteFile(dup, b, 0o644))
	_, err = NewFileStore(dup)
	assert.True(t, domain.IsDuplicateProductError(err))

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	s, err := NewFileStore(empty)
	require.NoError(t, err)
	out, _ := s.Catalog(context.Background())
	assert.Empty(t, out)
}

func TestFileStore_BulkImport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bulk.json")
	ctx := context.Background()

	s, err := NewFileStore(path)
	require.NoError(t, err)

	err = s.BulkImport(ctx, []domain.Product{
		{ID: 1, Title: "P1", Price: 10, Stock: 1},
		{ID: 2, Title: "P2", Price: 20, Stock: 2},
		{ID: 2, Title: "P2 dup", Price: 20, Stock: 2},
		{ID: 0, Title: "bad"},
	})
	require.Error(t, err)
	assert.True(t, domain.IsDuplicateProductError(err))
	assert.True(t, domain.IsInvalidProductError(err))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk []domain.Product
	require.NoError(t, json.Unmarshal(b, &onDisk))
	require.Len(t, onDisk, 2)
	assert.Equal(t, "P1", onDisk[0].Title)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestFileStore_FailedSaveLeavesCatalogUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	ctx := context.Background()

	s, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, domain.Product{ID: 1, Title: "Lamp", Price: 20}))

	// a directory where the temp file goes makes every save fail
	require.NoError(t, os.Mkdir(path+".tmp", 0o755))

	_, err = s.AddReview(ctx, 1, domain.Review{ReviewerName: "ana", Comment: "dim", Rating: 2})
	require.Error(t, err)
	p, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, p.Reviews)

	require.Error(t, s.Create(ctx, domain.Product{ID: 2, Title: "Desk", Price: 90}))
	_, err = s.Get(ctx, 2)
	assert.True(t, domain.IsProductNotFoundError(err))
	all, err := s.Catalog(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	reloaded, err := NewFileStore(path)
	require.NoError(t, err)
	onDisk, err := reloaded.Catalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, all, onDisk)
}
