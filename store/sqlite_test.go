package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/domain"
)

func sqliteTestStore(t *testing.T) *SQLiteStore {
	t.Setenv("GORM_LOG", "off")
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_CatalogOrderAndFields(t *testing.T) {
	s := sqliteTestStore(t)
	ctx := context.Background()

	rating := 3.5
	require.NoError(t, s.Create(ctx, domain.Product{
		ID: 7, Title: "Bravia TV", Brand: "Sony", Price: 500, Stock: 2,
		Images:  []string{"a.png", "b.png"},
		Reviews: []domain.Review{{Rating: 5, Comment: "bright", ReviewerName: "x"}},
	}))
	require.NoError(t, s.Create(ctx, domain.Product{ID: 1, Title: "Cable", Price: 9.99, Rating: &rating}))

	out, err := s.Catalog(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, []int{7, 1}, []int{out[0].ID, out[1].ID})
	assert.Equal(t, []string{"a.png", "b.png"}, out[0].Images)
	require.Len(t, out[0].Reviews, 1)
	assert.Equal(t, "bright", out[0].Reviews[0].Comment)
	require.NotNil(t, out[1].Rating)
	assert.Equal(t, 3.5, domain.EffectiveRating(out[1]))
}

func TestSQLiteStore_GetCreateErrors(t *testing.T) {
	s := sqliteTestStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, 1)
	assert.True(t, domain.IsProductNotFoundError(err))

	require.NoError(t, s.Create(ctx, domain.Product{ID: 1, Title: "A"}))
	assert.True(t, domain.IsDuplicateProductError(s.Create(ctx, domain.Product{ID: 1, Title: "B"})))
	assert.True(t, domain.IsInvalidProductError(s.Create(ctx, domain.Product{ID: 2, Title: ""})))
}

func TestSQLiteStore_AddReview(t *testing.T) {
	s := sqliteTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, domain.Product{ID: 1, Title: "Phone"}))

	_, err := s.AddReview(ctx, 2, domain.Review{ReviewerName: "a", Comment: "b"})
	assert.True(t, domain.IsProductNotFoundError(err))

	p, err := s.AddReview(ctx, 1, domain.Review{ReviewerName: "a", Comment: "good", Rating: 4})
	require.NoError(t, err)
	p, err = s.AddReview(ctx, 1, domain.Review{ReviewerName: "b", Comment: "great"})
	require.NoError(t, err)
	require.Len(t, p.Reviews, 2)
	assert.Equal(t, "a", p.Reviews[0].ReviewerName)
	assert.Equal(t, 4.5, domain.EffectiveRating(p))
}

func TestSQLiteStore_BulkImport(t *testing.T) {
	s := sqliteTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, domain.Product{ID: 1, Title: "existing"}))

	err := s.BulkImport(ctx, []domain.Product{
		{ID: 3, Title: "C", Reviews: []domain.Review{{Rating: 2, Comment: "meh"}}},
		{ID: 1, Title: "clash"},
		{ID: 2, Title: "B"},
	})
	require.Error(t, err)
	assert.True(t, domain.IsDuplicateProductError(err))

	out, err := s.Catalog(ctx)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, []int{1, 3, 2}, []int{out[0].ID, out[1].ID, out[2].ID})
	require.Len(t, out[1].Reviews, 1)

	assert.NoError(t, s.BulkImport(ctx, nil))
}
