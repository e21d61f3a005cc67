package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/poster-parlor-api/internal/domains/catalog/application/types"
	"github.com/Apurer/poster-parlor-api/internal/domains/catalog/domain"
	"github.com/Apurer/poster-parlor-api/internal/domains/catalog/ports"
)

func newItem(t *testing.T, id, title string, price float64, stock int) *domain.Item {
	t.Helper()
	item, err := domain.NewItem(id, title, price, stock, []domain.Image{{URL: "https://cdn.example/" + id, PublicID: id}})
	require.NoError(t, err)
	return item
}

func steppingClock() func() time.Time {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var n int
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
}

func TestRepository_SaveRejectsDuplicateTitle(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	_, err := repo.Save(ctx, newItem(t, "a", "Starry Night", 100, 1))
	require.NoError(t, err)

	_, err = repo.Save(ctx, newItem(t, "b", "Starry Night", 120, 1))
	assert.ErrorIs(t, err, ports.ErrDuplicateTitle)

	// re-saving the same item keeps its title
	_, err = repo.Save(ctx, newItem(t, "a", "Starry Night", 110, 1))
	assert.NoError(t, err)
}

func TestRepository_SavePreservesCreatedAt(t *testing.T) {
	repo := NewRepository()
	repo.WithClock(steppingClock())
	ctx := context.Background()

	first, err := repo.Save(ctx, newItem(t, "a", "Poster", 100, 1))
	require.NoError(t, err)
	second, err := repo.Save(ctx, newItem(t, "a", "Poster", 150, 1))
	require.NoError(t, err)

	assert.Equal(t, first.Metadata.CreatedAt, second.Metadata.CreatedAt)
	assert.True(t, second.Metadata.UpdatedAt.After(first.Metadata.UpdatedAt))
	assert.Equal(t, 150.0, second.Entity.Price)
}

func TestRepository_GetByIDReturnsCopy(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	_, err := repo.Save(ctx, newItem(t, "a", "Poster", 100, 3))
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	got.Entity.Stock = 99

	again, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 3, again.Entity.Stock)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_ListFiltersSortsAndPages(t *testing.T) {
	repo := NewRepository()
	repo.WithClock(steppingClock())
	ctx := context.Background()

	wave := newItem(t, "1", "The Great Wave", 300, 5)
	wave.Category = "Art"
	wave.Material = "Matte Paper"
	wave.SetTags([]string{"japan", "ocean"})
	moon := newItem(t, "2", "Moon Landing", 150, 0)
	moon.Category = "space"
	moon.Description = "Apollo 11 on the lunar surface"
	moon.SetTags([]string{"nasa"})
	lotus := newItem(t, "3", "Lotus", 80, 10)
	lotus.Category = "art"
	lotus.IsAvailable = false
	for _, item := range []*domain.Item{wave, moon, lotus} {
		_, err := repo.Save(ctx, item)
		require.NoError(t, err)
	}

	items, total, err := repo.List(ctx, types.ItemQuery{Filter: types.ItemFilter{Category: "ART"}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, "3", items[0].Entity.ID, "default sort is newest first")

	available := true
	items, total, err = repo.List(ctx, types.ItemQuery{Filter: types.ItemFilter{IsAvailable: &available, SortBy: types.SortByPrice, SortOrder: types.SortAsc}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, []string{"2", "1"}, ids(items))

	items, _, err = repo.List(ctx, types.ItemQuery{Filter: types.ItemFilter{Search: "lunar"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, ids(items))

	items, _, err = repo.List(ctx, types.ItemQuery{Filter: types.ItemFilter{Tags: []string{"OCE"}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids(items))

	items, _, err = repo.List(ctx, types.ItemQuery{Filter: types.ItemFilter{Material: "matte"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids(items))

	minStock, maxStock := 1, 9
	items, _, err = repo.List(ctx, types.ItemQuery{Filter: types.ItemFilter{MinStock: &minStock, MaxStock: &maxStock}})
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids(items))

	items, total, err = repo.List(ctx, types.ItemQuery{Offset: 1, Limit: 1, Filter: types.ItemFilter{SortBy: types.SortByTitle, SortOrder: types.SortAsc}})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, []string{"2"}, ids(items))
}

func TestRepository_AdjustStockHasNoFloor(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	_, err := repo.Save(ctx, newItem(t, "a", "Poster", 100, 1))
	require.NoError(t, err)

	require.NoError(t, repo.AdjustStock(ctx, "a", -1))
	require.NoError(t, repo.AdjustStock(ctx, "a", -1))
	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, -1, got.Entity.Stock)

	assert.ErrorIs(t, repo.AdjustStock(ctx, "missing", 1), ports.ErrNotFound)
}

func TestRepository_Facets(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	a := newItem(t, "a", "A", 1, 1)
	a.Category, a.Material, a.Dimensions = "art", "Canvas", "A3"
	b := newItem(t, "b", "B", 1, 1)
	b.Category, b.Material, b.Dimensions = "art", "Paper", "A3"
	c := newItem(t, "c", "C", 1, 1)
	c.Category, c.Dimensions = "film", "A2"
	for _, item := range []*domain.Item{a, b, c} {
		_, err := repo.Save(ctx, item)
		require.NoError(t, err)
	}

	facets, err := repo.Facets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []types.CategoryCount{{Category: "art", Count: 2}, {Category: "film", Count: 1}}, facets.Categories)
	assert.Equal(t, []string{"Canvas", "Paper"}, facets.Materials)
	assert.Equal(t, []string{"A2", "A3"}, facets.Dimensions)
}

func ids(items []*types.ItemProjection) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Entity.ID)
	}
	return out
}
