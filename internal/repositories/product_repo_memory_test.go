package repositories

import (
	"context"
	"testing"
	"time"

	"catalog/internal/models"
	"catalog/internal/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMemoryRepo(t *testing.T) *MemoryProductRepository {
	t.Helper()
	repo := NewMemoryProductRepository()
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return repo
}

func seedMemory(t *testing.T, repo *MemoryProductRepository, products ...models.Product) []models.Product {
	t.Helper()
	for i := range products {
		require.NoError(t, repo.Create(context.Background(), &products[i]))
	}
	return products
}

func TestMemoryProductRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := newTestMemoryRepo(t)

	p := &models.Product{Name: "Widget", Description: "A widget", Price: 9.99, Category: models.CategoryElectronics, InStock: true}
	require.NoError(t, repo.Create(ctx, p))
	assert.NotEmpty(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, *p, *got)

	outOfStock := false
	updated, err := repo.Update(ctx, p.ID, models.ProductUpdate{
		Name: "Widget 2", Description: "Better", Price: 0, Category: models.CategoryOther, InStock: &outOfStock,
	})
	require.NoError(t, err)
	assert.Equal(t, "Widget 2", updated.Name)
	assert.Zero(t, updated.Price)
	assert.False(t, updated.InStock)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	kept, err := repo.Update(ctx, p.ID, models.ProductUpdate{Name: "Widget 3", Description: "d", Price: 1, Category: models.CategoryOther})
	require.NoError(t, err)
	assert.False(t, kept.InStock, "inStock unchanged when omitted")

	require.NoError(t, repo.Delete(ctx, p.ID))
	assert.ErrorIs(t, repo.Delete(ctx, p.ID), ErrProductNotFound)
	_, err = repo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
	_, err = repo.Update(ctx, p.ID, models.ProductUpdate{})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestMemoryProductRepository_FindAndCount(t *testing.T) {
	ctx := context.Background()
	repo := newTestMemoryRepo(t)
	seedMemory(t, repo,
		models.Product{Name: "Book 1", Description: "d", Category: models.CategoryBooks, InStock: true},
		models.Product{Name: "Book 2", Description: "d", Category: models.CategoryBooks, InStock: false},
		models.Product{Name: "Book 3", Description: "d", Category: models.CategoryBooks, InStock: true},
		models.Product{Name: "Ball", Description: "d", Category: models.CategorySports, InStock: true},
	)

	books := query.Build(query.Params{Category: "Books", Limit: "2"})
	products, err := repo.Find(ctx, books)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Book 3", products[0].Name, "newest first")
	assert.Equal(t, "Book 2", products[1].Name)

	total, err := repo.Count(ctx, books.Filter)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	inStock := "true"
	total, err = repo.Count(ctx, query.Build(query.Params{InStock: &inStock}).Filter)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	second := query.Build(query.Params{Category: "Books", Page: "2", Limit: "2"})
	products, err = repo.Find(ctx, second)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Book 1", products[0].Name)
}

func TestMemoryProductRepository_Search(t *testing.T) {
	ctx := context.Background()
	repo := newTestMemoryRepo(t)
	seedMemory(t, repo,
		models.Product{Name: "Trail shoes", Description: "Running shoes for trails", Category: models.CategorySports},
		models.Product{Name: "Socks", Description: "Running socks", Category: models.CategoryClothing},
		models.Product{Name: "Lamp", Description: "Desk lamp", Category: models.CategoryHomeGarden},
	)

	results, err := repo.Search(ctx, "shoes")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Trail shoes", results[0].Name)

	results, err = repo.Search(ctx, "running shoes")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Trail shoes", results[0].Name)

	results, err = repo.Search(ctx, "nothing")
	require.NoError(t, err)
	assert.Empty(t, results)

	q := query.Build(query.Params{Search: "running", Category: "Clothing"})
	results, err = repo.Find(ctx, q)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Socks", results[0].Name)
}

func TestMemoryProductRepository_Aggregations(t *testing.T) {
	ctx := context.Background()
	repo := newTestMemoryRepo(t)

	summary, err := repo.Summarize(ctx)
	require.NoError(t, err)
	assert.Nil(t, summary)

	groups, err := repo.GroupByCategory(ctx)
	require.NoError(t, err)
	assert.Empty(t, groups)

	seedMemory(t, repo,
		models.Product{Name: "a", Description: "d", Price: 10, Category: models.CategoryBooks, InStock: true},
		models.Product{Name: "b", Description: "d", Price: 5.5, Category: models.CategoryBooks, InStock: false},
		models.Product{Name: "c", Description: "d", Price: 100, Category: models.CategorySports, InStock: true},
	)

	groups, err = repo.GroupByCategory(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.CategoryGroup{
		{Category: "Books", Count: 2, PriceSum: 15.5, InStockCount: 1},
		{Category: "Sports", Count: 1, PriceSum: 100, InStockCount: 1},
	}, groups)

	summary, err = repo.Summarize(ctx)
	require.NoError(t, err)
	assert.Equal(t, &models.SummaryGroup{TotalProducts: 3, TotalValue: 115.5, InStockProducts: 2}, summary)
}
