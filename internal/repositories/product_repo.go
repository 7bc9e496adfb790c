package repositories

import (
	"context"
	"errors"

	"catalog/internal/models"
	"catalog/internal/query"
)

// ErrProductNotFound is returned when no product has the requested ID.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	// Find returns one page of products matching q, in q's sort order.
	Find(ctx context.Context, q query.ProductQuery) ([]models.Product, error)
	// Count returns how many products match f, ignoring pagination.
	Count(ctx context.Context, f query.Filter) (int64, error)
	// Search returns every product matching the free-text term, most relevant first.
	Search(ctx context.Context, term string) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	// Update applies u and returns the product as stored afterwards.
	Update(ctx context.Context, id string, u models.ProductUpdate) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	// GroupByCategory aggregates count, price sum and in-stock count per category.
	GroupByCategory(ctx context.Context) ([]models.CategoryGroup, error)
	// Summarize aggregates the whole collection. It returns nil when there are no products.
	Summarize(ctx context.Context) (*models.SummaryGroup, error)
}
