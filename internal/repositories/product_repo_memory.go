package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"catalog/internal/models"
	"catalog/internal/query"

	"github.com/google/uuid"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
type MemoryProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
	now      func() time.Time
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[string]models.Product),
		now:      time.Now,
	}
}

// matching returns products passing the category and stock filters, newest first.
// Callers must hold the lock.
func (r *MemoryProductRepository) matching(f query.Filter) []models.Product {
	list := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if f.Category != "" && string(p.Category) != f.Category {
			continue
		}
		if f.InStock != nil && p.InStock != *f.InStock {
			continue
		}
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	if f.Search != "" {
		list = rankByRelevance(list, searchTerms(f.Search))
	}
	return list
}

// Find returns one page of products matching the query.
func (r *MemoryProductRepository) Find(_ context.Context, q query.ProductQuery) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return page(r.matching(q.Filter), q.Offset, q.Limit), nil
}

// Count returns the number of products matching the filter.
func (r *MemoryProductRepository) Count(_ context.Context, f query.Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.matching(f))), nil
}

// Search returns every product matching the term, most relevant first.
func (r *MemoryProductRepository) Search(_ context.Context, term string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.matching(query.Filter{Search: term}), nil
}

// GetByID returns a product by its ID.
func (r *MemoryProductRepository) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

// Create adds a new product.
func (r *MemoryProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := r.now()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MemoryProductRepository) Update(_ context.Context, id string, u models.ProductUpdate) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	product.Name = u.Name
	product.Description = u.Description
	product.Price = u.Price
	product.Category = u.Category
	if u.InStock != nil {
		product.InStock = *u.InStock
	}
	product.UpdatedAt = r.now()
	r.products[id] = product
	return &product, nil
}

// Delete removes a product by its ID.
func (r *MemoryProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

// GroupByCategory aggregates products per category.
func (r *MemoryProductRepository) GroupByCategory(_ context.Context) ([]models.CategoryGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byCategory := make(map[string]*models.CategoryGroup)
	for _, p := range r.products {
		g, ok := byCategory[string(p.Category)]
		if !ok {
			g = &models.CategoryGroup{Category: string(p.Category)}
			byCategory[g.Category] = g
		}
		g.Count++
		g.PriceSum += p.Price
		if p.InStock {
			g.InStockCount++
		}
	}

	groups := make([]models.CategoryGroup, 0, len(byCategory))
	for _, g := range byCategory {
		groups = append(groups, *g)
	}
	return groups, nil
}

// Summarize aggregates all products, nil when there are none.
func (r *MemoryProductRepository) Summarize(_ context.Context) (*models.SummaryGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.products) == 0 {
		return nil, nil
	}
	var s models.SummaryGroup
	for _, p := range r.products {
		s.TotalProducts++
		s.TotalValue += p.Price
		if p.InStock {
			s.InStockProducts++
		}
	}
	return &s, nil
}
