package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"catalog/internal/models"
	"catalog/internal/query"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// GORMProductRepository is a GORM implementation of ProductRepository.
// Free-text search uses the term-frequency ranking in relevance.go.
type GORMProductRepository struct {
	db         *gorm.DB
	// likeFilter narrows search candidates in SQL. SQLite's LOWER and LIKE
	// fold ASCII only, so there every candidate is ranked in Go instead.
	likeFilter bool
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db:         db,
		likeFilter: db.Dialector.Name() != "sqlite",
	}
}

func (r *GORMProductRepository) filtered(ctx context.Context, f query.Filter) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&models.Product{})
	if f.Category != "" {
		tx = tx.Where("category = ?", f.Category)
	}
	if f.InStock != nil {
		tx = tx.Where("in_stock = ?", *f.InStock)
	}
	if terms := searchTerms(f.Search); r.likeFilter && len(terms) > 0 {
		clauses := make([]string, 0, len(terms))
		args := make([]any, 0, 2*len(terms))
		for _, t := range terms {
			pattern := "%" + likeEscaper.Replace(t) + "%"
			clauses = append(clauses, `(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`)
			args = append(args, pattern, pattern)
		}
		tx = tx.Where(strings.Join(clauses, " OR "), args...)
	}
	return tx
}

// matching loads every product matching a filter with a search term, ranked.
func (r *GORMProductRepository) matching(ctx context.Context, f query.Filter) ([]models.Product, error) {
	var candidates []models.Product
	if err := r.filtered(ctx, f).Order("created_at DESC").Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return rankByRelevance(candidates, searchTerms(f.Search)), nil
}

// Find retrieves one page of products matching the query.
func (r *GORMProductRepository) Find(ctx context.Context, q query.ProductQuery) ([]models.Product, error) {
	if q.Filter.Search != "" {
		ranked, err := r.matching(ctx, q.Filter)
		if err != nil {
			return nil, err
		}
		return page(ranked, q.Offset, q.Limit), nil
	}

	products := []models.Product{}
	err := r.filtered(ctx, q.Filter).
		Order("created_at DESC").
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	return products, nil
}

// Count returns the number of products matching the filter.
func (r *GORMProductRepository) Count(ctx context.Context, f query.Filter) (int64, error) {
	if f.Search != "" {
		ranked, err := r.matching(ctx, f)
		if err != nil {
			return 0, err
		}
		return int64(len(ranked)), nil
	}

	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}

// Search retrieves all products matching the term, most relevant first.
func (r *GORMProductRepository) Search(ctx context.Context, term string) ([]models.Product, error) {
	return r.matching(ctx, query.Filter{Search: term})
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update replaces the editable fields of an existing product.
func (r *GORMProductRepository) Update(ctx context.Context, id string, u models.ProductUpdate) (*models.Product, error) {
	var updated models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&updated, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		// A map keeps zero values such as price 0 and inStock false.
		changes := map[string]any{
			"name":        u.Name,
			"description": u.Description,
			"price":       u.Price,
			"category":    string(u.Category),
		}
		if u.InStock != nil {
			changes["in_stock"] = *u.InStock
		}
		if err := tx.Model(&updated).Updates(changes).Error; err != nil {
			return err
		}
		return tx.First(&updated, "id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update product %s: %w", id, err)
	}
	return &updated, nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// GroupByCategory aggregates products per category.
func (r *GORMProductRepository) GroupByCategory(ctx context.Context) ([]models.CategoryGroup, error) {
	groups := []models.CategoryGroup{}
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Select("category, COUNT(*) AS count, COALESCE(SUM(price), 0) AS price_sum, " +
			"COALESCE(SUM(CASE WHEN in_stock THEN 1 ELSE 0 END), 0) AS in_stock_count").
		Group("category").
		Scan(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate products by category: %w", err)
	}
	return groups, nil
}

// Summarize aggregates the whole product table.
func (r *GORMProductRepository) Summarize(ctx context.Context) (*models.SummaryGroup, error) {
	var summary models.SummaryGroup
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Select("COUNT(*) AS total_products, COALESCE(SUM(price), 0) AS total_value, " +
			"COALESCE(SUM(CASE WHEN in_stock THEN 1 ELSE 0 END), 0) AS in_stock_products").
		Scan(&summary).Error
	if err != nil {
		return nil, fmt.Errorf("failed to summarize products: %w", err)
	}
	if summary.TotalProducts == 0 {
		return nil, nil
	}
	return &summary, nil
}
