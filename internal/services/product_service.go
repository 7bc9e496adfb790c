package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"catalog/internal/apperrors"
	"catalog/internal/models"
	"catalog/internal/query"
	"catalog/internal/repositories"
	"catalog/internal/validation"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Routing keys of product lifecycle events.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// EventPublisher delivers serialized events to a message broker.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// ProductEvent is the body of a product lifecycle event.
type ProductEvent struct {
	Event      string          `json:"event"`
	ProductID  string          `json:"productId"`
	Product    *models.Product `json:"product,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Products []models.Product
	Total    int64
	Page     int
	Pages    int
	Limit    int
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
	exchange  string
	log       zerolog.Logger
}

// NewProductService creates a new ProductService. publisher may be nil, in
// which case no events are sent.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher, exchange string, log zerolog.Logger) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		exchange:  exchange,
		log:       log,
	}
}

// ListProducts runs the page query and the total count concurrently.
func (s *ProductService) ListProducts(ctx context.Context, q query.ProductQuery) (*ProductPage, error) {
	var (
		products []models.Product
		total    int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.repo.Find(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, q.Filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}

	return &ProductPage{
		Products: products,
		Total:    total,
		Page:     q.Page,
		Pages:    q.Pages(total),
		Limit:    q.Limit,
	}, nil
}

// SearchProducts returns every product matching term, most relevant first.
func (s *ProductService) SearchProducts(ctx context.Context, term string) ([]models.Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperrors.NewValidation("Search query is required")
	}
	products, err := s.repo.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return product, nil
}

// CreateProduct validates the payload and stores a new product. InStock
// defaults to true.
func (s *ProductService) CreateProduct(ctx context.Context, payload models.ProductPayload) (*models.Product, error) {
	if err := validation.ValidateProduct(payload); err != nil {
		return nil, err
	}

	u := toUpdate(payload)
	product := &models.Product{
		Name:        u.Name,
		Description: u.Description,
		Price:       u.Price,
		Category:    u.Category,
		InStock:     true,
	}
	if u.InStock != nil {
		product.InStock = *u.InStock
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	s.publish(EventProductCreated, product.ID, product)
	return product, nil
}

// UpdateProduct validates the full payload and replaces the product's fields.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, payload models.ProductPayload) (*models.Product, error) {
	if err := validation.ValidateProduct(payload); err != nil {
		return nil, err
	}

	product, err := s.repo.Update(ctx, id, toUpdate(payload))
	if err != nil {
		return nil, notFound(err)
	}
	s.publish(EventProductUpdated, product.ID, product)
	return product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	s.publish(EventProductDeleted, id, nil)
	return nil
}

// toUpdate converts a validated payload. The name is stored trimmed.
func toUpdate(p models.ProductPayload) models.ProductUpdate {
	price, _ := validation.Number(p.Price)
	return models.ProductUpdate{
		Name:        strings.TrimSpace(*p.Name),
		Description: *p.Description,
		Price:       price,
		Category:    models.Category(*p.Category),
		InStock:     p.InStock,
	}
}

func notFound(err error) error {
	if errors.Is(err, repositories.ErrProductNotFound) {
		return apperrors.NewNotFound("Product")
	}
	return err
}

// publish sends a lifecycle event. Failures are logged and never fail the request.
func (s *ProductService) publish(event, id string, product *models.Product) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(ProductEvent{
		Event:      event,
		ProductID:  id,
		Product:    product,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		s.log.Error().Err(err).Str("event", event).Msg("failed to marshal product event")
		return
	}
	if err := s.publisher.Publish(s.exchange, event, body); err != nil {
		s.log.Warn().Err(err).Str("event", event).Str("product_id", id).Msg("failed to publish product event")
		return
	}
	s.log.Debug().Str("event", event).Str("product_id", id).Msg("published product event")
}
