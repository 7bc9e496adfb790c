package handlers

import (
	"catalog/internal/apperrors"
	"catalog/internal/models"
	"catalog/internal/query"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	products *services.ProductService
	stats    *services.StatsService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(products *services.ProductService, stats *services.StatsService) *ProductHandler {
	return &ProductHandler{
		products: products,
		stats:    stats,
	}
}

// RegisterRoutes registers the product routes behind guard.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, guard fiber.Handler) {
	productRoutes := router.Group("/products", guard)
	productRoutes.Get("/", h.HandleListProducts)
	// Static segments must precede /:id.
	productRoutes.Get("/search", h.HandleSearchProducts)
	productRoutes.Get("/stats", h.HandleGetStats)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleListProducts lists products with filtering, search and pagination.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	q := query.Build(query.ParamsFromMap(c.Queries()))

	page, err := h.products.ListProducts(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(page.Products),
		"total":   page.Total,
		"pagination": fiber.Map{
			"page":  page.Page,
			"pages": page.Pages,
			"limit": page.Limit,
		},
		"data": page.Products,
	})
}

// HandleSearchProducts runs a free-text search over name and description.
func (h *ProductHandler) HandleSearchProducts(c *fiber.Ctx) error {
	products, err := h.products.SearchProducts(c.UserContext(), c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(products),
		"data":    products,
	})
}

// HandleGetStats returns per-category and global statistics.
func (h *ProductHandler) HandleGetStats(c *fiber.Ctx) error {
	stats, err := h.stats.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.products.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    product,
	})
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	payload, err := parsePayload(c)
	if err != nil {
		return err
	}
	product, err := h.products.CreateProduct(c.UserContext(), payload)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    product,
	})
}

// HandleUpdateProduct replaces an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	payload, err := parsePayload(c)
	if err != nil {
		return err
	}
	product, err := h.products.UpdateProduct(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    product,
	})
}

// HandleDeleteProduct deletes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.products.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product deleted successfully",
	})
}

// parsePayload decodes a product body. An empty body yields an empty payload
// so validation reports every missing field.
func parsePayload(c *fiber.Ctx) (models.ProductPayload, error) {
	var payload models.ProductPayload
	if len(c.Body()) == 0 {
		return payload, nil
	}
	if err := c.BodyParser(&payload); err != nil {
		return payload, apperrors.NewValidation("Invalid request body")
	}
	return payload, nil
}
