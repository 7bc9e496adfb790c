package handlers

import "github.com/gofiber/fiber/v2"

// Version is reported by the info endpoint.
const Version = "1.0.0"

// RegisterHealth registers the unauthenticated info route.
func RegisterHealth(router fiber.Router, apiPrefix string) {
	router.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Welcome to Products API",
			"version": Version,
			"endpoints": fiber.Map{
				"products": apiPrefix + "/products",
				"search":   apiPrefix + "/products/search",
				"stats":    apiPrefix + "/products/stats",
			},
		})
	})
}
