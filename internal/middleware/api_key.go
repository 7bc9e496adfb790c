package middleware

import (
	"crypto/subtle"

	"catalog/internal/apperrors"
	"catalog/internal/config"

	"github.com/gofiber/fiber/v2"
)

// HeaderAPIKey carries the shared secret on every product request.
const HeaderAPIKey = "X-Api-Key"

// CheckAPIKey compares the supplied key with the configured secret.
func CheckAPIKey(provided, secret string) error {
	if provided == "" {
		return apperrors.NewAuthentication("API key is required")
	}
	if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
		return apperrors.NewAuthentication("Invalid API key")
	}
	return nil
}

// APIKeyRequired is a Fiber middleware rejecting requests without the
// configured API key.
func APIKeyRequired(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := CheckAPIKey(c.Get(HeaderAPIKey), cfg.APIKey); err != nil {
			return err
		}
		return c.Next()
	}
}
