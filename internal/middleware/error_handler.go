package middleware

import (
	"errors"

	"catalog/internal/apperrors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

const internalErrorMessage = "Internal Server Error"

// ErrorHandler translates every error returned by a handler into the
// {success:false, error} envelope. Messages of unclassified errors are
// replaced when production is true.
func ErrorHandler(production bool, log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := err.Error()
		operational := false

		var appErr *apperrors.Error
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &appErr):
			status = appErr.Status
			message = appErr.Error()
			operational = appErr.Operational()
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
			message = fiberErr.Message
			operational = status < fiber.StatusInternalServerError
		}

		if operational {
			log.Debug().Int("status", status).Str("method", c.Method()).Str("path", c.Path()).Msg(message)
		} else {
			log.Error().Err(err).Int("status", status).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
			if production {
				message = internalErrorMessage
			}
		}

		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"error":   message,
		})
	}
}

// NotFound answers any request no route matched.
func NotFound(c *fiber.Ctx) error {
	return apperrors.NewNotFound("Resource")
}
