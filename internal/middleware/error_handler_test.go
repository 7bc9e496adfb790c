package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"catalog/internal/apperrors"
	"catalog/internal/logger"
	"catalog/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newErrorApp(production bool, err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(production, logger.Nop())})
	app.Get("/fail", func(c *fiber.Ctx) error { return err })
	app.Use(middleware.NotFound)
	return app
}

func do(t *testing.T, app *fiber.App, path string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		production bool
		err        error
		wantStatus int
		wantError  string
	}{
		{"validation", true, apperrors.NewValidation("Product name is required"), http.StatusBadRequest, "Product name is required"},
		{"authentication", true, apperrors.NewAuthentication("Invalid API key"), http.StatusUnauthorized, "Invalid API key"},
		{"not found", true, apperrors.NewNotFound("Product"), http.StatusNotFound, "Product not found"},
		{"fiber error", true, fiber.NewError(http.StatusMethodNotAllowed, "Method Not Allowed"), http.StatusMethodNotAllowed, "Method Not Allowed"},
		{"internal in development", false, errors.New("connection refused"), http.StatusInternalServerError, "connection refused"},
		{"internal in production", true, errors.New("connection refused"), http.StatusInternalServerError, "Internal Server Error"},
		{"wrapped internal in production", true, apperrors.Wrap(errors.New("disk full")), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, newErrorApp(tt.production, tt.err), "/fail")
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantError, body["error"])
		})
	}
}

func TestNotFound(t *testing.T) {
	status, body := do(t, newErrorApp(true, nil), "/nowhere")

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, map[string]any{"success": false, "error": "Resource not found"}, body)
}
