package app

import (
	"io"
	"os"

	"catalog/internal/config"
	"catalog/internal/handlers"
	"catalog/internal/middleware"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// APIPrefix is where the product routes are mounted.
const APIPrefix = "/api"

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Config   *config.Config
	Products *services.ProductService
	Stats    *services.StatsService
	Log      zerolog.Logger
	// AccessLog receives request logs; os.Stdout when nil, io.Discard to silence.
	AccessLog io.Writer
}

// New builds the Fiber application with all routes and middleware.
func New(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Products API",
		ErrorHandler: middleware.ErrorHandler(d.Config.IsProduction(), d.Log),
	})

	accessLog := d.AccessLog
	if accessLog == nil {
		accessLog = os.Stdout
	}
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{Output: accessLog}))

	handlers.RegisterHealth(app, APIPrefix)

	api := app.Group(APIPrefix)
	productHandler := handlers.NewProductHandler(d.Products, d.Stats)
	productHandler.RegisterRoutes(api, middleware.APIKeyRequired(d.Config))

	app.Use(middleware.NotFound)
	return app
}
