package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"

	_ "productapi/docs" // registers the API description
	"productapi/internal/handlers"
	"productapi/internal/middleware"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger func(ctx context.Context) error

// Options are the collaborators the server is composed from.
type Options struct {
	ProductHandler *handlers.ProductHandler
	FrontendURL    string
	// DatabasePing is required; CachePing is nil when caching is disabled.
	DatabasePing Pinger
	CachePing    Pinger
}

// New builds the Fiber app: middleware, product routes, docs and health check.
func New(opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "productapi",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.AccessLog())
	for _, h := range middleware.CORS(opts.FrontendURL) {
		app.Use(h)
	}

	api := app.Group("/api")
	api.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"msg": "from api"})
	})
	opts.ProductHandler.RegisterRoutes(api)

	app.Get("/docs/*", swagger.New(swagger.Config{
		Title: "Documentation REST API Go / Fiber",
	}))

	app.Get("/health", healthHandler(opts))

	return app
}

func healthHandler(opts Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		status := fiber.StatusOK
		body := fiber.Map{
			"status":   "healthy",
			"database": "up",
			"cache":    "disabled",
			"time":     time.Now().Format(time.RFC3339),
		}

		if err := opts.DatabasePing(ctx); err != nil {
			status = fiber.StatusServiceUnavailable
			body["status"] = "unhealthy"
			body["database"] = "down"
		}
		if opts.CachePing != nil {
			body["cache"] = "up"
			if err := opts.CachePing(ctx); err != nil {
				body["cache"] = "down"
			}
		}
		return c.Status(status).JSON(body)
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	return c.Status(code).JSON(fiber.Map{"error": message})
}
