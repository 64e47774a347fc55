package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// IsAllowedOrigin reports whether a browser origin may call the API.
// An empty allowedOrigin allows nothing.
func IsAllowedOrigin(origin, allowedOrigin string) bool {
	return allowedOrigin != "" && origin == allowedOrigin
}

// OriginGuard rejects cross-origin requests from any origin but the configured
// front end. Requests without an Origin header are not cross-origin and pass.
func OriginGuard(allowedOrigin string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin := c.Get(fiber.HeaderOrigin)
		if origin == "" || IsAllowedOrigin(origin, allowedOrigin) {
			return c.Next()
		}
		log.Printf("Rejected request from origin %q", origin)
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "CORS Error",
		})
	}
}

// CORS returns the guard followed by Fiber's cors middleware, which answers
// preflight requests and sets the response headers for the allowed origin.
func CORS(allowedOrigin string) []fiber.Handler {
	handlers := []fiber.Handler{OriginGuard(allowedOrigin)}
	if allowedOrigin != "" {
		handlers = append(handlers, cors.New(cors.Config{
			AllowOrigins: allowedOrigin,
			AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
			AllowHeaders: "Origin,Content-Type,Accept",
		}))
	}
	return handlers
}
