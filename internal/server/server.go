package server

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/caal-ai/templatize/internal/controllers"
	"github.com/caal-ai/templatize/internal/version"
)

type HTTPServerDependencies struct {
	SanitizeController *controllers.SanitizeController
}

// NewHTTPServer wires the sanitization service routes. The registry
// submission boundary consumes these endpoints; the engine itself never
// opens a connection.
func NewHTTPServer(deps HTTPServerDependencies) *fiber.App {
	router := fiber.New(fiber.Config{
		AppName: "templatize",
	})

	router.Use(cors.New())
	router.Use(logger.New())

	router.Get("/health", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":    "healthy",
			"service":   "templatize",
			"version":   version.GetVersion(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	router.Post("/sanitize", deps.SanitizeController.Sanitize)

	workflows := router.Group("/workflows")
	workflows.Get("/", deps.SanitizeController.ListWorkflows)
	workflows.Get("/:id", deps.SanitizeController.GetWorkflow)
	workflows.Post("/:id/sanitize", deps.SanitizeController.SanitizeWorkflow)

	return router
}
