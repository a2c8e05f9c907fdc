package rest

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/nhle/taskboard/internal/auth"
	"github.com/nhle/taskboard/internal/rest/handlers"
	"github.com/nhle/taskboard/internal/rest/middleware"
	"github.com/nhle/taskboard/internal/rest/response"
	"github.com/nhle/taskboard/internal/tasks"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// New builds the Fiber application serving the task API. Every route under
// /api/v1 requires authentication through authn.
func New(svc *tasks.Service, authn auth.Authenticator, log logrus.FieldLogger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "taskboard",
		DisableStartupMessage: true,
		ErrorHandler:          response.HandleError,
	})

	app.Use(middleware.RequestLogger(log))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(HealthResponse{Status: "healthy"})
	})

	api := app.Group("/api/v1", middleware.Authenticate(authn))
	handlers.NewTaskHandler(svc, log).EnrichRoutes(api)

	return app
}
