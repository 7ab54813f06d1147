package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/user-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health *handlers.HealthHandler
	Users  *handlers.UsersHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	users := app.Group("/users")
	users.Post("/", cfg.Users.CreateUser)
	users.Get("/", cfg.Users.ListUsers)
	users.Get("/:id", cfg.Users.GetUser)
	users.Patch("/:id", cfg.Users.UpdateUser)
	users.Delete("/:id", cfg.Users.DeleteUser)
}
