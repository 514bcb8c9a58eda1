package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-triage/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Tickets *handlers.TicketsHandler
	Meta    *handlers.MetaHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", ServeUI)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	api := app.Group("/api")
	api.Post("/tickets/analyze", cfg.Tickets.Analyze)
	api.Get("/tickets/:id", cfg.Tickets.Get)
	api.Post("/tickets/:id/questions", cfg.Tickets.Ask)
	api.Get("/samples", cfg.Meta.Samples)
	api.Get("/meta", cfg.Meta.Meta)
}
