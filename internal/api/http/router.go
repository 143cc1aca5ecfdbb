package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-tracker/internal/api/http/handlers"
	"github.com/spec-kit/ticket-tracker/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Tickets  *handlers.TicketsHandler
	Identity *auth.IdentityMiddleware
}

// RegisterRoutes wires HTTP routes. The /tickets/:uid catch-all is registered
// last so the named subviews win.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	tickets := app.Group("/tickets", cfg.Identity.Handle)
	tickets.Get("/", cfg.Tickets.List)
	tickets.Get("/filter/:status?", cfg.Tickets.ListByStatus)
	tickets.Get("/active", cfg.Tickets.ListActive)
	tickets.Get("/assigned", cfg.Tickets.ListAssigned)
	tickets.Get("/create", cfg.Tickets.CreatePage)
	tickets.Get("/edit/:uid", cfg.Tickets.EditPage)
	tickets.Get("/print/:uid", cfg.Tickets.Print)
	tickets.Post("/submit", cfg.Tickets.Submit)
	tickets.Post("/comment", cfg.Tickets.Comment)
	tickets.Get("/:uid", cfg.Tickets.Single)
}
