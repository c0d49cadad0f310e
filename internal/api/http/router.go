package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpmate/helpdesk/internal/api/http/handlers"
	"github.com/helpmate/helpdesk/internal/auth"
	"github.com/helpmate/helpdesk/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Stats          *handlers.StatsHandler
	AuthMiddleware *auth.Middleware
	Metrics        *observability.Metrics
	UploadDir      string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/debug/metrics", metricsHandler(cfg.Metrics))

	app.Static("/uploads", cfg.UploadDir)

	api := app.Group("/api")
	api.Post("/auth/register", cfg.Users.Register)
	api.Post("/auth/login", cfg.Users.Login)

	protected := api.Group("", cfg.AuthMiddleware.Handle)
	protected.Post("/tickets", cfg.Tickets.CreateTicket)
	protected.Get("/tickets", cfg.Tickets.ListTickets)
	protected.Get("/tickets/:id", cfg.Tickets.GetTicket)
	protected.Put("/tickets/:id", cfg.Tickets.UpdateStatus)
	protected.Delete("/tickets/:id", cfg.Tickets.DeleteTicket)
	protected.Post("/tickets/:id/comments", cfg.Tickets.AddComment)
	protected.Get("/stats", cfg.Stats.GetStats)
}

func metricsHandler(metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requests, errors, latency := metrics.Snapshot()
		return c.JSON(fiber.Map{
			"requests":       requests,
			"errors":         errors,
			"latency_millis": latency,
		})
	}
}
