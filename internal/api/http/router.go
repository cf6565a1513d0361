package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Metrics        *handlers.MetricsHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Dashboard      *handlers.DashboardHandler
	WorkLogs       *handlers.WorkLogsHandler
	Directory      *handlers.DirectoryHandler
	Events         *handlers.EventsHandler
	AuthMiddleware fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Snapshot)

	api := app.Group("/api")
	api.Post("/auth/login", cfg.Auth.Login)

	protected := api.Group("", cfg.AuthMiddleware)
	staff := auth.RequireStaff()
	admin := auth.RequireAdmin()

	tickets := protected.Group("/tickets")
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Put("/:id/assign", staff, cfg.Tickets.AssignTicket)
	tickets.Put("/:id", staff, cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", admin, cfg.Tickets.DeleteTicket)

	worklogs := protected.Group("/worklogs", staff)
	worklogs.Get("/ticket/:ticketId", cfg.WorkLogs.ListByTicket)
	worklogs.Post("/", cfg.WorkLogs.Create)

	protected.Get("/dashboard", cfg.Dashboard.Stats)
	protected.Get("/events", cfg.Events.Stream)

	protected.Get("/users", staff, cfg.Directory.ListUsers)
	protected.Post("/users", admin, cfg.Directory.CreateUser)

	categories := protected.Group("/categories")
	categories.Get("/", cfg.Directory.ListCategories)
	categories.Post("/", admin, cfg.Directory.CreateCategory)
	categories.Post("/:id/engineers/:userId", admin, cfg.Directory.AddEngineer)
	categories.Delete("/:id/engineers/:userId", admin, cfg.Directory.RemoveEngineer)
}
