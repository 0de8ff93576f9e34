package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/voice2action/civic-service/internal/api/http/handlers"
	"github.com/voice2action/civic-service/internal/auth"
	"github.com/voice2action/civic-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Issues         *handlers.IssuesHandler
	Metrics        *handlers.MetricsHandler
	Orgs           *handlers.OrgsHandler
	Budget         *handlers.BudgetHandler
	Auth           *handlers.AuthHandler
	Admin          *handlers.AdminHandler
	Webhooks       *handlers.WebhooksHandler
	AuthMiddleware *auth.Middleware
	RateLimiter    *RateLimiter
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	api.Post("/issues", cfg.RateLimiter.LimitIssueCreation(), cfg.Issues.Create)
	api.Get("/issues/geo", cfg.Issues.GeoPoints)
	api.Get("/issues/track/:trackingId", cfg.Issues.Track)
	api.Get("/issues", cfg.Issues.List)
	api.Post("/issues/:id/upvote", cfg.Issues.Upvote)

	api.Get("/metrics", cfg.Metrics.Summary)
	api.Get("/analytics/series", cfg.Metrics.Series)
	api.Get("/wards/stats", cfg.Metrics.WardStats)

	api.Get("/orgs", cfg.Orgs.List)
	api.Get("/orgs/:code/metrics", cfg.Orgs.Metrics)

	api.Get("/budget/needs", cfg.Budget.Needs)
	api.Post("/budget/plan", cfg.Budget.EditPlan)
	api.Post("/budget/auto", cfg.Budget.AutoAllocate)
	api.Post("/budget/score", cfg.Budget.Score)

	api.Post("/sms", cfg.RateLimiter.LimitIssueCreation(), cfg.Webhooks.SMS)
	api.Post("/whatsapp", cfg.RateLimiter.LimitIssueCreation(), cfg.Webhooks.WhatsApp)
	api.Post("/ivr", cfg.Webhooks.IVR)
	api.Post("/ivr/recording", cfg.Webhooks.IVRRecording)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	admin := api.Group("/admin", cfg.AuthMiddleware.Handle)
	admin.Get("/issues", auth.RequireRole(domain.AdminRoleAdmin, domain.AdminRoleOfficer), cfg.Admin.ListIssues)
	admin.Patch("/issues/:id", auth.RequireRole(domain.AdminRoleAdmin), cfg.Admin.UpdateIssue)
}
