package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Auth       *handlers.AuthHandler
	Complaints *handlers.ComplaintsHandler
	Session    *auth.SessionMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.SignUp)
	authGroup.Post("/signin", cfg.Auth.SignIn)
	// Sign-out stays outside the session gate: revoking an absent or
	// expired session is still a successful sign-out.
	authGroup.Post("/signout", cfg.Auth.SignOut)

	requireSession := cfg.Session.Handle
	requireAdmin := auth.RequireRole(domain.RoleAdmin)

	api.Post("/complaints", requireSession, auth.RequireAuthenticated(), cfg.Complaints.Create)
	api.Get("/complaints/active", requireSession, requireAdmin, cfg.Complaints.ListActive)
	api.Get("/complaints/history", requireSession, requireAdmin, cfg.Complaints.ListHistory)
	api.Put("/complaints/:id", requireSession, requireAdmin, cfg.Complaints.UpdateStatus)

	api.Get("/user/complaints", requireSession, auth.RequireAuthenticated(), cfg.Complaints.ListMine)
}
