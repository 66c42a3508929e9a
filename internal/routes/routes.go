package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/telconnect/telconnect/internal/handlers"
	"github.com/telconnect/telconnect/internal/middleware"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	pageHandler *handlers.PageHandler,
	contactHandler *handlers.ContactHandler,
	authHandler *handlers.AuthHandler,
	adminHandler *handlers.AdminHandler,
	sessionMW *middleware.SessionMiddleware,
	guestCSRF *middleware.GuestCSRF,
) {
	// Sessions are resolved on every route so the public chrome can show
	// the admin nav when a session exists.
	router.Use(sessionMW.LoadSession)

	// Public pages
	router.Get("/", pageHandler.Home)
	router.Get("/plans", pageHandler.Plans)
	router.Get("/language/{lang}", pageHandler.SetLanguage)
	router.Get("/static/*", handlers.Static())

	// Contact form. The POST carries a transport-level throttle on top of
	// the persistent per-IP submission limit inside the service, and the
	// double-submit token is checked before any form handling.
	router.Get("/contact", contactHandler.ShowForm)
	router.With(middleware.RateLimitByIP(middleware.DefaultFormRateLimit()), guestCSRF.Verify).
		Post("/contact", contactHandler.Submit)

	// Login. Same split: httprate caps raw request volume, the
	// database-backed lockout is what the product semantics rely on.
	router.Get("/admin/login", authHandler.ShowLogin)
	router.With(middleware.RateLimitByIP(middleware.DefaultLoginRateLimit()), guestCSRF.Verify).
		Post("/admin/login", authHandler.Login)

	// Admin surface
	router.Group(func(r chi.Router) {
		r.Use(sessionMW.RequireAdmin)

		r.Get("/admin", adminHandler.Dashboard)
		r.Get("/admin/contacts/export", adminHandler.ExportCSV)
		r.Get("/admin/api/contacts/{id}", adminHandler.GetContact)

		// State changes require a valid CSRF token.
		r.Group(func(r chi.Router) {
			r.Use(sessionMW.VerifyCSRF)

			r.Post("/admin/logout", authHandler.Logout)
			r.Post("/admin/contacts/{id}/status", adminHandler.UpdateStatus)
			r.Post("/admin/contacts/{id}/delete", adminHandler.DeleteContact)
		})
	})

	router.NotFound(pageHandler.NotFound)
}
