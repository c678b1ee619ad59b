package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires the public site, the session-only pages and the admin
// back office. Guards run before any handler effect.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(authMiddleware.resolveUser)

		// Public pages
		r.Get("/", handlers.catalogHandler.index())
		r.Get("/tech/{categoryID}", handlers.catalogHandler.categoryProjects())
		r.Get("/uploads/{filename}", handlers.uploadHandler.serve())
		r.Get("/login", handlers.authHandler.loginForm())
		r.Post("/login", handlers.authHandler.login())
		r.Get("/register", handlers.authHandler.registerForm())
		r.Post("/register", handlers.authHandler.register())

		// Logged-in visitors
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.requireUser)
			r.Get("/logout", handlers.authHandler.logout())
			r.Get("/other", handlers.inquiryHandler.form())
			r.Post("/other", handlers.inquiryHandler.submit())
		})

		// Admin back office
		r.Route("/admin", func(r chi.Router) {
			r.Use(authMiddleware.requireAdmin)
			r.Get("/", handlers.adminHandler.dashboard())
			r.Get("/languages", handlers.adminHandler.languages())
			r.Post("/languages", handlers.adminHandler.createLanguage())
			r.Get("/languages/{categoryID}/toggle", handlers.adminHandler.toggleLanguage())
			r.Get("/projects", handlers.adminProjectHandler.list())
			r.Get("/projects/new", handlers.adminProjectHandler.newForm())
			r.Post("/projects/new", handlers.adminProjectHandler.create())
			r.Get("/projects/{projectID}/edit", handlers.adminProjectHandler.editForm())
			r.Post("/projects/{projectID}/edit", handlers.adminProjectHandler.update())
			r.Post("/projects/{projectID}/delete", handlers.adminProjectHandler.delete())
			r.Post("/images/{imageID}/delete", handlers.adminProjectHandler.deleteImage())
		})
	})
}
