package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// setupRoutes wires the public surface and the admin surface. Everything
// under the admin group passes the session gate before it runs.
func setupRoutes(r chi.Router, handlers *routeHandlers, gate sessionGate, startupTime time.Time) {
	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/health", healthHandler(startupTime))

		// Project Handler endpoints
		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Get("/project/{projectID}", handlers.projectHandler.getProject())
		r.Get("/project/{projectID}/gallery", handlers.galleryHandler.viewGallery())
		r.Post("/project/{projectID}/view", handlers.projectHandler.incrementViews())

		// Auth Handler endpoints
		r.Post("/auth/login", handlers.authHandler.login())
		r.Post("/auth/logout", handlers.authHandler.logout())
		r.Get("/auth/verify", handlers.authHandler.verify())

		// Contact Handler endpoints
		r.Post("/contact", handlers.contactHandler.sendMessage())
		r.Get("/contact/chat-link", handlers.contactHandler.chatLink())
	})

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(gate.requireAdmin)

		r.Post("/projects", handlers.projectHandler.createProject())
		r.Put("/project/{projectID}", handlers.projectHandler.updateProject())
		r.Delete("/project/{projectID}", handlers.projectHandler.deleteProject())
		r.Get("/admin/projects/stream", handlers.streamHandler.streamProjects())
	})
}

func healthHandler(startupTime time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write([]byte(`{"status":"ok","uptime":"` + time.Since(startupTime).Round(time.Second).String() + `"}`))
	}
}
