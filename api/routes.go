package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes mounts the public API under /api. Reads are public except for contact
// messages and the dashboard; every mutation except a contact submission needs a token.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Get("/healthz", handlers.healthHandler.healthz())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", handlers.authHandler.register())
			r.Post("/login", handlers.authHandler.login())
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", handlers.projectHandler.getProjects())
			r.Get("/{projectID}", handlers.projectHandler.getProject())

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.authenticate)
				r.Post("/", handlers.projectHandler.createProject())
				r.Put("/{projectID}", handlers.projectHandler.updateProject())
				r.Delete("/{projectID}", handlers.projectHandler.deleteProject())
			})
		})

		r.Route("/blogs", func(r chi.Router) {
			r.Get("/", handlers.blogPostHandler.getBlogPosts())
			r.Get("/{blogPostID}", handlers.blogPostHandler.getBlogPost())

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.authenticate)
				r.Post("/", handlers.blogPostHandler.createBlogPost())
				r.Put("/{blogPostID}", handlers.blogPostHandler.updateBlogPost())
				r.Delete("/{blogPostID}", handlers.blogPostHandler.deleteBlogPost())
			})
		})

		r.Route("/skills", func(r chi.Router) {
			r.Get("/", handlers.skillHandler.getSkills())
			r.Get("/grouped", handlers.skillHandler.getGroupedSkills())
			r.Get("/{skillID}", handlers.skillHandler.getSkill())

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.authenticate)
				r.Post("/", handlers.skillHandler.createSkill())
				r.Put("/{skillID}", handlers.skillHandler.updateSkill())
				r.Delete("/{skillID}", handlers.skillHandler.deleteSkill())
			})
		})

		r.Route("/contact", func(r chi.Router) {
			r.Post("/", handlers.contactHandler.createContact())

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.authenticate)
				r.Get("/", handlers.contactHandler.getContacts())
				r.Get("/{contactID}", handlers.contactHandler.getContact())
				r.Put("/{contactID}", handlers.contactHandler.updateContact())
				r.Delete("/{contactID}", handlers.contactHandler.deleteContact())
			})
		})

		r.Route("/github", func(r chi.Router) {
			r.Get("/", handlers.githubHandler.getStats())
			r.Get("/cached", handlers.githubHandler.getCachedStats())

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.authenticate)
				r.Post("/refresh", handlers.githubHandler.refreshStats())
				r.Post("/", handlers.githubHandler.overrideStats())
			})
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Use(authMiddleware.authenticate)
			r.Get("/", handlers.dashboardHandler.getSummary())
			r.Get("/full", handlers.dashboardHandler.getFull())
			r.Get("/stats", handlers.dashboardHandler.getStats())
			r.Get("/recent", handlers.dashboardHandler.getRecent())
		})
	})
}
