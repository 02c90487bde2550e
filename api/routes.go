package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// setupRoutes registers the blog post and operational endpoints
func setupRoutes(r chi.Router, handlers *routeHandlers, gatherer prometheus.Gatherer) {
	// Collection endpoints
	r.Get("/", handlers.blogPostHandler.listBlogPosts())
	r.Post("/", handlers.blogPostHandler.createBlogPost())

	// Item endpoints
	r.Route("/blogpost/{blogPostID}", func(r chi.Router) {
		r.Get("/", handlers.blogPostHandler.getBlogPost())
		r.Put("/", handlers.blogPostHandler.upsertBlogPost())
		r.Delete("/", handlers.blogPostHandler.deleteBlogPost())
	})

	r.Get("/healthz", handlers.healthHandler.check())
	r.Method(http.MethodGet, "/metrics", metricsHandler(gatherer))
}
