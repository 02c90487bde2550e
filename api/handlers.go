package api

import (
	"time"

	"github.com/rpupo63/blog-post-api/database"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, startupTime time.Time, now func() time.Time) *routeHandlers {
	return &routeHandlers{
		blogPostHandler: newBlogPostHandler(database.BlogPostRepo(), now),
		healthHandler:   newHealthHandler(database, startupTime),
	}
}
