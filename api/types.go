package api

import "github.com/rpupo63/blog-post-api/errs"

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	blogPostHandler blogPostHandler
	healthHandler   healthHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string            `json:"error" example:"validation failed"`
	Status  string            `json:"status" example:"error"`
	Field   string            `json:"field,omitempty" example:"title"`
	Details string            `json:"details,omitempty" example:"Invalid fields: title"`
	Cause   string            `json:"cause,omitempty" example:"Underlying error cause"`
	Errors  []errs.FieldError `json:"errors,omitempty"`
}
