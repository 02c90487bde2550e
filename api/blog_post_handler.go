package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/blog-post-api/database"
	"github.com/rpupo63/blog-post-api/errs"
	"github.com/rpupo63/blog-post-api/models"
	"github.com/rpupo63/blog-post-api/validation"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const maxRequestBodySize = 1 << 20

const (
	msgBlogPostCreated  = "Blog post created successfully!"
	msgBlogPostModified = "Blog post modified successfully!"
	msgBlogPostDeleted  = "Blog post deleted successfully!"
)

type blogPostHandler struct {
	responder    Responder
	logger       zerolog.Logger
	blogPostRepo *database.BlogPostRepo
	now          func() time.Time
}

func newBlogPostHandler(blogPostRepo *database.BlogPostRepo, now func() time.Time) blogPostHandler {
	logger := log.With().Str("handlerName", "blogPostHandler").Logger()

	return blogPostHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		blogPostRepo: blogPostRepo,
		now:          now,
	}
}

// BlogPostResponse is the wire form of a blog post
type BlogPostResponse struct {
	ID       int64     `json:"id"`
	Date     time.Time `json:"date"`
	Title    *string   `json:"title"`
	Category *string   `json:"category"`
	Body     *string   `json:"body"`
	Tags     []string  `json:"tags"`
}

// BlogPostCreatedResponse confirms a create through POST /
type BlogPostCreatedResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// BlogPostUpsertResponse confirms a PUT, which either created or modified the post
type BlogPostUpsertResponse struct {
	Message  string           `json:"message"`
	BlogPost BlogPostResponse `json:"blogPost"`
}

func newBlogPostResponse(blogPost *models.BlogPost) (BlogPostResponse, error) {
	tags, err := blogPost.TagList()
	if err != nil {
		return BlogPostResponse{}, errs.NewInternalErrorWithCause("decode blog post tags", err)
	}

	return BlogPostResponse{
		ID:       blogPost.ID,
		Date:     blogPost.Date,
		Title:    blogPost.Title,
		Category: blogPost.Category,
		Body:     blogPost.Body,
		Tags:     tags,
	}, nil
}

// listBlogPosts retrieves all blog posts
// @Summary List blog posts
// @Tags Blog Posts
// @Produce json
// @Success 200 {array} BlogPostResponse
// @Failure 500 {object} ErrorResponse
// @Router / [get]
func (h blogPostHandler) listBlogPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogPosts, err := h.blogPostRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "blog posts", err))
			return
		}

		response := make([]BlogPostResponse, 0, len(blogPosts))
		for _, blogPost := range blogPosts {
			item, err := newBlogPostResponse(blogPost)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			response = append(response, item)
		}

		h.responder.WriteJSON(w, response)
	}
}

// createBlogPost creates a new blog post with a database assigned id
// @Summary Create blog post
// @Tags Blog Posts
// @Accept json
// @Produce json
// @Success 201 {object} BlogPostCreatedResponse
// @Failure 400 {object} ErrorResponse "Validation error listing every invalid field"
// @Failure 500 {object} ErrorResponse
// @Router / [post]
func (h blogPostHandler) createBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := readBody(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		req, err := validation.ParseCreate(body)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		blogPost := models.BlogPost{Date: h.now()}
		req.Patch().Apply(&blogPost)

		if err := h.blogPostRepo.Add(r.Context(), &blogPost); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "blog post", err))
			return
		}

		h.logger.Info().Int64("blogPostID", blogPost.ID).Msg("Blog post created")
		h.responder.WriteJSONWithStatus(w, http.StatusCreated, BlogPostCreatedResponse{
			Message: msgBlogPostCreated,
			ID:      blogPost.ID,
		})
	}
}

// getBlogPost retrieves a specific blog post by ID
// @Summary Get blog post
// @Tags Blog Posts
// @Produce json
// @Param blogPostID path int true "Blog Post ID"
// @Success 200 {object} BlogPostResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /blogpost/{blogPostID} [get]
func (h blogPostHandler) getBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogPostID, err := parseBlogPostID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		blogPost, err := h.blogPostRepo.FindByID(r.Context(), blogPostID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "blog post", err))
			return
		}

		if blogPost == nil {
			h.responder.WriteError(w, errs.NewNotFound("blog post"))
			return
		}

		response, err := newBlogPostResponse(blogPost)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, response)
	}
}

// upsertBlogPost updates the supplied fields of a blog post, or creates the
// post under the path id when it does not exist
// @Summary Create or update blog post
// @Tags Blog Posts
// @Accept json
// @Produce json
// @Param blogPostID path int true "Blog Post ID"
// @Success 200 {object} BlogPostUpsertResponse "Existing post modified"
// @Success 201 {object} BlogPostUpsertResponse "Post created under the path id"
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /blogpost/{blogPostID} [put]
func (h blogPostHandler) upsertBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogPostID, err := parseBlogPostID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		body, err := readBody(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		patch, err := validation.ParseUpdate(body)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		blogPost, created, err := h.blogPostRepo.Upsert(r.Context(), blogPostID, patch, h.now())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("upsert", "blog post", err))
			return
		}

		response, err := newBlogPostResponse(blogPost)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if created {
			h.logger.Info().Int64("blogPostID", blogPostID).Msg("Blog post created through upsert")
			h.responder.WriteJSONWithStatus(w, http.StatusCreated, BlogPostUpsertResponse{
				Message:  msgBlogPostCreated,
				BlogPost: response,
			})
			return
		}

		h.responder.WriteJSON(w, BlogPostUpsertResponse{
			Message:  msgBlogPostModified,
			BlogPost: response,
		})
	}
}

// deleteBlogPost deletes a blog post by ID
// @Summary Delete blog post
// @Tags Blog Posts
// @Produce json
// @Param blogPostID path int true "Blog Post ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /blogpost/{blogPostID} [delete]
func (h blogPostHandler) deleteBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogPostID, err := parseBlogPostID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.blogPostRepo.Delete(r.Context(), blogPostID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "blog post", err))
			return
		}

		h.logger.Info().Int64("blogPostID", blogPostID).Msg("Blog post deleted")
		h.responder.WriteMessage(w, http.StatusOK, msgBlogPostDeleted)
	}
}

func parseBlogPostID(r *http.Request) (int64, error) {
	blogPostIDStr := chi.URLParam(r, "blogPostID")
	if blogPostIDStr == "" {
		return 0, errs.NewInvalidFieldError("id", "missing blog post id")
	}

	blogPostID, err := strconv.ParseInt(blogPostIDStr, 10, 64)
	if err != nil || blogPostID <= 0 {
		return 0, errs.NewInvalidFieldError("id", "must be a positive integer")
	}
	return blogPostID, nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, errs.NewMaxBodySizeExceededError(maxBytesErr.Limit)
		}
		return nil, errs.NewBadRequestError("failed to read request body")
	}
	return body, nil
}
