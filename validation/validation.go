// Package validation turns raw blog post request bodies into typed values.
//
// Every field is checked in one pass and all problems are reported together
// as a single errs.NewValidationError.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rpupo63/blog-post-api/errs"
	"github.com/rpupo63/blog-post-api/models"
)

// Field names in the order they are reported.
const (
	FieldTitle    = "title"
	FieldCategory = "category"
	FieldBody     = "body"
	FieldTags     = "tags"
)

var fieldOrder = []string{FieldTitle, FieldCategory, FieldBody, FieldTags}

// Messages returned when a required field is missing.
var missingMessages = map[string]string{
	FieldTitle:    "This blog has no title",
	FieldCategory: "This blog has no category",
	FieldBody:     "This blog has no body",
	FieldTags:     "This blog has no tags",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// CreateBlogPostRequest is a create payload that passed validation. All fields
// are guaranteed to be present.
type CreateBlogPostRequest struct {
	Title    *string  `json:"title" validate:"required"`
	Category *string  `json:"category" validate:"required"`
	Body     *string  `json:"body" validate:"required"`
	Tags     []string `json:"tags" validate:"required"`
}

// Patch returns the request as a patch with every field set.
func (r CreateBlogPostRequest) Patch() models.BlogPostPatch {
	var patch models.BlogPostPatch
	patch.SetTitle(r.Title)
	patch.SetCategory(r.Category)
	patch.SetBody(r.Body)
	patch.SetTags(r.Tags)
	return patch
}

// ParseCreate validates body against the create schema, where every field is required.
func ParseCreate(body []byte) (CreateBlogPostRequest, error) {
	var req CreateBlogPostRequest

	raw, err := decodeObject(body)
	if err != nil {
		return req, err
	}

	c := collector{}
	c.decodeString(raw, FieldTitle, &req.Title)
	c.decodeString(raw, FieldCategory, &req.Category)
	c.decodeString(raw, FieldBody, &req.Body)
	c.decodeTags(raw, &req.Tags)

	if err := validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return req, errs.NewInternalErrorWithCause("validate blog post", err)
		}
		for _, fe := range validationErrors {
			c.add(fe.Field(), messageFor(fe))
		}
	}

	if err := c.err(); err != nil {
		return CreateBlogPostRequest{}, err
	}
	return req, nil
}

// ParseUpdate validates body against the update schema. Fields are optional; a
// field that is present, even as null, ends up set on the returned patch.
func ParseUpdate(body []byte) (models.BlogPostPatch, error) {
	var patch models.BlogPostPatch

	raw, err := decodeObject(body)
	if err != nil {
		return patch, err
	}

	c := collector{}

	var title, category, text *string
	if c.decodeString(raw, FieldTitle, &title) {
		patch.SetTitle(title)
	}
	if c.decodeString(raw, FieldCategory, &category) {
		patch.SetCategory(category)
	}
	if c.decodeString(raw, FieldBody, &text) {
		patch.SetBody(text)
	}
	var tags []string
	if c.decodeTags(raw, &tags) {
		patch.SetTags(tags)
	}

	if err := c.err(); err != nil {
		return models.BlogPostPatch{}, err
	}
	return patch, nil
}

func decodeObject(body []byte) (map[string]json.RawMessage, error) {
	raw := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(body)) == 0 {
		return raw, nil
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errs.NewInvalidJSONError(err)
	}
	// a literal null body unmarshals into a nil map
	if raw == nil {
		raw = map[string]json.RawMessage{}
	}
	return raw, nil
}

func messageFor(fe validator.FieldError) string {
	if fe.Tag() == "required" {
		if msg, ok := missingMessages[fe.Field()]; ok {
			return msg
		}
		return "is required"
	}
	return fe.Field() + ": " + fe.Tag()
}

// collector accumulates field errors, one per field, and reports them in
// schema order.
type collector struct {
	errors map[string]string
}

func (c *collector) add(field, message string) {
	if c.errors == nil {
		c.errors = map[string]string{}
	}
	if _, exists := c.errors[field]; exists {
		return
	}
	c.errors[field] = message
}

func (c *collector) err() error {
	if len(c.errors) == 0 {
		return nil
	}
	fieldErrors := make([]errs.FieldError, 0, len(c.errors))
	for _, field := range fieldOrder {
		if msg, ok := c.errors[field]; ok {
			fieldErrors = append(fieldErrors, errs.FieldError{Field: field, Message: msg})
		}
	}
	return errs.NewValidationError(fieldErrors)
}

// decodeString reports whether field was present in raw. A type mismatch is
// recorded and counts as not present.
func (c *collector) decodeString(raw map[string]json.RawMessage, field string, dst **string) bool {
	value, ok := raw[field]
	if !ok {
		return false
	}
	if err := json.Unmarshal(value, dst); err != nil {
		c.add(field, "must be a string")
		return false
	}
	return true
}

func (c *collector) decodeTags(raw map[string]json.RawMessage, dst *[]string) bool {
	value, ok := raw[FieldTags]
	if !ok {
		return false
	}
	var items []*string
	if err := json.Unmarshal(value, &items); err != nil {
		c.add(FieldTags, "must be a list of strings")
		return false
	}
	// a null list clears the tags; a null element is a type error
	if items == nil {
		*dst = nil
		return true
	}
	tags := make([]string, 0, len(items))
	for _, item := range items {
		if item == nil {
			c.add(FieldTags, "must be a list of strings")
			return false
		}
		tags = append(tags, *item)
	}
	*dst = tags
	return true
}
