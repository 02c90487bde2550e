package validation

import (
	"errors"
	"testing"

	"github.com/rpupo63/blog-post-api/errs"
	"github.com/rpupo63/blog-post-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldErrors(t *testing.T, err error) []errs.FieldError {
	t.Helper()
	var apiErr *errs.ApiErr
	require.True(t, errors.As(err, &apiErr), "expected *errs.ApiErr, got %T", err)
	require.True(t, errs.IsValidationError(err))
	return apiErr.Errors
}

func TestParseCreate_Valid(t *testing.T) {
	req, err := ParseCreate([]byte(`{"title":"Hello","category":"tech","body":"text","tags":["a","b","c"],"id":42}`))
	require.NoError(t, err)

	assert.Equal(t, "Hello", *req.Title)
	assert.Equal(t, "tech", *req.Category)
	assert.Equal(t, "text", *req.Body)
	assert.Equal(t, []string{"a", "b", "c"}, req.Tags)
}

func TestParseCreate_EmptyTagsAllowed(t *testing.T) {
	req, err := ParseCreate([]byte(`{"title":"t","category":"c","body":"b","tags":[]}`))
	require.NoError(t, err)
	assert.Empty(t, req.Tags)
}

func TestParseCreate_MissingTitle(t *testing.T) {
	_, err := ParseCreate([]byte(`{"category":"tech","body":"text","tags":[]}`))
	require.Error(t, err)

	assert.Equal(t, []errs.FieldError{
		{Field: "title", Message: "This blog has no title"},
	}, fieldErrors(t, err))
}

func TestParseCreate_ReportsAllMissingFields(t *testing.T) {
	_, err := ParseCreate([]byte(`{"body":"x"}`))
	require.Error(t, err)

	assert.Equal(t, []errs.FieldError{
		{Field: "title", Message: "This blog has no title"},
		{Field: "category", Message: "This blog has no category"},
		{Field: "tags", Message: "This blog has no tags"},
	}, fieldErrors(t, err))
}

func TestParseCreate_EmptyBodyReportsEverything(t *testing.T) {
	_, err := ParseCreate(nil)
	require.Error(t, err)
	assert.Len(t, fieldErrors(t, err), 4)
}

func TestParseCreate_NullCountsAsMissing(t *testing.T) {
	_, err := ParseCreate([]byte(`{"title":null,"category":"c","body":"b","tags":null}`))
	require.Error(t, err)

	assert.Equal(t, []errs.FieldError{
		{Field: "title", Message: "This blog has no title"},
		{Field: "tags", Message: "This blog has no tags"},
	}, fieldErrors(t, err))
}

func TestParseCreate_WrongTypesAndMissingTogether(t *testing.T) {
	_, err := ParseCreate([]byte(`{"title":5,"body":"b","tags":"a,b"}`))
	require.Error(t, err)

	assert.Equal(t, []errs.FieldError{
		{Field: "title", Message: "must be a string"},
		{Field: "category", Message: "This blog has no category"},
		{Field: "tags", Message: "must be a list of strings"},
	}, fieldErrors(t, err))
}

func TestParseCreate_MalformedJSON(t *testing.T) {
	for _, body := range []string{`{"title":`, `[]`, `"title"`} {
		_, err := ParseCreate([]byte(body))
		require.Error(t, err, body)
		assert.True(t, errs.IsInvalidJSONError(err), body)
	}
}

func TestParseUpdate_OnlyPresentFieldsAreSet(t *testing.T) {
	patch, err := ParseUpdate([]byte(`{"category":"tech"}`))
	require.NoError(t, err)

	post := models.BlogPost{}
	assert.Equal(t, []string{"category"}, patch.Apply(&post))
	assert.Equal(t, "tech", *post.Category)
}

func TestParseUpdate_ExplicitNullIsApplied(t *testing.T) {
	patch, err := ParseUpdate([]byte(`{"title":null,"tags":[]}`))
	require.NoError(t, err)

	title := "old"
	post := models.BlogPost{Title: &title}
	assert.Equal(t, []string{"title", "tags"}, patch.Apply(&post))
	assert.Nil(t, post.Title)
	require.NotNil(t, post.Tags)
	assert.Equal(t, "[]", *post.Tags)
}

func TestParseUpdate_EmptyBody(t *testing.T) {
	for _, body := range []string{"", "{}", "null", `{"unknown":"ignored","id":3}`} {
		patch, err := ParseUpdate([]byte(body))
		require.NoError(t, err, body)
		assert.True(t, patch.IsEmpty(), body)
	}
}

func TestParseUpdate_CollectsAllTypeErrors(t *testing.T) {
	_, err := ParseUpdate([]byte(`{"title":1,"category":true,"body":"ok","tags":[1,2]}`))
	require.Error(t, err)

	assert.Equal(t, []errs.FieldError{
		{Field: "title", Message: "must be a string"},
		{Field: "category", Message: "must be a string"},
		{Field: "tags", Message: "must be a list of strings"},
	}, fieldErrors(t, err))
}

func TestParseCreate_NullTagElement(t *testing.T) {
	_, err := ParseCreate([]byte(`{"title":"t","category":"c","body":"b","tags":["a",null]}`))
	require.Error(t, err)
	assert.Equal(t, []errs.FieldError{
		{Field: "tags", Message: "must be a list of strings"},
	}, fieldErrors(t, err))
}

func TestParseUpdate_NullTagElement(t *testing.T) {
	_, err := ParseUpdate([]byte(`{"tags":[null,"b"]}`))
	require.Error(t, err)
	assert.Equal(t, []errs.FieldError{
		{Field: "tags", Message: "must be a list of strings"},
	}, fieldErrors(t, err))

	patch, err := ParseUpdate([]byte(`{"tags":null}`))
	require.NoError(t, err)
	post := models.BlogPost{Tags: strPtr(`["a"]`)}
	assert.Equal(t, []string{"tags"}, patch.Apply(&post))
	assert.Nil(t, post.Tags)
}

func strPtr(s string) *string { return &s }
