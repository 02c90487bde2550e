package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidationError_CollectsAllFields(t *testing.T) {
	err := NewValidationError([]FieldError{
		{Field: "title", Message: "This blog has no title"},
		{Field: "tags", Message: "This blog has no tags"},
	})

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.True(t, IsValidationError(err))
	assert.Len(t, err.Errors, 2)
	assert.Empty(t, err.Field)
	assert.Contains(t, err.Error(), "title, tags")
}

func TestNewValidationError_SingleFieldSetsField(t *testing.T) {
	err := NewValidationError([]FieldError{{Field: "title", Message: "This blog has no title"}})
	assert.Equal(t, "title", err.Field)
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("blog post")
	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "blog post not found", err.Error())

	wrapped := fmt.Errorf("delete: %w", err)
	var apiErr *ApiErr
	require.True(t, errors.As(wrapped, &apiErr))
	assert.True(t, IsNotFound(wrapped))
}

func TestNewDatabaseError_Classification(t *testing.T) {
	cases := []struct {
		cause  error
		status int
		is     error
	}{
		{errors.New("UNIQUE constraint failed: blog_posts.id"), http.StatusConflict, ErrConflict},
		{errors.New("record not found"), http.StatusNotFound, ErrNotFound},
		{errors.New("failed to connect: connection refused"), http.StatusServiceUnavailable, ErrDatabaseConnection},
		{errors.New("syntax error"), http.StatusInternalServerError, ErrDatabaseQuery},
	}

	for _, tc := range cases {
		err := NewDatabaseError("find", "blog post", tc.cause)
		assert.Equal(t, tc.status, err.StatusCode, tc.cause.Error())
		assert.ErrorIs(t, err, tc.is)
		assert.Equal(t, tc.cause, err.Cause)
	}
}

func TestGetFullError_FollowsCauses(t *testing.T) {
	inner := NewInternalErrorWithCause("encode", errors.New("boom"))
	outer := NewTransactionFailedError("upsert blog post", inner)

	assert.Equal(t,
		"transaction failed: Transaction failed during upsert blog post -> encode: internal server error -> boom",
		outer.GetFullError())
}

func TestCheckers_MatchConstructors(t *testing.T) {
	cause := errors.New("boom")

	assert.True(t, IsBadRequest(NewBadRequestError("failed to read request body")))
	assert.True(t, IsInternal(NewInternalErrorWithCause("decode blog post tags", cause)))
	assert.True(t, IsConflict(NewDatabaseError("create", "blog post", errors.New("duplicate key value"))))
	assert.True(t, IsInvalidFieldError(NewInvalidFieldError("id", "must be a positive integer")))
	assert.True(t, IsInvalidJSONError(NewInvalidJSONError(cause)))
	assert.True(t, IsMaxBodySizeExceededError(NewMaxBodySizeExceededError(1<<20)))
	assert.True(t, IsDatabaseConnectionError(NewDatabaseError("find", "blog post", errors.New("database is locked"))))
	assert.True(t, IsTransactionFailedError(NewTransactionFailedError("upsert blog post", cause)))

	assert.False(t, IsConflict(NewBadRequestError("x")))
	assert.False(t, IsNotFound(NewInternalError("x")))
}
