package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodes(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, NotFound("patient", nil).StatusCode())
	assert.Equal(t, http.StatusForbidden, Forbidden("nope").StatusCode())
	assert.Equal(t, http.StatusBadRequest, Validation("bad", nil).StatusCode())
	assert.Equal(t, http.StatusInternalServerError, StoreUnavailable("get", nil).StatusCode())
	assert.Equal(t, http.StatusInternalServerError, Internal(nil).StatusCode())
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("submit failed: %w", NotFound("patient", nil))
	assert.True(t, IsNotFound(err))
	assert.False(t, IsForbidden(err))
	assert.False(t, IsValidation(err))

	assert.False(t, IsNotFound(errors.New("plain")))
	assert.False(t, IsNotFound(nil))
}

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := StoreUnavailable("patient lookup", cause)
	assert.Contains(t, err.Error(), "patient lookup")
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)
}
