package utils

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapErrorPassesThroughApiError(t *testing.T) {
	orig := Conflict("Username or email already exists")
	wrapped := WrapError(orig)
	assert.Same(t, orig, wrapped)
	assert.Equal(t, http.StatusConflict, wrapped.StatusCode)
}

func TestWrapErrorWrapsPlainError(t *testing.T) {
	wrapped := WrapError(errors.New("connection reset"))
	assert.Equal(t, http.StatusInternalServerError, wrapped.StatusCode)
	assert.Equal(t, "connection reset", wrapped.Message)
	assert.NotEmpty(t, wrapped.Stack)
}

func TestErrorConstructors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, BadRequest("x").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, Unauthorized("x").StatusCode)
	assert.Equal(t, http.StatusNotFound, NotFound("x").StatusCode)
	assert.Equal(t, http.StatusConflict, Conflict("x").StatusCode)
	assert.Equal(t, http.StatusInternalServerError, InternalError("x").StatusCode)
	assert.Equal(t, "x", BadRequest("x").Error())
}
