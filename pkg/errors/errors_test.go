package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypePredicates(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFoundError("user")))
	assert.True(t, IsValidation(NewValidationError("bad input")))
	assert.True(t, IsUnauthenticated(NewUnauthenticatedError("no token")))

	assert.False(t, IsNotFound(NewValidationError("bad input")))
	assert.False(t, IsNotFound(fmt.Errorf("plain error")))
	assert.False(t, IsNotFound(nil))
}

func TestPredicatesSeeWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("loading profile: %w", NewNotFoundError("user"))
	assert.True(t, IsNotFound(wrapped))
}

func TestHTTPStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatusOf(NewValidationError("x")))
	assert.Equal(t, http.StatusNotFound, HTTPStatusOf(NewNotFoundError("x")))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatusOf(NewUnauthenticatedError("x")))
	assert.Equal(t, http.StatusConflict, HTTPStatusOf(NewConflictError("x")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusOf(NewDatabaseError("op", assert.AnError)))
	assert.Equal(t, http.StatusBadGateway, HTTPStatusOf(NewExternalError("svc", assert.AnError)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusOf(fmt.Errorf("plain")))
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := NewDatabaseError("get user", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "get user")
	assert.Contains(t, err.Error(), "connection reset")
}
