package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError(map[string]string{
		"password2": "Passwords do not match",
		"phone":     "Invalid phone number",
	})

	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "validation failed: password2: Passwords do not match; phone: Invalid phone number", err.Error())

	wrapped := fmt.Errorf("register: %w", err)
	assert.Equal(t, err.Fields, Fields(wrapped))
}

func TestFieldError(t *testing.T) {
	err := NewFieldError(ErrInvalidReference, "parent_id", "parent comment does not exist")

	assert.True(t, errors.Is(err, ErrInvalidReference))
	assert.False(t, errors.Is(err, ErrMissingField))
	assert.Equal(t, map[string]string{"parent_id": "parent comment does not exist"}, Fields(err))
}

func TestNotFoundAndForbidden(t *testing.T) {
	assert.True(t, errors.Is(NotFound("campaign"), ErrNotFound))
	assert.Equal(t, "campaign not found", NotFound("campaign").Error())
	assert.True(t, errors.Is(Forbidden("update campaign"), ErrForbidden))
	assert.Nil(t, Fields(ErrNotFound))
}
