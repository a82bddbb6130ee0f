// Package apperrors holds the error kinds shared by services and handlers.
package apperrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error kinds. Services wrap these, handlers match them with errors.Is.
var (
	// Validation
	ErrValidation       = errors.New("validation failed")
	ErrMissingField     = errors.New("missing field")
	ErrInvalidReference = errors.New("invalid reference")
	ErrDuplicateRating  = errors.New("duplicate rating")

	// Authentication
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotVerified = errors.New("account not verified")
	ErrInvalidCredential  = errors.New("invalid session credential")

	// Tokens
	ErrTokenExpired    = errors.New("token expired")
	ErrTokenMalformed  = errors.New("token malformed")
	ErrPurposeMismatch = errors.New("token purpose mismatch")

	// Resources
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
	ErrConflict  = errors.New("conflict")

	ErrNotificationFailure = errors.New("notification failure")
)

// ValidationError carries field -> message pairs for user-correctable input.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// FieldValidation is a shortcut for a single offending field.
func FieldValidation(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// FieldError is a domain-rule violation tied to one request field.
type FieldError struct {
	Kind    error
	Field   string
	Message string
}

func NewFieldError(kind error, field, message string) *FieldError {
	return &FieldError{Kind: kind, Field: field, Message: message}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Kind.Error(), e.Field, e.Message)
}

func (e *FieldError) Unwrap() error { return e.Kind }

// NotFound wraps ErrNotFound with the resource name.
func NotFound(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

// Forbidden wraps ErrForbidden with the denied action.
func Forbidden(action string) error {
	return fmt.Errorf("%w: %s", ErrForbidden, action)
}

// Fields returns the field map for validation-type errors, nil otherwise.
func Fields(err error) map[string]string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return map[string]string{fe.Field: fe.Message}
	}
	return nil
}
