package domain

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrProviderUnavailable is returned when a lookup provider cannot be reached
	ErrProviderUnavailable = errors.New("lookup provider unavailable")

	// ErrUnexpectedFormat is returned when a provider response cannot be decoded
	ErrUnexpectedFormat = errors.New("unexpected provider response format")

	// ErrProductNotFound is returned when no product row matches
	ErrProductNotFound = errors.New("product not found")

	// ErrInventoryNotFound is returned when no inventory row matches
	ErrInventoryNotFound = errors.New("inventory entry not found")

	// ErrDuplicateProduct is returned when a product with the same UPC was inserted concurrently
	ErrDuplicateProduct = errors.New("product with this UPC already exists")
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects field-level input failures. It matches
// ErrInvalidRequest with errors.Is.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidRequest
}
