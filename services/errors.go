package services

import "errors"

// Domain-level sentinel errors. Handlers match these with errors.Is and map
// them to HTTP status codes.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrSelfFollow   = errors.New("cannot follow yourself")
)

// IsValidationError checks if an error is an input validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrSelfFollow)
}
