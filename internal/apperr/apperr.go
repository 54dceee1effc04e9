// Package apperr holds the error taxonomy shared by repositories, services and
// HTTP handlers. Callers wrap these sentinels with fmt.Errorf and %w; handlers
// recover the category with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("invalid request")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrExternal   = errors.New("external api error")
	ErrIO         = errors.New("io error")
	ErrInternal   = errors.New("internal server error")

	// ErrInvalidImage is an ErrIO raised when a payload is not a decodable image.
	ErrInvalidImage = fmt.Errorf("invalid image: %w", ErrIO)
)

// Validation wraps a message as an ErrValidation.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
