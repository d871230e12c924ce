package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrMissingParameter = errors.New("missing required parameter")
)

// ValidationError returns an error wrapping ErrValidation with a detail message.
func ValidationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
