package common

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to the presentation layer. The shell matches these with
// errors.Is and shows one message per kind; everything else is reported as a
// storage failure.
var (
	ErrValidation        = errors.New("validation failed")
	ErrAccountNotFound   = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrStorage           = errors.New("storage failure")
)

// Validationf returns an ErrValidation-kinded error with a formatted reason.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Storage wraps a driver or I/O error so callers can match on ErrStorage while
// the underlying cause stays in the chain for logging.
func Storage(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}
