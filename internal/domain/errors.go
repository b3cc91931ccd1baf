package domain

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by services wraps exactly one of these,
// which is what the HTTP layer maps to a status code.
var (
	// ErrValidation indicates malformed input or a precondition the caller can fix.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates the request clashes with the current state of a resource.
	ErrConflict = errors.New("conflict")
	// ErrTransient indicates the store timed out or stayed contended after retries.
	ErrTransient = errors.New("temporarily unavailable")
)

var (
	ErrEmptyCart          = fmt.Errorf("%w: cart is empty or not found", ErrValidation)
	ErrInvalidStatus      = fmt.Errorf("%w: unknown order status", ErrValidation)
	ErrInvalidQuantity    = fmt.Errorf("%w: quantity must be positive", ErrValidation)
	ErrInvalidWindow      = fmt.Errorf("%w: onDate must not be after offDate", ErrValidation)
	ErrNoWindowConfigured = fmt.Errorf("%w: no ordering window configured", ErrValidation)

	ErrCartNotFound     = fmt.Errorf("cart %w", ErrNotFound)
	ErrCartLineNotFound = fmt.Errorf("cart line %w", ErrNotFound)
	ErrProductNotFound  = fmt.Errorf("product %w", ErrNotFound)
	ErrOrderNotFound    = fmt.Errorf("order %w", ErrNotFound)
	ErrInvoiceNotFound  = fmt.Errorf("invoice %w", ErrNotFound)
	ErrWindowNotFound   = fmt.Errorf("ordering window %w", ErrNotFound)

	ErrInvalidTransition = fmt.Errorf("%w: status transition not allowed", ErrConflict)
)

// Validationf builds an ad-hoc validation error.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
