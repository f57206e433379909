package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrProtectedUser     = errors.New("admin accounts cannot be deleted")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrGateway           = errors.New("payment gateway error")
)

// ValidationError is a business-rule failure whose Message is safe to show
// to the customer as-is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
