package service

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the service implementations. The API layer maps
// them to HTTP status codes.
var (
	// ErrNotOwned indicates a resource is owned by a different user than the
	// one making the request.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrCardNotFound indicates that the requested flashcard does not exist.
	ErrCardNotFound = errors.New("card not found")

	// ErrItemNotFound indicates that a referenced learning item does not exist.
	ErrItemNotFound = errors.New("learning item not found")
)

// CardServiceError is a custom error type for card service errors.
type CardServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for CardServiceError.
func (e *CardServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("card service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("card service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *CardServiceError) Unwrap() error {
	return e.Err
}

// NewCardServiceError creates a new CardServiceError.
func NewCardServiceError(operation, message string, err error) *CardServiceError {
	return &CardServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
