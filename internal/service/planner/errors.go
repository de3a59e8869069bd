package planner

import (
	"errors"
	"fmt"
)

var (
	// ErrItemNotFound indicates that the learning item does not exist.
	ErrItemNotFound = errors.New("learning item not found")

	// ErrItemNotOwned indicates that the learning item belongs to another user.
	ErrItemNotOwned = errors.New("unauthorized access: learning item not owned by user")

	// ErrActiveItemLimit is returned when a user already has the maximum
	// number of active learning items.
	ErrActiveItemLimit = errors.New("active learning item limit reached")

	// ErrCommitmentInfeasible is returned when a commitment is requested for a
	// plan that fails the feasibility check. The verdict is returned with it.
	ErrCommitmentInfeasible = errors.New("study plan is not feasible")
)

// ServiceError wraps unexpected failures with the operation that hit them.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("planner %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("planner %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

func newServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{Operation: operation, Message: message, Err: err}
}
