package card_review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studyplan-api/internal/domain"
)

// CardRepository is the subset of store.FlashcardStore the review flow needs.
type CardRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error)
	UpdateSchedule(ctx context.Context, card *domain.Flashcard) error
	FindDue(ctx context.Context, userID uuid.UUID, asOf time.Time) ([]*domain.Flashcard, error)
}

// ReviewResult is the outcome of a processed review.
type ReviewResult struct {
	Card           *domain.Flashcard `json:"card"`
	IntervalDays   int               `json:"interval_days"`
	NextReviewDate time.Time         `json:"next_review_date"`
}

// CardReviewService schedules flashcard reviews with SM-2.
type CardReviewService interface {
	// ProcessReview records a review of quality 0-5 for one of the user's cards
	// and persists the new schedule.
	//
	// Returns:
	//   - srs.ErrInvalidQuality for a quality outside 0..5, before any store access
	//   - ErrCardNotFound when the card does not exist
	//   - ErrCardNotOwned when the card belongs to another user
	ProcessReview(ctx context.Context, userID, cardID uuid.UUID, quality int) (*ReviewResult, error)

	// GetDueCards returns the user's cards due now, earliest first. It does
	// not modify anything.
	GetDueCards(ctx context.Context, userID uuid.UUID) ([]*domain.Flashcard, error)
}

var (
	// ErrCardNotFound indicates that the card does not exist.
	ErrCardNotFound = errors.New("card not found")

	// ErrCardNotOwned indicates that the user does not own the card.
	ErrCardNotOwned = errors.New("unauthorized access: card not owned by user")
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
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewProcessReviewError returns a ServiceError for the process_review operation.
func NewProcessReviewError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "process_review", Message: message, Err: err}
}

// NewGetDueCardsError returns a ServiceError for the get_due_cards operation.
func NewGetDueCardsError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "get_due_cards", Message: message, Err: err}
}
