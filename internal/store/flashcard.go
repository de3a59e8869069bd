package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studyplan-api/internal/domain"
)

// FlashcardStore defines the interface for flashcard persistence.
type FlashcardStore interface {
	// Create saves a single new card.
	Create(ctx context.Context, card *domain.Flashcard) error

	// CreateMultiple saves cards one by one in order. It is not atomic: on the
	// first failure it returns the number of cards already saved together with
	// the error, and those cards stay saved.
	CreateMultiple(ctx context.Context, cards []*domain.Flashcard) (int, error)

	// GetByID retrieves a card by its unique ID.
	// Returns ErrFlashcardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error)

	// UpdateSchedule persists the SM-2 state of a card (repetitions, interval,
	// easiness factor, review timestamps). Returns ErrFlashcardNotFound if the
	// card does not exist.
	UpdateSchedule(ctx context.Context, card *domain.Flashcard) error

	// Delete removes a card. Returns ErrFlashcardNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindDue returns the user's cards whose next review date is at or before
	// asOf, ordered by next review date ascending and then by ID.
	FindDue(ctx context.Context, userID uuid.UUID, asOf time.Time) ([]*domain.Flashcard, error)
}
