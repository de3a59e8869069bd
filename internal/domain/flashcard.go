package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultEasinessFactor is the easiness factor assigned to newly created cards.
const DefaultEasinessFactor = 2.5

// Flashcard-specific validation errors
var (
	// ErrFlashcardUserIDEmpty is returned when a card has no owner.
	ErrFlashcardUserIDEmpty = fmt.Errorf("%w: flashcard user ID cannot be empty", ErrValidation)

	// ErrFlashcardFrontEmpty is returned when a card's prompt side is blank.
	ErrFlashcardFrontEmpty = fmt.Errorf("%w: flashcard front cannot be empty", ErrValidation)

	// ErrFlashcardBackEmpty is returned when a card's answer side is blank.
	ErrFlashcardBackEmpty = fmt.Errorf("%w: flashcard back cannot be empty", ErrValidation)

	// ErrFlashcardIDEmpty is returned when a card has a nil ID.
	ErrFlashcardIDEmpty = fmt.Errorf("%w: flashcard ID cannot be empty", ErrValidation)
)

// Flashcard is a question/answer pair owned by a user, carrying its own SM-2
// scheduling state. A card may optionally belong to a learning item.
type Flashcard struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	LearningItemID *uuid.UUID `json:"learning_item_id,omitempty"`
	Front          string     `json:"front"`
	Back           string     `json:"back"`

	// SM-2 scheduling state
	Repetitions    int        `json:"repetitions"`
	Interval       int        `json:"interval"`
	EasinessFactor float64    `json:"easiness_factor"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	NextReviewDate time.Time  `json:"next_review_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewFlashcard creates a card that is due immediately, with fresh SM-2 state.
// Front and back are trimmed before validation.
func NewFlashcard(userID uuid.UUID, itemID *uuid.UUID, front, back string, now time.Time) (*Flashcard, error) {
	card := &Flashcard{
		ID:             uuid.New(),
		UserID:         userID,
		LearningItemID: itemID,
		Front:          strings.TrimSpace(front),
		Back:           strings.TrimSpace(back),
		Repetitions:    0,
		Interval:       0,
		EasinessFactor: DefaultEasinessFactor,
		NextReviewDate: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks that the card has an owner and two non-empty sides.
func (c *Flashcard) Validate() error {
	if c.ID == uuid.Nil {
		return ErrFlashcardIDEmpty
	}
	if c.UserID == uuid.Nil {
		return ErrFlashcardUserIDEmpty
	}
	if strings.TrimSpace(c.Front) == "" {
		return ErrFlashcardFrontEmpty
	}
	if strings.TrimSpace(c.Back) == "" {
		return ErrFlashcardBackEmpty
	}
	return nil
}

// IsOwnedBy reports whether the card belongs to userID.
func (c *Flashcard) IsOwnedBy(userID uuid.UUID) bool {
	return c.UserID == userID
}

// IsDue reports whether the card should be shown at or before now.
func (c *Flashcard) IsDue(now time.Time) bool {
	return !c.NextReviewDate.After(now)
}
