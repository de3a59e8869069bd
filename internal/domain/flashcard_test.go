package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFlashcard(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	itemID := uuid.New()

	card, err := NewFlashcard(userID, &itemID, "  What is a goroutine?  ", "A lightweight thread", fixedNow)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, card.ID)
	assert.Equal(t, "What is a goroutine?", card.Front)
	assert.Equal(t, DefaultEasinessFactor, card.EasinessFactor)
	assert.Zero(t, card.Repetitions)
	assert.Zero(t, card.Interval)
	assert.Nil(t, card.LastReviewedAt)
	assert.Equal(t, fixedNow, card.NextReviewDate)
	assert.True(t, card.IsDue(fixedNow))
	assert.True(t, card.IsOwnedBy(userID))
	assert.False(t, card.IsOwnedBy(uuid.New()))
}

func TestNewFlashcardValidation(t *testing.T) {
	t.Parallel()

	_, err := NewFlashcard(uuid.Nil, nil, "front", "back", fixedNow)
	assert.ErrorIs(t, err, ErrFlashcardUserIDEmpty)

	_, err = NewFlashcard(uuid.New(), nil, "  ", "back", fixedNow)
	assert.ErrorIs(t, err, ErrFlashcardFrontEmpty)

	_, err = NewFlashcard(uuid.New(), nil, "front", "", fixedNow)
	assert.ErrorIs(t, err, ErrFlashcardBackEmpty)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFlashcardIsDue(t *testing.T) {
	t.Parallel()

	card := &Flashcard{NextReviewDate: fixedNow}
	assert.True(t, card.IsDue(fixedNow))
	assert.True(t, card.IsDue(fixedNow.Add(time.Second)))
	assert.False(t, card.IsDue(fixedNow.Add(-time.Second)))
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	err := NewValidationError("quality", "must be between 0 and 5", nil)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "validation failed: quality must be between 0 and 5", err.Error())

	err = NewValidationError("id", "has invalid format", ErrInvalidID)
	assert.ErrorIs(t, err, ErrInvalidID)
}
