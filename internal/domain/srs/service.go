package srs

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/phrazzld/studyplan-api/internal/domain"
)

// Common errors
var (
	ErrNilCard = errors.New("flashcard cannot be nil")

	// ErrInvalidQuality is returned for a review quality outside 0..5.
	ErrInvalidQuality = fmt.Errorf("%w: quality must be between %d and %d",
		domain.ErrValidation, MinQuality, MaxQuality)
)

// Service defines the interface for SM-2 scheduling operations
type Service interface {
	// ProcessReview returns a copy of card with its schedule advanced by a
	// review of the given quality (0-5) performed at now.
	ProcessReview(card *domain.Flashcard, quality int, now time.Time) (*domain.Flashcard, error)

	// DueCards filters cards to those due at now, ordered by NextReviewDate
	// ascending with ties broken by ID.
	DueCards(cards []*domain.Flashcard, now time.Time) []*domain.Flashcard
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new SRS service with custom parameters
func NewServiceWithParams(params *Params) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{
		params: params,
	}
}

// ValidateQuality reports ErrInvalidQuality for values outside 0..5.
func ValidateQuality(quality int) error {
	if quality < MinQuality || quality > MaxQuality {
		return ErrInvalidQuality
	}
	return nil
}

// ProcessReview implements the Service interface
func (s *defaultService) ProcessReview(
	card *domain.Flashcard,
	quality int,
	now time.Time,
) (*domain.Flashcard, error) {
	if card == nil {
		return nil, ErrNilCard
	}
	if err := ValidateQuality(quality); err != nil {
		return nil, err
	}

	return calculateNextCard(card, quality, now, s.params), nil
}

// DueCards implements the Service interface
func (s *defaultService) DueCards(cards []*domain.Flashcard, now time.Time) []*domain.Flashcard {
	due := make([]*domain.Flashcard, 0, len(cards))
	for _, c := range cards {
		if c != nil && c.IsDue(now) {
			due = append(due, c)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		if !due[i].NextReviewDate.Equal(due[j].NextReviewDate) {
			return due[i].NextReviewDate.Before(due[j].NextReviewDate)
		}
		return due[i].ID.String() < due[j].ID.String()
	})

	return due
}
