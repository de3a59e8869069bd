package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/studyplan-api/internal/domain"
)

// UserProfileStore persists the learner profile used for ranking.
type UserProfileStore interface {
	// Get returns the user's profile or ErrProfileNotFound.
	Get(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error)

	// Upsert creates or replaces the user's profile.
	Upsert(ctx context.Context, profile *domain.UserProfile) error
}
