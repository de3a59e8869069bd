package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/studyplan-api/internal/domain"
)

// LearningItemStore defines the interface for learning item persistence.
type LearningItemStore interface {
	// Create saves a new item.
	Create(ctx context.Context, item *domain.LearningItem) error

	// GetByID retrieves an item. Returns ErrLearningItemNotFound if missing.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LearningItem, error)

	// Update overwrites the mutable fields of an item (progress, status,
	// target date, metadata). Returns ErrLearningItemNotFound if missing.
	Update(ctx context.Context, item *domain.LearningItem) error

	// UpdatePriorityScore stores a freshly computed score in the item's cache
	// column. Returns ErrLearningItemNotFound if missing.
	UpdatePriorityScore(ctx context.Context, id uuid.UUID, score float64) error

	// FindActive returns the user's active items ordered by creation time and ID.
	FindActive(ctx context.Context, userID uuid.UUID) ([]*domain.LearningItem, error)

	// CountActive returns how many active items the user has.
	CountActive(ctx context.Context, userID uuid.UUID) (int, error)

	// ListUsersWithActiveItems returns the distinct owners of active items.
	ListUsersWithActiveItems(ctx context.Context) ([]uuid.UUID, error)

	// WithTx returns a LearningItemStore bound to the given transaction.
	WithTx(tx *sql.Tx) LearningItemStore
}
