package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/studyplan-api/internal/domain"
)

// CommitmentStore persists accepted study commitments.
type CommitmentStore interface {
	// Create saves a new commitment.
	Create(ctx context.Context, c *domain.Commitment) error

	// ListByItem returns the commitments for an item, newest first.
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]*domain.Commitment, error)

	// WithTx returns a CommitmentStore bound to the given transaction.
	WithTx(tx *sql.Tx) CommitmentStore
}
