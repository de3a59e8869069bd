package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/phrazzld/studyplan-api/internal/domain"
	"github.com/phrazzld/studyplan-api/internal/store"
)

const commitmentsTable = "commitments"

var commitmentColumns = []string{
	"id", "user_id", "learning_item_id", "daily_study_minutes",
	"study_days_per_week", "target_completion_date", "status", "created_at",
}

// PostgresCommitmentStore implements store.CommitmentStore on PostgreSQL.
type PostgresCommitmentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCommitmentStore creates a commitment store.
func NewPostgresCommitmentStore(db store.DBTX, logger *slog.Logger) *PostgresCommitmentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCommitmentStore{
		db:     db,
		logger: logger.With(slog.String("component", "commitment_store")),
	}
}

var _ store.CommitmentStore = (*PostgresCommitmentStore)(nil)

// WithTx implements store.CommitmentStore.WithTx.
func (s *PostgresCommitmentStore) WithTx(tx *sql.Tx) store.CommitmentStore {
	return &PostgresCommitmentStore{db: tx, logger: s.logger}
}

// Create implements store.CommitmentStore.Create.
func (s *PostgresCommitmentStore) Create(ctx context.Context, c *domain.Commitment) error {
	insert := psql.Insert(commitmentsTable).
		Columns(commitmentColumns...).
		Values(
			c.ID, c.UserID, c.LearningItemID, c.DailyStudyMinutes,
			c.StudyDaysPerWeek, c.TargetCompletionDate.UTC(), c.Status, c.CreatedAt.UTC(),
		)

	if _, err := execBuilder(ctx, s.db, insert); err != nil {
		s.logger.ErrorContext(ctx, "failed to insert commitment",
			slog.String("item_id", c.LearningItemID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("commitment", "create", "failed to insert commitment", MapError(err))
	}
	return nil
}

// ListByItem implements store.CommitmentStore.ListByItem.
func (s *PostgresCommitmentStore) ListByItem(ctx context.Context, itemID uuid.UUID) ([]*domain.Commitment, error) {
	query := psql.Select(commitmentColumns...).
		From(commitmentsTable).
		Where(sq.Eq{"learning_item_id": itemID}).
		OrderBy("created_at DESC", "id ASC")

	rows, err := queryBuilder(ctx, s.db, query)
	if err != nil {
		return nil, store.NewStoreError("commitment", "list", "failed to query commitments", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	commitments := make([]*domain.Commitment, 0)
	for rows.Next() {
		var c domain.Commitment
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.LearningItemID, &c.DailyStudyMinutes,
			&c.StudyDaysPerWeek, &c.TargetCompletionDate, &c.Status, &c.CreatedAt,
		); err != nil {
			return nil, store.NewStoreError("commitment", "list", "failed to scan commitment", err)
		}
		c.TargetCompletionDate = c.TargetCompletionDate.UTC()
		c.CreatedAt = c.CreatedAt.UTC()
		commitments = append(commitments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("commitment", "list", "failed to iterate commitments", MapError(err))
	}
	return commitments, nil
}
