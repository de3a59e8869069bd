package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/phrazzld/studyplan-api/internal/domain"
	"github.com/phrazzld/studyplan-api/internal/platform/logger"
	"github.com/phrazzld/studyplan-api/internal/store"
)

const learningItemsTable = "learning_items"

var learningItemColumns = []string{
	"id", "user_id", "title", "content_type", "category", "tags", "difficulty",
	"total_duration", "completed_duration", "progress_percentage",
	"target_completion_date", "status", "priority_score", "created_at", "updated_at",
}

// PostgresLearningItemStore implements store.LearningItemStore on PostgreSQL.
// Tags are kept in a JSONB column.
type PostgresLearningItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLearningItemStore creates a learning item store. If logger is
// nil, slog.Default is used.
func NewPostgresLearningItemStore(db store.DBTX, logger *slog.Logger) *PostgresLearningItemStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresLearningItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "learning_item_store")),
	}
}

var _ store.LearningItemStore = (*PostgresLearningItemStore)(nil)

// WithTx implements store.LearningItemStore.WithTx.
func (s *PostgresLearningItemStore) WithTx(tx *sql.Tx) store.LearningItemStore {
	return &PostgresLearningItemStore{db: tx, logger: s.logger}
}

// Create implements store.LearningItemStore.Create.
func (s *PostgresLearningItemStore) Create(ctx context.Context, item *domain.LearningItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		return store.NewStoreError("learning_item", "create", "validation failed", err)
	}

	tags, err := encodeStrings(item.Tags)
	if err != nil {
		return store.NewStoreError("learning_item", "create", "failed to encode tags", err)
	}

	insert := psql.Insert(learningItemsTable).
		Columns(learningItemColumns...).
		Values(
			item.ID, item.UserID, item.Title, item.ContentType, item.Category,
			sq.Expr("?::jsonb", tags), item.Difficulty,
			item.TotalDuration, item.CompletedDuration, item.ProgressPercentage,
			timePtrValue(item.TargetCompletionDate), string(item.Status), item.PriorityScore,
			item.CreatedAt.UTC(), item.UpdatedAt.UTC(),
		)

	if _, err := execBuilder(ctx, s.db, insert); err != nil {
		log.Error("failed to insert learning item",
			slog.String("item_id", item.ID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("learning_item", "create", "failed to insert learning item", MapError(err))
	}

	log.Debug("learning item created", slog.String("item_id", item.ID.String()))
	return nil
}

// GetByID implements store.LearningItemStore.GetByID.
func (s *PostgresLearningItemStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.LearningItem, error) {
	query := psql.Select(learningItemColumns...).
		From(learningItemsTable).
		Where(sq.Eq{"id": id})

	row, err := queryRowBuilder(ctx, s.db, query)
	if err != nil {
		return nil, store.NewStoreError("learning_item", "get", "failed to build query", err)
	}

	item, err := scanLearningItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrLearningItemNotFound
		}
		return nil, store.NewStoreError("learning_item", "get", "failed to load learning item", MapError(err))
	}
	return item, nil
}

// Update implements store.LearningItemStore.Update.
func (s *PostgresLearningItemStore) Update(ctx context.Context, item *domain.LearningItem) error {
	if err := item.Validate(); err != nil {
		return store.NewStoreError("learning_item", "update", "validation failed", err)
	}

	tags, err := encodeStrings(item.Tags)
	if err != nil {
		return store.NewStoreError("learning_item", "update", "failed to encode tags", err)
	}

	update := psql.Update(learningItemsTable).
		Set("title", item.Title).
		Set("content_type", item.ContentType).
		Set("category", item.Category).
		Set("tags", sq.Expr("?::jsonb", tags)).
		Set("difficulty", item.Difficulty).
		Set("total_duration", item.TotalDuration).
		Set("completed_duration", item.CompletedDuration).
		Set("progress_percentage", item.ProgressPercentage).
		Set("target_completion_date", timePtrValue(item.TargetCompletionDate)).
		Set("status", string(item.Status)).
		Set("updated_at", item.UpdatedAt.UTC()).
		Where(sq.Eq{"id": item.ID})

	result, err := execBuilder(ctx, s.db, update)
	if err != nil {
		return store.NewStoreError("learning_item", "update", "failed to update learning item", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrLearningItemNotFound)
}

// UpdatePriorityScore implements store.LearningItemStore.UpdatePriorityScore.
// updated_at is left alone; the score is a derived cache.
func (s *PostgresLearningItemStore) UpdatePriorityScore(ctx context.Context, id uuid.UUID, score float64) error {
	update := psql.Update(learningItemsTable).
		Set("priority_score", score).
		Where(sq.Eq{"id": id})

	result, err := execBuilder(ctx, s.db, update)
	if err != nil {
		return store.NewStoreError("learning_item", "update_score", "failed to update priority score", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrLearningItemNotFound)
}

// FindActive implements store.LearningItemStore.FindActive.
func (s *PostgresLearningItemStore) FindActive(ctx context.Context, userID uuid.UUID) ([]*domain.LearningItem, error) {
	query := psql.Select(learningItemColumns...).
		From(learningItemsTable).
		Where(sq.Eq{"user_id": userID, "status": string(domain.LearningItemStatusActive)}).
		OrderBy("created_at ASC", "id ASC")

	rows, err := queryBuilder(ctx, s.db, query)
	if err != nil {
		return nil, store.NewStoreError("learning_item", "find_active", "failed to query items", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	items := make([]*domain.LearningItem, 0)
	for rows.Next() {
		item, err := scanLearningItem(rows)
		if err != nil {
			return nil, store.NewStoreError("learning_item", "find_active", "failed to scan item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("learning_item", "find_active", "failed to iterate items", MapError(err))
	}
	return items, nil
}

// CountActive implements store.LearningItemStore.CountActive.
func (s *PostgresLearningItemStore) CountActive(ctx context.Context, userID uuid.UUID) (int, error) {
	query := psql.Select("COUNT(*)").
		From(learningItemsTable).
		Where(sq.Eq{"user_id": userID, "status": string(domain.LearningItemStatusActive)})

	row, err := queryRowBuilder(ctx, s.db, query)
	if err != nil {
		return 0, store.NewStoreError("learning_item", "count_active", "failed to build query", err)
	}

	var count int
	if err := row.Scan(&count); err != nil {
		return 0, store.NewStoreError("learning_item", "count_active", "failed to count items", MapError(err))
	}
	return count, nil
}

// ListUsersWithActiveItems implements store.LearningItemStore.ListUsersWithActiveItems.
func (s *PostgresLearningItemStore) ListUsersWithActiveItems(ctx context.Context) ([]uuid.UUID, error) {
	query := psql.Select("DISTINCT user_id").
		From(learningItemsTable).
		Where(sq.Eq{"status": string(domain.LearningItemStatusActive)}).
		OrderBy("user_id")

	rows, err := queryBuilder(ctx, s.db, query)
	if err != nil {
		return nil, store.NewStoreError("learning_item", "list_users", "failed to query users", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var users []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, store.NewStoreError("learning_item", "list_users", "failed to scan user id", err)
		}
		users = append(users, id)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("learning_item", "list_users", "failed to iterate users", MapError(err))
	}
	return users, nil
}

func scanLearningItem(row rowScanner) (*domain.LearningItem, error) {
	var (
		item   domain.LearningItem
		tags   []byte
		target sql.NullTime
		status string
	)

	err := row.Scan(
		&item.ID, &item.UserID, &item.Title, &item.ContentType, &item.Category, &tags, &item.Difficulty,
		&item.TotalDuration, &item.CompletedDuration, &item.ProgressPercentage,
		&target, &status, &item.PriorityScore, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Tags, err = decodeStrings(tags)
	if err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	item.TargetCompletionDate = nullTimePtr(target)
	item.Status = domain.LearningItemStatus(status)
	item.CreatedAt = item.CreatedAt.UTC()
	item.UpdatedAt = item.UpdatedAt.UTC()
	return &item, nil
}
