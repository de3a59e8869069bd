package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/phrazzld/studyplan-api/internal/domain"
	"github.com/phrazzld/studyplan-api/internal/platform/logger"
	"github.com/phrazzld/studyplan-api/internal/store"
)

const flashcardsTable = "flashcards"

var flashcardColumns = []string{
	"id", "user_id", "learning_item_id", "front", "back",
	"repetitions", "interval_days", "easiness_factor",
	"last_reviewed_at", "next_review_date", "created_at", "updated_at",
}

// PostgresFlashcardStore implements store.FlashcardStore on PostgreSQL.
type PostgresFlashcardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFlashcardStore creates a flashcard store over a connection or
// transaction managed by the caller. If logger is nil, slog.Default is used.
func NewPostgresFlashcardStore(db store.DBTX, logger *slog.Logger) *PostgresFlashcardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFlashcardStore{
		db:     db,
		logger: logger.With(slog.String("component", "flashcard_store")),
	}
}

var _ store.FlashcardStore = (*PostgresFlashcardStore)(nil)

// WithTx returns a store that runs its statements inside tx.
func (s *PostgresFlashcardStore) WithTx(tx *sql.Tx) *PostgresFlashcardStore {
	return &PostgresFlashcardStore{db: tx, logger: s.logger}
}

// Create implements store.FlashcardStore.Create.
func (s *PostgresFlashcardStore) Create(ctx context.Context, card *domain.Flashcard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("flashcard validation failed before insert",
			slog.String("card_id", card.ID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("flashcard", "create", "validation failed", err)
	}

	insert := psql.Insert(flashcardsTable).
		Columns(flashcardColumns...).
		Values(
			card.ID, card.UserID, uuidPtrValue(card.LearningItemID), card.Front, card.Back,
			card.Repetitions, card.Interval, card.EasinessFactor,
			timePtrValue(card.LastReviewedAt), card.NextReviewDate.UTC(),
			card.CreatedAt.UTC(), card.UpdatedAt.UTC(),
		)

	if _, err := execBuilder(ctx, s.db, insert); err != nil {
		log.Error("failed to insert flashcard",
			slog.String("card_id", card.ID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("flashcard", "create", "failed to insert flashcard", MapError(err))
	}

	log.Debug("flashcard created", slog.String("card_id", card.ID.String()))
	return nil
}

// CreateMultiple implements store.FlashcardStore.CreateMultiple.
func (s *PostgresFlashcardStore) CreateMultiple(ctx context.Context, cards []*domain.Flashcard) (int, error) {
	for i, card := range cards {
		if err := s.Create(ctx, card); err != nil {
			return i, err
		}
	}
	return len(cards), nil
}

// GetByID implements store.FlashcardStore.GetByID.
func (s *PostgresFlashcardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error) {
	query := psql.Select(flashcardColumns...).
		From(flashcardsTable).
		Where(sq.Eq{"id": id})

	row, err := queryRowBuilder(ctx, s.db, query)
	if err != nil {
		return nil, store.NewStoreError("flashcard", "get", "failed to build query", err)
	}

	card, err := scanFlashcard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrFlashcardNotFound
		}
		return nil, store.NewStoreError("flashcard", "get", "failed to load flashcard", MapError(err))
	}
	return card, nil
}

// UpdateSchedule implements store.FlashcardStore.UpdateSchedule.
func (s *PostgresFlashcardStore) UpdateSchedule(ctx context.Context, card *domain.Flashcard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	update := psql.Update(flashcardsTable).
		Set("repetitions", card.Repetitions).
		Set("interval_days", card.Interval).
		Set("easiness_factor", card.EasinessFactor).
		Set("last_reviewed_at", timePtrValue(card.LastReviewedAt)).
		Set("next_review_date", card.NextReviewDate.UTC()).
		Set("updated_at", card.UpdatedAt.UTC()).
		Where(sq.Eq{"id": card.ID})

	result, err := execBuilder(ctx, s.db, update)
	if err != nil {
		log.Error("failed to update flashcard schedule",
			slog.String("card_id", card.ID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("flashcard", "update", "failed to update schedule", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrFlashcardNotFound)
}

// Delete implements store.FlashcardStore.Delete.
func (s *PostgresFlashcardStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := execBuilder(ctx, s.db, psql.Delete(flashcardsTable).Where(sq.Eq{"id": id}))
	if err != nil {
		return store.NewStoreError("flashcard", "delete", "failed to delete flashcard", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrFlashcardNotFound)
}

// FindDue implements store.FlashcardStore.FindDue.
func (s *PostgresFlashcardStore) FindDue(
	ctx context.Context,
	userID uuid.UUID,
	asOf time.Time,
) ([]*domain.Flashcard, error) {
	query := psql.Select(flashcardColumns...).
		From(flashcardsTable).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.LtOrEq{"next_review_date": asOf.UTC()}).
		OrderBy("next_review_date ASC", "id ASC")

	rows, err := queryBuilder(ctx, s.db, query)
	if err != nil {
		return nil, store.NewStoreError("flashcard", "find_due", "failed to query due cards", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	cards := make([]*domain.Flashcard, 0)
	for rows.Next() {
		card, err := scanFlashcard(rows)
		if err != nil {
			return nil, store.NewStoreError("flashcard", "find_due", "failed to scan flashcard", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("flashcard", "find_due", "failed to iterate due cards", MapError(err))
	}
	return cards, nil
}

func scanFlashcard(row rowScanner) (*domain.Flashcard, error) {
	var (
		card         domain.Flashcard
		itemID       uuid.NullUUID
		lastReviewed sql.NullTime
	)

	err := row.Scan(
		&card.ID, &card.UserID, &itemID, &card.Front, &card.Back,
		&card.Repetitions, &card.Interval, &card.EasinessFactor,
		&lastReviewed, &card.NextReviewDate, &card.CreatedAt, &card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if itemID.Valid {
		id := itemID.UUID
		card.LearningItemID = &id
	}
	card.LastReviewedAt = nullTimePtr(lastReviewed)
	card.NextReviewDate = card.NextReviewDate.UTC()
	card.CreatedAt = card.CreatedAt.UTC()
	card.UpdatedAt = card.UpdatedAt.UTC()
	return &card, nil
}

func uuidPtrValue(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func timePtrValue(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
