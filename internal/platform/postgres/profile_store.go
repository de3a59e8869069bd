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
	"github.com/phrazzld/studyplan-api/internal/store"
)

const userProfilesTable = "user_profiles"

// PostgresUserProfileStore implements store.UserProfileStore on PostgreSQL.
type PostgresUserProfileStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserProfileStore creates a profile store.
func NewPostgresUserProfileStore(db store.DBTX, logger *slog.Logger) *PostgresUserProfileStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserProfileStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_profile_store")),
	}
}

var _ store.UserProfileStore = (*PostgresUserProfileStore)(nil)

// Get implements store.UserProfileStore.Get.
func (s *PostgresUserProfileStore) Get(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	query := psql.Select("user_id", "skill_level", "goals", "updated_at").
		From(userProfilesTable).
		Where(sq.Eq{"user_id": userID})

	row, err := queryRowBuilder(ctx, s.db, query)
	if err != nil {
		return nil, store.NewStoreError("user_profile", "get", "failed to build query", err)
	}

	var (
		profile domain.UserProfile
		goals   []byte
	)
	if err := row.Scan(&profile.UserID, &profile.SkillLevel, &goals, &profile.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProfileNotFound
		}
		return nil, store.NewStoreError("user_profile", "get", "failed to load profile", MapError(err))
	}

	profile.Goals, err = decodeStrings(goals)
	if err != nil {
		return nil, store.NewStoreError("user_profile", "get", "failed to decode goals",
			fmt.Errorf("%w: %v", store.ErrInvalidEntity, err))
	}
	profile.UpdatedAt = profile.UpdatedAt.UTC()
	return &profile, nil
}

// Upsert implements store.UserProfileStore.Upsert.
func (s *PostgresUserProfileStore) Upsert(ctx context.Context, profile *domain.UserProfile) error {
	goals, err := encodeStrings(profile.Goals)
	if err != nil {
		return store.NewStoreError("user_profile", "upsert", "failed to encode goals", err)
	}

	insert := psql.Insert(userProfilesTable).
		Columns("user_id", "skill_level", "goals", "updated_at").
		Values(profile.UserID, profile.SkillLevel, sq.Expr("?::jsonb", goals), profile.UpdatedAt.UTC()).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET " +
			"skill_level = EXCLUDED.skill_level, goals = EXCLUDED.goals, updated_at = EXCLUDED.updated_at")

	if _, err := execBuilder(ctx, s.db, insert); err != nil {
		s.logger.ErrorContext(ctx, "failed to upsert user profile",
			slog.String("user_id", profile.UserID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("user_profile", "upsert", "failed to save profile", MapError(err))
	}
	return nil
}
