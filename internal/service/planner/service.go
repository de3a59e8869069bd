// Package planner implements the learning-item side of the application:
// item tracking, priority ranking, and feasibility-checked commitments.
package planner

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studyplan-api/internal/domain"
	"github.com/phrazzld/studyplan-api/internal/domain/feasibility"
	"github.com/phrazzld/studyplan-api/internal/domain/priority"
	"github.com/phrazzld/studyplan-api/internal/platform/logger"
	"github.com/phrazzld/studyplan-api/internal/store"
)

// NewItemInput carries the fields a user supplies for a new learning item.
type NewItemInput struct {
	Title                string
	ContentType          string
	Category             string
	Tags                 []string
	Difficulty           string
	TotalDuration        int
	TargetCompletionDate *time.Time
}

// RankedItem pairs an active item with its freshly computed breakdown.
type RankedItem struct {
	Item      *domain.LearningItem `json:"item"`
	Breakdown priority.Breakdown   `json:"priority"`
}

// CommitmentResult is the outcome of a commitment request. Commitment is nil
// when the plan was rejected.
type CommitmentResult struct {
	Commitment *domain.Commitment  `json:"commitment,omitempty"`
	Verdict    feasibility.Verdict `json:"verdict"`
}

// Config tunes the planner.
type Config struct {
	// MaxActiveItems caps concurrently active items per user. Zero disables the cap.
	MaxActiveItems int
	// BufferRatio is the safety margin added to content duration in
	// feasibility checks. Non-positive values select the default.
	BufferRatio float64
}

// PlannerService manages learning items, their ranking and study commitments.
type PlannerService interface {
	// CreateItem adds an active item, subject to the active-item cap.
	CreateItem(ctx context.Context, userID uuid.UUID, in NewItemInput) (*domain.LearningItem, error)

	// UpdateProgress records completed minutes. Reaching the total completes
	// the item; lowering progress on a completed item reactivates it.
	UpdateProgress(ctx context.Context, userID, itemID uuid.UUID, completedMinutes int) (*domain.LearningItem, error)

	// UpsertProfile creates or replaces the user's profile.
	UpsertProfile(ctx context.Context, userID uuid.UUID, skillLevel string, goals []string) (*domain.UserProfile, error)

	// ScoreItem computes the current priority breakdown for one item.
	ScoreItem(ctx context.Context, userID, itemID uuid.UUID) (*priority.Breakdown, error)

	// RankItems rescores and persists every active item, then returns them by
	// score descending. Equal scores keep creation order.
	RankItems(ctx context.Context, userID uuid.UUID) ([]RankedItem, error)

	// RefreshAllScores ranks the items of every user with active items and
	// returns the number of users refreshed.
	RefreshAllScores(ctx context.Context) (int, error)

	// CheckFeasibility evaluates a plan for an item without persisting anything.
	CheckFeasibility(ctx context.Context, userID, itemID uuid.UUID, plan feasibility.Plan) (*feasibility.Verdict, error)

	// CreateCommitment persists a commitment when the plan is feasible. An
	// infeasible plan returns ErrCommitmentInfeasible together with the verdict.
	CreateCommitment(ctx context.Context, userID, itemID uuid.UUID, plan feasibility.Plan) (*CommitmentResult, error)

	// ListCommitments returns the commitments made for one of the user's
	// items, newest first.
	ListCommitments(ctx context.Context, userID, itemID uuid.UUID) ([]*domain.Commitment, error)
}

var _ PlannerService = (*plannerServiceImpl)(nil)

type plannerServiceImpl struct {
	items       store.LearningItemStore
	profiles    store.UserProfileStore
	commitments store.CommitmentStore
	tx          store.Transactor
	checker     *feasibility.Checker
	maxActive   int
	logger      *slog.Logger
	now         func() time.Time
}

// Option customises the planner service.
type Option func(*plannerServiceImpl)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *plannerServiceImpl) {
		s.now = now
	}
}

// NewPlannerService creates a PlannerService. It panics on nil dependencies.
func NewPlannerService(
	items store.LearningItemStore,
	profiles store.UserProfileStore,
	commitments store.CommitmentStore,
	tx store.Transactor,
	cfg Config,
	logger *slog.Logger,
	opts ...Option,
) PlannerService {
	if items == nil {
		panic("items cannot be nil")
	}
	if profiles == nil {
		panic("profiles cannot be nil")
	}
	if commitments == nil {
		panic("commitments cannot be nil")
	}
	if tx == nil {
		panic("tx cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &plannerServiceImpl{
		items:       items,
		profiles:    profiles,
		commitments: commitments,
		tx:          tx,
		checker:     feasibility.NewChecker(cfg.BufferRatio),
		maxActive:   cfg.MaxActiveItems,
		logger:      logger.With(slog.String("component", "planner_service")),
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateItem implements PlannerService.CreateItem.
func (s *plannerServiceImpl) CreateItem(
	ctx context.Context,
	userID uuid.UUID,
	in NewItemInput,
) (*domain.LearningItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now()

	item, err := domain.NewLearningItem(userID, in.Title, in.ContentType, in.Category,
		in.Tags, in.Difficulty, in.TotalDuration, in.TargetCompletionDate, now)
	if err != nil {
		return nil, err
	}

	if err := s.checkActiveLimit(ctx, userID); err != nil {
		return nil, err
	}

	profile, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, newServiceError("create_item", "failed to load profile", err)
	}
	item.PriorityScore = priority.Calculate(item, profile, now).Score

	if err := s.items.Create(ctx, item); err != nil {
		log.Error("failed to create learning item",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, newServiceError("create_item", "failed to save item", err)
	}

	log.Info("learning item created",
		slog.String("item_id", item.ID.String()),
		slog.Float64("priority_score", item.PriorityScore))
	return item, nil
}

// UpdateProgress implements PlannerService.UpdateProgress.
func (s *plannerServiceImpl) UpdateProgress(
	ctx context.Context,
	userID, itemID uuid.UUID,
	completedMinutes int,
) (*domain.LearningItem, error) {
	item, err := s.ownedItem(ctx, "update_progress", userID, itemID)
	if err != nil {
		return nil, err
	}

	wasActive := item.Status == domain.LearningItemStatusActive
	now := s.now()
	if err := item.SetProgress(completedMinutes, now); err != nil {
		return nil, err
	}
	if !wasActive && item.Status == domain.LearningItemStatusActive {
		if err := s.checkActiveLimit(ctx, userID); err != nil {
			return nil, err
		}
	}

	if err := s.items.Update(ctx, item); err != nil {
		return nil, s.mapItemError("update_progress", "failed to save progress", err)
	}

	if item.Status == domain.LearningItemStatusActive {
		profile, err := s.loadProfile(ctx, userID)
		if err != nil {
			return nil, newServiceError("update_progress", "failed to load profile", err)
		}
		item.PriorityScore = priority.Calculate(item, profile, now).Score
		if err := s.items.UpdatePriorityScore(ctx, item.ID, item.PriorityScore); err != nil {
			return nil, s.mapItemError("update_progress", "failed to save priority score", err)
		}
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("progress updated",
		slog.String("item_id", item.ID.String()),
		slog.Float64("progress_percentage", item.ProgressPercentage),
		slog.String("status", string(item.Status)))
	return item, nil
}

// UpsertProfile implements PlannerService.UpsertProfile.
func (s *plannerServiceImpl) UpsertProfile(
	ctx context.Context,
	userID uuid.UUID,
	skillLevel string,
	goals []string,
) (*domain.UserProfile, error) {
	profile, err := domain.NewUserProfile(userID, skillLevel, goals, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, newServiceError("upsert_profile", "failed to save profile", err)
	}
	return profile, nil
}

// ScoreItem implements PlannerService.ScoreItem.
func (s *plannerServiceImpl) ScoreItem(ctx context.Context, userID, itemID uuid.UUID) (*priority.Breakdown, error) {
	item, err := s.ownedItem(ctx, "score_item", userID, itemID)
	if err != nil {
		return nil, err
	}

	profile, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, newServiceError("score_item", "failed to load profile", err)
	}

	breakdown := priority.Calculate(item, profile, s.now())
	return &breakdown, nil
}

// RankItems implements PlannerService.RankItems. Scores are written one at a
// time; a failure leaves earlier writes in place.
func (s *plannerServiceImpl) RankItems(ctx context.Context, userID uuid.UUID) ([]RankedItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	items, err := s.items.FindActive(ctx, userID)
	if err != nil {
		return nil, newServiceError("rank_items", "failed to load active items", err)
	}

	profile, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, newServiceError("rank_items", "failed to load profile", err)
	}

	now := s.now()
	ranked := make([]RankedItem, 0, len(items))
	for _, item := range items {
		breakdown := priority.Calculate(item, profile, now)
		item.PriorityScore = breakdown.Score
		if err := s.items.UpdatePriorityScore(ctx, item.ID, breakdown.Score); err != nil {
			log.Error("failed to persist priority score",
				slog.String("item_id", item.ID.String()),
				slog.String("error", err.Error()))
			return nil, s.mapItemError("rank_items", "failed to save priority score", err)
		}
		ranked = append(ranked, RankedItem{Item: item, Breakdown: breakdown})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Breakdown.Score > ranked[j].Breakdown.Score
	})

	log.Debug("items ranked", slog.String("user_id", userID.String()), slog.Int("count", len(ranked)))
	return ranked, nil
}

// RefreshAllScores implements PlannerService.RefreshAllScores.
func (s *plannerServiceImpl) RefreshAllScores(ctx context.Context) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	users, err := s.items.ListUsersWithActiveItems(ctx)
	if err != nil {
		return 0, newServiceError("refresh_scores", "failed to list users", err)
	}

	refreshed := 0
	for _, userID := range users {
		if err := ctx.Err(); err != nil {
			return refreshed, err
		}
		if _, err := s.RankItems(ctx, userID); err != nil {
			log.Warn("skipping user after ranking failure",
				slog.String("user_id", userID.String()),
				slog.String("error", err.Error()))
			continue
		}
		refreshed++
	}

	log.Info("priority scores refreshed", slog.Int("users", refreshed), slog.Int("total", len(users)))
	return refreshed, nil
}

// CheckFeasibility implements PlannerService.CheckFeasibility.
func (s *plannerServiceImpl) CheckFeasibility(
	ctx context.Context,
	userID, itemID uuid.UUID,
	plan feasibility.Plan,
) (*feasibility.Verdict, error) {
	item, err := s.ownedItem(ctx, "check_feasibility", userID, itemID)
	if err != nil {
		return nil, err
	}

	verdict, err := s.checker.Check(item.TotalDuration, plan, s.now())
	if err != nil {
		return nil, err
	}
	return &verdict, nil
}

// CreateCommitment implements PlannerService.CreateCommitment. The commitment
// insert and the item's new target date are written in one transaction.
func (s *plannerServiceImpl) CreateCommitment(
	ctx context.Context,
	userID, itemID uuid.UUID,
	plan feasibility.Plan,
) (*CommitmentResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	item, err := s.ownedItem(ctx, "create_commitment", userID, itemID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	normalized, err := feasibility.Validate(plan, now)
	if err != nil {
		return nil, err
	}

	verdict, err := s.checker.Check(item.TotalDuration, normalized, now)
	if err != nil {
		return nil, err
	}
	if !verdict.Feasible {
		log.Info("commitment rejected as infeasible",
			slog.String("item_id", itemID.String()),
			slog.Float64("shortfall_hours", verdict.ShortfallHours))
		return &CommitmentResult{Verdict: verdict}, ErrCommitmentInfeasible
	}

	commitment := domain.NewCommitment(userID, itemID, normalized.DailyMinutes,
		normalized.StudyDaysPerWeek, normalized.TargetDate.UTC(), now)

	target := normalized.TargetDate.UTC()
	item.TargetCompletionDate = &target
	item.UpdatedAt = now

	err = s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.commitments.WithTx(tx).Create(ctx, commitment); err != nil {
			return err
		}
		return s.items.WithTx(tx).Update(ctx, item)
	})
	if err != nil {
		log.Error("failed to save commitment",
			slog.String("item_id", itemID.String()),
			slog.String("error", err.Error()))
		return nil, s.mapItemError("create_commitment", "failed to save commitment", err)
	}

	log.Info("commitment created",
		slog.String("commitment_id", commitment.ID.String()),
		slog.String("item_id", itemID.String()))
	return &CommitmentResult{Commitment: commitment, Verdict: verdict}, nil
}

// ListCommitments implements PlannerService.ListCommitments.
func (s *plannerServiceImpl) ListCommitments(
	ctx context.Context,
	userID, itemID uuid.UUID,
) ([]*domain.Commitment, error) {
	if _, err := s.ownedItem(ctx, "list_commitments", userID, itemID); err != nil {
		return nil, err
	}

	commitments, err := s.commitments.ListByItem(ctx, itemID)
	if err != nil {
		return nil, newServiceError("list_commitments", "failed to load commitments", err)
	}
	return commitments, nil
}

func (s *plannerServiceImpl) ownedItem(
	ctx context.Context,
	operation string,
	userID, itemID uuid.UUID,
) (*domain.LearningItem, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, s.mapItemError(operation, "failed to load item", err)
	}
	if !item.IsOwnedBy(userID) {
		logger.FromContextOrDefault(ctx, s.logger).Warn("user does not own learning item",
			slog.String("user_id", userID.String()),
			slog.String("item_id", itemID.String()))
		return nil, ErrItemNotOwned
	}
	return item, nil
}

func (s *plannerServiceImpl) checkActiveLimit(ctx context.Context, userID uuid.UUID) error {
	if s.maxActive <= 0 {
		return nil
	}
	count, err := s.items.CountActive(ctx, userID)
	if err != nil {
		return newServiceError("check_active_limit", "failed to count active items", err)
	}
	if count >= s.maxActive {
		return ErrActiveItemLimit
	}
	return nil
}

// loadProfile returns nil without error when the user has no profile.
func (s *plannerServiceImpl) loadProfile(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return profile, nil
}

func (s *plannerServiceImpl) mapItemError(operation, message string, err error) error {
	if store.IsNotFoundError(err) {
		return ErrItemNotFound
	}
	return newServiceError(operation, message, err)
}
