package card_review

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studyplan-api/internal/domain"
	"github.com/phrazzld/studyplan-api/internal/domain/srs"
	"github.com/phrazzld/studyplan-api/internal/platform/logger"
	"github.com/phrazzld/studyplan-api/internal/store"
)

var _ CardReviewService = (*cardReviewServiceImpl)(nil)

type cardReviewServiceImpl struct {
	cardRepo   CardRepository
	srsService srs.Service
	logger     *slog.Logger
	now        func() time.Time
}

// Option customises the review service.
type Option func(*cardReviewServiceImpl)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *cardReviewServiceImpl) {
		s.now = now
	}
}

// NewCardReviewService creates a CardReviewService. It panics on nil
// dependencies; a nil logger falls back to slog.Default.
func NewCardReviewService(
	cardRepo CardRepository,
	srsService srs.Service,
	logger *slog.Logger,
	opts ...Option,
) CardReviewService {
	if cardRepo == nil {
		panic("cardRepo cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &cardReviewServiceImpl{
		cardRepo:   cardRepo,
		srsService: srsService,
		logger:     logger.With(slog.String("component", "card_review_service")),
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProcessReview implements CardReviewService.ProcessReview.
func (s *cardReviewServiceImpl) ProcessReview(
	ctx context.Context,
	userID, cardID uuid.UUID,
	quality int,
) (*ReviewResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := srs.ValidateQuality(quality); err != nil {
		log.Warn("invalid review quality",
			slog.String("card_id", cardID.String()),
			slog.Int("quality", quality))
		return nil, err
	}

	card, err := s.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Warn("card not found for review", slog.String("card_id", cardID.String()))
			return nil, ErrCardNotFound
		}
		log.Error("failed to load card for review",
			slog.String("card_id", cardID.String()),
			slog.String("error", err.Error()))
		return nil, NewProcessReviewError("failed to load card", err)
	}

	if !card.IsOwnedBy(userID) {
		log.Warn("user does not own card",
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		return nil, ErrCardNotOwned
	}

	updated, err := s.srsService.ProcessReview(card, quality, s.now())
	if err != nil {
		return nil, NewProcessReviewError("failed to schedule card", err)
	}

	if err := s.cardRepo.UpdateSchedule(ctx, updated); err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrCardNotFound
		}
		log.Error("failed to save card schedule",
			slog.String("card_id", cardID.String()),
			slog.String("error", err.Error()))
		return nil, NewProcessReviewError("failed to save schedule", err)
	}

	log.Info("review processed",
		slog.String("card_id", cardID.String()),
		slog.Int("quality", quality),
		slog.Int("interval_days", updated.Interval),
		slog.Time("next_review_date", updated.NextReviewDate))

	return &ReviewResult{
		Card:           updated,
		IntervalDays:   updated.Interval,
		NextReviewDate: updated.NextReviewDate,
	}, nil
}

// GetDueCards implements CardReviewService.GetDueCards. The store already
// filters and sorts, but results are passed through the SRS ordering so the
// contract holds for any repository.
func (s *cardReviewServiceImpl) GetDueCards(ctx context.Context, userID uuid.UUID) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now()

	cards, err := s.cardRepo.FindDue(ctx, userID, now)
	if err != nil {
		log.Error("failed to query due cards",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, NewGetDueCardsError("failed to query due cards", err)
	}

	due := s.srsService.DueCards(cards, now)
	log.Debug("due cards retrieved",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(due)))
	return due, nil
}
