package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studyplan-api/internal/domain"
	"github.com/phrazzld/studyplan-api/internal/generation"
	"github.com/phrazzld/studyplan-api/internal/platform/logger"
	"github.com/phrazzld/studyplan-api/internal/store"
)

// CardRepository is the flashcard persistence the card service needs.
type CardRepository interface {
	Create(ctx context.Context, card *domain.Flashcard) error
	CreateMultiple(ctx context.Context, cards []*domain.Flashcard) (int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ItemLookup resolves the learning item a card is attached to.
type ItemLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LearningItem, error)
}

// GenerationReport summarises a bulk import. Created holds the cards that
// were saved, in input order.
type GenerationReport struct {
	Created []*domain.Flashcard  `json:"created"`
	Skipped []generation.Skipped `json:"skipped"`
}

// CardService provides card management operations.
type CardService interface {
	// CreateCard saves a single card, due immediately.
	CreateCard(ctx context.Context, userID uuid.UUID, itemID *uuid.UUID, front, back string) (*domain.Flashcard, error)

	// GenerateFromText creates a card for every usable block of text. Unusable
	// blocks are skipped and reported; they are not errors. Creation is not
	// atomic: if saving fails partway, the cards saved so far are kept and
	// returned in the report along with the error.
	GenerateFromText(ctx context.Context, userID uuid.UUID, itemID *uuid.UUID, text string) (*GenerationReport, error)

	// ImportSpreadsheet is GenerateFromText for an .xlsx workbook whose first
	// two columns hold the front and back.
	ImportSpreadsheet(
		ctx context.Context,
		userID uuid.UUID,
		itemID *uuid.UUID,
		r io.Reader,
		opts generation.SpreadsheetOptions,
	) (*GenerationReport, error)

	// DeleteCard removes one of the user's cards.
	DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error
}

type cardServiceImpl struct {
	cardRepo CardRepository
	items    ItemLookup
	logger   *slog.Logger
	now      func() time.Time
}

// NewCardService creates a new CardService.
// It returns an error if any of the required dependencies are nil.
func NewCardService(cardRepo CardRepository, items ItemLookup, logger *slog.Logger) (CardService, error) {
	if cardRepo == nil {
		return nil, domain.NewValidationError("cardRepo", "cannot be nil", domain.ErrValidation)
	}
	if items == nil {
		return nil, domain.NewValidationError("items", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &cardServiceImpl{
		cardRepo: cardRepo,
		items:    items,
		logger:   logger.With(slog.String("component", "card_service")),
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// CreateCard implements CardService.CreateCard.
func (s *cardServiceImpl) CreateCard(
	ctx context.Context,
	userID uuid.UUID,
	itemID *uuid.UUID,
	front, back string,
) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.checkItem(ctx, userID, itemID); err != nil {
		return nil, err
	}

	card, err := domain.NewFlashcard(userID, itemID, front, back, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.cardRepo.Create(ctx, card); err != nil {
		log.Error("failed to create card",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, NewCardServiceError("create_card", "failed to save card", err)
	}

	log.Info("card created", slog.String("card_id", card.ID.String()))
	return card, nil
}

// GenerateFromText implements CardService.GenerateFromText.
func (s *cardServiceImpl) GenerateFromText(
	ctx context.Context,
	userID uuid.UUID,
	itemID *uuid.UUID,
	text string,
) (*GenerationReport, error) {
	if err := s.checkItem(ctx, userID, itemID); err != nil {
		return nil, err
	}
	return s.saveDrafts(ctx, "generate_cards", userID, itemID, generation.ParseText(text))
}

// ImportSpreadsheet implements CardService.ImportSpreadsheet.
func (s *cardServiceImpl) ImportSpreadsheet(
	ctx context.Context,
	userID uuid.UUID,
	itemID *uuid.UUID,
	r io.Reader,
	opts generation.SpreadsheetOptions,
) (*GenerationReport, error) {
	if err := s.checkItem(ctx, userID, itemID); err != nil {
		return nil, err
	}

	parsed, err := generation.ParseSpreadsheet(r, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	return s.saveDrafts(ctx, "import_spreadsheet", userID, itemID, parsed)
}

// DeleteCard implements CardService.DeleteCard.
func (s *cardServiceImpl) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return ErrCardNotFound
		}
		return NewCardServiceError("delete_card", "failed to load card", err)
	}

	if !card.IsOwnedBy(userID) {
		log.Warn("user attempted to delete a card they do not own",
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		return ErrNotOwned
	}

	if err := s.cardRepo.Delete(ctx, cardID); err != nil {
		if store.IsNotFoundError(err) {
			return ErrCardNotFound
		}
		return NewCardServiceError("delete_card", "failed to delete card", err)
	}

	log.Info("card deleted", slog.String("card_id", cardID.String()))
	return nil
}

func (s *cardServiceImpl) saveDrafts(
	ctx context.Context,
	operation string,
	userID uuid.UUID,
	itemID *uuid.UUID,
	parsed generation.Result,
) (*GenerationReport, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now()

	report := &GenerationReport{
		Created: make([]*domain.Flashcard, 0, len(parsed.Drafts)),
		Skipped: parsed.Skipped,
	}
	if report.Skipped == nil {
		report.Skipped = []generation.Skipped{}
	}

	cards := make([]*domain.Flashcard, 0, len(parsed.Drafts))
	for _, draft := range parsed.Drafts {
		card, err := domain.NewFlashcard(userID, itemID, draft.Front, draft.Back, now)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}

	saved, err := s.cardRepo.CreateMultiple(ctx, cards)
	report.Created = append(report.Created, cards[:saved]...)
	if err != nil {
		log.Error("bulk card creation stopped early",
			slog.String("operation", operation),
			slog.Int("saved", saved),
			slog.Int("total", len(cards)),
			slog.String("error", err.Error()))
		return report, NewCardServiceError(operation, "failed to save all cards", err)
	}

	log.Info("cards generated",
		slog.String("operation", operation),
		slog.Int("created", len(report.Created)),
		slog.Int("skipped", len(report.Skipped)))
	return report, nil
}

// checkItem verifies an optional item reference belongs to the user.
func (s *cardServiceImpl) checkItem(ctx context.Context, userID uuid.UUID, itemID *uuid.UUID) error {
	if itemID == nil {
		return nil
	}

	item, err := s.items.GetByID(ctx, *itemID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return ErrItemNotFound
		}
		return NewCardServiceError("check_item", "failed to load learning item", err)
	}
	if !item.IsOwnedBy(userID) {
		return ErrNotOwned
	}
	return nil
}
