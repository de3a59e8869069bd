package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/studyplan-api/internal/api/shared"
	"github.com/phrazzld/studyplan-api/internal/domain"
	"github.com/phrazzld/studyplan-api/internal/generation"
	"github.com/phrazzld/studyplan-api/internal/platform/logger"
	"github.com/phrazzld/studyplan-api/internal/redact"
	"github.com/phrazzld/studyplan-api/internal/service"
	"github.com/phrazzld/studyplan-api/internal/service/card_review"
)

// MaxImportBytes bounds uploaded spreadsheets.
const MaxImportBytes = 10 << 20

// FlashcardHandler handles flashcard HTTP requests.
type FlashcardHandler struct {
	cardService   service.CardService
	reviewService card_review.CardReviewService
	logger        *slog.Logger
}

// NewFlashcardHandler creates a FlashcardHandler.
func NewFlashcardHandler(
	cardService service.CardService,
	reviewService card_review.CardReviewService,
	logger *slog.Logger,
) *FlashcardHandler {
	if cardService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cardService cannot be nil for FlashcardHandler")
	}
	if reviewService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("reviewService cannot be nil for FlashcardHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &FlashcardHandler{
		cardService:   cardService,
		reviewService: reviewService,
		logger:        logger.With(slog.String("component", "flashcard_handler")),
	}
}

// CreateFlashcard handles POST /flashcards.
func (h *FlashcardHandler) CreateFlashcard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req CreateFlashcardRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	card, err := h.cardService.CreateCard(r.Context(), userID, req.LearningItemID, req.Front, req.Back)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create flashcard")
		return
	}

	log.Debug("flashcard created", slog.String("card_id", card.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, flashcardToResponse(card))
}

// GenerateFlashcards handles POST /flashcards/generate.
func (h *FlashcardHandler) GenerateFlashcards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req GenerateFlashcardsRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	report, err := h.cardService.GenerateFromText(r.Context(), userID, req.LearningItemID, req.Text)
	h.respondWithReport(w, r, log, report, err)
}

// ImportFlashcards handles POST /flashcards/import. The multipart form carries
// the workbook in "file" and optional "learning_item_id", "sheet" and
// "include_header" fields.
func (h *FlashcardHandler) ImportFlashcards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxImportBytes)
	if err := r.ParseMultipartForm(MaxImportBytes); err != nil {
		log.Warn("invalid multipart form", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Spreadsheet file is required")
		return
	}
	defer func() { _ = file.Close() }()

	itemID, err := optionalUUID(r.FormValue("learning_item_id"), "learning_item_id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	opts := generation.SpreadsheetOptions{Sheet: strings.TrimSpace(r.FormValue("sheet"))}
	if raw := r.FormValue("include_header"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			HandleAPIError(w, r, domain.NewValidationError("include_header", "must be a boolean", nil), "")
			return
		}
		opts.IncludeHeader = include
	}

	report, err := h.cardService.ImportSpreadsheet(r.Context(), userID, itemID, file, opts)
	h.respondWithReport(w, r, log, report, err)
}

func (h *FlashcardHandler) respondWithReport(
	w http.ResponseWriter,
	r *http.Request,
	log *slog.Logger,
	report *service.GenerationReport,
	err error,
) {
	if err == nil && report == nil {
		err = errNoReport
	}
	if err != nil {
		if report != nil {
			log.Warn("card generation stopped early",
				slog.Int("created", len(report.Created)),
				slog.Int("skipped", len(report.Skipped)))
		}
		HandleAPIError(w, r, err, "Failed to create flashcards")
		return
	}

	log.Debug("flashcards generated",
		slog.Int("created", len(report.Created)),
		slog.Int("skipped", len(report.Skipped)))
	shared.RespondWithJSON(w, r, http.StatusCreated, generationToResponse(report))
}

// GetDueCards handles GET /flashcards/due.
func (h *FlashcardHandler) GetDueCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	cards, err := h.reviewService.GetDueCards(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get due cards")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DueCardsResponse{
		Cards: flashcardsToResponse(cards),
		Count: len(cards),
	})
}

// ReviewFlashcard handles POST /flashcards/{id}/review.
func (h *FlashcardHandler) ReviewFlashcard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req ReviewRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	result, err := h.reviewService.ProcessReview(r.Context(), userID, cardID, *req.Quality)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to process review")
		return
	}

	log.Debug("review processed",
		slog.String("card_id", cardID.String()),
		slog.Int("quality", *req.Quality),
		slog.Int("interval_days", result.IntervalDays))
	shared.RespondWithJSON(w, r, http.StatusOK, reviewToResponse(result))
}

// DeleteFlashcard handles DELETE /flashcards/{id}.
func (h *FlashcardHandler) DeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.cardService.DeleteCard(r.Context(), userID, cardID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete flashcard")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func optionalUUID(raw, field string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, domain.NewValidationError(field, "has invalid format", domain.ErrInvalidID)
	}
	return &id, nil
}

var errNoReport = errors.New("generation returned no report")
