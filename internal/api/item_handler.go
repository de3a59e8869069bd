package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/studyplan-api/internal/api/shared"
	"github.com/phrazzld/studyplan-api/internal/domain"
	"github.com/phrazzld/studyplan-api/internal/platform/logger"
	"github.com/phrazzld/studyplan-api/internal/service/planner"
)

// ItemHandler handles learning item, commitment and profile requests.
type ItemHandler struct {
	planner planner.PlannerService
	logger  *slog.Logger
}

// NewItemHandler creates an ItemHandler.
func NewItemHandler(plannerService planner.PlannerService, logger *slog.Logger) *ItemHandler {
	if plannerService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("plannerService cannot be nil for ItemHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ItemHandler{
		planner: plannerService,
		logger:  logger.With(slog.String("component", "item_handler")),
	}
}

// CreateItem handles POST /items.
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req CreateItemRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	item, err := h.planner.CreateItem(r.Context(), userID, req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create learning item")
		return
	}

	log.Debug("learning item created", slog.String("item_id", item.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, item)
}

// GetRankedItems handles GET /items/ranked.
func (h *ItemHandler) GetRankedItems(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	ranked, err := h.planner.RankItems(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to rank learning items")
		return
	}
	if ranked == nil {
		ranked = []planner.RankedItem{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RankedItemsResponse{Items: ranked, Count: len(ranked)})
}

// GetItemPriority handles GET /items/{id}/priority.
func (h *ItemHandler) GetItemPriority(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, itemID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	breakdown, err := h.planner.ScoreItem(r.Context(), userID, itemID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to score learning item")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, breakdown)
}

// UpdateProgress handles PUT /items/{id}/progress.
func (h *ItemHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, itemID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateProgressRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	item, err := h.planner.UpdateProgress(r.Context(), userID, itemID, *req.CompletedDuration)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update progress")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, item)
}

// CheckFeasibility handles POST /items/{id}/feasibility. Nothing is stored.
func (h *ItemHandler) CheckFeasibility(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, itemID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req PlanRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	verdict, err := h.planner.CheckFeasibility(r.Context(), userID, itemID, req.toPlan())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to check feasibility")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, FeasibilityResponse{Verdict: *verdict})
}

// CreateCommitment handles POST /items/{id}/commitments. An infeasible plan
// is answered with 422 and the verdict so the client can show the shortfall.
func (h *ItemHandler) CreateCommitment(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, itemID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req PlanRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	result, err := h.planner.CreateCommitment(r.Context(), userID, itemID, req.toPlan())
	if errors.Is(err, planner.ErrCommitmentInfeasible) && result != nil {
		log.Debug("commitment rejected", slog.String("item_id", itemID.String()))
		shared.RespondWithJSON(w, r, http.StatusUnprocessableEntity, InfeasibleResponse{
			Error:   GetSafeErrorMessage(err),
			TraceID: shared.GetTraceID(r.Context()),
			Verdict: result.Verdict,
		})
		return
	}
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create commitment")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, result)
}

// ListCommitments handles GET /items/{id}/commitments.
func (h *ItemHandler) ListCommitments(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, itemID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	commitments, err := h.planner.ListCommitments(r.Context(), userID, itemID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list commitments")
		return
	}
	if commitments == nil {
		commitments = []*domain.Commitment{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CommitmentsResponse{
		Commitments: commitments,
		Count:       len(commitments),
	})
}

// UpsertProfile handles PUT /profile.
func (h *ItemHandler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req UpsertProfileRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	profile, err := h.planner.UpsertProfile(r.Context(), userID, req.SkillLevel, req.Goals)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to save profile")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, profile)
}
