package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studyplan-api/internal/domain"
	"github.com/phrazzld/studyplan-api/internal/domain/feasibility"
	"github.com/phrazzld/studyplan-api/internal/generation"
	"github.com/phrazzld/studyplan-api/internal/service"
	"github.com/phrazzld/studyplan-api/internal/service/card_review"
	"github.com/phrazzld/studyplan-api/internal/service/planner"
	"github.com/samber/lo"
)

// CreateFlashcardRequest is the payload for POST /flashcards.
type CreateFlashcardRequest struct {
	Front          string     `json:"front"            validate:"required,max=2000"`
	Back           string     `json:"back"             validate:"required,max=4000"`
	LearningItemID *uuid.UUID `json:"learning_item_id"`
}

// GenerateFlashcardsRequest is the payload for POST /flashcards/generate.
type GenerateFlashcardsRequest struct {
	Text           string     `json:"text"             validate:"required,max=100000"`
	LearningItemID *uuid.UUID `json:"learning_item_id"`
}

// ReviewRequest is the payload for POST /flashcards/{id}/review. Quality is a
// pointer so that a missing value is distinguishable from 0.
type ReviewRequest struct {
	Quality *int `json:"quality" validate:"required"`
}

// FlashcardResponse is the client view of a flashcard.
type FlashcardResponse struct {
	ID             string     `json:"id"`
	LearningItemID *string    `json:"learning_item_id,omitempty"`
	Front          string     `json:"front"`
	Back           string     `json:"back"`
	Repetitions    int        `json:"repetitions"`
	IntervalDays   int        `json:"interval_days"`
	EasinessFactor float64    `json:"easiness_factor"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	NextReviewDate time.Time  `json:"next_review_date"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ReviewResponse is returned after a review is processed.
type ReviewResponse struct {
	Card           FlashcardResponse `json:"card"`
	IntervalDays   int               `json:"interval_days"`
	NextReviewDate time.Time         `json:"next_review_date"`
}

// DueCardsResponse lists the cards due for review, earliest first.
type DueCardsResponse struct {
	Cards []FlashcardResponse `json:"cards"`
	Count int                 `json:"count"`
}

// GenerationResponse reports cards created from text or a spreadsheet.
type GenerationResponse struct {
	Created      []FlashcardResponse  `json:"created"`
	CreatedCount int                  `json:"created_count"`
	Skipped      []generation.Skipped `json:"skipped"`
}

// CreateItemRequest is the payload for POST /items.
type CreateItemRequest struct {
	Title                string     `json:"title"                  validate:"required,max=300"`
	ContentType          string     `json:"content_type"           validate:"max=50"`
	Category             string     `json:"category"               validate:"max=100"`
	Tags                 []string   `json:"tags"                   validate:"max=50,dive,max=64"`
	Difficulty           string     `json:"difficulty"             validate:"max=20"`
	TotalDuration        int        `json:"total_duration"         validate:"gte=0"`
	TargetCompletionDate *time.Time `json:"target_completion_date"`
}

// UpdateProgressRequest is the payload for PUT /items/{id}/progress.
type UpdateProgressRequest struct {
	CompletedDuration *int `json:"completed_duration" validate:"required,gte=0"`
}

// PlanRequest is the payload for feasibility checks and commitments. A zero
// study_days_per_week means every day.
type PlanRequest struct {
	TargetDate       time.Time `json:"target_date"`
	DailyMinutes     int       `json:"daily_minutes"`
	StudyDaysPerWeek int       `json:"study_days_per_week"`
}

// UpsertProfileRequest is the payload for PUT /profile.
type UpsertProfileRequest struct {
	SkillLevel string   `json:"skill_level" validate:"max=20"`
	Goals      []string `json:"goals"       validate:"max=50,dive,max=64"`
}

// RankedItemsResponse lists active items by priority, highest first.
type RankedItemsResponse struct {
	Items []planner.RankedItem `json:"items"`
	Count int                  `json:"count"`
}

// CommitmentsResponse lists an item's commitments, newest first.
type CommitmentsResponse struct {
	Commitments []*domain.Commitment `json:"commitments"`
	Count       int                  `json:"count"`
}

// FeasibilityResponse wraps a verdict.
type FeasibilityResponse struct {
	Verdict feasibility.Verdict `json:"verdict"`
}

// InfeasibleResponse is the 422 body for a rejected commitment.
type InfeasibleResponse struct {
	Error   string              `json:"error"`
	TraceID string              `json:"trace_id,omitempty"`
	Verdict feasibility.Verdict `json:"verdict"`
}

func (p PlanRequest) toPlan() feasibility.Plan {
	return feasibility.Plan{
		TargetDate:       p.TargetDate,
		DailyMinutes:     p.DailyMinutes,
		StudyDaysPerWeek: p.StudyDaysPerWeek,
	}
}

func (req CreateItemRequest) toInput() planner.NewItemInput {
	return planner.NewItemInput{
		Title:                req.Title,
		ContentType:          req.ContentType,
		Category:             req.Category,
		Tags:                 req.Tags,
		Difficulty:           req.Difficulty,
		TotalDuration:        req.TotalDuration,
		TargetCompletionDate: req.TargetCompletionDate,
	}
}

func flashcardToResponse(card *domain.Flashcard) FlashcardResponse {
	resp := FlashcardResponse{
		ID:             card.ID.String(),
		Front:          card.Front,
		Back:           card.Back,
		Repetitions:    card.Repetitions,
		IntervalDays:   card.Interval,
		EasinessFactor: card.EasinessFactor,
		LastReviewedAt: card.LastReviewedAt,
		NextReviewDate: card.NextReviewDate,
		CreatedAt:      card.CreatedAt,
	}
	if card.LearningItemID != nil {
		id := card.LearningItemID.String()
		resp.LearningItemID = &id
	}
	return resp
}

func flashcardsToResponse(cards []*domain.Flashcard) []FlashcardResponse {
	return lo.Map(cards, func(card *domain.Flashcard, _ int) FlashcardResponse {
		return flashcardToResponse(card)
	})
}

func reviewToResponse(result *card_review.ReviewResult) ReviewResponse {
	return ReviewResponse{
		Card:           flashcardToResponse(result.Card),
		IntervalDays:   result.IntervalDays,
		NextReviewDate: result.NextReviewDate,
	}
}

func generationToResponse(report *service.GenerationReport) GenerationResponse {
	skipped := report.Skipped
	if skipped == nil {
		skipped = []generation.Skipped{}
	}
	return GenerationResponse{
		Created:      flashcardsToResponse(report.Created),
		CreatedCount: len(report.Created),
		Skipped:      skipped,
	}
}
