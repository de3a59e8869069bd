package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/studyplan-api/internal/api/shared"
	"github.com/phrazzld/studyplan-api/internal/domain"
	"github.com/phrazzld/studyplan-api/internal/domain/feasibility"
	"github.com/phrazzld/studyplan-api/internal/domain/priority"
	"github.com/phrazzld/studyplan-api/internal/generation"
	"github.com/phrazzld/studyplan-api/internal/service"
	"github.com/phrazzld/studyplan-api/internal/service/card_review"
	"github.com/phrazzld/studyplan-api/internal/service/planner"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCardService struct {
	mock.Mock
}

var _ service.CardService = (*mockCardService)(nil)

func (m *mockCardService) CreateCard(
	ctx context.Context,
	userID uuid.UUID,
	itemID *uuid.UUID,
	front, back string,
) (*domain.Flashcard, error) {
	args := m.Called(ctx, userID, itemID, front, back)
	card, _ := args.Get(0).(*domain.Flashcard)
	return card, args.Error(1)
}

func (m *mockCardService) GenerateFromText(
	ctx context.Context,
	userID uuid.UUID,
	itemID *uuid.UUID,
	text string,
) (*service.GenerationReport, error) {
	args := m.Called(ctx, userID, itemID, text)
	report, _ := args.Get(0).(*service.GenerationReport)
	return report, args.Error(1)
}

func (m *mockCardService) ImportSpreadsheet(
	ctx context.Context,
	userID uuid.UUID,
	itemID *uuid.UUID,
	r io.Reader,
	opts generation.SpreadsheetOptions,
) (*service.GenerationReport, error) {
	args := m.Called(ctx, userID, itemID, r, opts)
	report, _ := args.Get(0).(*service.GenerationReport)
	return report, args.Error(1)
}

func (m *mockCardService) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	return m.Called(ctx, userID, cardID).Error(0)
}

type mockReviewService struct {
	mock.Mock
}

var _ card_review.CardReviewService = (*mockReviewService)(nil)

func (m *mockReviewService) ProcessReview(
	ctx context.Context,
	userID, cardID uuid.UUID,
	quality int,
) (*card_review.ReviewResult, error) {
	args := m.Called(ctx, userID, cardID, quality)
	result, _ := args.Get(0).(*card_review.ReviewResult)
	return result, args.Error(1)
}

func (m *mockReviewService) GetDueCards(ctx context.Context, userID uuid.UUID) ([]*domain.Flashcard, error) {
	args := m.Called(ctx, userID)
	cards, _ := args.Get(0).([]*domain.Flashcard)
	return cards, args.Error(1)
}

type mockPlanner struct {
	mock.Mock
}

var _ planner.PlannerService = (*mockPlanner)(nil)

func (m *mockPlanner) CreateItem(
	ctx context.Context,
	userID uuid.UUID,
	in planner.NewItemInput,
) (*domain.LearningItem, error) {
	args := m.Called(ctx, userID, in)
	item, _ := args.Get(0).(*domain.LearningItem)
	return item, args.Error(1)
}

func (m *mockPlanner) UpdateProgress(
	ctx context.Context,
	userID, itemID uuid.UUID,
	completed int,
) (*domain.LearningItem, error) {
	args := m.Called(ctx, userID, itemID, completed)
	item, _ := args.Get(0).(*domain.LearningItem)
	return item, args.Error(1)
}

func (m *mockPlanner) UpsertProfile(
	ctx context.Context,
	userID uuid.UUID,
	skillLevel string,
	goals []string,
) (*domain.UserProfile, error) {
	args := m.Called(ctx, userID, skillLevel, goals)
	profile, _ := args.Get(0).(*domain.UserProfile)
	return profile, args.Error(1)
}

func (m *mockPlanner) ScoreItem(ctx context.Context, userID, itemID uuid.UUID) (*priority.Breakdown, error) {
	args := m.Called(ctx, userID, itemID)
	b, _ := args.Get(0).(*priority.Breakdown)
	return b, args.Error(1)
}

func (m *mockPlanner) RankItems(ctx context.Context, userID uuid.UUID) ([]planner.RankedItem, error) {
	args := m.Called(ctx, userID)
	ranked, _ := args.Get(0).([]planner.RankedItem)
	return ranked, args.Error(1)
}

func (m *mockPlanner) RefreshAllScores(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockPlanner) CheckFeasibility(
	ctx context.Context,
	userID, itemID uuid.UUID,
	plan feasibility.Plan,
) (*feasibility.Verdict, error) {
	args := m.Called(ctx, userID, itemID, plan)
	v, _ := args.Get(0).(*feasibility.Verdict)
	return v, args.Error(1)
}

func (m *mockPlanner) CreateCommitment(
	ctx context.Context,
	userID, itemID uuid.UUID,
	plan feasibility.Plan,
) (*planner.CommitmentResult, error) {
	args := m.Called(ctx, userID, itemID, plan)
	result, _ := args.Get(0).(*planner.CommitmentResult)
	return result, args.Error(1)
}

func (m *mockPlanner) ListCommitments(ctx context.Context, userID, itemID uuid.UUID) ([]*domain.Commitment, error) {
	args := m.Called(ctx, userID, itemID)
	commitments, _ := args.Get(0).([]*domain.Commitment)
	return commitments, args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// withUser injects userID the way the auth middleware does. uuid.Nil
// leaves the request unauthenticated.
func withUser(userID uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID != uuid.Nil {
				r = r.WithContext(shared.WithUserID(r.Context(), userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func newTestRouter(userID uuid.UUID, fh *FlashcardHandler, ih *ItemHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(withUser(userID))
	if fh != nil {
		r.Post("/flashcards", fh.CreateFlashcard)
		r.Post("/flashcards/generate", fh.GenerateFlashcards)
		r.Post("/flashcards/import", fh.ImportFlashcards)
		r.Get("/flashcards/due", fh.GetDueCards)
		r.Post("/flashcards/{id}/review", fh.ReviewFlashcard)
		r.Delete("/flashcards/{id}", fh.DeleteFlashcard)
	}
	if ih != nil {
		r.Post("/items", ih.CreateItem)
		r.Get("/items/ranked", ih.GetRankedItems)
		r.Get("/items/{id}/priority", ih.GetItemPriority)
		r.Put("/items/{id}/progress", ih.UpdateProgress)
		r.Post("/items/{id}/feasibility", ih.CheckFeasibility)
		r.Post("/items/{id}/commitments", ih.CreateCommitment)
		r.Get("/items/{id}/commitments", ih.ListCommitments)
		r.Put("/profile", ih.UpsertProfile)
	}
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader = http.NoBody
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
