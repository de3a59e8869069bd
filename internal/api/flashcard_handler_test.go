package api

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studyplan-api/internal/api/shared"
	"github.com/phrazzld/studyplan-api/internal/domain"
	"github.com/phrazzld/studyplan-api/internal/domain/srs"
	"github.com/phrazzld/studyplan-api/internal/generation"
	"github.com/phrazzld/studyplan-api/internal/service"
	"github.com/phrazzld/studyplan-api/internal/service/card_review"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newFlashcardRouter(userID uuid.UUID) (http.Handler, *mockCardService, *mockReviewService) {
	cards := new(mockCardService)
	reviews := new(mockReviewService)
	h := NewFlashcardHandler(cards, reviews, discardLogger())
	return newTestRouter(userID, h, nil), cards, reviews
}

func sampleCard(t *testing.T, userID uuid.UUID) *domain.Flashcard {
	t.Helper()
	card, err := domain.NewFlashcard(userID, nil, "What is SM-2?", "A spaced repetition algorithm",
		time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return card
}

func TestNewFlashcardHandlerPanicsOnNilServices(t *testing.T) {
	assert.Panics(t, func() { NewFlashcardHandler(nil, new(mockReviewService), nil) })
	assert.Panics(t, func() { NewFlashcardHandler(new(mockCardService), nil, nil) })
}

func TestCreateFlashcard(t *testing.T) {
	userID := uuid.New()

	t.Run("created", func(t *testing.T) {
		router, cards, _ := newFlashcardRouter(userID)
		card := sampleCard(t, userID)
		cards.On("CreateCard", mock.Anything, userID, (*uuid.UUID)(nil), "What is SM-2?", "A spaced repetition algorithm").
			Return(card, nil)

		rec := doJSON(t, router, http.MethodPost, "/flashcards", CreateFlashcardRequest{
			Front: "What is SM-2?",
			Back:  "A spaced repetition algorithm",
		})

		require.Equal(t, http.StatusCreated, rec.Code)
		resp := decodeBody[FlashcardResponse](t, rec)
		assert.Equal(t, card.ID.String(), resp.ID)
		assert.Equal(t, domain.DefaultEasinessFactor, resp.EasinessFactor)
		assert.Nil(t, resp.LearningItemID)
		cards.AssertExpectations(t)
	})

	t.Run("missing back fails validation", func(t *testing.T) {
		router, cards, _ := newFlashcardRouter(userID)

		rec := doJSON(t, router, http.MethodPost, "/flashcards", map[string]string{"front": "question"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody[shared.ErrorResponse](t, rec)
		assert.Equal(t, "Invalid Back: required field", body.Error)
		cards.AssertNumberOfCalls(t, "CreateCard", 0)
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		router, _, _ := newFlashcardRouter(userID)

		rec := doJSON(t, router, http.MethodPost, "/flashcards", `{"front":"a","back":"b","extra":1}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("item owned by someone else", func(t *testing.T) {
		router, cards, _ := newFlashcardRouter(userID)
		itemID := uuid.New()
		cards.On("CreateCard", mock.Anything, userID, &itemID, "front", "back").
			Return(nil, service.ErrNotOwned)

		rec := doJSON(t, router, http.MethodPost, "/flashcards", CreateFlashcardRequest{
			Front: "front", Back: "back", LearningItemID: &itemID,
		})

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		router, _, _ := newFlashcardRouter(uuid.Nil)

		rec := doJSON(t, router, http.MethodPost, "/flashcards", CreateFlashcardRequest{Front: "a", Back: "b"})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGenerateFlashcards(t *testing.T) {
	userID := uuid.New()
	card := sampleCard(t, userID)

	t.Run("reports created and skipped blocks", func(t *testing.T) {
		router, cards, _ := newFlashcardRouter(userID)
		cards.On("GenerateFromText", mock.Anything, userID, (*uuid.UUID)(nil), "some notes").
			Return(&service.GenerationReport{
				Created: []*domain.Flashcard{card},
				Skipped: []generation.Skipped{{Index: 1, Reason: generation.ReasonNoBack}},
			}, nil)

		rec := doJSON(t, router, http.MethodPost, "/flashcards/generate", GenerateFlashcardsRequest{Text: "some notes"})

		require.Equal(t, http.StatusCreated, rec.Code)
		resp := decodeBody[GenerationResponse](t, rec)
		assert.Equal(t, 1, resp.CreatedCount)
		require.Len(t, resp.Skipped, 1)
		assert.Equal(t, generation.ReasonNoBack, resp.Skipped[0].Reason)
	})

	t.Run("empty result still returns arrays", func(t *testing.T) {
		router, cards, _ := newFlashcardRouter(userID)
		cards.On("GenerateFromText", mock.Anything, userID, (*uuid.UUID)(nil), "x").
			Return(&service.GenerationReport{}, nil)

		rec := doJSON(t, router, http.MethodPost, "/flashcards/generate", GenerateFlashcardsRequest{Text: "x"})

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"created":[],"created_count":0,"skipped":[]}`, rec.Body.String())
	})

	t.Run("store failure is a 500 without internals", func(t *testing.T) {
		router, cards, _ := newFlashcardRouter(userID)
		cards.On("GenerateFromText", mock.Anything, userID, (*uuid.UUID)(nil), "notes").
			Return(&service.GenerationReport{Created: []*domain.Flashcard{card}},
				service.NewCardServiceError("generate_from_text", "failed to save cards",
					errors.New("pq: connection to 10.0.0.5 refused")))

		rec := doJSON(t, router, http.MethodPost, "/flashcards/generate", GenerateFlashcardsRequest{Text: "notes"})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "10.0.0.5")
		assert.Equal(t, "Failed to create flashcards", decodeBody[shared.ErrorResponse](t, rec).Error)
	})
}

func TestImportFlashcards(t *testing.T) {
	userID := uuid.New()
	itemID := uuid.New()

	newUpload := func(t *testing.T, fields map[string]string, withFile bool) (*bytes.Buffer, string) {
		t.Helper()
		buf := &bytes.Buffer{}
		mw := multipart.NewWriter(buf)
		for k, v := range fields {
			require.NoError(t, mw.WriteField(k, v))
		}
		if withFile {
			part, err := mw.CreateFormFile("file", "cards.xlsx")
			require.NoError(t, err)
			_, err = part.Write([]byte("workbook bytes"))
			require.NoError(t, err)
		}
		require.NoError(t, mw.Close())
		return buf, mw.FormDataContentType()
	}

	send := func(router http.Handler, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/flashcards/import", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("passes options to the service", func(t *testing.T) {
		router, cards, _ := newFlashcardRouter(userID)
		cards.On("ImportSpreadsheet", mock.Anything, userID, &itemID, mock.Anything,
			generation.SpreadsheetOptions{Sheet: "Deck", IncludeHeader: true}).
			Return(&service.GenerationReport{}, nil)

		body, ct := newUpload(t, map[string]string{
			"learning_item_id": itemID.String(),
			"sheet":            "Deck",
			"include_header":   "true",
		}, true)
		rec := send(router, body, ct)

		assert.Equal(t, http.StatusCreated, rec.Code)
		cards.AssertExpectations(t)
	})

	t.Run("missing file", func(t *testing.T) {
		router, _, _ := newFlashcardRouter(userID)
		body, ct := newUpload(t, nil, false)

		assert.Equal(t, http.StatusBadRequest, send(router, body, ct).Code)
	})

	t.Run("bad item id", func(t *testing.T) {
		router, _, _ := newFlashcardRouter(userID)
		body, ct := newUpload(t, map[string]string{"learning_item_id": "nope"}, true)

		assert.Equal(t, http.StatusBadRequest, send(router, body, ct).Code)
	})

	t.Run("unreadable workbook", func(t *testing.T) {
		router, cards, _ := newFlashcardRouter(userID)
		cards.On("ImportSpreadsheet", mock.Anything, userID, (*uuid.UUID)(nil), mock.Anything, mock.Anything).
			Return(nil, generation.ErrInvalidSpreadsheet)
		body, ct := newUpload(t, nil, true)

		rec := send(router, body, ct)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid spreadsheet", decodeBody[shared.ErrorResponse](t, rec).Error)
	})
}

func TestGetDueCards(t *testing.T) {
	userID := uuid.New()

	t.Run("lists due cards", func(t *testing.T) {
		router, _, reviews := newFlashcardRouter(userID)
		due := []*domain.Flashcard{sampleCard(t, userID), sampleCard(t, userID)}
		reviews.On("GetDueCards", mock.Anything, userID).Return(due, nil)

		rec := doJSON(t, router, http.MethodGet, "/flashcards/due", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[DueCardsResponse](t, rec)
		assert.Equal(t, 2, resp.Count)
		assert.Equal(t, due[0].ID.String(), resp.Cards[0].ID)
	})

	t.Run("none due is an empty list", func(t *testing.T) {
		router, _, reviews := newFlashcardRouter(userID)
		reviews.On("GetDueCards", mock.Anything, userID).Return([]*domain.Flashcard{}, nil)

		rec := doJSON(t, router, http.MethodGet, "/flashcards/due", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"cards":[],"count":0}`, rec.Body.String())
	})
}

func TestReviewFlashcard(t *testing.T) {
	userID := uuid.New()
	card := sampleCard(t, userID)
	path := "/flashcards/" + card.ID.String() + "/review"

	tests := []struct {
		name           string
		path           string
		body           interface{}
		serviceErr     error
		callsService   bool
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "missing quality",
			path:           path,
			body:           map[string]int{},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid Quality: required field",
		},
		{
			name:           "quality out of range",
			path:           path,
			body:           map[string]int{"quality": 6},
			serviceErr:     srs.ErrInvalidQuality,
			callsService:   true,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Validation error: quality must be between 0 and 5",
		},
		{
			name:           "card not found",
			path:           path,
			body:           map[string]int{"quality": 4},
			serviceErr:     card_review.ErrCardNotFound,
			callsService:   true,
			expectedStatus: http.StatusNotFound,
			expectedError:  "Flashcard not found",
		},
		{
			name:           "card of another user",
			path:           path,
			body:           map[string]int{"quality": 4},
			serviceErr:     card_review.ErrCardNotOwned,
			callsService:   true,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "invalid card id",
			path:           "/flashcards/not-a-uuid/review",
			body:           map[string]int{"quality": 4},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid ID: id has invalid format",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router, _, reviews := newFlashcardRouter(userID)
			if tc.callsService {
				reviews.On("ProcessReview", mock.Anything, userID, card.ID, mock.AnythingOfType("int")).
					Return(nil, tc.serviceErr)
			}

			rec := doJSON(t, router, http.MethodPost, tc.path, tc.body)

			assert.Equal(t, tc.expectedStatus, rec.Code)
			if tc.expectedError != "" {
				assert.Equal(t, tc.expectedError, decodeBody[shared.ErrorResponse](t, rec).Error)
			}
			if !tc.callsService {
				reviews.AssertNumberOfCalls(t, "ProcessReview", 0)
			}
		})
	}

	t.Run("quality zero is accepted", func(t *testing.T) {
		router, _, reviews := newFlashcardRouter(userID)
		next := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)
		reviewed := *card
		reviewed.Interval = 1
		reviewed.NextReviewDate = next
		reviews.On("ProcessReview", mock.Anything, userID, card.ID, 0).
			Return(&card_review.ReviewResult{Card: &reviewed, IntervalDays: 1, NextReviewDate: next}, nil)

		rec := doJSON(t, router, http.MethodPost, path, map[string]int{"quality": 0})

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[ReviewResponse](t, rec)
		assert.Equal(t, 1, resp.IntervalDays)
		assert.True(t, next.Equal(resp.NextReviewDate))
		reviews.AssertExpectations(t)
	})
}

func TestDeleteFlashcard(t *testing.T) {
	userID := uuid.New()
	cardID := uuid.New()

	t.Run("deleted", func(t *testing.T) {
		router, cards, _ := newFlashcardRouter(userID)
		cards.On("DeleteCard", mock.Anything, userID, cardID).Return(nil)

		rec := doJSON(t, router, http.MethodDelete, "/flashcards/"+cardID.String(), nil)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("missing", func(t *testing.T) {
		router, cards, _ := newFlashcardRouter(userID)
		cards.On("DeleteCard", mock.Anything, userID, cardID).Return(service.ErrCardNotFound)

		rec := doJSON(t, router, http.MethodDelete, "/flashcards/"+cardID.String(), nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
