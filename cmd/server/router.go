package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/studyplan-api/internal/api"
	apiMiddleware "github.com/phrazzld/studyplan-api/internal/api/middleware"
)

// setupRouter registers middleware, the public health check and the
// authenticated /api routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace(app.logger))

	flashcardHandler := api.NewFlashcardHandler(app.cardService, app.reviewService, app.logger)
	itemHandler := api.NewItemHandler(app.planner, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Post("/flashcards", flashcardHandler.CreateFlashcard)
		r.Post("/flashcards/generate", flashcardHandler.GenerateFlashcards)
		r.Post("/flashcards/import", flashcardHandler.ImportFlashcards)
		r.Get("/flashcards/due", flashcardHandler.GetDueCards)
		r.Post("/flashcards/{id}/review", flashcardHandler.ReviewFlashcard)
		r.Delete("/flashcards/{id}", flashcardHandler.DeleteFlashcard)

		r.Post("/items", itemHandler.CreateItem)
		r.Get("/items/ranked", itemHandler.GetRankedItems)
		r.Get("/items/{id}/priority", itemHandler.GetItemPriority)
		r.Put("/items/{id}/progress", itemHandler.UpdateProgress)
		r.Post("/items/{id}/feasibility", itemHandler.CheckFeasibility)
		r.Post("/items/{id}/commitments", itemHandler.CreateCommitment)
		r.Get("/items/{id}/commitments", itemHandler.ListCommitments)

		r.Put("/profile", itemHandler.UpsertProfile)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
