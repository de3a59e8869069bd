package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/studyplan-api/internal/config"
	"github.com/phrazzld/studyplan-api/internal/domain/srs"
	"github.com/phrazzld/studyplan-api/internal/platform/postgres"
	"github.com/phrazzld/studyplan-api/internal/service"
	"github.com/phrazzld/studyplan-api/internal/service/auth"
	"github.com/phrazzld/studyplan-api/internal/service/card_review"
	"github.com/phrazzld/studyplan-api/internal/service/planner"
	"github.com/phrazzld/studyplan-api/internal/store"
)

// application holds the wired dependencies shared by the server and the
// CLI subcommands.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	cardService   service.CardService
	reviewService card_review.CardReviewService
	planner       planner.PlannerService
	jwtService    auth.JWTService
}

// newApplication builds the stores and services on top of an open pool.
func newApplication(cfg *config.Config, log *slog.Logger, db *sql.DB) (*application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if log == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if db == nil {
		return nil, fmt.Errorf("database cannot be nil")
	}

	flashcards := postgres.NewPostgresFlashcardStore(db, log)
	items := postgres.NewPostgresLearningItemStore(db, log)
	profiles := postgres.NewPostgresUserProfileStore(db, log)
	commitments := postgres.NewPostgresCommitmentStore(db, log)

	srsService := srs.NewServiceWithParams(srs.NewParams(srs.ParamsConfig{
		DefaultEasinessFactor: cfg.SRS.DefaultEasinessFactor,
		MinEasinessFactor:     cfg.SRS.MinEasinessFactor,
	}))

	cardService, err := service.NewCardService(flashcards, items, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create card service: %w", err)
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create jwt service: %w", err)
	}

	return &application{
		config:        cfg,
		logger:        log,
		db:            db,
		cardService:   cardService,
		reviewService: card_review.NewCardReviewService(flashcards, srsService, log),
		planner: planner.NewPlannerService(
			items,
			profiles,
			commitments,
			store.DBTransactor{DB: db},
			planner.Config{
				MaxActiveItems: cfg.Planner.MaxActiveItems,
				BufferRatio:    cfg.Planner.BufferRatio,
			},
			log,
		),
		jwtService: jwtService,
	}, nil
}

// cleanup releases the database pool.
func (app *application) cleanup() {
	if app.db == nil {
		return
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database connection", slog.Any("error", err))
	}
}
