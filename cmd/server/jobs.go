package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/phrazzld/studyplan-api/internal/config"
	"github.com/phrazzld/studyplan-api/internal/platform/logger"
	"github.com/phrazzld/studyplan-api/internal/redact"
	"github.com/phrazzld/studyplan-api/internal/service/planner"
)

// refreshJobTimeout bounds a single pass over all users.
const refreshJobTimeout = 5 * time.Minute

// newJobScheduler registers the priority refresh job. It returns nil when the
// job is disabled. Runs never overlap.
func newJobScheduler(
	ctx context.Context,
	plannerService planner.PlannerService,
	cfg config.JobsConfig,
	log *slog.Logger,
) (*gocron.Scheduler, error) {
	if cfg.PriorityRefreshMinutes <= 0 {
		log.Info("priority refresh job disabled")
		return nil, nil
	}

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	_, err := s.Every(cfg.PriorityRefreshMinutes).
		Minutes().
		Tag("priority_refresh").
		Do(refreshPriorities(ctx, plannerService, log))
	if err != nil {
		return nil, fmt.Errorf("failed to schedule priority refresh: %w", err)
	}

	log.Info("priority refresh job scheduled",
		slog.Int("interval_minutes", cfg.PriorityRefreshMinutes))
	return s, nil
}

// refreshPriorities returns the job body: one RefreshAllScores pass bounded
// by refreshJobTimeout. Failures are logged; the next tick retries.
func refreshPriorities(
	ctx context.Context,
	plannerService planner.PlannerService,
	log *slog.Logger,
) func() {
	jobLog := log.With(slog.String("job", "priority_refresh"))

	return func() {
		if ctx.Err() != nil {
			return
		}

		runCtx, cancel := context.WithTimeout(logger.WithLogger(ctx, jobLog), refreshJobTimeout)
		defer cancel()

		start := time.Now()
		users, err := plannerService.RefreshAllScores(runCtx)
		if err != nil {
			jobLog.Error("priority refresh failed",
				slog.Int("users_refreshed", users),
				slog.String("error", redact.Error(err)))
			return
		}

		jobLog.Info("priority refresh completed",
			slog.Int("users_refreshed", users),
			slog.Duration("duration", time.Since(start)))
	}
}
