package service

import (
	"context"
	"log/slog"
	"time"

	"pageturn/internal/modules/pace/domain"
	paceout "pageturn/internal/modules/pace/port/out"
	"pageturn/internal/platform/clock"
)

// SlackEstimator derives the slack factor from recent session history.
// It never fails outward: a history read error logs and yields the
// baseline so a broken store cannot block recommendations.
type SlackEstimator struct {
	clock   clock.Clock
	history paceout.SessionHistory
	tuning  domain.Tuning
}

func NewSlackEstimator(clock clock.Clock, history paceout.SessionHistory, tuning domain.Tuning) *SlackEstimator {
	return &SlackEstimator{clock: clock, history: history, tuning: tuning.Normalize()}
}

func (e *SlackEstimator) Estimate(ctx context.Context, userID string) float64 {
	since := e.clock.Now().Add(-time.Duration(e.tuning.HistoryWindowDays) * 24 * time.Hour)
	samples, err := e.history.Samples(ctx, userID, since)
	if err != nil {
		slog.Warn("session history unavailable, using baseline slack", "user_id", userID, "error", err)
		return e.tuning.BaselineSlack
	}
	return domain.SlackFactor(samples, e.tuning)
}
