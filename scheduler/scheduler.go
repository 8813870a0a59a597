// Package scheduler periodically regrades the prediction leaderboard
// so the cached snapshot and live subscribers stay fresh without a
// request having to pay for the recompute.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/fairwaycup/matchplay/services"
)

const refreshTimeout = 30 * time.Second

type Scheduler struct {
	c           *cron.Cron
	predictions services.PredictionService
	logger      *slog.Logger
}

// New wires the leaderboard refresh job. spec is a standard 5-field
// cron expression, run in server local time.
func New(spec string, predictions services.PredictionService, logger *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		c:           cron.New(),
		predictions: predictions,
		logger:      logger,
	}
	_, err := s.c.AddFunc(spec, s.refresh)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	snap, err := s.predictions.Refresh(ctx)
	if err != nil {
		s.logger.Error("scheduled leaderboard refresh failed", slog.Any("error", err))
		return
	}
	s.logger.Info("leaderboard snapshot refreshed",
		slog.Int("entries", len(snap.Rows)),
		slog.Bool("graded", snap.Graded))
}

func (s *Scheduler) Start() {
	s.c.Start()
}

// Stop halts scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.c.Stop()
	<-ctx.Done()
}
