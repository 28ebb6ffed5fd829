package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// PassFunc runs one full aggregation pass.
type PassFunc func(ctx context.Context) error

// Scheduler owns the daemon loop: one immediate pass, then one per tick.
// Passes never overlap; the seen store is not safe for concurrent passes.
type Scheduler struct {
	pass     PassFunc
	interval time.Duration
	logger   *slog.Logger
}

// NewScheduler creates a scheduler that runs pass at the given interval.
func NewScheduler(pass PassFunc, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		pass:     pass,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the loop. Pass errors are logged, not fatal. Returns nil when
// ctx is cancelled (graceful shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler", "interval", s.interval.String())

	s.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-time.After(s.interval):
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := s.pass(ctx); err != nil {
		s.logger.Error("pass failed", "error", err)
	}
}
