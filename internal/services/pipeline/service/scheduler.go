package service

import (
	"context"
	"sync/atomic"
	"time"

	"fxradar/internal/platform/logger"
)

// DefaultInterval is the cadence between cycle starts
const DefaultInterval = 60 * time.Second

// Scheduler drives the coordinator on a fixed cadence. Ticks that arrive
// while a cycle is still running are dropped, never queued, so cycles can
// not overlap
type Scheduler struct {
	svc      *Service
	interval time.Duration
	log      logger.Logger
	busy     atomic.Bool
}

// NewScheduler constructs a scheduler over the coordinator
func NewScheduler(svc *Service, interval time.Duration, log logger.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{svc: svc, interval: interval, log: log}
}

// Run blocks until ctx is cancelled, firing one cycle immediately and then
// one per interval
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info().Dur("interval", s.interval).Msg("scheduler started")
	s.tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if !s.busy.CompareAndSwap(false, true) {
		s.log.Warn().Msg("previous cycle still running, tick skipped")
		return
	}
	defer s.busy.Store(false)

	if _, err := s.svc.RunCycle(ctx); err != nil {
		s.log.Error().Err(err).Msg("cycle failed")
	}
}
