package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rxtech-lab/argo-charts/internal/logger"
	"go.uber.org/zap"
)

// Scheduler runs the watchlist refresh on a cron expression.
type Scheduler struct {
	cron      *cron.Cron
	refresher *Refresher
	ctx       context.Context
	logger    *logger.Logger
}

// NewScheduler registers the refresh job. Overlapping runs are skipped.
func NewScheduler(ctx context.Context, spec string, refresher *Refresher, log *logger.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		refresher: refresher,
		ctx:       ctx,
		logger:    log,
	}

	if _, err := s.cron.AddFunc(spec, s.RunNow); err != nil {
		return nil, fmt.Errorf("register refresh task: %w", err)
	}

	return s, nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop stops the scheduler and waits for a running refresh.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// RunNow executes the refresh immediately.
func (s *Scheduler) RunNow() {
	if _, err := s.refresher.Run(s.ctx, nil); err != nil {
		s.logger.Error("Scheduled refresh failed", zap.Error(err))
	}
}
