package scheduler

import (
	"context"
	"errors"
	"fmt"

	"GoalSentinel/internal/analyzer"
	"GoalSentinel/internal/model"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler fires the nightly batch sweep and exposes the synchronous
// manual trigger. Both paths share the analyzer's sweep guard.
type Scheduler struct {
	cron     *cron.Cron
	analyzer *analyzer.Analyzer
	log      *logrus.Logger
	ctx      context.Context
}

func New(ctx context.Context, a *analyzer.Analyzer, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		analyzer: a,
		log:      log,
		ctx:      ctx,
	}
}

// RegisterDaily registers the nightly sweep at the given cron spec.
func (s *Scheduler) RegisterDaily(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.nightlySweep); err != nil {
		return fmt.Errorf("register nightly sweep: %w", err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info("scheduler stopped")
}

// RunNow triggers a sweep immediately and returns its summary.
func (s *Scheduler) RunNow(ctx context.Context) (*model.RunSummary, error) {
	return s.analyzer.Run(ctx)
}

func (s *Scheduler) nightlySweep() {
	s.log.Info("nightly sweep triggered")
	summary, err := s.analyzer.Run(s.ctx)
	if err != nil {
		if errors.Is(err, analyzer.ErrSweepInProgress) {
			s.log.Warn("nightly sweep skipped, previous sweep still running")
			return
		}
		s.log.WithError(err).Error("nightly sweep failed")
		return
	}
	s.log.WithFields(logrus.Fields{
		"run_id":   summary.RunID,
		"analyzed": summary.UsersAnalyzed,
		"failed":   len(summary.FailedUsers),
	}).Info("nightly sweep completed")
}
