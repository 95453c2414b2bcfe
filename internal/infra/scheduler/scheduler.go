package scheduler

import (
	"context"
	"time"

	"subscription_tracker_bot/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const sweepTimeout = 1 * time.Minute

// SweepScheduler drives the reminder sweep: once immediately on Start, then
// on a fixed cron schedule (hourly by default).
type SweepScheduler struct {
	cronEngine *cron.Cron
	reminders  app.ReminderService
	logger     *logrus.Entry
	cronSpec   string
}

func NewSweepScheduler(
	reminders app.ReminderService,
	logger *logrus.Entry,
	cronSpec string, // e.g. "0 * * * *" (top of every hour)
) *SweepScheduler {
	return &SweepScheduler{
		cronEngine: cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		reminders:  reminders,
		logger:     logger,
		cronSpec:   cronSpec,
	}
}

func (s *SweepScheduler) Start() {
	s.logger.Info("Starting reminder sweep scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		s.logger.Debug("Cron job triggered for reminder sweep.")
		s.runSweep()
	})
	if err != nil {
		s.logger.Fatalf("FATAL: Could not add reminder sweep cron job: %v", err)
	}

	// Session start counts as a sweep too, so reminders that became due
	// while the process was down fire right away.
	s.runSweep()

	s.cronEngine.Start()
	s.logger.Infof("Reminder sweep scheduler started (spec: %s).", s.cronSpec)
}

func (s *SweepScheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()
	if err := s.reminders.Sweep(ctx); err != nil {
		s.logger.WithError(err).Error("Error during reminder sweep")
	}
}

func (s *SweepScheduler) Stop() {
	s.logger.Info("Stopping reminder sweep scheduler...")
	ctx := s.cronEngine.Stop() // Stops scheduling new runs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Info("Reminder sweep scheduler gracefully stopped.")
}
