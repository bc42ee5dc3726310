package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"handoverhub/internal/notify"
	"handoverhub/internal/report"
	"handoverhub/internal/repository"
)

// Sweeper periodically rebuilds the attention buckets and notifies the team
// channel about stalled and successor-less handovers.
// The schedule is a standard 5-field cron expression (minute hour day-of-month month day-of-week).
// Examples: "0 9 * * *" (daily 9am), "0 9 * * 1-5" (weekdays 9am).
type Sweeper struct {
	handovers *repository.HandoverRepository
	notifier  notify.Notifier
	schedule  cron.Schedule
	logger    *zap.Logger

	stopCh chan struct{}
}

// NewSweeper parses the cron schedule and builds the sweep worker.
func NewSweeper(
	handovers *repository.HandoverRepository,
	notifier notify.Notifier,
	schedule string,
	logger *zap.Logger,
) (*Sweeper, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		return nil, err
	}
	return &Sweeper{
		handovers: handovers,
		notifier:  notifier,
		schedule:  sched,
		logger:    logger,
		stopCh:    make(chan struct{}),
	}, nil
}

// Name returns the worker name
func (s *Sweeper) Name() string {
	return "stalled-handover-sweeper"
}

// Start launches the sweep loop.
func (s *Sweeper) Start(ctx context.Context) error {
	go s.run(ctx)
	return nil
}

// Stop signals the sweep loop to exit.
func (s *Sweeper) Stop() {
	close(s.stopCh)
}

func (s *Sweeper) run(ctx context.Context) {
	for {
		now := time.Now()
		next := s.schedule.Next(now)
		s.logger.Debug("Next sweep scheduled",
			zap.Time("at", next))

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-timer.C:
			s.Sweep(ctx)
		case <-s.stopCh:
			timer.Stop()
			return
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

// Sweep runs one pass: rebuild the buckets and notify per stalled or
// successor-less handover. Exported so an admin endpoint can trigger it.
func (s *Sweeper) Sweep(ctx context.Context) {
	handovers, err := s.handovers.List()
	if err != nil {
		s.logger.Error("Sweep failed to list handovers", zap.Error(err))
		return
	}

	buckets := report.BuildAttentionBuckets(handovers)
	s.logger.Info("Sweep completed",
		zap.Int("no_successor", len(buckets.NoSuccessor)),
		zap.Int("stalled", len(buckets.Stalled)))

	notified := map[string]bool{}
	for _, h := range append(buckets.NoSuccessor, buckets.Stalled...) {
		if notified[h.ID] {
			continue
		}
		notified[h.ID] = true
		if err := s.notifier.HandoverStalled(ctx, h.ExitingEmployeeName, h.Department, h.Progress); err != nil {
			s.logger.Warn("Sweep notification failed",
				zap.String("handover_id", h.ID),
				zap.Error(err))
		}
	}
}
