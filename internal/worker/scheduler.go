package worker

import (
	"context"
	"log/slog"
	"time"
)

// PendingRunner books due scheduled actions.
type PendingRunner interface {
	RunPending(ctx context.Context, now time.Time) (int, error)
}

// Scheduler runs the executor once at startup and then on every tick.
type Scheduler struct {
	runner   PendingRunner
	interval time.Duration
	now      func() time.Time
}

func NewScheduler(runner PendingRunner, interval time.Duration) *Scheduler {
	return &Scheduler{runner: runner, interval: interval, now: time.Now}
}

func (s *Scheduler) RunOnce(ctx context.Context) {
	now := s.now()
	count, err := s.runner.RunPending(ctx, now)
	if err != nil {
		slog.ErrorContext(ctx, "Scheduled action processing failed", "error", err)
		return
	}
	slog.InfoContext(ctx, "Scheduled action processing complete",
		"executed", count,
		"next_check", now.Add(s.interval).Format("15:04:05"))
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}
