package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finanzas/internal/core"
	"finanzas/internal/ledger"
)

// ScheduledExecutor fires scheduled actions whose days have come up in the
// current month. The execution log makes repeated runs idempotent.
type ScheduledExecutor struct {
	schedules ledger.ScheduleStore
	writer    ActionWriter
}

func NewScheduledExecutor(schedules ledger.ScheduleStore, writer ActionWriter) *ScheduledExecutor {
	return &ScheduledExecutor{schedules: schedules, writer: writer}
}

// RunPending books every firing due on or before now's day of month and
// returns how many were booked. Failures are logged and skipped.
func (e *ScheduledExecutor) RunPending(ctx context.Context, now time.Time) (int, error) {
	if e.schedules == nil || e.writer == nil {
		return 0, fmt.Errorf("executor not properly initialized")
	}

	actions, err := e.schedules.ListScheduledActions(ctx)
	if err != nil {
		return 0, fmt.Errorf("list scheduled actions: %w", err)
	}

	year, month, today := now.Date()
	slog.InfoContext(ctx, "Processing scheduled actions",
		"total", len(actions),
		"processing_date", now.Format("2006-01-02"))

	executed := 0
	for _, a := range actions {
		if !a.Active {
			continue
		}
		runner, err := GetActionRunner(a.Kind)
		if err != nil {
			slog.ErrorContext(ctx, "No runner for scheduled action", "action_id", a.ID, "kind", a.Kind)
			continue
		}

		for _, d := range a.Days {
			day := core.ClampDay(year, month, d)
			if day > today {
				continue
			}
			if e.fire(ctx, runner, a, year, month, day, now) {
				executed++
			}
		}
	}

	slog.InfoContext(ctx, "Scheduled action processing complete",
		"executed", executed,
		"total_checked", len(actions))
	return executed, nil
}

func (e *ScheduledExecutor) fire(ctx context.Context, runner ActionRunner, a core.ScheduledAction, year int, month time.Month, day int, now time.Time) bool {
	done, err := e.schedules.HasExecuted(ctx, a.ID, year, int(month), day)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to check execution log",
			"action_id", a.ID, "day", day, "error", err)
		return false
	}
	if done {
		return false
	}

	date := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	if err := runner.Run(ctx, e.writer, a, date); err != nil {
		slog.ErrorContext(ctx, "Failed to run scheduled action",
			"action_id", a.ID,
			"name", a.Name,
			"date", date.Format("2006-01-02"),
			"error", err)
		return false
	}

	err = e.schedules.RecordExecution(ctx, core.ScheduledExecution{
		ActionID:   a.ID,
		Year:       year,
		Month:      int(month),
		Day:        day,
		ExecutedAt: now,
	})
	if err != nil {
		// The record is already booked; a missing log entry means it may be booked again.
		slog.ErrorContext(ctx, "Failed to record execution",
			"action_id", a.ID, "day", day, "error", err)
	}

	slog.InfoContext(ctx, "Executed scheduled action",
		"action_id", a.ID,
		"name", a.Name,
		"kind", a.Kind,
		"amount", a.Amount.String(),
		"date", date.Format("2006-01-02"))
	return true
}
