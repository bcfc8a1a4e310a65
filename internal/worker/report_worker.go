package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"finanzas/internal/core"
	"finanzas/internal/services"
)

// ReportWorker consumes report requests and recovers reports for months
// whose requests were lost while the worker was down.
type ReportWorker struct {
	source    services.ReportSource
	processor *services.ReportProcessor
	consumer  services.ReportConsumer
}

func NewReportWorker(source services.ReportSource, consumer services.ReportConsumer) *ReportWorker {
	return &ReportWorker{
		source:    source,
		processor: services.NewReportProcessor(source),
		consumer:  consumer,
	}
}

// StartupReportCheck builds every month that has records but no stored
// report, plus the month of now, which may have changed since it was built.
func (w *ReportWorker) StartupReportCheck(ctx context.Context, now time.Time) error {
	snap, err := w.source.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot for startup check: %w", err)
	}
	stored, err := w.source.ListMonthlyReports(ctx)
	if err != nil {
		return fmt.Errorf("list reports for startup check: %w", err)
	}

	pending := MissingMonths(snap, stored, now)
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Rebuilding monthly reports on startup", "count", len(pending))

	built, failed := 0, 0
	for _, m := range pending {
		if _, err := w.processor.Build(ctx, m.Year, int(m.Month)); err != nil {
			slog.ErrorContext(ctx, "Failed to build report during startup",
				"month", core.ReportMonth(m.Year, m.Month), "error", err)
			failed++
			continue
		}
		built++
	}

	slog.InfoContext(ctx, "Startup report check completed",
		"total", len(pending),
		"built", built,
		"errors", failed)
	return nil
}

// Period is one calendar month.
type Period struct {
	Year  int
	Month time.Month
}

// MissingMonths lists, oldest first, the months with records and no stored
// report, always including the month of now.
func MissingMonths(snap core.Snapshot, stored []core.MonthlyReport, now time.Time) []Period {
	have := make(map[string]bool, len(stored))
	for _, r := range stored {
		have[r.Month] = true
	}

	seen := map[Period]bool{{now.Year(), now.Month()}: true}
	add := func(t time.Time) {
		p := Period{t.Year(), t.Month()}
		if !have[core.ReportMonth(p.Year, p.Month)] {
			seen[p] = true
		}
	}
	for _, t := range snap.Transactions {
		add(t.Date)
	}
	for _, c := range snap.Contributions {
		add(c.Date)
	}

	out := make([]Period, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// Run consumes requests until ctx is cancelled.
func (w *ReportWorker) Run(ctx context.Context) error {
	if err := w.processor.Start(ctx, w.consumer); err != nil {
		return err
	}
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return w.processor.Stop(stopCtx)
}
