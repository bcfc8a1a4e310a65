package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"finanzas/internal/amqp"
	"finanzas/internal/core"
	"finanzas/internal/ledger"
)

// ReportSource is what the processor needs from a ledger.
type ReportSource interface {
	ledger.SnapshotReader
	ledger.ReportStore
}

// ReportConsumer delivers report requests until ctx is cancelled.
type ReportConsumer interface {
	ConsumeReportRequests(ctx context.Context, handler func(context.Context, *amqp.ReportRequestMessage) error) error
}

// ReportProcessor builds monthly reports from a fresh snapshot and stores them.
type ReportProcessor struct {
	source ReportSource
	now    func() time.Time

	// Lifecycle management
	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	doneCh  chan struct{}
}

func NewReportProcessor(source ReportSource) *ReportProcessor {
	return &ReportProcessor{source: source, now: time.Now}
}

// Build regenerates the report for year/month, replacing any stored one.
func (p *ReportProcessor) Build(ctx context.Context, year, month int) (core.MonthlyReport, error) {
	if err := amqp.NewReportRequestMessage(year, month).Validate(); err != nil {
		return core.MonthlyReport{}, err
	}
	snap, err := p.source.Snapshot(ctx)
	if err != nil {
		return core.MonthlyReport{}, fmt.Errorf("load snapshot: %w", err)
	}
	rep := core.BuildMonthlyReport(snap, year, time.Month(month), p.now().UTC())
	if err := p.source.SaveMonthlyReport(ctx, rep); err != nil {
		return core.MonthlyReport{}, fmt.Errorf("save report: %w", err)
	}

	slog.InfoContext(ctx, "Monthly report built",
		"month", rep.Month,
		"incomes", rep.Incomes.String(),
		"expenses", rep.Expenses.String())
	return rep, nil
}

// Handle is the AMQP delivery handler.
func (p *ReportProcessor) Handle(ctx context.Context, msg *amqp.ReportRequestMessage) error {
	_, err := p.Build(ctx, msg.Year, msg.Month)
	return err
}

// Start consumes report requests in the background. Returns an error if already running.
func (p *ReportProcessor) Start(ctx context.Context, consumer ReportConsumer) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("report processor is already running")
	}
	runCtx, cancel := context.WithCancel(ctx)
	p.running = true
	p.cancel = cancel
	p.doneCh = make(chan struct{})
	p.mu.Unlock()

	go func() {
		defer close(p.doneCh)
		if err := consumer.ConsumeReportRequests(runCtx, p.Handle); err != nil && runCtx.Err() == nil {
			slog.ErrorContext(runCtx, "Report consumer stopped", "error", err)
		}
	}()

	slog.InfoContext(ctx, "Report processor started")
	return nil
}

// Stop cancels consumption and waits for the consumer to return.
func (p *ReportProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	cancel, done := p.cancel, p.doneCh
	p.mu.Unlock()

	cancel()

	select {
	case <-done:
		slog.InfoContext(ctx, "Report processor stopped gracefully")
	case <-ctx.Done():
		slog.WarnContext(ctx, "Report processor stop timed out")
		return ctx.Err()
	}

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()
	return nil
}

func (p *ReportProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
