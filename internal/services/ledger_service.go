package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"finanzas/internal/amqp"
	"finanzas/internal/core"
	"finanzas/internal/ledger"
)

// ReportPublisher queues a monthly report rebuild.
type ReportPublisher interface {
	PublishReportRequest(ctx context.Context, year, month int) error
}

// LedgerService orchestrates writes through a ledger backend and keeps the
// monthly reports fresh, either through AMQP or inline.
type LedgerService struct {
	store     ledger.Store
	publisher ReportPublisher
	reports   *ReportProcessor
	now       func() time.Time
}

// NewLedgerService wires a store and an optional publisher. Pass a nil
// interface, not a typed nil pointer, when no broker is configured.
func NewLedgerService(store ledger.Store, publisher ReportPublisher) *LedgerService {
	return &LedgerService{
		store:     store,
		publisher: publisher,
		reports:   NewReportProcessor(store),
		now:       time.Now,
	}
}

// Store exposes the underlying backend for read-side services.
func (s *LedgerService) Store() ledger.Store {
	return s.store
}

func (s *LedgerService) Reports() *ReportProcessor {
	return s.reports
}

func (s *LedgerService) AddTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	saved, err := s.store.AddTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}
	s.RequestReport(ctx, saved.Date)
	return saved, nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	date := s.lookupDate(ctx, func(snap core.Snapshot) (time.Time, bool) {
		for _, t := range snap.Transactions {
			if t.ID == id {
				return t.Date, true
			}
		}
		return time.Time{}, false
	})
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.RequestReport(ctx, date)
	return nil
}

func (s *LedgerService) AddContribution(ctx context.Context, e core.SavingsEntry) (core.SavingsEntry, error) {
	saved, err := s.store.AddContribution(ctx, e)
	if err != nil {
		return core.SavingsEntry{}, fmt.Errorf("add contribution: %w", err)
	}
	s.RequestReport(ctx, saved.Date)
	return saved, nil
}

func (s *LedgerService) AddWithdrawal(ctx context.Context, e core.SavingsEntry) (core.SavingsEntry, error) {
	saved, err := s.store.AddWithdrawal(ctx, e)
	if err != nil {
		return core.SavingsEntry{}, fmt.Errorf("add withdrawal: %w", err)
	}
	s.RequestReport(ctx, saved.Date)
	return saved, nil
}

func (s *LedgerService) DeleteContribution(ctx context.Context, id string) error {
	date := s.lookupDate(ctx, savingsDate(id, func(snap core.Snapshot) []core.SavingsEntry { return snap.Contributions }))
	if err := s.store.DeleteContribution(ctx, id); err != nil {
		return fmt.Errorf("delete contribution: %w", err)
	}
	s.RequestReport(ctx, date)
	return nil
}

func (s *LedgerService) DeleteWithdrawal(ctx context.Context, id string) error {
	date := s.lookupDate(ctx, savingsDate(id, func(snap core.Snapshot) []core.SavingsEntry { return snap.Withdrawals }))
	if err := s.store.DeleteWithdrawal(ctx, id); err != nil {
		return fmt.Errorf("delete withdrawal: %w", err)
	}
	s.RequestReport(ctx, date)
	return nil
}

func savingsDate(id string, pick func(core.Snapshot) []core.SavingsEntry) func(core.Snapshot) (time.Time, bool) {
	return func(snap core.Snapshot) (time.Time, bool) {
		for _, e := range pick(snap) {
			if e.ID == id {
				return e.Date, true
			}
		}
		return time.Time{}, false
	}
}

// lookupDate finds the date of a record about to be deleted so the right
// month gets rebuilt. It falls back to the current month.
func (s *LedgerService) lookupDate(ctx context.Context, find func(core.Snapshot) (time.Time, bool)) time.Time {
	snap, err := s.store.Snapshot(ctx)
	if err == nil {
		if d, ok := find(snap); ok {
			return d
		}
	}
	return s.now()
}

func (s *LedgerService) SetGoal(ctx context.Context, amount decimal.Decimal) error {
	if err := s.store.SetGoal(ctx, amount); err != nil {
		return fmt.Errorf("set goal: %w", err)
	}
	s.RequestReport(ctx, s.now())
	return nil
}

func (s *LedgerService) ClearGoal(ctx context.Context) error {
	if err := s.store.ClearGoal(ctx); err != nil {
		return fmt.Errorf("clear goal: %w", err)
	}
	s.RequestReport(ctx, s.now())
	return nil
}

func (s *LedgerService) SetExpenseLimit(ctx context.Context, limit core.ExpenseLimit) error {
	if err := s.store.SetExpenseLimit(ctx, limit); err != nil {
		return fmt.Errorf("set expense limit: %w", err)
	}
	return nil
}

func (s *LedgerService) ListCategories(ctx context.Context, kind core.TransactionType) ([]core.CategoryMeta, error) {
	return s.store.ListCategories(ctx, kind)
}

func (s *LedgerService) AddCategory(ctx context.Context, kind core.TransactionType, meta core.CategoryMeta) error {
	if err := s.store.AddCategory(ctx, kind, meta); err != nil {
		return fmt.Errorf("add category: %w", err)
	}
	return nil
}

func (s *LedgerService) ListScheduledActions(ctx context.Context) ([]core.ScheduledAction, error) {
	return s.store.ListScheduledActions(ctx)
}

func (s *LedgerService) SaveScheduledAction(ctx context.Context, a core.ScheduledAction) (core.ScheduledAction, error) {
	saved, err := s.store.SaveScheduledAction(ctx, a)
	if err != nil {
		return core.ScheduledAction{}, fmt.Errorf("save scheduled action: %w", err)
	}
	return saved, nil
}

func (s *LedgerService) DeleteScheduledAction(ctx context.Context, id string) error {
	if err := s.store.DeleteScheduledAction(ctx, id); err != nil {
		return fmt.Errorf("delete scheduled action: %w", err)
	}
	return nil
}

func (s *LedgerService) ListMonthlyReports(ctx context.Context) ([]core.MonthlyReport, error) {
	return s.store.ListMonthlyReports(ctx)
}

// Reset wipes the ledger. No report is requested afterwards.
func (s *LedgerService) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset ledger: %w", err)
	}
	return nil
}

// RequestReport asks for the month containing date to be rebuilt. Failures
// never fail the write that triggered them.
func (s *LedgerService) RequestReport(ctx context.Context, date time.Time) {
	if _, err := s.EnqueueReport(ctx, date.Year(), int(date.Month())); err != nil {
		slog.ErrorContext(ctx, "Failed to refresh monthly report",
			"year", date.Year(),
			"month", int(date.Month()),
			"error", err)
	}
}

// EnqueueReport publishes a report request and builds the report inline when
// no broker is available. queued reports which path was taken.
func (s *LedgerService) EnqueueReport(ctx context.Context, year, month int) (queued bool, err error) {
	if err := amqp.NewReportRequestMessage(year, month).Validate(); err != nil {
		return false, err
	}
	if s.publisher != nil {
		err := s.publisher.PublishReportRequest(ctx, year, month)
		if err == nil {
			return true, nil
		}
		slog.WarnContext(ctx, "Failed to publish report request, building inline",
			"year", year, "month", month, "error", err)
	}
	if _, err := s.reports.Build(ctx, year, month); err != nil {
		return false, err
	}
	return false, nil
}

// Close closes the store and the publisher when they hold resources.
func (s *LedgerService) Close() error {
	var errs []error

	if c, ok := s.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %w", errors.Join(errs...))
	}
	return nil
}
