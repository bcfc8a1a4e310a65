// Package ledger declares the ports every ledger backend implements. The
// engines only ever read a core.Snapshot; writers keep the savings mirror
// invariant: each contribution owns one "Ahorro" expense and each withdrawal
// owns one "Retiro de ahorro" income, created and deleted together.
package ledger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"finanzas/internal/core"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrReadOnly is returned by backends that cannot be written to.
	ErrReadOnly = errors.New("ledger backend is read-only")
)

// Ports for outbound adapters.
type (
	SnapshotReader interface {
		Snapshot(ctx context.Context) (core.Snapshot, error)
	}

	TransactionWriter interface {
		// AddTransaction stores tx and returns it with its assigned ID.
		AddTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
		// DeleteTransaction also removes the savings entry a mirror transaction belongs to.
		DeleteTransaction(ctx context.Context, id string) error
	}

	SavingsWriter interface {
		AddContribution(ctx context.Context, e core.SavingsEntry) (core.SavingsEntry, error)
		AddWithdrawal(ctx context.Context, e core.SavingsEntry) (core.SavingsEntry, error)
		DeleteContribution(ctx context.Context, id string) error
		DeleteWithdrawal(ctx context.Context, id string) error
	}

	SettingsStore interface {
		SetGoal(ctx context.Context, amount decimal.Decimal) error
		ClearGoal(ctx context.Context) error
		SetExpenseLimit(ctx context.Context, limit core.ExpenseLimit) error
	}

	CategoryStore interface {
		ListCategories(ctx context.Context, kind core.TransactionType) ([]core.CategoryMeta, error)
		AddCategory(ctx context.Context, kind core.TransactionType, meta core.CategoryMeta) error
	}

	ScheduleStore interface {
		ListScheduledActions(ctx context.Context) ([]core.ScheduledAction, error)
		SaveScheduledAction(ctx context.Context, a core.ScheduledAction) (core.ScheduledAction, error)
		DeleteScheduledAction(ctx context.Context, id string) error
		HasExecuted(ctx context.Context, actionID string, year, month, day int) (bool, error)
		RecordExecution(ctx context.Context, e core.ScheduledExecution) error
	}

	ReportStore interface {
		SaveMonthlyReport(ctx context.Context, r core.MonthlyReport) error
		ListMonthlyReports(ctx context.Context) ([]core.MonthlyReport, error)
	}

	// Resetter wipes user data and restores default settings and categories.
	Resetter interface {
		Reset(ctx context.Context) error
	}

	// Store is the full ledger surface a backend exposes.
	Store interface {
		SnapshotReader
		TransactionWriter
		SavingsWriter
		SettingsStore
		CategoryStore
		ScheduleStore
		ReportStore
		Resetter
	}
)
