package services

import (
	"context"
	"fmt"
	"time"

	"finanzas/internal/core"
)

// ActionWriter is where scheduled actions book their records.
type ActionWriter interface {
	AddTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	AddContribution(ctx context.Context, e core.SavingsEntry) (core.SavingsEntry, error)
}

// ActionRunner books one firing of a scheduled action on date.
type ActionRunner interface {
	Run(ctx context.Context, w ActionWriter, a core.ScheduledAction, date time.Time) error
}

// SavingsRunner turns a firing into a savings contribution.
type SavingsRunner struct{}

func (SavingsRunner) Run(ctx context.Context, w ActionWriter, a core.ScheduledAction, date time.Time) error {
	_, err := w.AddContribution(ctx, core.SavingsEntry{Amount: a.Amount, Date: date})
	return err
}

// DebtRunner turns a firing into an expense in the action's category.
type DebtRunner struct{}

func (DebtRunner) Run(ctx context.Context, w ActionWriter, a core.ScheduledAction, date time.Time) error {
	_, err := w.AddTransaction(ctx, core.Transaction{
		Type:        core.Expense,
		Amount:      a.Amount,
		Category:    a.EffectiveCategory(),
		Description: "Auto: " + a.Name,
		Date:        date,
	})
	return err
}

var actionRunners = map[core.ActionKind]ActionRunner{
	core.ActionSavings: SavingsRunner{},
	core.ActionDebt:    DebtRunner{},
}

// GetActionRunner returns the runner registered for kind.
func GetActionRunner(kind core.ActionKind) (ActionRunner, error) {
	r, ok := actionRunners[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrInvalidActionKind, kind)
	}
	return r, nil
}

// RegisterActionRunner adds or replaces the runner for kind. Not safe for
// concurrent use with GetActionRunner; register at init time.
func RegisterActionRunner(kind core.ActionKind, r ActionRunner) {
	actionRunners[kind] = r
}

var _ ActionWriter = (*LedgerService)(nil)
