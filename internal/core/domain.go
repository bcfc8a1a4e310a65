package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	ActionDebt    ActionKind = "debt"
	ActionSavings ActionKind = "savings"
)

const maxDescriptionLen = 200

type (
	TransactionType string

	// ActionKind selects what a scheduled action produces when it fires.
	ActionKind string

	Transaction struct {
		ID          string
		Type        TransactionType
		Amount      decimal.Decimal
		Category    string
		Description string
		Date        time.Time
		// LinkedSavingsID is set on the ledger mirror of a contribution or withdrawal.
		LinkedSavingsID string
	}

	// SavingsEntry is a contribution to or a withdrawal from the savings pot.
	SavingsEntry struct {
		ID     string
		Amount decimal.Decimal
		Date   time.Time
	}

	ExpenseLimit struct {
		Amount decimal.Decimal
		Active bool
	}

	Settings struct {
		Goal         decimal.Decimal
		HasGoal      bool
		ExpenseLimit ExpenseLimit
	}

	ScheduledAction struct {
		ID        string
		Kind      ActionKind
		Name      string
		Amount    decimal.Decimal
		Days      []int
		Category  string
		Active    bool
		CreatedAt time.Time
	}

	// ScheduledExecution records that an action already fired on a given calendar day.
	ScheduledExecution struct {
		ActionID   string
		Day        int
		Month      int
		Year       int
		ExecutedAt time.Time
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidType        = errors.New("invalid transaction type")
	ErrInvalidDate        = errors.New("invalid date")
	ErrEmptyCategory      = errors.New("empty category")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrEmptyName          = errors.New("empty name")
	ErrInvalidDay         = errors.New("invalid day")
	ErrInvalidActionKind  = errors.New("invalid scheduled action kind")
)

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (k ActionKind) Valid() bool {
	return k == ActionDebt || k == ActionSavings
}

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len(t.Description) > maxDescriptionLen {
		return ErrDescriptionTooLong
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (s SavingsEntry) Validate() error {
	if !s.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if s.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (l ExpenseLimit) Validate() error {
	if l.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if l.Active && l.Amount.IsZero() {
		return ErrInvalidAmount
	}
	return nil
}

func (a ScheduledAction) Validate() error {
	if !a.Kind.Valid() {
		return ErrInvalidActionKind
	}
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if !a.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if len(a.Days) == 0 {
		return fmt.Errorf("%w: at least one day is required", ErrInvalidDay)
	}
	seen := make(map[int]bool, len(a.Days))
	for _, d := range a.Days {
		if d < 1 || d > 31 {
			return fmt.Errorf("%w: %d", ErrInvalidDay, d)
		}
		if seen[d] {
			return fmt.Errorf("%w: %d repeated", ErrInvalidDay, d)
		}
		seen[d] = true
	}
	if a.Kind == ActionDebt && strings.TrimSpace(a.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// EffectiveCategory is the expense category the action books into.
func (a ScheduledAction) EffectiveCategory() string {
	if a.Kind == ActionSavings {
		return CategorySavings
	}
	return a.Category
}

// ClampDay maps a configured day onto the given month, so day 31 fires on the
// last day of shorter months.
func ClampDay(year int, month time.Month, day int) int {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		return last
	}
	return day
}
