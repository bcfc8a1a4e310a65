// Package export is the JSON shape of ledger records, shared by the HTTP API
// and the offline snapshot files the CLI reads.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"finanzas/internal/core"
)

// DateLayout is how dates travel in JSON.
const DateLayout = "2006-01-02"

type (
	Transaction struct {
		ID              string          `json:"id,omitempty"`
		Type            string          `json:"type"`
		Amount          decimal.Decimal `json:"amount"`
		Category        string          `json:"category"`
		Description     string          `json:"description,omitempty"`
		Date            string          `json:"date"`
		LinkedSavingsID string          `json:"linkedSavingsId,omitempty"`
	}

	SavingsEntry struct {
		ID     string          `json:"id,omitempty"`
		Amount decimal.Decimal `json:"amount"`
		Date   string          `json:"date"`
	}

	ExpenseLimit struct {
		Amount decimal.Decimal `json:"amount"`
		Active bool            `json:"active"`
	}

	Settings struct {
		Goal         *decimal.Decimal `json:"goal,omitempty"`
		ExpenseLimit *ExpenseLimit    `json:"expenseLimit,omitempty"`
	}

	Snapshot struct {
		Transactions  []Transaction  `json:"transactions"`
		Contributions []SavingsEntry `json:"contributions"`
		Withdrawals   []SavingsEntry `json:"withdrawals"`
		Settings      Settings       `json:"settings"`
	}

	ScheduledAction struct {
		ID        string          `json:"id"`
		Kind      string          `json:"kind"`
		Name      string          `json:"name"`
		Amount    decimal.Decimal `json:"amount"`
		Days      []int           `json:"days"`
		Category  string          `json:"category"`
		Active    bool            `json:"active"`
		CreatedAt time.Time       `json:"createdAt"`
	}

	MonthlyReport struct {
		Month             string             `json:"month"`
		Incomes           decimal.Decimal    `json:"incomes"`
		Expenses          decimal.Decimal    `json:"expenses"`
		Contributions     decimal.Decimal    `json:"contributions"`
		Goal              *decimal.Decimal   `json:"goal,omitempty"`
		ExpenseByCategory map[string]float64 `json:"expenseByCategory"`
		CreatedAt         time.Time          `json:"createdAt"`
	}

	Category struct {
		Name string `json:"name"`
		Icon string `json:"icon,omitempty"`
	}
)

func FromTransaction(t core.Transaction) Transaction {
	return Transaction{
		ID:              t.ID,
		Type:            string(t.Type),
		Amount:          t.Amount,
		Category:        t.Category,
		Description:     t.Description,
		Date:            t.Date.Format(DateLayout),
		LinkedSavingsID: t.LinkedSavingsID,
	}
}

func FromTransactions(in []core.Transaction) []Transaction {
	out := make([]Transaction, len(in))
	for i, t := range in {
		out[i] = FromTransaction(t)
	}
	return out
}

func FromSavingsEntry(e core.SavingsEntry) SavingsEntry {
	return SavingsEntry{ID: e.ID, Amount: e.Amount, Date: e.Date.Format(DateLayout)}
}

func fromSavings(in []core.SavingsEntry) []SavingsEntry {
	out := make([]SavingsEntry, len(in))
	for i, e := range in {
		out[i] = FromSavingsEntry(e)
	}
	return out
}

func FromScheduledAction(a core.ScheduledAction) ScheduledAction {
	return ScheduledAction{
		ID:        a.ID,
		Kind:      string(a.Kind),
		Name:      a.Name,
		Amount:    a.Amount,
		Days:      append([]int{}, a.Days...),
		Category:  a.EffectiveCategory(),
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
	}
}

func FromScheduledActions(in []core.ScheduledAction) []ScheduledAction {
	out := make([]ScheduledAction, len(in))
	for i, a := range in {
		out[i] = FromScheduledAction(a)
	}
	return out
}

func FromMonthlyReports(in []core.MonthlyReport) []MonthlyReport {
	out := make([]MonthlyReport, len(in))
	for i, r := range in {
		out[i] = FromMonthlyReport(r)
	}
	return out
}

func FromMonthlyReport(r core.MonthlyReport) MonthlyReport {
	out := MonthlyReport{
		Month:             r.Month,
		Incomes:           r.Incomes,
		Expenses:          r.Expenses,
		Contributions:     r.Contributions,
		ExpenseByCategory: r.ExpenseByCategory,
		CreatedAt:         r.CreatedAt,
	}
	if out.ExpenseByCategory == nil {
		out.ExpenseByCategory = map[string]float64{}
	}
	if r.HasGoal {
		g := r.Goal
		out.Goal = &g
	}
	return out
}

func FromCategories(in []core.CategoryMeta) []Category {
	out := make([]Category, len(in))
	for i, c := range in {
		out[i] = Category{Name: c.Name, Icon: c.Icon}
	}
	return out
}

func FromSnapshot(s core.Snapshot) Snapshot {
	out := Snapshot{
		Transactions:  FromTransactions(s.Transactions),
		Contributions: fromSavings(s.Contributions),
		Withdrawals:   fromSavings(s.Withdrawals),
	}
	if s.Settings.HasGoal {
		g := s.Settings.Goal
		out.Settings.Goal = &g
	}
	if l := s.Settings.ExpenseLimit; l.Active || l.Amount.IsPositive() {
		out.Settings.ExpenseLimit = &ExpenseLimit{Amount: l.Amount, Active: l.Active}
	}
	return out
}

// ParseDate reads a DateLayout date; an empty string is ErrInvalidDate.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", core.ErrInvalidDate, s)
	}
	return t, nil
}

func (t Transaction) ToCore() (core.Transaction, error) {
	date, err := ParseDate(t.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	tx := core.Transaction{
		ID:              t.ID,
		Type:            core.TransactionType(t.Type),
		Amount:          t.Amount,
		Category:        t.Category,
		Description:     t.Description,
		Date:            date,
		LinkedSavingsID: t.LinkedSavingsID,
	}
	return tx, tx.Validate()
}

func (e SavingsEntry) ToCore() (core.SavingsEntry, error) {
	date, err := ParseDate(e.Date)
	if err != nil {
		return core.SavingsEntry{}, err
	}
	entry := core.SavingsEntry{ID: e.ID, Amount: e.Amount, Date: date}
	return entry, entry.Validate()
}

// ToCore validates every record and reports the first bad one by position.
func (s Snapshot) ToCore() (core.Snapshot, error) {
	var out core.Snapshot
	for i, t := range s.Transactions {
		tx, err := t.ToCore()
		if err != nil {
			return core.Snapshot{}, fmt.Errorf("transaction %d: %w", i, err)
		}
		out.Transactions = append(out.Transactions, tx)
	}
	for i, c := range s.Contributions {
		e, err := c.ToCore()
		if err != nil {
			return core.Snapshot{}, fmt.Errorf("contribution %d: %w", i, err)
		}
		out.Contributions = append(out.Contributions, e)
	}
	for i, w := range s.Withdrawals {
		e, err := w.ToCore()
		if err != nil {
			return core.Snapshot{}, fmt.Errorf("withdrawal %d: %w", i, err)
		}
		out.Withdrawals = append(out.Withdrawals, e)
	}
	if g := s.Settings.Goal; g != nil && g.IsPositive() {
		out.Settings.Goal = *g
		out.Settings.HasGoal = true
	}
	if l := s.Settings.ExpenseLimit; l != nil {
		limit := core.ExpenseLimit{Amount: l.Amount, Active: l.Active}
		if err := limit.Validate(); err != nil {
			return core.Snapshot{}, fmt.Errorf("expense limit: %w", err)
		}
		out.Settings.ExpenseLimit = limit
	}
	return out, nil
}

// ReadSnapshot decodes and validates one JSON snapshot document.
func ReadSnapshot(r io.Reader) (core.Snapshot, error) {
	var s Snapshot
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return core.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s.ToCore()
}

func WriteSnapshot(w io.Writer, s core.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(FromSnapshot(s))
}
