package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Aggregates are the running totals derived from the full record set.
type Aggregates struct {
	Incomes            decimal.Decimal
	Expenses           decimal.Decimal
	TotalContributions decimal.Decimal
	TotalWithdrawals   decimal.Decimal
	// NetSavings is contributions minus withdrawals and may be negative.
	NetSavings decimal.Decimal
	// Available is incomes minus expenses and may be negative.
	Available decimal.Decimal
}

// Snapshot is everything the engines need about one ledger at a point in time.
type Snapshot struct {
	Transactions  []Transaction
	Contributions []SavingsEntry
	Withdrawals   []SavingsEntry
	Settings      Settings
}

// CategoryTotal is an amount aggregated by category name.
type CategoryTotal struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// Aggregate sums the records. Empty input yields the zero Aggregates.
func Aggregate(txs []Transaction, contributions, withdrawals []SavingsEntry) Aggregates {
	var a Aggregates
	for _, t := range txs {
		switch t.Type {
		case Income:
			a.Incomes = a.Incomes.Add(t.Amount)
		case Expense:
			a.Expenses = a.Expenses.Add(t.Amount)
		}
	}
	for _, c := range contributions {
		a.TotalContributions = a.TotalContributions.Add(c.Amount)
	}
	for _, w := range withdrawals {
		a.TotalWithdrawals = a.TotalWithdrawals.Add(w.Amount)
	}
	a.NetSavings = a.TotalContributions.Sub(a.TotalWithdrawals)
	a.Available = a.Incomes.Sub(a.Expenses)
	return a
}

// ExpenseByCategory sums expense transactions per category.
func ExpenseByCategory(txs []Transaction) map[string]float64 {
	out := make(map[string]float64)
	for _, t := range txs {
		if t.Type != Expense {
			continue
		}
		out[t.Category] += t.Amount.InexactFloat64()
	}
	return out
}

// RankCategories orders totals by amount, largest first. Ties sort by name so
// the result is stable across calls. Names in exclude are skipped.
func RankCategories(byCategory map[string]float64, exclude ...string) []CategoryTotal {
	skip := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		skip[e] = true
	}
	out := make([]CategoryTotal, 0, len(byCategory))
	for name, amount := range byCategory {
		if skip[name] {
			continue
		}
		out = append(out, CategoryTotal{Name: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (s Snapshot) Aggregates() Aggregates {
	return Aggregate(s.Transactions, s.Contributions, s.Withdrawals)
}

// SavingsRate is contributions as a percentage of incomes, 0 without incomes.
func (s Snapshot) SavingsRate() float64 {
	a := s.Aggregates()
	return SavingsRate(a)
}

func SavingsRate(a Aggregates) float64 {
	if !a.Incomes.IsPositive() {
		return 0
	}
	return a.TotalContributions.Div(a.Incomes).InexactFloat64() * 100
}

// GoalAmount returns the goal as float64, 0 when no goal is set.
func (s Snapshot) GoalAmount() float64 {
	if !s.Settings.HasGoal {
		return 0
	}
	return s.Settings.Goal.InexactFloat64()
}

// WeeklySummary covers the current calendar week, Monday 00:00 up to now.
type WeeklySummary struct {
	From        time.Time       `json:"from"`
	To          time.Time       `json:"to"`
	Incomes     decimal.Decimal `json:"incomes"`
	Expenses    decimal.Decimal `json:"expenses"`
	Balance     decimal.Decimal `json:"balance"`
	TopCategory string          `json:"topCategory,omitempty"`
	TopAmount   decimal.Decimal `json:"topAmount"`
	Count       int             `json:"count"`
}

// StartOfWeek returns Monday 00:00 of the week containing t, in t's location.
func StartOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}

func Weekly(txs []Transaction, now time.Time) WeeklySummary {
	w := WeeklySummary{From: StartOfWeek(now), To: now}
	byCategory := make(map[string]decimal.Decimal)
	for _, t := range txs {
		if t.Date.Before(w.From) || t.Date.After(now) {
			continue
		}
		w.Count++
		switch t.Type {
		case Income:
			w.Incomes = w.Incomes.Add(t.Amount)
		case Expense:
			w.Expenses = w.Expenses.Add(t.Amount)
			byCategory[t.Category] = byCategory[t.Category].Add(t.Amount)
		}
	}
	for name, amount := range byCategory {
		if amount.GreaterThan(w.TopAmount) || (amount.Equal(w.TopAmount) && name < w.TopCategory) {
			w.TopCategory, w.TopAmount = name, amount
		}
	}
	w.Balance = w.Incomes.Sub(w.Expenses)
	return w
}

// LimitStatus compares total expenses against the configured expense limit.
type LimitStatus struct {
	Active     bool            `json:"active"`
	Limit      decimal.Decimal `json:"limit"`
	Spent      decimal.Decimal `json:"spent"`
	Percentage float64         `json:"percentage"`
	Exceeded   bool            `json:"exceeded"`
}

func (s Snapshot) LimitStatus() LimitStatus {
	spent := s.Aggregates().Expenses
	st := LimitStatus{
		Active: s.Settings.ExpenseLimit.Active,
		Limit:  s.Settings.ExpenseLimit.Amount,
		Spent:  spent,
	}
	if !st.Active || !st.Limit.IsPositive() {
		return st
	}
	st.Percentage = spent.Div(st.Limit).InexactFloat64() * 100
	st.Exceeded = spent.GreaterThan(st.Limit)
	return st
}
