package core

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyReport freezes one calendar month of activity.
type MonthlyReport struct {
	Month             string // YYYY-MM
	Incomes           decimal.Decimal
	Expenses          decimal.Decimal
	Contributions     decimal.Decimal
	Goal              decimal.Decimal
	HasGoal           bool
	ExpenseByCategory map[string]float64
	CreatedAt         time.Time
}

func ReportMonth(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// BuildMonthlyReport aggregates the records dated inside year/month.
func BuildMonthlyReport(s Snapshot, year int, month time.Month, now time.Time) MonthlyReport {
	in := func(t time.Time) bool {
		y, m, _ := t.Date()
		return y == year && m == month
	}

	var txs []Transaction
	for _, t := range s.Transactions {
		if in(t.Date) {
			txs = append(txs, t)
		}
	}
	var contributions []SavingsEntry
	for _, c := range s.Contributions {
		if in(c.Date) {
			contributions = append(contributions, c)
		}
	}

	a := Aggregate(txs, contributions, nil)
	return MonthlyReport{
		Month:             ReportMonth(year, month),
		Incomes:           a.Incomes,
		Expenses:          a.Expenses,
		Contributions:     a.TotalContributions,
		Goal:              s.Settings.Goal,
		HasGoal:           s.Settings.HasGoal,
		ExpenseByCategory: ExpenseByCategory(txs),
		CreatedAt:         now,
	}
}
