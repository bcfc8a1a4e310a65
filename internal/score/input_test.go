package score

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"finanzas/internal/core"
)

func TestNewInputFromSnapshot(t *testing.T) {
	d := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	s := core.Snapshot{
		Transactions: []core.Transaction{
			{Type: core.Income, Amount: decimal.NewFromInt(2000), Category: "Salario", Date: d},
			{Type: core.Expense, Amount: decimal.NewFromInt(500), Category: "Comida", Date: d},
			{Type: core.Expense, Amount: decimal.NewFromInt(400), Category: core.CategorySavings, Date: d, LinkedSavingsID: "c1"},
		},
		Contributions: []core.SavingsEntry{{ID: "c1", Amount: decimal.NewFromInt(400), Date: d}},
		Settings:      core.Settings{Goal: decimal.NewFromInt(4000), HasGoal: true},
	}

	in := NewInput(s)
	assert.Equal(t, 2000.0, in.Incomes)
	assert.Equal(t, 900.0, in.Expenses)
	assert.Equal(t, 900.0, in.MonthlyExpenses)
	assert.InDelta(t, 20.0, in.SavingsRate, 1e-9)
	assert.Equal(t, 4000.0, in.Goal)
	assert.True(t, in.HasGoal)
	assert.Equal(t, 3, in.TransactionCount)
}
