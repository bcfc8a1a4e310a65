package advisor

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finanzas/internal/core"
)

func snapshot() core.Snapshot {
	d := time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC)
	mk := func(typ core.TransactionType, amount int64, cat string) core.Transaction {
		return core.Transaction{Type: typ, Amount: decimal.NewFromInt(amount), Category: cat, Date: d}
	}
	return core.Snapshot{
		Transactions: []core.Transaction{
			mk(core.Income, 3000, "Salario"),
			mk(core.Expense, 700, "Comida"),
			mk(core.Expense, 600, "Hogar"),
			mk(core.Expense, 300, "Transporte"),
			mk(core.Expense, 200, "Ropa"),
			mk(core.Expense, 100, "Viajes"),
			mk(core.Expense, 50, "Otros"),
		},
		Contributions: []core.SavingsEntry{{Amount: decimal.NewFromInt(450), Date: d}},
		Withdrawals:   []core.SavingsEntry{{Amount: decimal.NewFromInt(50), Date: d}},
	}
}

func TestBuildRequiresTransactions(t *testing.T) {
	_, err := Build(core.Snapshot{})
	assert.ErrorIs(t, err, ErrNoTransactions)
}

func TestBuild(t *testing.T) {
	data, err := Build(snapshot())
	require.NoError(t, err)

	assert.Equal(t, 3000.0, data.Incomes)
	assert.Equal(t, 1950.0, data.Expenses)
	assert.Equal(t, "15.0", data.SavingsRate)
	assert.Equal(t, "65", data.ExpenseRatio)
	assert.Equal(t, 400.0, data.NetSavings)
	assert.Nil(t, data.Goal)
	assert.Equal(t, TrendSurplus, data.MonthlyTrend)

	cats := strings.Split(data.TopCategories, ", ")
	require.Len(t, cats, 5)
	assert.True(t, strings.HasPrefix(cats[0], "Comida: $"))
	assert.True(t, strings.HasPrefix(cats[4], "Viajes: $"))
	assert.NotContains(t, data.TopCategories, "Otros")
}

func TestBuildTrendAndGoal(t *testing.T) {
	s := snapshot()
	s.Transactions = s.Transactions[1:]
	s.Settings = core.Settings{Goal: decimal.NewFromInt(10000), HasGoal: true}

	data, err := Build(s)
	require.NoError(t, err)
	assert.Equal(t, TrendDeficit, data.MonthlyTrend)
	assert.Equal(t, "0", data.SavingsRate)
	assert.Equal(t, "0", data.ExpenseRatio)
	require.NotNil(t, data.Goal)
	assert.Equal(t, 10000.0, *data.Goal)
}

func TestSystemPrompt(t *testing.T) {
	data, err := Build(snapshot())
	require.NoError(t, err)

	prompt, err := SystemPrompt(data)
	require.NoError(t, err)
	assert.Contains(t, prompt, "Ratio gastos/ingresos: 65%")
	assert.Contains(t, prompt, "Tasa de ahorro: 15.0%")
	assert.Contains(t, prompt, "Meta de ahorro: Sin meta definida")
	assert.Contains(t, prompt, "Tendencia mensual: superávit")

	goal := 5000.0
	data.Goal = &goal
	prompt, err = SystemPrompt(data)
	require.NoError(t, err)
	assert.NotContains(t, prompt, "Sin meta definida")
	assert.Contains(t, prompt, "Meta de ahorro: $5")

	msgs, err := Messages(data)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, "user", msgs[1].Role)
}
