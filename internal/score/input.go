package score

import "finanzas/internal/core"

// NewInput derives the scorer input from a ledger snapshot. The whole observed
// period counts as one month of expenses.
func NewInput(s core.Snapshot) Input {
	a := s.Aggregates()
	expenses := a.Expenses.InexactFloat64()
	return Input{
		Incomes:            a.Incomes.InexactFloat64(),
		Expenses:           expenses,
		SavingsRate:        core.SavingsRate(a),
		TotalContributions: a.TotalContributions.InexactFloat64(),
		Goal:               s.GoalAmount(),
		TransactionCount:   len(s.Transactions),
		HasGoal:            s.Settings.HasGoal,
		MonthlyExpenses:    expenses,
	}
}
