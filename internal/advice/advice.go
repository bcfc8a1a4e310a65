// Package advice turns aggregate figures into ranked, human readable
// recommendations. Two independent generators exist: General covers broad
// spending habits and MethodAware applies named budgeting heuristics. Merge
// combines their output.
package advice

import (
	"sort"

	"finanzas/internal/core"
)

type Kind string

const (
	Warning Kind = "warning"
	Success Kind = "success"
	Tip     Kind = "tip"
	Insight Kind = "insight"
)

// Recommendation is one piece of advice. Lower Priority is shown first.
type Recommendation struct {
	ID          string `json:"id"`
	Type        Kind   `json:"type"`
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	// Method and Actionable are only set by MethodAware.
	Method     string `json:"method,omitempty"`
	Actionable string `json:"actionable,omitempty"`
}

// Input is the shared view both generators read.
type Input struct {
	TransactionCount   int
	Incomes            float64
	Expenses           float64
	TotalContributions float64
	TotalWithdrawals   float64
	// Goal is 0 when no goal is set.
	Goal              float64
	SavingsRate       float64
	MonthlyExpenses   float64
	ExpenseByCategory map[string]float64
}

// NewInput derives the generator input from a ledger snapshot. The whole
// observed period counts as one month of expenses.
func NewInput(s core.Snapshot) Input {
	a := s.Aggregates()
	incomes := a.Incomes.InexactFloat64()
	expenses := a.Expenses.InexactFloat64()
	return Input{
		TransactionCount:   len(s.Transactions),
		Incomes:            incomes,
		Expenses:           expenses,
		TotalContributions: a.TotalContributions.InexactFloat64(),
		TotalWithdrawals:   a.TotalWithdrawals.InexactFloat64(),
		Goal:               s.GoalAmount(),
		SavingsRate:        core.SavingsRate(a),
		MonthlyExpenses:    expenses,
		ExpenseByCategory:  core.ExpenseByCategory(s.Transactions),
	}
}

var (
	needsCategories = []string{"Comida", "Transporte", "Hogar", "Salud", "Servicios", "Educación"}
	wantsCategories = []string{"Entretenimiento", "Ropa", "Viajes"}
)

func sumOf(byCategory map[string]float64, names []string) float64 {
	var s float64
	for _, n := range names {
		s += byCategory[n]
	}
	return s
}

// pct is part/whole as a percentage, 0 when whole is not positive.
func pct(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}

func byPriority(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Priority < recs[j].Priority })
}

// Merge concatenates the lists, orders them by priority and drops repeated
// ids keeping the first one seen. Ties keep concatenation order.
func Merge(lists ...[]Recommendation) []Recommendation {
	var all []Recommendation
	for _, l := range lists {
		all = append(all, l...)
	}
	byPriority(all)

	seen := make(map[string]bool, len(all))
	out := make([]Recommendation, 0, len(all))
	for _, r := range all {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		out = append(out, r)
	}
	return out
}

// All runs both generators over in and merges the result.
func All(in Input) []Recommendation {
	return Merge(General(in), MethodAware(in))
}
