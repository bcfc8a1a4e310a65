package score

import "math"

// progressOf is actual/threshold as a percentage clamped to [0,100].
func progressOf(actual, threshold float64) float64 {
	return clampPct(ratio(actual*100, threshold))
}

func clampPct(v float64) float64 {
	return math.Max(0, math.Min(v, 100))
}

func achievements(in Input, savingsRate, months, expenseRatio float64) []Achievement {
	tx := float64(in.TransactionCount)

	budgetProgress := 0.0
	if in.Incomes > 0 {
		budgetProgress = clampPct((100 - expenseRatio) / 30 * 100)
	}
	firstSaving := 0.0
	if in.TotalContributions > 0 {
		firstSaving = 100
	}

	return []Achievement{
		{
			ID: "first-step", Name: "Primer Paso", Icon: "👣",
			Description: "Registra tu primera transacción",
			Unlocked:    in.TransactionCount >= 1,
			Progress:    progressOf(tx, 1),
		},
		{
			ID: "tracker", Name: "Rastreador", Icon: "📝",
			Description: "Registra 10 transacciones",
			Unlocked:    in.TransactionCount >= 10,
			Progress:    progressOf(tx, 10),
		},
		{
			ID: "disciplined", Name: "Disciplinado", Icon: "🏆",
			Description: "Registra 50 transacciones",
			Unlocked:    in.TransactionCount >= 50,
			Progress:    progressOf(tx, 50),
		},
		{
			ID: "saver-20", Name: "Ahorrador Estrella", Icon: "⭐",
			Description: "Alcanza una tasa de ahorro del 20%",
			Unlocked:    savingsRate >= 20,
			Progress:    progressOf(savingsRate, 20),
		},
		{
			ID: "emergency-fund", Name: "Fondo de Emergencia", Icon: "🛡️",
			Description: "Ahorra 3 meses de gastos",
			Unlocked:    months >= 3,
			Progress:    progressOf(months, 3),
		},
		{
			ID: "goal-reached", Name: "Meta Cumplida", Icon: "🎯",
			Description: "Alcanza tu meta de ahorro",
			Unlocked:    in.Goal > 0 && in.TotalContributions >= in.Goal,
			Progress:    GoalProgress(in.TotalContributions, in.Goal),
		},
		{
			ID: "budget-master", Name: "Maestro del Presupuesto", Icon: "💪",
			Description: "Mantén gastos bajo el 70% de ingresos",
			Unlocked:    in.Incomes > 0 && expenseRatio <= 70,
			Progress:    budgetProgress,
		},
		{
			ID: "first-saving", Name: "Primera Semilla", Icon: "🌱",
			Description: "Haz tu primer aporte al ahorro",
			Unlocked:    in.TotalContributions > 0,
			Progress:    firstSaving,
		},
	}
}
