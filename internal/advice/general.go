package advice

import (
	"fmt"

	"finanzas/internal/core"
)

// General produces habit level advice. With no transactions it returns only
// the start-tracking tip.
func General(in Input) []Recommendation {
	if in.TransactionCount == 0 {
		return []Recommendation{{
			ID:          "no-data",
			Type:        Tip,
			Icon:        "📝",
			Title:       "¡Empieza a registrar!",
			Description: "Registra tus primeros ingresos y gastos para recibir recomendaciones personalizadas sobre cómo administrar tu dinero.",
			Priority:    0,
		}}
	}

	var recs []Recommendation
	byCat := in.ExpenseByCategory

	if in.Incomes > 0 {
		needsPct := pct(sumOf(byCat, needsCategories), in.Incomes)
		wantsPct := pct(sumOf(byCat, wantsCategories), in.Incomes)
		savingsPct := pct(in.TotalContributions, in.Incomes)

		verdict := "✅ Tus necesidades están dentro del rango."
		if needsPct > 50 {
			verdict = "⚠️ Tus gastos en necesidades superan el 50% recomendado."
		}
		recs = append(recs, Recommendation{
			ID:    "rule-502030",
			Type:  Insight,
			Icon:  "📊",
			Title: "Regla 50/30/20",
			Description: fmt.Sprintf("Necesidades: %.0f%% (recomendado ≤50%%) · Deseos: %.0f%% (recomendado ≤30%%) · Ahorro: %.0f%% (recomendado ≥20%%). %s",
				needsPct, wantsPct, savingsPct, verdict),
			Priority: 1,
		})

		expenseRatio := pct(in.Expenses, in.Incomes)
		switch {
		case expenseRatio > 90:
			recs = append(recs, Recommendation{
				ID:          "high-expenses",
				Type:        Warning,
				Icon:        "🚨",
				Title:       "Gastos muy altos",
				Description: fmt.Sprintf("Estás gastando el %.0f%% de tus ingresos. Intenta mantener tus gastos por debajo del 80%% para tener un colchón financiero.", expenseRatio),
				Priority:    2,
			})
		case expenseRatio < 60:
			recs = append(recs, Recommendation{
				ID:          "great-balance",
				Type:        Success,
				Icon:        "🌟",
				Title:       "¡Excelente balance!",
				Description: fmt.Sprintf("Solo gastas el %.0f%% de tus ingresos. Tienes un buen margen para ahorrar e invertir.", expenseRatio),
				Priority:    5,
			})
		}

		switch {
		case savingsPct < 10:
			recs = append(recs, Recommendation{
				ID:          "low-savings",
				Type:        Warning,
				Icon:        "🐷",
				Title:       "Ahorro bajo",
				Description: fmt.Sprintf("Solo ahorras el %.0f%% de tus ingresos. La recomendación es ahorrar mínimo un 20%%. Intenta apartar un monto fijo cada mes antes de gastar.", savingsPct),
				Priority:    3,
			})
		case savingsPct >= 20:
			recs = append(recs, Recommendation{
				ID:          "good-savings",
				Type:        Success,
				Icon:        "💪",
				Title:       "¡Buen hábito de ahorro!",
				Description: fmt.Sprintf("Ahorras el %.0f%% de tus ingresos, cumpliendo la meta del 20%%. ¡Sigue así!", savingsPct),
				Priority:    6,
			})
		}

		if ranked := core.RankCategories(byCat, core.CategorySavings); len(ranked) > 0 {
			top := ranked[0]
			share := pct(top.Amount, in.Expenses)
			note := "Parece un porcentaje razonable."
			if share > 40 {
				note = "Considera diversificar tus gastos o buscar alternativas más económicas."
			}
			recs = append(recs, Recommendation{
				ID:          "top-category",
				Type:        Insight,
				Icon:        "🔍",
				Title:       "Mayor gasto: " + top.Name,
				Description: fmt.Sprintf("El %.0f%% de tus gastos van a %s (%s). %s", share, top.Name, core.FormatMoney(top.Amount), note),
				Priority:    4,
			})
		}
	}

	recs = append(recs, goalAdvice(in))

	if in.Incomes > 0 {
		if ent := byCat["Entretenimiento"]; ent > 0 {
			if p := pct(ent, in.Incomes); p > 15 {
				recs = append(recs, Recommendation{
					ID:          "entertainment-high",
					Type:        Tip,
					Icon:        "🎬",
					Title:       "Entretenimiento elevado",
					Description: fmt.Sprintf("Gastas %.0f%% en entretenimiento. Busca alternativas gratuitas o con descuento para reducir este gasto sin sacrificar diversión.", p),
					Priority:    4,
				})
			}
		}
		if food := byCat["Comida"]; food > 0 {
			if p := pct(food, in.Incomes); p > 30 {
				recs = append(recs, Recommendation{
					ID:          "food-high",
					Type:        Tip,
					Icon:        "🍽️",
					Title:       "Gasto en comida alto",
					Description: fmt.Sprintf("El %.0f%% de tus ingresos va a comida. Planifica tus comidas semanalmente y cocina en casa para reducir este gasto.", p),
					Priority:    3,
				})
			}
		}
	}

	byPriority(recs)
	return recs
}

func goalAdvice(in Input) Recommendation {
	if in.Goal <= 0 {
		return Recommendation{
			ID:          "no-goal",
			Type:        Tip,
			Icon:        "🎯",
			Title:       "Establece una meta de ahorro",
			Description: "Tener una meta concreta te ayuda a mantener la disciplina. Ve a la sección de Ahorro y define cuánto quieres ahorrar.",
			Priority:    5,
		}
	}

	progress := pct(in.TotalContributions, in.Goal)
	switch {
	case progress >= 100:
		return Recommendation{
			ID:          "goal-reached",
			Type:        Success,
			Icon:        "🎉",
			Title:       "¡Meta alcanzada!",
			Description: fmt.Sprintf("Has alcanzado el %.0f%% de tu meta de ahorro. ¡Felicidades! Considera establecer una nueva meta más ambiciosa.", progress),
			Priority:    0,
		}
	case progress >= 50:
		return Recommendation{
			ID:          "goal-halfway",
			Type:        Tip,
			Icon:        "🏃",
			Title:       "Vas por buen camino",
			Description: fmt.Sprintf("Llevas el %.0f%% de tu meta. ¡No te detengas! Faltan %s para llegar.", progress, core.FormatMoney(in.Goal-in.TotalContributions)),
			Priority:    4,
		}
	default:
		return Recommendation{
			ID:    "goal-push",
			Type:  Tip,
			Icon:  "🎯",
			Title: "Impulsa tu meta",
			Description: fmt.Sprintf("Llevas solo el %.0f%% de tu meta (%s de %s). Intenta aumentar tus aportes mensuales.",
				progress, core.FormatMoney(in.TotalContributions), core.FormatMoney(in.Goal)),
			Priority: 3,
		}
	}
}
