package advice

import (
	"fmt"
	"math"

	"finanzas/internal/core"
)

const (
	methodRule503020   = "Regla 50/30/20"
	methodZeroBased    = "Presupuesto Base Cero"
	methodEmergency    = "Fondo de Emergencia"
	methodImpulse      = "Regla 24/48 horas"
	methodCompound     = "Interés Compuesto"
	methodEnvelope     = "Sistema de Sobres"
	projectedAnnualPct = 8.0
	projectionMonths   = 12
)

// heuristic inspects the input and emits at most one recommendation.
type heuristic func(Input) (Recommendation, bool)

var heuristics = []heuristic{
	needsOverHalf,
	wantsOverThirty,
	unassignedMoney,
	emergencyFund,
	impulseControl,
	compoundProjection,
	envelopeCap,
}

// MethodAware evaluates every budgeting heuristic independently. It returns
// nothing when there are no transactions.
func MethodAware(in Input) []Recommendation {
	if in.TransactionCount == 0 {
		return nil
	}
	var recs []Recommendation
	for _, h := range heuristics {
		if r, ok := h(in); ok {
			recs = append(recs, r)
		}
	}
	byPriority(recs)
	return recs
}

func needsOverHalf(in Input) (Recommendation, bool) {
	if in.Incomes <= 0 {
		return Recommendation{}, false
	}
	needs := sumOf(in.ExpenseByCategory, needsCategories)
	p := pct(needs, in.Incomes)
	if p <= 50 {
		return Recommendation{}, false
	}
	return Recommendation{
		ID:          "503020-needs",
		Method:      methodRule503020,
		Icon:        "📊",
		Title:       "Necesidades por encima del 50%",
		Description: fmt.Sprintf("Tus necesidades representan el %.0f%%. Deberían ser máximo 50%%.", p),
		Type:        Warning,
		Priority:    1,
		Actionable:  fmt.Sprintf("Reduce %s en necesidades. Revisa servicios y transporte.", core.FormatMoney(needs-in.Incomes*0.5)),
	}, true
}

func wantsOverThirty(in Input) (Recommendation, bool) {
	if in.Incomes <= 0 {
		return Recommendation{}, false
	}
	wants := sumOf(in.ExpenseByCategory, wantsCategories)
	p := pct(wants, in.Incomes)
	if p <= 30 {
		return Recommendation{}, false
	}
	return Recommendation{
		ID:          "503020-wants",
		Method:      methodRule503020,
		Icon:        "🎭",
		Title:       "Deseos por encima del 30%",
		Description: fmt.Sprintf("Tus deseos representan el %.0f%%. Deberían ser máximo 30%%.", p),
		Type:        Warning,
		Priority:    2,
		Actionable:  fmt.Sprintf("Reduce %s en entretenimiento, ropa o viajes.", core.FormatMoney(wants-in.Incomes*0.3)),
	}, true
}

func unassignedMoney(in Input) (Recommendation, bool) {
	if in.Incomes <= 0 {
		return Recommendation{}, false
	}
	unassigned := in.Incomes - in.Expenses - in.TotalContributions
	if unassigned <= in.Incomes*0.1 {
		return Recommendation{}, false
	}
	return Recommendation{
		ID:          "zero-budget",
		Method:      methodZeroBased,
		Icon:        "📋",
		Title:       "Dinero sin asignar",
		Description: fmt.Sprintf("Tienes %s sin destino claro. En el presupuesto base cero, cada peso debe tener un propósito.", core.FormatMoney(unassigned)),
		Type:        Tip,
		Priority:    3,
		Actionable:  "Asigna ese dinero a ahorro, inversión o un fondo de emergencia.",
	}, true
}

// emergencyFund fires exactly one of three tiers whenever expenses exist.
func emergencyFund(in Input) (Recommendation, bool) {
	if in.MonthlyExpenses <= 0 {
		return Recommendation{}, false
	}
	months := in.TotalContributions / in.MonthlyExpenses
	missing := in.MonthlyExpenses*3 - in.TotalContributions

	switch {
	case months < 1:
		return Recommendation{
			ID:          "emergency-critical",
			Method:      methodEmergency,
			Icon:        "🚨",
			Title:       "Sin fondo de emergencia",
			Description: fmt.Sprintf("Solo cubres %.0f días de gastos. Lo recomendado es 3-6 meses.", months*30),
			Type:        Warning,
			Priority:    1,
			Actionable:  fmt.Sprintf("Ahorra %s para cubrir 3 meses.", core.FormatMoney(missing)),
		}, true
	case months < 3:
		return Recommendation{
			ID:          "emergency-building",
			Method:      methodEmergency,
			Icon:        "🛡️",
			Title:       "Fondo en construcción",
			Description: fmt.Sprintf("Cubres %.1f meses de gastos. Faltan %.1f meses más.", months, 3-months),
			Type:        Tip,
			Priority:    3,
			Actionable:  fmt.Sprintf("Aporta %s mensuales para alcanzar 3 meses en 6 meses.", core.FormatMoney(missing/6)),
		}, true
	default:
		action := "Considera invertir el excedente."
		if months < 6 {
			action = "Sigue hasta 6 meses para máxima seguridad."
		}
		return Recommendation{
			ID:          "emergency-solid",
			Method:      methodEmergency,
			Icon:        "✅",
			Title:       "Fondo de emergencia sólido",
			Description: fmt.Sprintf("Cubres %.1f meses de gastos. ¡Excelente protección!", months),
			Type:        Success,
			Priority:    7,
			Actionable:  action,
		}, true
	}
}

func impulseControl(in Input) (Recommendation, bool) {
	if in.Incomes <= 0 {
		return Recommendation{}, false
	}
	present := false
	for _, c := range wantsCategories {
		if _, ok := in.ExpenseByCategory[c]; ok {
			present = true
			break
		}
	}
	wants := sumOf(in.ExpenseByCategory, wantsCategories)
	if !present || wants <= in.Incomes*0.35 {
		return Recommendation{}, false
	}
	return Recommendation{
		ID:          "impulse-control",
		Method:      methodImpulse,
		Icon:        "⏰",
		Title:       "Posibles compras impulsivas",
		Description: fmt.Sprintf("Tus gastos en deseos son altos (%.0f%%). Antes de comprar algo no esencial, espera 24-48 horas.", pct(wants, in.Incomes)),
		Type:        Tip,
		Priority:    3,
		Actionable:  "Antes de cada compra no esencial, pregúntate: ¿Lo necesito o lo quiero? Espera 24h antes de decidir.",
	}, true
}

// ProjectSavings is the value after months of monthly compounding at
// annualPct, starting from principal and adding monthly at each month end.
func ProjectSavings(principal, monthly, annualPct float64, months int) float64 {
	r := annualPct / 100 / 12
	if r == 0 {
		return principal + monthly*float64(months)
	}
	growth := math.Pow(1+r, float64(months))
	return principal*growth + monthly*(growth-1)/r
}

func compoundProjection(in Input) (Recommendation, bool) {
	if in.TotalContributions <= 0 || in.SavingsRate <= 0 {
		return Recommendation{}, false
	}
	monthly := in.Incomes * in.SavingsRate / 100
	future := ProjectSavings(in.TotalContributions, monthly, projectedAnnualPct, projectionMonths)
	return Recommendation{
		ID:          "compound-interest",
		Method:      methodCompound,
		Icon:        "📈",
		Title:       "Proyección a 1 año",
		Description: fmt.Sprintf("Si mantienes tu ritmo actual de ahorro, en 12 meses podrías tener ~%s (estimando 8%% anual).", core.FormatMoney(future)),
		Type:        Insight,
		Priority:    5,
		Actionable:  fmt.Sprintf("Aumenta tu ahorro mensual en un 10%% (%s) para acelerar tus resultados.", core.FormatMoney(monthly*0.1)),
	}, true
}

func envelopeCap(in Input) (Recommendation, bool) {
	if in.Incomes <= 0 || len(in.ExpenseByCategory) < 3 {
		return Recommendation{}, false
	}
	ranked := core.RankCategories(in.ExpenseByCategory, core.CategorySavings)
	if len(ranked) == 0 {
		return Recommendation{}, false
	}
	top := ranked[0]
	share := pct(top.Amount, in.Expenses)
	if share <= 35 {
		return Recommendation{}, false
	}
	return Recommendation{
		ID:          "envelope-system",
		Method:      methodEnvelope,
		Icon:        "✉️",
		Title:       "Controla tu gasto en " + top.Name,
		Description: fmt.Sprintf("%s representa el %.0f%% de tus gastos. Asigna un \"sobre\" con límite fijo.", top.Name, share),
		Type:        Tip,
		Priority:    4,
		Actionable:  fmt.Sprintf("Asigna máximo %s mensuales para %s y no lo excedas.", core.FormatMoney(top.Amount*0.8), top.Name),
	}, true
}
