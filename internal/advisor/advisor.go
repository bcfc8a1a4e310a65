// Package advisor prepares the context handed to the AI financial advisor:
// a compact summary of the ledger and the chat messages built from it.
// Talking to the model itself happens elsewhere.
package advisor

import (
	"errors"
	"fmt"
	"strings"
	"text/template"

	"finanzas/internal/core"
)

var ErrNoTransactions = errors.New("at least one income or expense is required")

const (
	TrendSurplus  = "superávit"
	TrendDeficit  = "déficit"
	TrendBalanced = "equilibrio"
)

// FinancialData is the payload shape the advisor endpoint expects.
type FinancialData struct {
	Incomes       float64  `json:"incomes"`
	Expenses      float64  `json:"expenses"`
	SavingsRate   string   `json:"savingsRate"`
	TopCategories string   `json:"topCategories"`
	Goal          *float64 `json:"goal"`
	NetSavings    float64  `json:"netSavings"`
	ExpenseRatio  string   `json:"expenseRatio"`
	MonthlyTrend  string   `json:"monthlyTrend"`
}

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Build summarizes the snapshot. The top five expense categories are listed
// largest first.
func Build(s core.Snapshot) (FinancialData, error) {
	if len(s.Transactions) == 0 {
		return FinancialData{}, ErrNoTransactions
	}
	a := s.Aggregates()
	incomes := a.Incomes.InexactFloat64()
	expenses := a.Expenses.InexactFloat64()

	data := FinancialData{
		Incomes:      incomes,
		Expenses:     expenses,
		SavingsRate:  "0",
		ExpenseRatio: "0",
		NetSavings:   a.NetSavings.InexactFloat64(),
	}
	if incomes > 0 {
		data.SavingsRate = fmt.Sprintf("%.1f", core.SavingsRate(a))
		data.ExpenseRatio = fmt.Sprintf("%.0f", expenses/incomes*100)
	}
	if s.Settings.HasGoal && s.Settings.Goal.IsPositive() {
		g := s.Settings.Goal.InexactFloat64()
		data.Goal = &g
	}

	ranked := core.RankCategories(core.ExpenseByCategory(s.Transactions))
	if len(ranked) > 5 {
		ranked = ranked[:5]
	}
	parts := make([]string, len(ranked))
	for i, c := range ranked {
		parts[i] = c.Name + ": " + core.FormatMoney(c.Amount)
	}
	data.TopCategories = strings.Join(parts, ", ")

	switch a.Incomes.Cmp(a.Expenses) {
	case 1:
		data.MonthlyTrend = TrendSurplus
	case -1:
		data.MonthlyTrend = TrendDeficit
	default:
		data.MonthlyTrend = TrendBalanced
	}
	return data, nil
}

var systemTmpl = template.Must(template.New("system").Funcs(template.FuncMap{
	"money": core.FormatMoney,
	"deref": func(p *float64) float64 { return *p },
}).Parse(`Eres un asesor financiero personal experto y empático. Hablas en español latinoamericano de forma cercana y motivadora.

CONTEXTO DEL USUARIO:
- Ingresos totales: {{money .Incomes}}
- Gastos totales: {{money .Expenses}}
- Ratio gastos/ingresos: {{.ExpenseRatio}}%
- Tasa de ahorro: {{.SavingsRate}}%
- Ahorro neto acumulado: {{money .NetSavings}}
- Meta de ahorro: {{if .Goal}}{{money (deref .Goal)}}{{else}}Sin meta definida{{end}}
- Principales categorías de gasto: {{.TopCategories}}
- Tendencia mensual: {{.MonthlyTrend}}

MÉTODOS FINANCIEROS QUE CONOCES:
1. Regla 50/30/20 (Necesidades/Deseos/Ahorro)
2. Presupuesto Base Cero (cada peso tiene un destino)
3. Sistema de Sobres (asignar efectivo por categoría)
4. Fondo de Emergencia (3-6 meses de gastos)
5. Interés Compuesto (proyecciones de ahorro)
6. Regla de las 24/48 horas (evitar compras impulsivas)

INSTRUCCIONES:
- Analiza los datos financieros del usuario
- Identifica patrones positivos y negativos
- Da recomendaciones concretas basadas en los métodos financieros
- Usa emojis para hacer el mensaje más visual
- Sé específico con números y porcentajes
- Motiva al usuario con logros y mejoras potenciales
- Sugiere acciones concretas que puede tomar hoy
- Limita tu respuesta a máximo 400 palabras
- Estructura tu respuesta con títulos claros usando ##
- No repitas los datos que ya le mostramos, enfócate en el análisis y consejos`))

const userPrompt = "Analiza mi situación financiera y dame consejos personalizados para mejorar mis finanzas. Incluye qué método financiero me conviene más según mi perfil."

// SystemPrompt renders the advisor instructions around data.
func SystemPrompt(data FinancialData) (string, error) {
	var b strings.Builder
	if err := systemTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render advisor prompt: %w", err)
	}
	return b.String(), nil
}

// Messages returns the system and user turns for one advice request.
func Messages(data FinancialData) ([]Message, error) {
	system, err := SystemPrompt(data)
	if err != nil {
		return nil, err
	}
	return []Message{
		{Role: "system", Content: system},
		{Role: "user", Content: userPrompt},
	}, nil
}
