// Package score computes the financial health score, the gamified level and
// the achievement list from aggregate figures. Everything here is a pure
// function of its Input.
package score

import (
	"fmt"
	"math"
)

// Input figures are plain numbers; ratios are percentages (20 means 20%).
type Input struct {
	Incomes            float64
	Expenses           float64
	SavingsRate        float64
	TotalContributions float64
	// Goal is the savings target, 0 when none is set.
	Goal             float64
	TransactionCount int
	HasGoal          bool
	MonthlyExpenses  float64
}

type Category struct {
	Name   string `json:"name"`
	Score  int    `json:"score"`
	Weight int    `json:"weight"`
	Icon   string `json:"icon"`
	Tip    string `json:"tip"`
}

type Achievement struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Unlocked    bool    `json:"unlocked"`
	Progress    float64 `json:"progress"`
}

type Score struct {
	Total        int           `json:"total"`
	Grade        string        `json:"grade"`
	Color        string        `json:"color"`
	Breakdown    []Category    `json:"breakdown"`
	Level        int           `json:"level"`
	LevelName    string        `json:"levelName"`
	XP           int           `json:"xp"`
	XPToNext     int           `json:"xpToNext"`
	Achievements []Achievement `json:"achievements"`
}

// band maps a metric to a score: the first threshold the metric satisfies wins.
type band struct {
	threshold float64
	score     int
}

var (
	expenseBands     = []band{{50, 100}, {70, 80}, {85, 60}, {95, 40}} // metric <= threshold
	savingsBands     = []band{{20, 100}, {15, 85}, {10, 65}, {5, 40}}
	emergencyBands   = []band{{6, 100}, {3, 75}, {1, 40}}
	goalBands        = []band{{100, 100}, {50, 70}, {25, 45}}
	consistencyBands = []band{{20, 100}, {10, 70}, {5, 40}}
)

const (
	expenseFloor     = 20
	savingsFloor     = 10
	emergencyFloor   = 10
	goalFloor        = 20
	noGoalScore      = 5
	consistencyFloor = 15
)

func atMost(v float64, bands []band, floor int) int {
	for _, b := range bands {
		if v <= b.threshold {
			return b.score
		}
	}
	return floor
}

func atLeast(v float64, bands []band, floor int) int {
	for _, b := range bands {
		if v >= b.threshold {
			return b.score
		}
	}
	return floor
}

// ratio divides guarding against zero and non-finite results.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	r := num / den
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// ExpenseRatio is expenses as a percentage of incomes. Without incomes every
// expense is uncovered, so the ratio reads as 100.
func ExpenseRatio(incomes, expenses float64) float64 {
	if incomes <= 0 {
		return 100
	}
	return ratio(expenses*100, incomes)
}

// MonthsCovered is how many months of expenses the savings would pay for.
func MonthsCovered(contributions, monthlyExpenses float64) float64 {
	if monthlyExpenses <= 0 {
		return 0
	}
	return ratio(contributions, monthlyExpenses)
}

// GoalProgress is contributions over goal as a percentage, capped at 100.
func GoalProgress(contributions, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	return math.Min(ratio(contributions*100, goal), 100)
}

func Calculate(in Input) Score {
	expenseRatio := ExpenseRatio(in.Incomes, in.Expenses)
	months := MonthsCovered(in.TotalContributions, in.MonthlyExpenses)
	progress := GoalProgress(in.TotalContributions, in.Goal)
	savingsRate := finite(in.SavingsRate)

	breakdown := []Category{
		{
			Name:   "Control de gastos",
			Score:  atMost(expenseRatio, expenseBands, expenseFloor),
			Weight: 25,
			Icon:   "💳",
			Tip:    pick(expenseRatio > 80, "Reduce tus gastos al 80% o menos de tus ingresos", "¡Buen control de gastos!"),
		},
		{
			Name:   "Tasa de ahorro",
			Score:  atLeast(savingsRate, savingsBands, savingsFloor),
			Weight: 30,
			Icon:   "🐷",
			Tip:    pick(savingsRate < 20, "Intenta ahorrar al menos el 20% de tus ingresos", "¡Excelente hábito de ahorro!"),
		},
		{
			Name:   "Fondo de emergencia",
			Score:  atLeast(months, emergencyBands, emergencyFloor),
			Weight: 20,
			Icon:   "🛡️",
			Tip:    pick(months < 3, fmt.Sprintf("Tienes %.1f meses cubiertos. Meta: 3-6 meses", months), "¡Buen colchón de emergencia!"),
		},
		{
			Name:   "Progreso de meta",
			Score:  goalScore(in.HasGoal, progress),
			Weight: 15,
			Icon:   "🎯",
			Tip:    pick(!in.HasGoal, "Establece una meta de ahorro para mejorar tu score", fmt.Sprintf("Llevas %.0f%% de tu meta", progress)),
		},
		{
			Name:   "Consistencia",
			Score:  atLeast(float64(in.TransactionCount), consistencyBands, consistencyFloor),
			Weight: 10,
			Icon:   "📊",
			Tip:    pick(in.TransactionCount < 10, "Registra más movimientos para un análisis preciso", "¡Buen seguimiento!"),
		},
	}

	var weighted float64
	for _, c := range breakdown {
		weighted += float64(c.Score*c.Weight) / 100
	}
	total := int(math.Round(weighted))
	grade, color := Grade(total)

	xp := total*10 + in.TransactionCount*5
	if in.HasGoal {
		xp += 50
	}
	if progress >= 100 {
		xp += 200
	}
	level, name, toNext := LevelFor(xp)

	return Score{
		Total:        total,
		Grade:        grade,
		Color:        color,
		Breakdown:    breakdown,
		Level:        level,
		LevelName:    name,
		XP:           xp,
		XPToNext:     toNext,
		Achievements: achievements(in, savingsRate, months, expenseRatio),
	}
}

func goalScore(hasGoal bool, progress float64) int {
	if !hasGoal {
		return noGoalScore
	}
	return atLeast(progress, goalBands, goalFloor)
}

type gradeBand struct {
	min   int
	grade string
	color string
}

var grades = []gradeBand{
	{90, "A+", "success"},
	{80, "A", "success"},
	{70, "B+", "info"},
	{60, "B", "info"},
	{50, "C", "warning"},
	{40, "D", "warning"},
}

// Grade maps a total score to its letter and severity color.
func Grade(total int) (grade, color string) {
	for _, g := range grades {
		if total >= g.min {
			return g.grade, g.color
		}
	}
	return "F", "destructive"
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
