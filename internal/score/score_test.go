package score

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func achievement(t *testing.T, s Score, id string) Achievement {
	t.Helper()
	for _, a := range s.Achievements {
		if a.ID == id {
			return a
		}
	}
	t.Fatalf("achievement %q not found", id)
	return Achievement{}
}

func TestCalculateEmptyInput(t *testing.T) {
	s := Calculate(Input{})

	require.Len(t, s.Breakdown, 5)
	scores := []int{s.Breakdown[0].Score, s.Breakdown[1].Score, s.Breakdown[2].Score, s.Breakdown[3].Score, s.Breakdown[4].Score}
	assert.Equal(t, []int{20, 10, 10, 5, 15}, scores)
	assert.Equal(t, 12, s.Total)
	assert.Equal(t, "F", s.Grade)
	assert.Equal(t, "destructive", s.Color)
	assert.Equal(t, 120, s.XP)
	assert.Equal(t, 2, s.Level)
	assert.Equal(t, "Aprendiz", s.LevelName)
	assert.Equal(t, 180, s.XPToNext)

	require.Len(t, s.Achievements, 8)
	for _, a := range s.Achievements {
		assert.False(t, a.Unlocked, a.ID)
		assert.False(t, math.IsNaN(a.Progress), a.ID)
		assert.Zero(t, a.Progress, a.ID)
	}
}

func TestCalculatePerfectProfile(t *testing.T) {
	s := Calculate(Input{
		Incomes:            1000,
		Expenses:           400,
		SavingsRate:        25,
		TotalContributions: 6000,
		Goal:               5000,
		HasGoal:            true,
		TransactionCount:   25,
		MonthlyExpenses:    1000,
	})

	assert.Equal(t, 100, s.Total)
	assert.Equal(t, "A+", s.Grade)
	assert.Equal(t, 1375, s.XP)
	assert.Equal(t, 5, s.Level)
	assert.Equal(t, "Estratega", s.LevelName)
	assert.Equal(t, 125, s.XPToNext)

	unlocked := map[string]bool{}
	for _, a := range s.Achievements {
		unlocked[a.ID] = a.Unlocked
	}
	assert.Equal(t, map[string]bool{
		"first-step": true, "tracker": true, "disciplined": false, "saver-20": true,
		"emergency-fund": true, "goal-reached": true, "budget-master": true, "first-saving": true,
	}, unlocked)
	assert.InDelta(t, 50.0, achievement(t, s, "disciplined").Progress, 1e-9)
}

func TestExpenseBands(t *testing.T) {
	cases := []struct {
		expenses float64
		want     int
	}{
		{0, 100}, {50, 100}, {50.01, 80}, {70, 80}, {85, 60}, {95, 40}, {95.5, 20}, {300, 20},
	}
	for _, tc := range cases {
		s := Calculate(Input{Incomes: 100, Expenses: tc.expenses})
		assert.Equalf(t, tc.want, s.Breakdown[0].Score, "expenses=%v", tc.expenses)
	}
}

func TestEmergencyAndConsistencyBands(t *testing.T) {
	emergency := []struct {
		contributions float64
		want          int
	}{
		{0, 10}, {999, 10}, {1000, 40}, {3000, 75}, {6000, 100},
	}
	for _, tc := range emergency {
		s := Calculate(Input{TotalContributions: tc.contributions, MonthlyExpenses: 1000})
		assert.Equalf(t, tc.want, s.Breakdown[2].Score, "contributions=%v", tc.contributions)
	}

	consistency := []struct {
		count int
		want  int
	}{
		{0, 15}, {4, 15}, {5, 40}, {10, 70}, {19, 70}, {20, 100},
	}
	for _, tc := range consistency {
		s := Calculate(Input{TransactionCount: tc.count})
		assert.Equalf(t, tc.want, s.Breakdown[4].Score, "count=%d", tc.count)
	}
}

func TestGoalBands(t *testing.T) {
	cases := []struct {
		contributions float64
		hasGoal       bool
		want          int
	}{
		{0, false, 5},
		{5000, false, 5},
		{0, true, 20},
		{250, true, 45},
		{500, true, 70},
		{1000, true, 100},
		{2000, true, 100},
	}
	for _, tc := range cases {
		s := Calculate(Input{TotalContributions: tc.contributions, Goal: 1000, HasGoal: tc.hasGoal})
		assert.Equalf(t, tc.want, s.Breakdown[3].Score, "contributions=%v hasGoal=%v", tc.contributions, tc.hasGoal)
	}
}

func TestSavingsScoreIsMonotonic(t *testing.T) {
	prev := -1
	for rate := -5.0; rate <= 60; rate += 0.25 {
		got := Calculate(Input{Incomes: 1000, SavingsRate: rate}).Breakdown[1].Score
		require.GreaterOrEqualf(t, got, prev, "savings score decreased at rate %v", rate)
		prev = got
	}
}

func TestNoNaNOnDegenerateInput(t *testing.T) {
	inputs := []Input{
		{},
		{Expenses: 500},
		{TotalContributions: 100},
		{SavingsRate: math.NaN()},
		{SavingsRate: math.Inf(1), Goal: 0, HasGoal: true},
		{Incomes: 100, Expenses: 1e9, MonthlyExpenses: 0},
	}
	for i, in := range inputs {
		s := Calculate(in)
		assert.GreaterOrEqualf(t, s.Total, 0, "case %d", i)
		assert.LessOrEqualf(t, s.Total, 100, "case %d", i)
		for _, a := range s.Achievements {
			assert.Falsef(t, math.IsNaN(a.Progress) || math.IsInf(a.Progress, 0), "case %d %s", i, a.ID)
			assert.GreaterOrEqual(t, a.Progress, 0.0)
			assert.LessOrEqual(t, a.Progress, 100.0)
		}
	}
}

func TestGoalReachedUnlock(t *testing.T) {
	cases := []struct {
		goal, contributions float64
		want                bool
	}{
		{0, 0, false},
		{0, 500, false},
		{1000, 999, false},
		{1000, 1000, true},
		{1000, 1500, true},
	}
	for _, tc := range cases {
		s := Calculate(Input{Goal: tc.goal, HasGoal: tc.goal > 0, TotalContributions: tc.contributions})
		assert.Equalf(t, tc.want, achievement(t, s, "goal-reached").Unlocked, "goal=%v contributions=%v", tc.goal, tc.contributions)
	}
}

func TestBudgetMasterProgressClamped(t *testing.T) {
	over := Calculate(Input{Incomes: 100, Expenses: 200})
	assert.Zero(t, achievement(t, over, "budget-master").Progress)

	under := Calculate(Input{Incomes: 100, Expenses: 10})
	bm := achievement(t, under, "budget-master")
	assert.True(t, bm.Unlocked)
	assert.Equal(t, 100.0, bm.Progress)
}

func TestGrade(t *testing.T) {
	cases := []struct {
		total        int
		grade, color string
	}{
		{100, "A+", "success"}, {90, "A+", "success"}, {89, "A", "success"},
		{80, "A", "success"}, {79, "B+", "info"}, {60, "B", "info"},
		{50, "C", "warning"}, {40, "D", "warning"}, {39, "F", "destructive"}, {0, "F", "destructive"},
	}
	for _, tc := range cases {
		g, c := Grade(tc.total)
		assert.Equal(t, tc.grade, g, tc.total)
		assert.Equal(t, tc.color, c, tc.total)
	}
}

func TestLevelFor(t *testing.T) {
	cases := []struct {
		xp, level, toNext int
		name              string
	}{
		{0, 1, 100, "Principiante"},
		{99, 1, 1, "Principiante"},
		{100, 2, 200, "Aprendiz"},
		{2999, 7, 1, "Maestro"},
		{3000, 8, 0, "Gurú Financiero"},
		{9000, 8, 0, "Gurú Financiero"},
	}
	for _, tc := range cases {
		lvl, name, toNext := LevelFor(tc.xp)
		assert.Equal(t, tc.level, lvl, tc.xp)
		assert.Equal(t, tc.name, name, tc.xp)
		assert.Equal(t, tc.toNext, toNext, tc.xp)
	}
}

func TestCalculateIsDeterministic(t *testing.T) {
	in := Input{Incomes: 3200, Expenses: 2100, SavingsRate: 12.5, TotalContributions: 400, Goal: 2000, HasGoal: true, TransactionCount: 14, MonthlyExpenses: 2100}
	assert.Equal(t, Calculate(in), Calculate(in))
}
