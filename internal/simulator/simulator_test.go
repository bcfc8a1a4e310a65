package simulator

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulateZeroRate(t *testing.T) {
	res, err := Simulate(1_200_000, 100_000, 0)
	require.NoError(t, err)
	assert.Equal(t, 12, res.Months)
	assert.Equal(t, 1_200_000.0, res.TotalContributed)
	assert.Equal(t, 0.0, res.TotalInterest)
	assert.True(t, res.Reached)
}

func TestSimulateWithInterest(t *testing.T) {
	res, err := Simulate(1_200_000, 100_000, 8)
	require.NoError(t, err)
	assert.LessOrEqual(t, res.Months, 12)
	assert.Greater(t, res.TotalInterest, 0.0)
	assert.InDelta(t, res.FinalBalance-res.TotalContributed, res.TotalInterest, 1e-6)
	assert.GreaterOrEqual(t, res.FinalBalance, 1_200_000.0)
}

func TestSimulateSingleMonth(t *testing.T) {
	res, err := Simulate(50, 100, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Months)
	assert.Equal(t, 100.0, res.TotalContributed)
	assert.Zero(t, res.TotalInterest)
}

func TestSimulateCapsAtFiftyYears(t *testing.T) {
	res, err := Simulate(1e12, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, MaxMonths, res.Months)
	assert.Equal(t, float64(MaxMonths), res.TotalContributed)
	assert.False(t, res.Reached)
}

func TestSimulateRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name                string
		goal, monthly, rate float64
	}{
		{"zero goal", 0, 100, 8},
		{"zero monthly", 1000, 0, 8},
		{"negative goal", -1, 100, 8},
		{"negative monthly", 1000, -5, 8},
		{"nan goal", math.NaN(), 100, 8},
		{"inf monthly", 1000, math.Inf(1), 8},
		{"negative rate", 1000, 100, -1},
		{"nan rate", 1000, 100, math.NaN()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Simulate(tc.goal, tc.monthly, tc.rate)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			assert.Equal(t, Result{}, res)
		})
	}
}

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest(" 10000 ", "500", "")
	require.NoError(t, err)
	assert.Equal(t, Request{Goal: 10000, Monthly: 500, AnnualRatePct: DefaultAnnualRate}, req)

	req, err = ParseRequest("10000", "500", "0")
	require.NoError(t, err)
	assert.Zero(t, req.AnnualRatePct)

	for _, bad := range [][3]string{
		{"abc", "500", "8"},
		{"10000", "", "8"},
		{"10000", "500", "x"},
		{"0", "500", "8"},
		{"10000", "-1", "8"},
	} {
		_, err := ParseRequest(bad[0], bad[1], bad[2])
		assert.ErrorIsf(t, err, ErrInvalidInput, "%v", bad)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[int]string{
		0:  "0 meses",
		1:  "1 mes",
		7:  "7 meses",
		12: "1 año",
		24: "2 años",
		13: "1 año y 1 mes",
		27: "2 años y 3 meses",
	}
	for months, want := range cases {
		assert.Equal(t, want, FormatDuration(months), months)
	}
}
