// Package simulator projects how long a fixed monthly saving takes to reach
// a target under monthly compounding.
package simulator

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxMonths caps a simulation at 50 years.
const MaxMonths = 600

// DefaultAnnualRate is used when the caller leaves the rate blank.
const DefaultAnnualRate = 8.0

var ErrInvalidInput = errors.New("invalid simulation input")

type Request struct {
	Goal          float64 `json:"goal"`
	Monthly       float64 `json:"monthly"`
	AnnualRatePct float64 `json:"annualRate"`
}

type Result struct {
	Months           int     `json:"months"`
	TotalContributed float64 `json:"totalContributed"`
	// TotalInterest never goes below zero.
	TotalInterest float64 `json:"totalInterest"`
	FinalBalance  float64 `json:"finalBalance"`
	// Reached is false when the cap hit before the goal.
	Reached bool `json:"reached"`
}

func validNumber(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (r Request) Validate() error {
	if !validNumber(r.Goal) || r.Goal <= 0 {
		return fmt.Errorf("%w: goal must be a positive number", ErrInvalidInput)
	}
	if !validNumber(r.Monthly) || r.Monthly <= 0 {
		return fmt.Errorf("%w: monthly saving must be a positive number", ErrInvalidInput)
	}
	if !validNumber(r.AnnualRatePct) || r.AnnualRatePct < 0 {
		return fmt.Errorf("%w: annual rate must be zero or positive", ErrInvalidInput)
	}
	return nil
}

// Simulate validates the inputs and runs the month by month projection.
// Nothing is computed when validation fails.
func Simulate(goal, monthly, annualRatePct float64) (Result, error) {
	return Request{Goal: goal, Monthly: monthly, AnnualRatePct: annualRatePct}.Run()
}

func (r Request) Run() (Result, error) {
	if err := r.Validate(); err != nil {
		return Result{}, err
	}

	rate := r.AnnualRatePct / 100 / 12
	var acc float64
	months := 0
	for acc < r.Goal && months < MaxMonths {
		acc = acc*(1+rate) + r.Monthly
		months++
	}

	contributed := r.Monthly * float64(months)
	return Result{
		Months:           months,
		TotalContributed: contributed,
		TotalInterest:    math.Max(0, acc-contributed),
		FinalBalance:     acc,
		Reached:          acc >= r.Goal,
	}, nil
}

// ParseRequest reads user supplied strings. A blank rate means DefaultAnnualRate.
func ParseRequest(goal, monthly, rate string) (Request, error) {
	var req Request
	var err error
	if req.Goal, err = parseNumber("goal", goal); err != nil {
		return Request{}, err
	}
	if req.Monthly, err = parseNumber("monthly saving", monthly); err != nil {
		return Request{}, err
	}
	if strings.TrimSpace(rate) == "" {
		req.AnnualRatePct = DefaultAnnualRate
	} else if req.AnnualRatePct, err = parseNumber("annual rate", rate); err != nil {
		return Request{}, err
	}
	return req, req.Validate()
}

func parseNumber(field, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", ErrInvalidInput, field, s)
	}
	return v, nil
}

// FormatDuration renders a month count as Spanish years and months, e.g.
// "2 años y 3 meses".
func FormatDuration(months int) string {
	years, rem := months/12, months%12
	plural := func(n int, one, many string) string {
		if n == 1 {
			return fmt.Sprintf("%d %s", n, one)
		}
		return fmt.Sprintf("%d %s", n, many)
	}
	switch {
	case years == 0:
		return plural(rem, "mes", "meses")
	case rem == 0:
		return plural(years, "año", "años")
	default:
		return plural(years, "año", "años") + " y " + plural(rem, "mes", "meses")
	}
}
