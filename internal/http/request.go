package http

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"finanzas/internal/core"
	"finanzas/internal/ledger/export"
)

// amount accepts a JSON number or a string such as "12,34".
type amount string

func (a *amount) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*a = amount(n.String())
	return nil
}

func (a amount) parse() (decimal.Decimal, error) {
	return core.ParseAmount(string(a))
}

// parseOptional allows zero when the field is left out.
func (a amount) parseOptional() (decimal.Decimal, error) {
	if a == "" {
		return decimal.Zero, nil
	}
	return a.parse()
}

// dateOrToday defaults an empty date to today's calendar day.
func dateOrToday(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return export.ParseDate(s)
}

type transactionRequest struct {
	Type        string `json:"type"`
	Amount      amount `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

func (req transactionRequest) toCore(now time.Time) (core.Transaction, error) {
	amt, err := req.Amount.parse()
	if err != nil {
		return core.Transaction{}, err
	}
	date, err := dateOrToday(req.Date, now)
	if err != nil {
		return core.Transaction{}, err
	}
	tx := core.Transaction{
		Type:        core.TransactionType(req.Type),
		Amount:      amt,
		Category:    sanitize(req.Category),
		Description: sanitize(req.Description),
		Date:        date,
	}
	return tx, tx.Validate()
}

type savingsRequest struct {
	Amount amount `json:"amount"`
	Date   string `json:"date"`
}

func (req savingsRequest) toCore(now time.Time) (core.SavingsEntry, error) {
	amt, err := req.Amount.parse()
	if err != nil {
		return core.SavingsEntry{}, err
	}
	date, err := dateOrToday(req.Date, now)
	if err != nil {
		return core.SavingsEntry{}, err
	}
	return core.SavingsEntry{Amount: amt, Date: date}, nil
}

type goalRequest struct {
	Amount amount `json:"amount"`
}

type expenseLimitRequest struct {
	Amount amount `json:"amount"`
	Active bool   `json:"active"`
}

func (req expenseLimitRequest) toCore() (core.ExpenseLimit, error) {
	amt, err := req.Amount.parseOptional()
	if err != nil {
		return core.ExpenseLimit{}, err
	}
	l := core.ExpenseLimit{Amount: amt, Active: req.Active}
	return l, l.Validate()
}

type categoryRequest struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type scheduledRequest struct {
	Kind     string `json:"kind"`
	Name     string `json:"name"`
	Amount   amount `json:"amount"`
	Days     []int  `json:"days"`
	Category string `json:"category"`
	// Active defaults to true.
	Active *bool `json:"active"`
}

func (req scheduledRequest) toCore(id string) (core.ScheduledAction, error) {
	amt, err := req.Amount.parse()
	if err != nil {
		return core.ScheduledAction{}, err
	}
	a := core.ScheduledAction{
		ID:       id,
		Kind:     core.ActionKind(req.Kind),
		Name:     sanitize(req.Name),
		Amount:   amt,
		Days:     req.Days,
		Category: sanitize(req.Category),
		Active:   req.Active == nil || *req.Active,
	}
	return a, a.Validate()
}

type simulateRequest struct {
	Goal    float64 `json:"goal"`
	Monthly float64 `json:"monthly"`
	// AnnualRate defaults to simulator.DefaultAnnualRate.
	AnnualRate *float64 `json:"annualRate"`
}

// kind validates the {kind} path segment.
func kind(s string) (core.TransactionType, error) {
	t := core.TransactionType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", core.ErrInvalidType, s)
	}
	return t, nil
}

func pathInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	return n, err == nil
}
