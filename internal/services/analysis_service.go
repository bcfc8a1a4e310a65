package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"finanzas/internal/advice"
	"finanzas/internal/advisor"
	"finanzas/internal/core"
	"finanzas/internal/ledger"
	"finanzas/internal/methods"
	"finanzas/internal/score"
)

var ErrUnknownMethod = errors.New("unknown budget method")

// Summary is the aggregate view of a ledger.
type Summary struct {
	Incomes            decimal.Decimal      `json:"incomes"`
	Expenses           decimal.Decimal      `json:"expenses"`
	TotalContributions decimal.Decimal      `json:"totalContributions"`
	TotalWithdrawals   decimal.Decimal      `json:"totalWithdrawals"`
	NetSavings         decimal.Decimal      `json:"netSavings"`
	Available          decimal.Decimal      `json:"available"`
	SavingsRate        float64              `json:"savingsRate"`
	Goal               *decimal.Decimal     `json:"goal,omitempty"`
	GoalProgress       float64              `json:"goalProgress"`
	TransactionCount   int                  `json:"transactionCount"`
	ExpenseByCategory  []core.CategoryTotal `json:"expenseByCategory"`
}

// Buckets is one method applied to the current spending.
type Buckets struct {
	Method  methods.Method         `json:"method"`
	Results []methods.BucketResult `json:"results"`
}

type Dashboard struct {
	Summary         Summary                 `json:"summary"`
	Score           score.Score             `json:"score"`
	Recommendations []advice.Recommendation `json:"recommendations"`
	Buckets         Buckets                 `json:"buckets"`
	Weekly          core.WeeklySummary      `json:"weekly"`
	Limit           core.LimitStatus        `json:"limit"`
}

// AnalysisService runs the read-only engines over a fresh snapshot.
type AnalysisService struct {
	reader        ledger.SnapshotReader
	defaultMethod string
	now           func() time.Time
}

func NewAnalysisService(reader ledger.SnapshotReader, defaultMethod string) *AnalysisService {
	return &AnalysisService{reader: reader, defaultMethod: defaultMethod, now: time.Now}
}

func (s *AnalysisService) snapshot(ctx context.Context) (core.Snapshot, error) {
	snap, err := s.reader.Snapshot(ctx)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	return snap, nil
}

func (s *AnalysisService) Summary(ctx context.Context) (Summary, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return Summary{}, err
	}
	return summarize(snap), nil
}

func summarize(snap core.Snapshot) Summary {
	a := snap.Aggregates()
	out := Summary{
		Incomes:            a.Incomes,
		Expenses:           a.Expenses,
		TotalContributions: a.TotalContributions,
		TotalWithdrawals:   a.TotalWithdrawals,
		NetSavings:         a.NetSavings,
		Available:          a.Available,
		SavingsRate:        core.SavingsRate(a),
		TransactionCount:   len(snap.Transactions),
		ExpenseByCategory:  core.RankCategories(core.ExpenseByCategory(snap.Transactions)),
	}
	if snap.Settings.HasGoal {
		goal := snap.Settings.Goal
		out.Goal = &goal
		out.GoalProgress = score.GoalProgress(a.TotalContributions.InexactFloat64(), goal.InexactFloat64())
	}
	return out
}

func (s *AnalysisService) Score(ctx context.Context) (score.Score, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return score.Score{}, err
	}
	return score.Calculate(score.NewInput(snap)), nil
}

func (s *AnalysisService) Recommendations(ctx context.Context) ([]advice.Recommendation, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return advice.All(advice.NewInput(snap)), nil
}

// Buckets applies methodID, or the configured default when empty.
func (s *AnalysisService) Buckets(ctx context.Context, methodID string) (Buckets, error) {
	m, err := s.method(methodID)
	if err != nil {
		return Buckets{}, err
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return Buckets{}, err
	}
	return bucketsFor(m, snap), nil
}

func (s *AnalysisService) method(id string) (methods.Method, error) {
	if id == "" {
		id = s.defaultMethod
	}
	m, ok := methods.Get(id)
	if !ok {
		return methods.Method{}, fmt.Errorf("%w: %q", ErrUnknownMethod, id)
	}
	return m, nil
}

func bucketsFor(m methods.Method, snap core.Snapshot) Buckets {
	incomes := snap.Aggregates().Incomes.InexactFloat64()
	return Buckets{
		Method:  m,
		Results: methods.BucketSpending(m, core.ExpenseByCategory(snap.Transactions), incomes),
	}
}

func (s *AnalysisService) Weekly(ctx context.Context) (core.WeeklySummary, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return core.WeeklySummary{}, err
	}
	return core.Weekly(snap.Transactions, s.now()), nil
}

func (s *AnalysisService) LimitStatus(ctx context.Context) (core.LimitStatus, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return core.LimitStatus{}, err
	}
	return snap.LimitStatus(), nil
}

// Dashboard computes every view from a single snapshot.
func (s *AnalysisService) Dashboard(ctx context.Context) (Dashboard, error) {
	m, err := s.method("")
	if err != nil {
		return Dashboard{}, err
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{
		Summary:         summarize(snap),
		Score:           score.Calculate(score.NewInput(snap)),
		Recommendations: advice.All(advice.NewInput(snap)),
		Buckets:         bucketsFor(m, snap),
		Weekly:          core.Weekly(snap.Transactions, s.now()),
		Limit:           snap.LimitStatus(),
	}
	if d.Limit.Exceeded {
		slog.WarnContext(ctx, "Expense limit exceeded",
			"limit", d.Limit.Limit.String(),
			"spent", d.Limit.Spent.String())
	}
	return d, nil
}

// AdvisorContext is the payload an external chat advisor is primed with.
type AdvisorContext struct {
	Data         advisor.FinancialData `json:"data"`
	SystemPrompt string                `json:"systemPrompt"`
}

func (s *AnalysisService) AdvisorContext(ctx context.Context) (AdvisorContext, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return AdvisorContext{}, err
	}
	data, err := advisor.Build(snap)
	if err != nil {
		return AdvisorContext{}, err
	}
	prompt, err := advisor.SystemPrompt(data)
	if err != nil {
		return AdvisorContext{}, fmt.Errorf("render advisor prompt: %w", err)
	}
	return AdvisorContext{Data: data, SystemPrompt: prompt}, nil
}
