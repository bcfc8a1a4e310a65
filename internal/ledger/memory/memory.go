// Package memory is an in-process ledger used for development and tests.
package memory

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finanzas/internal/core"
	"finanzas/internal/ledger"
)

type execKey struct {
	action           string
	year, month, day int
}

type Store struct {
	mu            sync.Mutex
	transactions  []core.Transaction
	contributions []core.SavingsEntry
	withdrawals   []core.SavingsEntry
	settings      core.Settings
	categories    map[core.TransactionType][]core.CategoryMeta
	actions       []core.ScheduledAction
	executions    map[execKey]core.ScheduledExecution
	reports       map[string]core.MonthlyReport
	seed          map[core.TransactionType][]core.CategoryMeta
}

var _ ledger.Store = (*Store)(nil)

// New returns an empty ledger with the default categories.
func New() *Store {
	return newWithSeed(map[core.TransactionType][]core.CategoryMeta{
		core.Income:  core.DefaultCategories(core.Income),
		core.Expense: core.DefaultCategories(core.Expense),
	})
}

// NewFromFiles seeds categories from seed_income_categories.txt and
// seed_expense_categories.txt under base, one name per line. Missing or
// empty files fall back to the defaults.
func NewFromFiles(base string) *Store {
	seed := map[core.TransactionType][]core.CategoryMeta{}
	for kind, file := range map[core.TransactionType]string{
		core.Income:  "seed_income_categories.txt",
		core.Expense: "seed_expense_categories.txt",
	} {
		names := readLines(filepath.Join(base, file))
		if len(names) == 0 {
			seed[kind] = core.DefaultCategories(kind)
			continue
		}
		for _, n := range names {
			seed[kind] = append(seed[kind], core.CategoryMeta{Name: n})
		}
	}
	return newWithSeed(seed)
}

func newWithSeed(seed map[core.TransactionType][]core.CategoryMeta) *Store {
	s := &Store{seed: seed}
	s.resetLocked()
	return s
}

func (s *Store) resetLocked() {
	s.transactions = nil
	s.contributions = nil
	s.withdrawals = nil
	s.settings = core.Settings{}
	s.actions = nil
	s.executions = map[execKey]core.ScheduledExecution{}
	s.reports = map[string]core.MonthlyReport{}
	s.categories = map[core.TransactionType][]core.CategoryMeta{}
	for kind, list := range s.seed {
		s.categories[kind] = append([]core.CategoryMeta(nil), list...)
	}
}

func (s *Store) Snapshot(_ context.Context) (core.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.Snapshot{
		Transactions:  append([]core.Transaction(nil), s.transactions...),
		Contributions: append([]core.SavingsEntry(nil), s.contributions...),
		Withdrawals:   append([]core.SavingsEntry(nil), s.withdrawals...),
		Settings:      s.settings,
	}, nil
}

func (s *Store) AddTransaction(_ context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx.ID = uuid.NewString()
	s.transactions = append(s.transactions, tx)
	return tx, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.txIndex(id)
	if i < 0 {
		return ledger.ErrNotFound
	}
	tx := s.transactions[i]
	s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
	if tx.LinkedSavingsID != "" {
		if tx.Type == core.Expense {
			s.contributions = removeEntry(s.contributions, tx.LinkedSavingsID)
		} else {
			s.withdrawals = removeEntry(s.withdrawals, tx.LinkedSavingsID)
		}
	}
	return nil
}

func (s *Store) AddContribution(_ context.Context, e core.SavingsEntry) (core.SavingsEntry, error) {
	return s.addSavings(e, core.Expense, core.CategorySavings, core.ContributionDescription, &s.contributions)
}

func (s *Store) AddWithdrawal(_ context.Context, e core.SavingsEntry) (core.SavingsEntry, error) {
	return s.addSavings(e, core.Income, core.CategoryWithdrawal, core.WithdrawalDescription, &s.withdrawals)
}

func (s *Store) addSavings(e core.SavingsEntry, typ core.TransactionType, category, desc string, list *[]core.SavingsEntry) (core.SavingsEntry, error) {
	if err := e.Validate(); err != nil {
		return core.SavingsEntry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = uuid.NewString()
	*list = append(*list, e)
	s.transactions = append(s.transactions, core.Transaction{
		ID:              uuid.NewString(),
		Type:            typ,
		Amount:          e.Amount,
		Category:        category,
		Description:     desc,
		Date:            e.Date,
		LinkedSavingsID: e.ID,
	})
	return e, nil
}

func (s *Store) DeleteContribution(_ context.Context, id string) error {
	return s.deleteSavings(id, &s.contributions)
}

func (s *Store) DeleteWithdrawal(_ context.Context, id string) error {
	return s.deleteSavings(id, &s.withdrawals)
}

func (s *Store) deleteSavings(id string, list *[]core.SavingsEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(*list)
	*list = removeEntry(*list, id)
	if len(*list) == before {
		return ledger.ErrNotFound
	}
	kept := s.transactions[:0]
	for _, tx := range s.transactions {
		if tx.LinkedSavingsID != id {
			kept = append(kept, tx)
		}
	}
	s.transactions = kept
	return nil
}

func (s *Store) SetGoal(_ context.Context, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return core.ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Goal = amount
	s.settings.HasGoal = true
	return nil
}

func (s *Store) ClearGoal(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Goal = decimal.Zero
	s.settings.HasGoal = false
	return nil
}

func (s *Store) SetExpenseLimit(_ context.Context, limit core.ExpenseLimit) error {
	if err := limit.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.ExpenseLimit = limit
	return nil
}

func (s *Store) ListCategories(_ context.Context, kind core.TransactionType) ([]core.CategoryMeta, error) {
	if !kind.Valid() {
		return nil, core.ErrInvalidType
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.CategoryMeta(nil), s.categories[kind]...), nil
}

func (s *Store) AddCategory(_ context.Context, kind core.TransactionType, meta core.CategoryMeta) error {
	if !kind.Valid() {
		return core.ErrInvalidType
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := core.AddCategory(s.categories[kind], meta)
	if err != nil {
		return err
	}
	s.categories[kind] = list
	return nil
}

func (s *Store) ListScheduledActions(_ context.Context) ([]core.ScheduledAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.ScheduledAction, len(s.actions))
	for i, a := range s.actions {
		a.Days = append([]int(nil), a.Days...)
		out[i] = a
	}
	return out, nil
}

// SaveScheduledAction inserts a when its ID is empty and replaces it otherwise.
func (s *Store) SaveScheduledAction(_ context.Context, a core.ScheduledAction) (core.ScheduledAction, error) {
	if err := a.Validate(); err != nil {
		return core.ScheduledAction{}, err
	}
	a.Days = append([]int(nil), a.Days...)
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
		if a.CreatedAt.IsZero() {
			a.CreatedAt = time.Now().UTC()
		}
		s.actions = append(s.actions, a)
		return a, nil
	}
	for i := range s.actions {
		if s.actions[i].ID == a.ID {
			a.CreatedAt = s.actions[i].CreatedAt
			s.actions[i] = a
			return a, nil
		}
	}
	return core.ScheduledAction{}, ledger.ErrNotFound
}

func (s *Store) DeleteScheduledAction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.actions {
		if s.actions[i].ID == id {
			s.actions = append(s.actions[:i], s.actions[i+1:]...)
			for k := range s.executions {
				if k.action == id {
					delete(s.executions, k)
				}
			}
			return nil
		}
	}
	return ledger.ErrNotFound
}

func (s *Store) HasExecuted(_ context.Context, actionID string, year, month, day int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.executions[execKey{actionID, year, month, day}]
	return ok, nil
}

func (s *Store) RecordExecution(_ context.Context, e core.ScheduledExecution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.executions[execKey{e.ActionID, e.Year, e.Month, e.Day}] = e
	return nil
}

// SaveMonthlyReport replaces any earlier report for the same month.
func (s *Store) SaveMonthlyReport(_ context.Context, r core.MonthlyReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[r.Month] = r
	return nil
}

// ListMonthlyReports returns reports oldest month first.
func (s *Store) ListMonthlyReports(_ context.Context) ([]core.MonthlyReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.MonthlyReport, 0, len(s.reports))
	for _, r := range s.reports {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	return nil
}

func (s *Store) txIndex(id string) int {
	for i, tx := range s.transactions {
		if tx.ID == id {
			return i
		}
	}
	return -1
}

func removeEntry(list []core.SavingsEntry, id string) []core.SavingsEntry {
	for i, e := range list {
		if e.ID == id {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return dedupe(out)
}

// dedupe drops blanks and repeats, preserving input order.
func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
