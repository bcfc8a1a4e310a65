package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finanzas/internal/core"
	"finanzas/internal/ledger"
)

const scheduledColumns = "id, kind, name, amount, days, category, active, created_at"

func encodeDays(days []int) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

func decodeDays(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("parse day %q: %w", p, err)
		}
		out = append(out, d)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScheduledAction(row rowScanner) (core.ScheduledAction, error) {
	var (
		a                  core.ScheduledAction
		kind, amount, days string
		createdAt          string
	)
	if err := row.Scan(&a.ID, &kind, &a.Name, &amount, &days, &a.Category, &a.Active, &createdAt); err != nil {
		return core.ScheduledAction{}, err
	}
	a.Kind = core.ActionKind(kind)
	var err error
	if a.Amount, err = decimal.NewFromString(amount); err != nil {
		return core.ScheduledAction{}, fmt.Errorf("scheduled action %s amount: %w", a.ID, err)
	}
	if a.Days, err = decodeDays(days); err != nil {
		return core.ScheduledAction{}, fmt.Errorf("scheduled action %s: %w", a.ID, err)
	}
	if a.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return core.ScheduledAction{}, fmt.Errorf("scheduled action %s created_at: %w", a.ID, err)
	}
	return a, nil
}

func (r *SQLiteRepository) ListScheduledActions(ctx context.Context) ([]core.ScheduledAction, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+scheduledColumns+" FROM scheduled_actions ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("list scheduled actions: %w", err)
	}
	defer rows.Close()

	var out []core.ScheduledAction
	for rows.Next() {
		a, err := scanScheduledAction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SaveScheduledAction inserts a when its ID is empty and replaces it otherwise.
// CreatedAt is preserved on update.
func (r *SQLiteRepository) SaveScheduledAction(ctx context.Context, a core.ScheduledAction) (core.ScheduledAction, error) {
	if err := a.Validate(); err != nil {
		return core.ScheduledAction{}, err
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
		if a.CreatedAt.IsZero() {
			a.CreatedAt = time.Now().UTC()
		}
		_, err := r.db.ExecContext(ctx,
			"INSERT INTO scheduled_actions ("+scheduledColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			a.ID, string(a.Kind), a.Name, a.Amount.String(), encodeDays(a.Days), a.Category, a.Active, a.CreatedAt.Format(timeLayout))
		if err != nil {
			return core.ScheduledAction{}, fmt.Errorf("insert scheduled action: %w", err)
		}
		slog.InfoContext(ctx, "Scheduled action created", "id", a.ID, "name", a.Name, "kind", a.Kind)
		return a, nil
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE scheduled_actions
		SET kind = ?, name = ?, amount = ?, days = ?, category = ?, active = ?
		WHERE id = ?`,
		string(a.Kind), a.Name, a.Amount.String(), encodeDays(a.Days), a.Category, a.Active, a.ID)
	if err != nil {
		return core.ScheduledAction{}, fmt.Errorf("update scheduled action: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ScheduledAction{}, ledger.ErrNotFound
	}
	return scanScheduledAction(r.db.QueryRowContext(ctx,
		"SELECT "+scheduledColumns+" FROM scheduled_actions WHERE id = ?", a.ID))
}

func (r *SQLiteRepository) DeleteScheduledAction(ctx context.Context, id string) error {
	return r.withTx(ctx, func(q *sql.Tx) error {
		if _, err := q.ExecContext(ctx, "DELETE FROM scheduled_executions WHERE action_id = ?", id); err != nil {
			return fmt.Errorf("delete executions: %w", err)
		}
		res, err := q.ExecContext(ctx, "DELETE FROM scheduled_actions WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("delete scheduled action: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ledger.ErrNotFound
		}
		return nil
	})
}

func (r *SQLiteRepository) HasExecuted(ctx context.Context, actionID string, year, month, day int) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM scheduled_executions WHERE action_id = ? AND year = ? AND month = ? AND day = ?",
		actionID, year, month, day).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check execution: %w", err)
	}
	return true, nil
}

// RecordExecution is idempotent per action and calendar day.
func (r *SQLiteRepository) RecordExecution(ctx context.Context, e core.ScheduledExecution) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO scheduled_executions (action_id, year, month, day, executed_at)
		VALUES (?, ?, ?, ?, ?)`,
		e.ActionID, e.Year, e.Month, e.Day, e.ExecutedAt.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("record execution: %w", err)
	}
	return nil
}

// SaveMonthlyReport replaces any earlier report for the same month.
func (r *SQLiteRepository) SaveMonthlyReport(ctx context.Context, rep core.MonthlyReport) error {
	byCat, err := json.Marshal(rep.ExpenseByCategory)
	if err != nil {
		return fmt.Errorf("encode expense breakdown: %w", err)
	}
	var goal any
	if rep.HasGoal {
		goal = rep.Goal.String()
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO monthly_reports (month, incomes, expenses, contributions, goal, expense_by_category, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (month) DO UPDATE SET
			incomes = excluded.incomes,
			expenses = excluded.expenses,
			contributions = excluded.contributions,
			goal = excluded.goal,
			expense_by_category = excluded.expense_by_category,
			created_at = excluded.created_at`,
		rep.Month, rep.Incomes.String(), rep.Expenses.String(), rep.Contributions.String(),
		goal, string(byCat), rep.CreatedAt.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("save monthly report %s: %w", rep.Month, err)
	}
	slog.InfoContext(ctx, "Monthly report stored", "month", rep.Month)
	return nil
}

// ListMonthlyReports returns reports oldest month first.
func (r *SQLiteRepository) ListMonthlyReports(ctx context.Context) ([]core.MonthlyReport, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT month, incomes, expenses, contributions, goal, expense_by_category, created_at
		FROM monthly_reports
		ORDER BY month`)
	if err != nil {
		return nil, fmt.Errorf("list monthly reports: %w", err)
	}
	defer rows.Close()

	var out []core.MonthlyReport
	for rows.Next() {
		var (
			rep                               core.MonthlyReport
			incomes, expenses, contrib, byCat string
			createdAt                         string
			goal                              sql.NullString
		)
		if err := rows.Scan(&rep.Month, &incomes, &expenses, &contrib, &goal, &byCat, &createdAt); err != nil {
			return nil, fmt.Errorf("scan monthly report: %w", err)
		}
		for _, f := range []struct {
			dst *decimal.Decimal
			src string
		}{{&rep.Incomes, incomes}, {&rep.Expenses, expenses}, {&rep.Contributions, contrib}} {
			if *f.dst, err = decimal.NewFromString(f.src); err != nil {
				return nil, fmt.Errorf("report %s: %w", rep.Month, err)
			}
		}
		if goal.Valid {
			if rep.Goal, err = decimal.NewFromString(goal.String); err != nil {
				return nil, fmt.Errorf("report %s goal: %w", rep.Month, err)
			}
			rep.HasGoal = true
		}
		if err := json.Unmarshal([]byte(byCat), &rep.ExpenseByCategory); err != nil {
			return nil, fmt.Errorf("report %s breakdown: %w", rep.Month, err)
		}
		if rep.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("report %s created_at: %w", rep.Month, err)
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

// Reset wipes every record, clears settings and restores default categories.
func (r *SQLiteRepository) Reset(ctx context.Context) error {
	err := r.withTx(ctx, func(q *sql.Tx) error {
		for _, table := range []string{
			"transactions",
			"savings_contributions",
			"savings_withdrawals",
			"scheduled_executions",
			"scheduled_actions",
			"monthly_reports",
			"categories",
		} {
			if _, err := q.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		if _, err := q.ExecContext(ctx,
			"UPDATE settings SET goal = NULL, expense_limit = NULL, expense_limit_active = 0 WHERE id = 1"); err != nil {
			return fmt.Errorf("reset settings: %w", err)
		}
		return seedCategories(ctx, q)
	})
	if err != nil {
		return err
	}
	slog.WarnContext(ctx, "Ledger reset")
	return nil
}
