package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"finanzas/internal/core"
)

func (r *SQLiteRepository) readSettings(ctx context.Context) (core.Settings, error) {
	var (
		goal, limit sql.NullString
		active      bool
		s           core.Settings
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT goal, expense_limit, expense_limit_active FROM settings WHERE id = 1").
		Scan(&goal, &limit, &active)
	if err != nil {
		return core.Settings{}, fmt.Errorf("read settings: %w", err)
	}
	if goal.Valid {
		if s.Goal, err = decimal.NewFromString(goal.String); err != nil {
			return core.Settings{}, fmt.Errorf("settings goal: %w", err)
		}
		s.HasGoal = true
	}
	if limit.Valid {
		if s.ExpenseLimit.Amount, err = decimal.NewFromString(limit.String); err != nil {
			return core.Settings{}, fmt.Errorf("settings expense limit: %w", err)
		}
	}
	s.ExpenseLimit.Active = active
	return s, nil
}

func (r *SQLiteRepository) SetGoal(ctx context.Context, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return core.ErrInvalidAmount
	}
	if _, err := r.db.ExecContext(ctx, "UPDATE settings SET goal = ? WHERE id = 1", amount.String()); err != nil {
		return fmt.Errorf("set goal: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ClearGoal(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE settings SET goal = NULL WHERE id = 1"); err != nil {
		return fmt.Errorf("clear goal: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SetExpenseLimit(ctx context.Context, limit core.ExpenseLimit) error {
	if err := limit.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		"UPDATE settings SET expense_limit = ?, expense_limit_active = ? WHERE id = 1",
		limit.Amount.String(), limit.Active)
	if err != nil {
		return fmt.Errorf("set expense limit: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, kind core.TransactionType) ([]core.CategoryMeta, error) {
	if !kind.Valid() {
		return nil, core.ErrInvalidType
	}
	return listCategories(ctx, r.db, kind)
}

func listCategories(ctx context.Context, q querier, kind core.TransactionType) ([]core.CategoryMeta, error) {
	rows, err := q.QueryContext(ctx, "SELECT name, icon FROM categories WHERE kind = ? ORDER BY position", string(kind))
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.CategoryMeta
	for rows.Next() {
		var m core.CategoryMeta
		if err := rows.Scan(&m.Name, &m.Icon); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) AddCategory(ctx context.Context, kind core.TransactionType, meta core.CategoryMeta) error {
	if !kind.Valid() {
		return core.ErrInvalidType
	}
	return r.withTx(ctx, func(q *sql.Tx) error {
		existing, err := listCategories(ctx, q, kind)
		if err != nil {
			return err
		}
		updated, err := core.AddCategory(existing, meta)
		if err != nil {
			return err
		}
		added := updated[len(updated)-1]
		_, err = q.ExecContext(ctx,
			"INSERT INTO categories (kind, name, icon, position) VALUES (?, ?, ?, ?)",
			string(kind), added.Name, added.Icon, len(updated)-1)
		if err != nil {
			return fmt.Errorf("insert category: %w", err)
		}
		return nil
	})
}

// seedCategories fills each kind with the defaults when it has no rows yet.
func seedCategories(ctx context.Context, q querier) error {
	for _, kind := range []core.TransactionType{core.Income, core.Expense} {
		var n int
		if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories WHERE kind = ?", string(kind)).Scan(&n); err != nil {
			return fmt.Errorf("count categories: %w", err)
		}
		if n > 0 {
			continue
		}
		for i, m := range core.DefaultCategories(kind) {
			if _, err := q.ExecContext(ctx,
				"INSERT INTO categories (kind, name, icon, position) VALUES (?, ?, ?, ?)",
				string(kind), m.Name, m.Icon, i); err != nil {
				return fmt.Errorf("seed category %q: %w", m.Name, err)
			}
		}
	}
	return nil
}
