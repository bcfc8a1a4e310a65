// Package storage is the SQLite ledger backend. Amounts are stored as decimal
// strings and timestamps as RFC 3339 text so nothing is lost on round trips.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"finanzas/internal/core"
	"finanzas/internal/ledger"

	_ "modernc.org/sqlite"
)

const timeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

var _ ledger.Store = (*SQLiteRepository)(nil)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	repo := &SQLiteRepository{db: db}
	if err := seedCategories(context.Background(), db); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Snapshot loads every record set concurrently.
func (r *SQLiteRepository) Snapshot(ctx context.Context) (core.Snapshot, error) {
	var s core.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		s.Transactions, err = r.listTransactions(gctx)
		return err
	})
	g.Go(func() (err error) {
		s.Contributions, err = r.listSavings(gctx, "savings_contributions")
		return err
	})
	g.Go(func() (err error) {
		s.Withdrawals, err = r.listSavings(gctx, "savings_withdrawals")
		return err
	})
	g.Go(func() (err error) {
		s.Settings, err = r.readSettings(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.Snapshot{}, err
	}
	return s, nil
}

func (r *SQLiteRepository) listTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, amount, category, description, occurred_at, linked_savings_id
		FROM transactions
		ORDER BY occurred_at, created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			tx              core.Transaction
			typ, amount, at string
			linked          sql.NullString
		)
		if err := rows.Scan(&tx.ID, &typ, &amount, &tx.Category, &tx.Description, &at, &linked); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Type = core.TransactionType(typ)
		if tx.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("transaction %s amount: %w", tx.ID, err)
		}
		if tx.Date, err = time.Parse(timeLayout, at); err != nil {
			return nil, fmt.Errorf("transaction %s date: %w", tx.ID, err)
		}
		tx.LinkedSavingsID = linked.String
		out = append(out, tx)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) listSavings(ctx context.Context, table string) ([]core.SavingsEntry, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, amount, occurred_at FROM "+table+" ORDER BY occurred_at, created_at, id")
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	var out []core.SavingsEntry
	for rows.Next() {
		var (
			e          core.SavingsEntry
			amount, at string
		)
		if err := rows.Scan(&e.ID, &amount, &at); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("%s %s amount: %w", table, e.ID, err)
		}
		if e.Date, err = time.Parse(timeLayout, at); err != nil {
			return nil, fmt.Errorf("%s %s date: %w", table, e.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func insertTransaction(ctx context.Context, q querier, tx core.Transaction) error {
	var linked any
	if tx.LinkedSavingsID != "" {
		linked = tx.LinkedSavingsID
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO transactions (id, type, amount, category, description, occurred_at, linked_savings_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, string(tx.Type), tx.Amount.String(), tx.Category, tx.Description, tx.Date.Format(timeLayout), linked)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) AddTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	tx.ID = uuid.NewString()
	if err := insertTransaction(ctx, r.db, tx); err != nil {
		return core.Transaction{}, err
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", tx.ID,
		"type", tx.Type,
		"amount", tx.Amount.String(),
		"category", tx.Category)
	return tx, nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	return r.withTx(ctx, func(q *sql.Tx) error {
		var (
			typ    string
			linked sql.NullString
		)
		err := q.QueryRowContext(ctx, "SELECT type, linked_savings_id FROM transactions WHERE id = ?", id).Scan(&typ, &linked)
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("load transaction: %w", err)
		}
		if _, err := q.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id); err != nil {
			return fmt.Errorf("delete transaction: %w", err)
		}
		if !linked.Valid || linked.String == "" {
			return nil
		}
		table := "savings_withdrawals"
		if core.TransactionType(typ) == core.Expense {
			table = "savings_contributions"
		}
		if _, err := q.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", linked.String); err != nil {
			return fmt.Errorf("delete linked savings entry: %w", err)
		}
		return nil
	})
}

func (r *SQLiteRepository) AddContribution(ctx context.Context, e core.SavingsEntry) (core.SavingsEntry, error) {
	return r.addSavings(ctx, e, "savings_contributions", core.Expense, core.CategorySavings, core.ContributionDescription)
}

func (r *SQLiteRepository) AddWithdrawal(ctx context.Context, e core.SavingsEntry) (core.SavingsEntry, error) {
	return r.addSavings(ctx, e, "savings_withdrawals", core.Income, core.CategoryWithdrawal, core.WithdrawalDescription)
}

// addSavings stores the entry and its mirror transaction atomically.
func (r *SQLiteRepository) addSavings(ctx context.Context, e core.SavingsEntry, table string, typ core.TransactionType, category, desc string) (core.SavingsEntry, error) {
	if err := e.Validate(); err != nil {
		return core.SavingsEntry{}, err
	}
	e.ID = uuid.NewString()
	err := r.withTx(ctx, func(q *sql.Tx) error {
		if _, err := q.ExecContext(ctx, "INSERT INTO "+table+" (id, amount, occurred_at) VALUES (?, ?, ?)",
			e.ID, e.Amount.String(), e.Date.Format(timeLayout)); err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
		return insertTransaction(ctx, q, core.Transaction{
			ID:              uuid.NewString(),
			Type:            typ,
			Amount:          e.Amount,
			Category:        category,
			Description:     desc,
			Date:            e.Date,
			LinkedSavingsID: e.ID,
		})
	})
	if err != nil {
		return core.SavingsEntry{}, err
	}

	slog.InfoContext(ctx, "Savings entry saved to SQLite", "table", table, "id", e.ID, "amount", e.Amount.String())
	return e, nil
}

func (r *SQLiteRepository) DeleteContribution(ctx context.Context, id string) error {
	return r.deleteSavings(ctx, "savings_contributions", id)
}

func (r *SQLiteRepository) DeleteWithdrawal(ctx context.Context, id string) error {
	return r.deleteSavings(ctx, "savings_withdrawals", id)
}

func (r *SQLiteRepository) deleteSavings(ctx context.Context, table, id string) error {
	return r.withTx(ctx, func(q *sql.Tx) error {
		res, err := q.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ledger.ErrNotFound
		}
		if _, err := q.ExecContext(ctx, "DELETE FROM transactions WHERE linked_savings_id = ?", id); err != nil {
			return fmt.Errorf("delete mirror transaction: %w", err)
		}
		return nil
	})
}
