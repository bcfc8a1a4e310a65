// Package google exposes a Google Sheets spreadsheet as a read-only ledger.
//
// The spreadsheet holds a transactions sheet (Date | Type | Amount | Category |
// Description), a savings sheet (Date | aporte/retiro | Amount) and an optional
// settings sheet (Key | Value). Savings rows produce their mirror transactions
// on read, so the sheets only need the entries themselves.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"finanzas/internal/core"
	"finanzas/internal/ledger"
)

const defaultCacheTTL = 30 * time.Second

type Config struct {
	SpreadsheetID     string
	TransactionsSheet string
	SavingsSheet      string
	// SettingsSheet is optional; an empty name means no goal and no limit.
	SettingsSheet string
	CacheTTL      time.Duration
}

// valuesReader fetches a range as a matrix of cells.
type valuesReader interface {
	Values(ctx context.Context, rng string) ([][]any, error)
}

type sheetsAPI struct {
	svc           *gsheet.Service
	spreadsheetID string
}

func (a sheetsAPI) Values(ctx context.Context, rng string) ([][]any, error) {
	resp, err := a.svc.Spreadsheets.Values.Get(a.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

type Client struct {
	reader valuesReader
	cfg    Config

	mu             sync.Mutex
	cached         core.Snapshot
	cacheExpiresAt time.Time
}

var _ ledger.Store = (*Client)(nil)

// New creates a client authenticated with service account credentials taken
// from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return newClient(sheetsAPI{svc: svc, spreadsheetID: cfg.SpreadsheetID}, cfg), nil
}

func newClient(r valuesReader, cfg Config) *Client {
	if cfg.TransactionsSheet == "" {
		cfg.TransactionsSheet = "Transacciones"
	}
	if cfg.SavingsSheet == "" {
		cfg.SavingsSheet = "Ahorros"
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	return &Client{reader: r, cfg: cfg}
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		var err error
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	slog.InfoContext(ctx, "Creating Google Sheets service", "credentials_size", len(credentialsJSON))
	return gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
}

// Snapshot reads all sheets in parallel. Results are cached for CacheTTL.
func (c *Client) Snapshot(ctx context.Context) (core.Snapshot, error) {
	c.mu.Lock()
	if time.Now().Before(c.cacheExpiresAt) {
		s := c.cached
		c.mu.Unlock()
		return s, nil
	}
	c.mu.Unlock()

	var txValues, savingsValues, settingsValues [][]any
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		txValues, err = c.reader.Values(gctx, c.cfg.TransactionsSheet+"!A:E")
		if err != nil {
			err = fmt.Errorf("read %s: %w", c.cfg.TransactionsSheet, err)
		}
		return err
	})
	g.Go(func() (err error) {
		savingsValues, err = c.reader.Values(gctx, c.cfg.SavingsSheet+"!A:C")
		if err != nil {
			err = fmt.Errorf("read %s: %w", c.cfg.SavingsSheet, err)
		}
		return err
	})
	if c.cfg.SettingsSheet != "" {
		g.Go(func() (err error) {
			settingsValues, err = c.reader.Values(gctx, c.cfg.SettingsSheet+"!A:B")
			if err != nil {
				err = fmt.Errorf("read %s: %w", c.cfg.SettingsSheet, err)
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return core.Snapshot{}, err
	}

	txs, skippedTx := parseTransactions(c.cfg.TransactionsSheet, txValues)
	contributions, withdrawals, mirrors, skippedSavings := parseSavings(c.cfg.SavingsSheet, savingsValues)
	if skippedTx+skippedSavings > 0 {
		slog.WarnContext(ctx, "Skipped unparseable sheet rows",
			"transactions", skippedTx,
			"savings", skippedSavings)
	}

	s := core.Snapshot{
		Transactions:  append(txs, mirrors...),
		Contributions: contributions,
		Withdrawals:   withdrawals,
		Settings:      parseSettings(settingsValues),
	}

	c.mu.Lock()
	c.cached = s
	c.cacheExpiresAt = time.Now().Add(c.cfg.CacheTTL)
	c.mu.Unlock()
	return s, nil
}

// Invalidate drops the cached snapshot.
func (c *Client) Invalidate() {
	c.mu.Lock()
	c.cacheExpiresAt = time.Time{}
	c.mu.Unlock()
}

// ListCategories returns the defaults followed by any other category used in
// the sheet for that kind.
func (c *Client) ListCategories(ctx context.Context, kind core.TransactionType) ([]core.CategoryMeta, error) {
	if !kind.Valid() {
		return nil, core.ErrInvalidType
	}
	s, err := c.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	list := core.DefaultCategories(kind)
	for _, tx := range s.Transactions {
		if tx.Type != kind {
			continue
		}
		// duplicates are expected here
		list, _ = core.AddCategory(list, core.CategoryMeta{Name: tx.Category})
	}
	return list, nil
}

func (c *Client) ListScheduledActions(context.Context) ([]core.ScheduledAction, error) {
	return nil, nil
}

func (c *Client) HasExecuted(context.Context, string, int, int, int) (bool, error) {
	return false, nil
}

func (c *Client) ListMonthlyReports(context.Context) ([]core.MonthlyReport, error) {
	return nil, nil
}

func (c *Client) AddTransaction(context.Context, core.Transaction) (core.Transaction, error) {
	return core.Transaction{}, ledger.ErrReadOnly
}

func (c *Client) DeleteTransaction(context.Context, string) error { return ledger.ErrReadOnly }

func (c *Client) AddContribution(context.Context, core.SavingsEntry) (core.SavingsEntry, error) {
	return core.SavingsEntry{}, ledger.ErrReadOnly
}

func (c *Client) AddWithdrawal(context.Context, core.SavingsEntry) (core.SavingsEntry, error) {
	return core.SavingsEntry{}, ledger.ErrReadOnly
}

func (c *Client) DeleteContribution(context.Context, string) error { return ledger.ErrReadOnly }
func (c *Client) DeleteWithdrawal(context.Context, string) error   { return ledger.ErrReadOnly }
func (c *Client) SetGoal(context.Context, decimal.Decimal) error   { return ledger.ErrReadOnly }
func (c *Client) ClearGoal(context.Context) error                  { return ledger.ErrReadOnly }

func (c *Client) SetExpenseLimit(context.Context, core.ExpenseLimit) error {
	return ledger.ErrReadOnly
}

func (c *Client) AddCategory(context.Context, core.TransactionType, core.CategoryMeta) error {
	return ledger.ErrReadOnly
}

func (c *Client) SaveScheduledAction(context.Context, core.ScheduledAction) (core.ScheduledAction, error) {
	return core.ScheduledAction{}, ledger.ErrReadOnly
}

func (c *Client) DeleteScheduledAction(context.Context, string) error { return ledger.ErrReadOnly }

func (c *Client) RecordExecution(context.Context, core.ScheduledExecution) error {
	return ledger.ErrReadOnly
}

func (c *Client) SaveMonthlyReport(context.Context, core.MonthlyReport) error {
	return ledger.ErrReadOnly
}

func (c *Client) Reset(context.Context) error { return ledger.ErrReadOnly }
