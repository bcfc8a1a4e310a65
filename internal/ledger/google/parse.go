package google

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finanzas/internal/core"
)

var dateLayouts = []string{"2006-01-02", "02/01/2006", "2/1/2006", time.RFC3339}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}

// parseAmount accepts plain numbers and strings with a decimal comma or a
// leading currency sign. Thousands separators are not supported.
func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero, false
	}
	return d.Round(2), true
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseType(s string) (core.TransactionType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "ingreso":
		return core.Income, true
	case "expense", "gasto":
		return core.Expense, true
	}
	return "", false
}

func isContribution(s string) (contribution bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "aporte", "contribution":
		return true, true
	case "retiro", "withdrawal":
		return false, true
	}
	return false, false
}

// rowID identifies a record by its sheet and 1-based row number.
func rowID(sheet string, row int) string {
	return fmt.Sprintf("%s!%d", sheet, row)
}

// parseTransactions reads Date | Type | Amount | Category | Description rows.
// The header row and rows that do not parse are skipped.
func parseTransactions(sheet string, values [][]any) (out []core.Transaction, skipped int) {
	for i, raw := range values {
		cols := toStrings(raw)
		date, okDate := parseDate(safeGet(cols, 0))
		typ, okType := parseType(safeGet(cols, 1))
		amount, okAmount := parseAmount(safeGet(cols, 2))
		if !okDate || !okType || !okAmount {
			if i > 0 {
				skipped++
			}
			continue
		}
		tx := core.Transaction{
			ID:          rowID(sheet, i+1),
			Type:        typ,
			Amount:      amount,
			Category:    safeGet(cols, 3),
			Description: safeGet(cols, 4),
			Date:        date,
		}
		if tx.Validate() != nil {
			skipped++
			continue
		}
		out = append(out, tx)
	}
	return out, skipped
}

// parseSavings reads Date | Kind | Amount rows where Kind is aporte or retiro,
// and synthesizes the mirror transaction of each entry.
func parseSavings(sheet string, values [][]any) (contributions, withdrawals []core.SavingsEntry, mirrors []core.Transaction, skipped int) {
	for i, raw := range values {
		cols := toStrings(raw)
		date, okDate := parseDate(safeGet(cols, 0))
		contribution, okKind := isContribution(safeGet(cols, 1))
		amount, okAmount := parseAmount(safeGet(cols, 2))
		if !okDate || !okKind || !okAmount {
			if i > 0 {
				skipped++
			}
			continue
		}
		e := core.SavingsEntry{ID: rowID(sheet, i+1), Amount: amount, Date: date}
		if e.Validate() != nil {
			skipped++
			continue
		}
		mirror := core.Transaction{
			ID:              "mirror:" + e.ID,
			Amount:          e.Amount,
			Date:            e.Date,
			LinkedSavingsID: e.ID,
		}
		if contribution {
			contributions = append(contributions, e)
			mirror.Type, mirror.Category, mirror.Description = core.Expense, core.CategorySavings, core.ContributionDescription
		} else {
			withdrawals = append(withdrawals, e)
			mirror.Type, mirror.Category, mirror.Description = core.Income, core.CategoryWithdrawal, core.WithdrawalDescription
		}
		mirrors = append(mirrors, mirror)
	}
	return contributions, withdrawals, mirrors, skipped
}

// parseSettings reads Key | Value rows. Known keys are meta (goal),
// limite_gastos and limite_activo.
func parseSettings(values [][]any) core.Settings {
	var s core.Settings
	for _, raw := range values {
		cols := toStrings(raw)
		key := strings.ToLower(safeGet(cols, 0))
		val := safeGet(cols, 1)
		switch key {
		case "meta", "goal":
			if d, ok := parseAmount(val); ok && d.IsPositive() {
				s.Goal, s.HasGoal = d, true
			}
		case "limite_gastos", "expense_limit":
			if d, ok := parseAmount(val); ok && !d.IsNegative() {
				s.ExpenseLimit.Amount = d
			}
		case "limite_activo", "expense_limit_active":
			switch strings.ToLower(val) {
			case "true", "si", "sí", "1":
				s.ExpenseLimit.Active = true
			}
		}
	}
	if s.ExpenseLimit.Validate() != nil {
		s.ExpenseLimit.Active = false
	}
	return s
}
