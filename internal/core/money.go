// Package core holds the ledger records and the pure aggregations every
// other package builds on.
//
// Amounts are stored as decimal.Decimal; the ratio based engines (score,
// advice, simulator) convert to float64 once, at their boundary.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// ParseAmount converts user input into a positive amount rounded to cents.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted and the
// third decimal is rounded half-up. Signs, thousands separators and zero are
// rejected with ErrInvalidAmount.
//
//	ParseAmount("12,34")  -> 12.34
//	ParseAmount("12.345") -> 12.35
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return decimal.Zero, ErrInvalidAmount
	}
	for _, p := range parts {
		for _, r := range p {
			if !unicode.IsDigit(r) {
				return decimal.Zero, ErrInvalidAmount
			}
		}
	}
	if parts[0] == "" {
		s = "0" + s
	}
	d, err := decimal.NewFromString(strings.TrimSuffix(s, "."))
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = d.Round(2)
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

var printer = message.NewPrinter(language.MustParse("es-CO"))

// FormatMoney renders v with a currency sign, grouped thousands and no decimals.
func FormatMoney(v float64) string {
	return "$" + printer.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(0)))
}

// FormatMoneyCents is FormatMoney with two decimals, for ledger listings.
func FormatMoneyCents(v float64) string {
	return "$" + printer.Sprintf("%v", number.Decimal(v, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}
