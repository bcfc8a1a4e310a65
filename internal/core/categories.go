package core

import (
	"errors"
	"strings"
)

const (
	// CategorySavings is the expense category that mirrors savings contributions.
	CategorySavings = "Ahorro"
	// CategoryWithdrawal is the income category that mirrors savings withdrawals.
	CategoryWithdrawal = "Retiro de ahorro"

	ContributionDescription = "Aporte a ahorro"
	WithdrawalDescription   = "Retiro desde ahorros"
)

type CategoryMeta struct {
	Name string
	Icon string
}

var ErrDuplicateCategory = errors.New("category already exists")

// DefaultCategories returns fresh copies of the categories a new ledger starts with.
func DefaultCategories(kind TransactionType) []CategoryMeta {
	var src []CategoryMeta
	switch kind {
	case Income:
		src = defaultIncomeCategories
	case Expense:
		src = defaultExpenseCategories
	}
	out := make([]CategoryMeta, len(src))
	copy(out, src)
	return out
}

var defaultIncomeCategories = []CategoryMeta{
	{Name: "Salario", Icon: "💼"},
	{Name: "Intereses", Icon: "📈"},
	{Name: "Freelance", Icon: "💻"},
	{Name: "Regalos", Icon: "🎁"},
	{Name: "Ventas", Icon: "🏷️"},
	{Name: "Otros", Icon: "📦"},
}

var defaultExpenseCategories = []CategoryMeta{
	{Name: "Comida", Icon: "🍽️"},
	{Name: "Transporte", Icon: "🚗"},
	{Name: "Entretenimiento", Icon: "🎬"},
	{Name: "Hogar", Icon: "🏠"},
	{Name: "Salud", Icon: "🩺"},
	{Name: "Educación", Icon: "📚"},
	{Name: "Servicios", Icon: "💡"},
	{Name: "Ropa", Icon: "👕"},
	{Name: "Viajes", Icon: "✈️"},
	{Name: CategorySavings, Icon: "💰"},
	{Name: "Otros", Icon: "📦"},
}

// AddCategory appends meta to list, rejecting blank and duplicate names.
// Comparison ignores case and surrounding spaces.
func AddCategory(list []CategoryMeta, meta CategoryMeta) ([]CategoryMeta, error) {
	meta.Name = strings.TrimSpace(meta.Name)
	if meta.Name == "" {
		return list, ErrEmptyCategory
	}
	for _, c := range list {
		if strings.EqualFold(c.Name, meta.Name) {
			return list, ErrDuplicateCategory
		}
	}
	return append(list, meta), nil
}
