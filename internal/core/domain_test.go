package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Type:     Expense,
		Amount:   decimal.NewFromInt(100),
		Category: "Comida",
		Date:     day(2025, 1, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	zero := good
	zero.Amount = decimal.Zero
	if err := zero.Validate(); err != nil {
		t.Fatalf("zero amount should be accepted, got %v", err)
	}

	cases := []struct {
		name string
		mut  func(*Transaction)
		want error
	}{
		{"bad type", func(tx *Transaction) { tx.Type = "transfer" }, ErrInvalidType},
		{"negative", func(tx *Transaction) { tx.Amount = decimal.NewFromInt(-1) }, ErrInvalidAmount},
		{"blank category", func(tx *Transaction) { tx.Category = "  " }, ErrEmptyCategory},
		{"zero date", func(tx *Transaction) { tx.Date = time.Time{} }, ErrInvalidDate},
		{"long description", func(tx *Transaction) {
			b := make([]byte, 201)
			for i := range b {
				b[i] = 'a'
			}
			tx.Description = string(b)
		}, ErrDescriptionTooLong},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := good
			tc.mut(&tx)
			if err := tx.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSavingsEntryValidate(t *testing.T) {
	if err := (SavingsEntry{Amount: decimal.NewFromInt(1), Date: day(2025, 1, 1)}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (SavingsEntry{Amount: decimal.Zero, Date: day(2025, 1, 1)}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestScheduledActionValidate(t *testing.T) {
	good := ScheduledAction{
		Kind:     ActionDebt,
		Name:     "Arriendo",
		Amount:   decimal.NewFromInt(800000),
		Days:     []int{1, 15},
		Category: "Hogar",
		Active:   true,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	savings := good
	savings.Kind = ActionSavings
	savings.Category = ""
	if err := savings.Validate(); err != nil {
		t.Fatalf("savings actions need no category, got %v", err)
	}
	if got := savings.EffectiveCategory(); got != CategorySavings {
		t.Fatalf("savings category = %q", got)
	}

	bads := []ScheduledAction{
		{Kind: "loan", Name: "x", Amount: decimal.NewFromInt(1), Days: []int{1}, Category: "Hogar"},
		{Kind: ActionDebt, Name: "", Amount: decimal.NewFromInt(1), Days: []int{1}, Category: "Hogar"},
		{Kind: ActionDebt, Name: "x", Amount: decimal.Zero, Days: []int{1}, Category: "Hogar"},
		{Kind: ActionDebt, Name: "x", Amount: decimal.NewFromInt(1), Days: nil, Category: "Hogar"},
		{Kind: ActionDebt, Name: "x", Amount: decimal.NewFromInt(1), Days: []int{0}, Category: "Hogar"},
		{Kind: ActionDebt, Name: "x", Amount: decimal.NewFromInt(1), Days: []int{32}, Category: "Hogar"},
		{Kind: ActionDebt, Name: "x", Amount: decimal.NewFromInt(1), Days: []int{5, 5}, Category: "Hogar"},
		{Kind: ActionDebt, Name: "x", Amount: decimal.NewFromInt(1), Days: []int{5}, Category: ""},
	}
	for i, a := range bads {
		if err := a.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestClampDay(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		day   int
		want  int
	}{
		{2025, time.January, 31, 31},
		{2025, time.February, 31, 28},
		{2024, time.February, 30, 29},
		{2025, time.April, 31, 30},
		{2025, time.April, 10, 10},
	}
	for _, tc := range cases {
		if got := ClampDay(tc.year, tc.month, tc.day); got != tc.want {
			t.Errorf("ClampDay(%d, %s, %d) = %d, want %d", tc.year, tc.month, tc.day, got, tc.want)
		}
	}
}

func TestAddCategory(t *testing.T) {
	list := DefaultCategories(Expense)
	if len(list) != 11 {
		t.Fatalf("expected 11 default expense categories, got %d", len(list))
	}
	if len(DefaultCategories(Income)) != 6 {
		t.Fatalf("expected 6 default income categories")
	}

	list, err := AddCategory(list, CategoryMeta{Name: " Mascotas ", Icon: "🐶"})
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if list[len(list)-1].Name != "Mascotas" {
		t.Fatalf("name not trimmed: %q", list[len(list)-1].Name)
	}
	if _, err := AddCategory(list, CategoryMeta{Name: "comida"}); !errors.Is(err, ErrDuplicateCategory) {
		t.Fatalf("expected ErrDuplicateCategory, got %v", err)
	}
	if _, err := AddCategory(list, CategoryMeta{Name: ""}); !errors.Is(err, ErrEmptyCategory) {
		t.Fatalf("expected ErrEmptyCategory, got %v", err)
	}
}

func TestDefaultCategoriesReturnsCopy(t *testing.T) {
	a := DefaultCategories(Expense)
	a[0].Name = "changed"
	if DefaultCategories(Expense)[0].Name != "Comida" {
		t.Fatalf("defaults were mutated through a returned slice")
	}
}
