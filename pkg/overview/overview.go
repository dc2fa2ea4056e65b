package overview

import (
	"github.com/shopspring/decimal"
	"github.com/spendwell/spendwell/pkg/category"
)

// MonthCell is one month's slot in a yearly row. Cells synthesized for a
// parent from its children carry BudgetID 0; they are aggregates, not rows.
type MonthCell struct {
	Amount   decimal.Decimal
	IsPaid   bool
	BudgetID int
}

// CategorySummary is one top-level category line of the monthly dashboard.
// For categories with children the amount is the sum over the children and
// the category's own budget row is ignored.
type CategorySummary struct {
	CategoryID  int
	Name        string
	Type        category.CategoryType
	Amount      decimal.Decimal
	IsPaid      bool
	HasChildren bool
}

type MonthlySummary struct {
	Year          int
	Month         int
	Categories    []CategorySummary
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	TotalSavings  decimal.Decimal
	// Balance is income minus expenses minus savings.
	Balance     decimal.Decimal
	UnpaidCount int
}

// YearlyRow is one category line of the yearly grid. Children follow their
// parent in name order; Months holds only the months that have data.
type YearlyRow struct {
	CategoryID int
	Name       string
	Type       category.CategoryType
	ParentID   int
	Months     map[int]MonthCell
}

type YearlySummary struct {
	Year int
	Rows []YearlyRow
}

// OutstandingItem is one unpaid manual expense budget.
type OutstandingItem struct {
	BudgetID   int
	CategoryID int
	Name       string
	Amount     decimal.Decimal
}

// OutstandingGroup collects a top-level category's unpaid items. Standalone
// categories form a group of their own.
type OutstandingGroup struct {
	CategoryID int
	Name       string
	Items      []OutstandingItem
	Subtotal   decimal.Decimal
}

type OutstandingSummary struct {
	Year   int
	Month  int
	Groups []OutstandingGroup
	Total  decimal.Decimal
}
