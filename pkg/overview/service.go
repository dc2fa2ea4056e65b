package overview

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spendwell/spendwell/pkg/budget"
	"github.com/spendwell/spendwell/pkg/category"
	"github.com/spendwell/spendwell/pkg/household"
)

// Service assembles read-only views over categories and budgets. It never
// mutates stored data.
type Service interface {
	MonthlyOverview(ctx context.Context, year int, month int) (MonthlySummary, error)
	YearlyOverview(ctx context.Context, year int) (YearlySummary, error)
	OutstandingPayments(ctx context.Context, year int, month int) (OutstandingSummary, error)
}

type ServiceImpl struct {
	categories category.Service
	budgets    budget.Repository
}

func NewOverviewService(categories category.Service, budgets budget.Repository) *ServiceImpl {
	return &ServiceImpl{categories: categories, budgets: budgets}
}

func (s *ServiceImpl) MonthlyOverview(ctx context.Context, year int, month int) (MonthlySummary, error) {
	if err := budget.ValidatePeriod(year, month); err != nil {
		return MonthlySummary{}, err
	}
	tree, budgetsByCategory, err := s.load(ctx, year, month)
	if err != nil {
		return MonthlySummary{}, err
	}

	summary := MonthlySummary{
		Year:          year,
		Month:         month,
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		TotalSavings:  decimal.Zero,
	}
	for _, node := range tree {
		line := CategorySummary{
			CategoryID:  node.Category.ID,
			Name:        node.Category.Name,
			Type:        node.Category.Type,
			HasChildren: node.HasChildren(),
		}
		if node.HasChildren() {
			line.Amount, line.IsPaid = rollupChildren(node.Children, budgetsByCategory)
		} else {
			b, ok := budgetsByCategory[node.Category.ID]
			line.Amount = decimal.Zero
			if ok {
				line.Amount = b.Amount
				line.IsPaid = b.IsPaid
			}
		}
		summary.Categories = append(summary.Categories, line)

		switch node.Category.Type {
		case category.TypeIncome:
			summary.TotalIncome = summary.TotalIncome.Add(line.Amount)
		case category.TypeExpense:
			summary.TotalExpenses = summary.TotalExpenses.Add(line.Amount)
		case category.TypeSavings:
			summary.TotalSavings = summary.TotalSavings.Add(line.Amount)
		}
		summary.UnpaidCount += countUnpaid(node, budgetsByCategory)
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpenses).Sub(summary.TotalSavings)
	return summary, nil
}

func (s *ServiceImpl) YearlyOverview(ctx context.Context, year int) (YearlySummary, error) {
	if err := budget.ValidatePeriod(year, 1); err != nil {
		return YearlySummary{}, err
	}
	householdId, err := household.CurrentId(ctx)
	if err != nil {
		return YearlySummary{}, fmt.Errorf("failed to get current household: %w", err)
	}
	tree, err := s.categories.Tree(ctx)
	if err != nil {
		return YearlySummary{}, err
	}
	budgets, err := s.budgets.ListForYear(ctx, householdId, year)
	if err != nil {
		return YearlySummary{}, err
	}

	// cells[categoryId][month]
	cells := map[int]map[int]MonthCell{}
	for _, b := range budgets {
		m := int(b.StartDate.Month())
		if cells[b.CategoryID] == nil {
			cells[b.CategoryID] = map[int]MonthCell{}
		}
		cells[b.CategoryID][m] = MonthCell{Amount: b.Amount, IsPaid: b.IsPaid, BudgetID: b.ID}
	}

	summary := YearlySummary{Year: year}
	for _, node := range tree {
		parentRow := YearlyRow{
			CategoryID: node.Category.ID,
			Name:       node.Category.Name,
			Type:       node.Category.Type,
			Months:     map[int]MonthCell{},
		}
		if node.HasChildren() {
			for month := 1; month <= 12; month++ {
				sum := decimal.Zero
				allPaid := true
				present := false
				for _, child := range node.Children {
					cell, ok := cells[child.ID][month]
					if !ok {
						continue
					}
					present = true
					sum = sum.Add(cell.Amount)
					allPaid = allPaid && cell.IsPaid
				}
				if present {
					parentRow.Months[month] = MonthCell{Amount: sum, IsPaid: allPaid}
				}
			}
		} else {
			parentRow.Months = monthCells(cells[node.Category.ID])
		}
		summary.Rows = append(summary.Rows, parentRow)

		for _, child := range node.Children {
			summary.Rows = append(summary.Rows, YearlyRow{
				CategoryID: child.ID,
				Name:       child.Name,
				Type:       child.Type,
				ParentID:   node.Category.ID,
				Months:     monthCells(cells[child.ID]),
			})
		}
	}
	return summary, nil
}

func (s *ServiceImpl) OutstandingPayments(ctx context.Context, year int, month int) (OutstandingSummary, error) {
	if err := budget.ValidatePeriod(year, month); err != nil {
		return OutstandingSummary{}, err
	}
	tree, budgetsByCategory, err := s.load(ctx, year, month)
	if err != nil {
		return OutstandingSummary{}, err
	}

	summary := OutstandingSummary{Year: year, Month: month, Total: decimal.Zero}
	for _, node := range tree {
		group := OutstandingGroup{
			CategoryID: node.Category.ID,
			Name:       node.Category.Name,
			Subtotal:   decimal.Zero,
		}
		candidates := node.Children
		if !node.HasChildren() {
			candidates = []category.Category{node.Category}
		}
		for _, c := range candidates {
			b, ok := budgetsByCategory[c.ID]
			if !ok || !isOutstanding(c, b) {
				continue
			}
			group.Items = append(group.Items, OutstandingItem{
				BudgetID:   b.ID,
				CategoryID: c.ID,
				Name:       c.Name,
				Amount:     b.Amount,
			})
			group.Subtotal = group.Subtotal.Add(b.Amount)
		}
		if len(group.Items) == 0 {
			continue
		}
		summary.Groups = append(summary.Groups, group)
		summary.Total = summary.Total.Add(group.Subtotal)
	}
	return summary, nil
}

func (s *ServiceImpl) load(ctx context.Context, year int, month int) ([]category.Node, map[int]budget.Budget, error) {
	householdId, err := household.CurrentId(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get current household: %w", err)
	}
	tree, err := s.categories.Tree(ctx)
	if err != nil {
		return nil, nil, err
	}
	budgets, err := s.budgets.ListForMonth(ctx, householdId, budget.MonthStart(year, month))
	if err != nil {
		return nil, nil, err
	}
	budgetsByCategory := make(map[int]budget.Budget, len(budgets))
	for _, b := range budgets {
		budgetsByCategory[b.CategoryID] = b
	}
	return tree, budgetsByCategory, nil
}

// rollupChildren sums the children's budget amounts. The paid flag is true
// only when every child with a budget row is paid, which holds vacuously for
// children without rows.
func rollupChildren(children []category.Category, budgets map[int]budget.Budget) (decimal.Decimal, bool) {
	sum := decimal.Zero
	allPaid := true
	for _, child := range children {
		b, ok := budgets[child.ID]
		if !ok {
			continue
		}
		sum = sum.Add(b.Amount)
		allPaid = allPaid && b.IsPaid
	}
	return sum, allPaid
}

func countUnpaid(node category.Node, budgets map[int]budget.Budget) int {
	candidates := node.Children
	if !node.HasChildren() {
		candidates = []category.Category{node.Category}
	}
	count := 0
	for _, c := range candidates {
		if b, ok := budgets[c.ID]; ok && isOutstanding(c, b) {
			count++
		}
	}
	return count
}

// isOutstanding reports whether the budget is an unpaid manual expense with a
// non-zero amount.
func isOutstanding(c category.Category, b budget.Budget) bool {
	return c.Type == category.TypeExpense &&
		c.PaymentType == category.PaymentManual &&
		!b.IsPaid &&
		b.Amount.IsPositive()
}

func monthCells(byMonth map[int]MonthCell) map[int]MonthCell {
	result := make(map[int]MonthCell, len(byMonth))
	for month, cell := range byMonth {
		result[month] = cell
	}
	return result
}
