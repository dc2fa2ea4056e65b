package budget

import (
	"context"
	"time"
)

// RepositoryStub keeps budgets in memory, keyed the same way the schema does:
// one row per (category, start date). CategoryHouseholds maps category ids to
// household ids so household-scoped lookups behave like the SQL joins.
type RepositoryStub struct {
	nextId             int
	budgets            map[int]Budget
	CategoryHouseholds map[int]int
}

func NewStubBudgetRepo() *RepositoryStub {
	return &RepositoryStub{
		budgets:            map[int]Budget{},
		CategoryHouseholds: map[int]int{},
	}
}

func (s *RepositoryStub) CreateIfMissing(ctx context.Context, b Budget) (bool, error) {
	if _, ok := s.find(b.CategoryID, b.StartDate); ok {
		return false, nil
	}
	s.nextId++
	b.ID = s.nextId
	s.budgets[b.ID] = b
	return true, nil
}

func (s *RepositoryStub) Upsert(ctx context.Context, b Budget) (Budget, bool, error) {
	if existing, ok := s.find(b.CategoryID, b.StartDate); ok {
		existing.Amount = b.Amount
		s.budgets[existing.ID] = existing
		return existing, false, nil
	}
	s.nextId++
	b.ID = s.nextId
	s.budgets[b.ID] = b
	return b, true, nil
}

func (s *RepositoryStub) GetByID(ctx context.Context, householdId int, budgetId int) (Budget, error) {
	if b, ok := s.budgets[budgetId]; ok && s.CategoryHouseholds[b.CategoryID] == householdId {
		return b, nil
	}
	return Budget{}, ErrBudgetNotFound
}

func (s *RepositoryStub) GetForCategoryMonth(ctx context.Context, categoryId int, startDate time.Time) (Budget, error) {
	if b, ok := s.find(categoryId, startDate); ok {
		return b, nil
	}
	return Budget{}, ErrBudgetNotFound
}

func (s *RepositoryStub) ListForMonth(ctx context.Context, householdId int, startDate time.Time) ([]Budget, error) {
	var budgets []Budget
	for id := 1; id <= s.nextId; id++ {
		if b, ok := s.budgets[id]; ok && b.StartDate.Equal(startDate) && s.CategoryHouseholds[b.CategoryID] == householdId {
			budgets = append(budgets, b)
		}
	}
	return budgets, nil
}

func (s *RepositoryStub) ListForYear(ctx context.Context, householdId int, year int) ([]Budget, error) {
	var budgets []Budget
	for id := 1; id <= s.nextId; id++ {
		if b, ok := s.budgets[id]; ok && b.StartDate.Year() == year && s.CategoryHouseholds[b.CategoryID] == householdId {
			budgets = append(budgets, b)
		}
	}
	return budgets, nil
}

func (s *RepositoryStub) SetPaid(ctx context.Context, budgetId int, isPaid bool) (bool, error) {
	if b, ok := s.budgets[budgetId]; ok {
		b.IsPaid = isPaid
		s.budgets[budgetId] = b
		return true, nil
	}
	return false, nil
}

func (s *RepositoryStub) find(categoryId int, startDate time.Time) (Budget, bool) {
	for _, b := range s.budgets {
		if b.CategoryID == categoryId && b.StartDate.Equal(startDate) {
			return b, true
		}
	}
	return Budget{}, false
}

func (s *RepositoryStub) Cleanup() {
	s.budgets = map[int]Budget{}
	s.CategoryHouseholds = map[int]int{}
	s.nextId = 0
}
