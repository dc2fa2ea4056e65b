package budget

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spendwell/spendwell/internal/event_bus"
	"github.com/spendwell/spendwell/pkg/category"
	"github.com/spendwell/spendwell/pkg/household"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = household.WithHousehold(context.Background(), household.Household{Id: 1, Name: "Test Household"})

var budgetRepoStub = NewStubBudgetRepo()
var categoryRepoStub = category.NewStubCategoryRepo()

var service Service
var categoryService category.Service

func setup(t *testing.T) func() {
	categoryService = category.NewCategoryService(categoryRepoStub)
	service = NewBudgetService(budgetRepoStub, categoryService, event_bus.NewEventBus())
	return func() {
		t.Log("Teardown after test")
		budgetRepoStub.Cleanup()
		categoryRepoStub.Cleanup()
	}
}

func createCategory(t *testing.T, c category.Category) category.Category {
	t.Helper()
	created, err := categoryService.Create(ctx, c)
	require.NoError(t, err)
	budgetRepoStub.CategoryHouseholds[created.ID] = created.HouseholdID
	return created
}

func TestServiceImpl_OpenMonth(t *testing.T) {
	t.Run("should create zeroed rows with payment type paid defaults", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		salary := createCategory(t, category.Category{Name: "Salary", Type: category.TypeIncome, PaymentType: category.PaymentIncome})
		rent := createCategory(t, category.Category{Name: "Rent", Type: category.TypeExpense, PaymentType: category.PaymentAuto})
		groceries := createCategory(t, category.Category{Name: "Groceries", Type: category.TypeExpense, PaymentType: category.PaymentManual})

		// when
		result, err := service.OpenMonth(ctx, 2026, 3, false)

		// then
		assert.NoError(t, err)
		assert.Equal(t, 3, result.Created)
		budgets, err := service.ListForMonth(ctx, 2026, 3)
		require.NoError(t, err)
		require.Len(t, budgets, 3)
		byCategory := budgetsByCategory(budgets)
		assert.True(t, byCategory[salary.ID].IsPaid)
		assert.True(t, byCategory[rent.ID].IsPaid)
		assert.False(t, byCategory[groceries.ID].IsPaid)
		assert.True(t, byCategory[rent.ID].Amount.IsZero())
		assert.Equal(t, MonthStart(2026, 3), byCategory[rent.ID].StartDate)
		assert.Equal(t, MonthEnd(2026, 3), byCategory[rent.ID].EndDate)
	})

	t.Run("should be idempotent when the month is already open", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		rent := createCategory(t, category.Category{Name: "Rent", Type: category.TypeExpense, PaymentType: category.PaymentAuto})
		_, err := service.OpenMonth(ctx, 2026, 3, false)
		require.NoError(t, err)
		_, err = service.UpdateAmount(ctx, rent.ID, 2026, 3, decimal.NewFromInt(1200))
		require.NoError(t, err)

		// when
		result, err := service.OpenMonth(ctx, 2026, 3, false)

		// then
		assert.NoError(t, err)
		assert.Equal(t, 0, result.Created)
		budgets, _ := service.ListForMonth(ctx, 2026, 3)
		require.Len(t, budgets, 1)
		assert.True(t, budgets[0].Amount.Equal(decimal.NewFromInt(1200)))
	})

	t.Run("should roll persistent amounts over from the previous month", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		rent := createCategory(t, category.Category{Name: "Rent", Type: category.TypeExpense, PaymentType: category.PaymentAuto, IsPersistent: true})
		fun := createCategory(t, category.Category{Name: "Fun", Type: category.TypeExpense, PaymentType: category.PaymentManual})
		_, err := service.OpenMonth(ctx, 2026, 3, false)
		require.NoError(t, err)
		_, err = service.UpdateAmount(ctx, rent.ID, 2026, 3, decimal.NewFromInt(1200))
		require.NoError(t, err)
		_, err = service.UpdateAmount(ctx, fun.ID, 2026, 3, decimal.NewFromInt(150))
		require.NoError(t, err)

		// when
		_, err = service.OpenMonth(ctx, 2026, 4, false)

		// then
		assert.NoError(t, err)
		budgets, _ := service.ListForMonth(ctx, 2026, 4)
		byCategory := budgetsByCategory(budgets)
		assert.True(t, byCategory[rent.ID].Amount.Equal(decimal.NewFromInt(1200)))
		assert.True(t, byCategory[fun.ID].Amount.IsZero())
	})

	t.Run("should not look back further than one month", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		rent := createCategory(t, category.Category{Name: "Rent", Type: category.TypeExpense, PaymentType: category.PaymentAuto, IsPersistent: true})
		_, err := service.OpenMonth(ctx, 2026, 3, false)
		require.NoError(t, err)
		_, err = service.UpdateAmount(ctx, rent.ID, 2026, 3, decimal.NewFromInt(1200))
		require.NoError(t, err)

		// when: April was never opened
		_, err = service.OpenMonth(ctx, 2026, 5, false)

		// then
		assert.NoError(t, err)
		budgets, _ := service.ListForMonth(ctx, 2026, 5)
		require.Len(t, budgets, 1)
		assert.True(t, budgets[0].Amount.IsZero())
	})

	t.Run("should roll over across a year boundary", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		rent := createCategory(t, category.Category{Name: "Rent", Type: category.TypeExpense, PaymentType: category.PaymentAuto, IsPersistent: true})
		_, err := service.OpenMonth(ctx, 2025, 12, false)
		require.NoError(t, err)
		_, err = service.UpdateAmount(ctx, rent.ID, 2025, 12, decimal.NewFromInt(1200))
		require.NoError(t, err)

		// when
		_, err = service.OpenMonth(ctx, 2026, 1, false)

		// then
		assert.NoError(t, err)
		budgets, _ := service.ListForMonth(ctx, 2026, 1)
		require.Len(t, budgets, 1)
		assert.True(t, budgets[0].Amount.Equal(decimal.NewFromInt(1200)))
	})

	t.Run("should recompute amounts but keep paid flags when forced", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		fun := createCategory(t, category.Category{Name: "Fun", Type: category.TypeExpense, PaymentType: category.PaymentManual})
		_, err := service.OpenMonth(ctx, 2026, 3, false)
		require.NoError(t, err)
		_, err = service.UpdateAmount(ctx, fun.ID, 2026, 3, decimal.NewFromInt(150))
		require.NoError(t, err)
		budgets, _ := service.ListForMonth(ctx, 2026, 3)
		_, err = service.TogglePaid(ctx, budgets[0].ID)
		require.NoError(t, err)

		// when
		result, err := service.OpenMonth(ctx, 2026, 3, true)

		// then
		assert.NoError(t, err)
		assert.Equal(t, 1, result.Refreshed)
		budgets, _ = service.ListForMonth(ctx, 2026, 3)
		require.Len(t, budgets, 1)
		assert.True(t, budgets[0].Amount.IsZero())
		assert.True(t, budgets[0].IsPaid)
	})

	t.Run("should reject an invalid period", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when / then
		_, err := service.OpenMonth(ctx, 2026, 13, false)
		assert.ErrorIs(t, err, ErrInvalidPeriod)
		_, err = service.OpenMonth(ctx, 1899, 1, false)
		assert.ErrorIs(t, err, ErrInvalidPeriod)
		_, err = service.OpenMonth(ctx, 2026, 0, false)
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	})

	t.Run("should return error when context has no household", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.OpenMonth(context.Background(), 2026, 3, false)

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current household")
	})
}

func TestServiceImpl_UpdateAmount(t *testing.T) {
	t.Run("should create the row with the paid default when missing", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		rent := createCategory(t, category.Category{Name: "Rent", Type: category.TypeExpense, PaymentType: category.PaymentAuto})

		// when
		b, err := service.UpdateAmount(ctx, rent.ID, 2026, 3, decimal.NewFromInt(1200))

		// then
		assert.NoError(t, err)
		assert.True(t, b.Amount.Equal(decimal.NewFromInt(1200)))
		assert.True(t, b.IsPaid)
	})

	t.Run("should keep the paid flag on update", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		fun := createCategory(t, category.Category{Name: "Fun", Type: category.TypeExpense, PaymentType: category.PaymentManual})
		created, err := service.UpdateAmount(ctx, fun.ID, 2026, 3, decimal.NewFromInt(100))
		require.NoError(t, err)
		_, err = service.TogglePaid(ctx, created.ID)
		require.NoError(t, err)

		// when
		updated, err := service.UpdateAmount(ctx, fun.ID, 2026, 3, decimal.NewFromInt(250))

		// then
		assert.NoError(t, err)
		assert.True(t, updated.Amount.Equal(decimal.NewFromInt(250)))
		assert.True(t, updated.IsPaid)
	})

	t.Run("should reject an unknown category", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.UpdateAmount(ctx, 999, 2026, 3, decimal.NewFromInt(10))

		// then
		assert.ErrorIs(t, err, category.ErrCategoryNotFound)
	})
}

func TestServiceImpl_TogglePaid(t *testing.T) {
	t.Run("should toggle a manual budget row", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		fun := createCategory(t, category.Category{Name: "Fun", Type: category.TypeExpense, PaymentType: category.PaymentManual})
		created, err := service.UpdateAmount(ctx, fun.ID, 2026, 3, decimal.NewFromInt(100))
		require.NoError(t, err)
		require.False(t, created.IsPaid)

		// when
		toggled, err := service.TogglePaid(ctx, created.ID)

		// then
		assert.NoError(t, err)
		assert.True(t, toggled.IsPaid)
		toggled, err = service.TogglePaid(ctx, created.ID)
		assert.NoError(t, err)
		assert.False(t, toggled.IsPaid)
	})

	t.Run("should refuse to toggle an automatic payment", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		rent := createCategory(t, category.Category{Name: "Rent", Type: category.TypeExpense, PaymentType: category.PaymentAuto})
		created, err := service.UpdateAmount(ctx, rent.ID, 2026, 3, decimal.NewFromInt(1200))
		require.NoError(t, err)

		// when
		_, err = service.TogglePaid(ctx, created.ID)

		// then
		assert.ErrorIs(t, err, ErrPaymentNotToggleable)
	})

	t.Run("should return not found for an unknown budget", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.TogglePaid(ctx, 999)

		// then
		assert.ErrorIs(t, err, ErrBudgetNotFound)
	})
}

func budgetsByCategory(budgets []Budget) map[int]Budget {
	byCategory := make(map[int]Budget, len(budgets))
	for _, b := range budgets {
		byCategory[b.CategoryID] = b
	}
	return byCategory
}
