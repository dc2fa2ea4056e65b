package transaction

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spendwell/spendwell/internal/utils"
	"github.com/spendwell/spendwell/pkg/budget"
	"github.com/spendwell/spendwell/pkg/category"
	"github.com/spendwell/spendwell/pkg/household"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = household.WithHousehold(context.Background(), household.Household{Id: 1, Name: "Test Household"})

var transactionRepoStub = NewStubTransactionRepo()
var categoryRepoStub = category.NewStubCategoryRepo()

var service Service
var categoryService category.Service
var clock = &utils.MockClock{FixedNow: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)}

func setup(t *testing.T) func() {
	categoryService = category.NewCategoryService(categoryRepoStub)
	service = NewTransactionService(transactionRepoStub, categoryService, clock)
	return func() {
		t.Log("Teardown after test")
		transactionRepoStub.Cleanup()
		categoryRepoStub.Cleanup()
	}
}

func date(year int, month int, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should create a transaction successfully", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		groceries, err := categoryService.Create(ctx, category.Category{Name: "Groceries", Type: category.TypeExpense, PaymentType: category.PaymentManual})
		require.NoError(t, err)

		// when
		created, err := service.Create(ctx, Transaction{
			Amount:     decimal.NewFromInt(250),
			Date:       date(2026, 3, 14),
			CategoryID: groceries.ID,
			Type:       TypeExpense,
		})

		// then
		assert.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.Equal(t, 1, created.HouseholdID)
	})

	t.Run("should default the date to today when omitted", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		created, err := service.Create(ctx, Transaction{
			Amount:      decimal.NewFromInt(40),
			Description: "lunch",
			Type:        TypeExpense,
		})

		// then
		assert.NoError(t, err)
		assert.True(t, created.Date.Equal(date(2026, 3, 14)))
	})

	t.Run("should reject an unknown category", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Create(ctx, Transaction{
			Amount:     decimal.NewFromInt(250),
			Date:       date(2026, 3, 14),
			CategoryID: 999,
			Type:       TypeExpense,
		})

		// then
		assert.ErrorIs(t, err, category.ErrCategoryNotFound)
	})

	t.Run("should reject a transaction with neither description nor category", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Create(ctx, Transaction{
			Amount: decimal.NewFromInt(250),
			Date:   date(2026, 3, 14),
			Type:   TypeExpense,
		})

		// then
		assert.Error(t, err)
	})
}

func TestServiceImpl_ListForMonth(t *testing.T) {
	t.Run("should list only the month's transactions newest first", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		_, err := service.Create(ctx, Transaction{Amount: decimal.NewFromInt(100), Date: date(2026, 3, 2), Description: "early", Type: TypeExpense})
		require.NoError(t, err)
		_, err = service.Create(ctx, Transaction{Amount: decimal.NewFromInt(200), Date: date(2026, 3, 20), Description: "late", Type: TypeExpense})
		require.NoError(t, err)
		_, err = service.Create(ctx, Transaction{Amount: decimal.NewFromInt(300), Date: date(2026, 4, 1), Description: "next month", Type: TypeExpense})
		require.NoError(t, err)

		// when
		transactions, err := service.ListForMonth(ctx, 2026, 3, 0)

		// then
		assert.NoError(t, err)
		require.Len(t, transactions, 2)
		assert.Equal(t, "late", transactions[0].Description)
		assert.Equal(t, "early", transactions[1].Description)
	})

	t.Run("should filter by category", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		groceries, err := categoryService.Create(ctx, category.Category{Name: "Groceries", Type: category.TypeExpense, PaymentType: category.PaymentManual})
		require.NoError(t, err)
		_, err = service.Create(ctx, Transaction{Amount: decimal.NewFromInt(100), Date: date(2026, 3, 2), CategoryID: groceries.ID, Type: TypeExpense})
		require.NoError(t, err)
		_, err = service.Create(ctx, Transaction{Amount: decimal.NewFromInt(200), Date: date(2026, 3, 3), Description: "other", Type: TypeExpense})
		require.NoError(t, err)

		// when
		transactions, err := service.ListForMonth(ctx, 2026, 3, groceries.ID)

		// then
		assert.NoError(t, err)
		require.Len(t, transactions, 1)
		assert.Equal(t, groceries.ID, transactions[0].CategoryID)
	})

	t.Run("should reject an invalid period", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.ListForMonth(ctx, 2026, 0, 0)

		// then
		assert.ErrorIs(t, err, budget.ErrInvalidPeriod)
	})
}

func TestServiceImpl_Delete(t *testing.T) {
	t.Run("should delete an existing transaction", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.Create(ctx, Transaction{Amount: decimal.NewFromInt(100), Date: date(2026, 3, 2), Description: "coffee", Type: TypeExpense})
		require.NoError(t, err)

		// when
		err = service.Delete(ctx, created.ID)

		// then
		assert.NoError(t, err)
		_, err = service.Get(ctx, created.ID)
		assert.ErrorIs(t, err, ErrTransactionNotFound)
	})

	t.Run("should return not found for an unknown transaction", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		err := service.Delete(ctx, 999)

		// then
		assert.ErrorIs(t, err, ErrTransactionNotFound)
	})
}
