package budget

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/spendwell/spendwell/internal/test_utils"
	"github.com/spendwell/spendwell/pkg/category"
	"github.com/spendwell/spendwell/pkg/household"
	"github.com/spendwell/spendwell/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var db *pgxpool.Pool

func TestMain(m *testing.M) {
	container, connect := test_utils.TestWithDB()
	db = connect()
	code := m.Run()
	db.Close()
	_ = container.Terminate(context.Background())
	os.Exit(code)
}

func seedHousehold(t *testing.T) int {
	t.Helper()
	bg := context.Background()
	userId, err := user.NewUserRepo(db).Store(bg, user.User{
		Uid:         uuid.NewString(),
		Email:       uuid.NewString() + "@example.com",
		DisplayName: "Repo Test",
	})
	require.NoError(t, err)
	h, err := household.NewHouseholdRepo(db).Store(bg, household.Household{
		Uid:  uuid.NewString(),
		Name: "Repo Test Household",
	}, userId)
	require.NoError(t, err)
	return h.Id
}

func seedCategory(t *testing.T, householdId int, name string) int {
	t.Helper()
	id, err := category.NewCategoryRepo(db).Store(context.Background(), category.Category{
		HouseholdID: householdId,
		Name:        name,
		Type:        category.TypeExpense,
		PaymentType: category.PaymentManual,
		IsEssential: true,
	})
	require.NoError(t, err)
	return id
}

func TestRepositoryImpl_CreateIfMissing(t *testing.T) {
	// given
	bg := context.Background()
	repo := NewBudgetRepo(db)
	householdId := seedHousehold(t)
	categoryId := seedCategory(t, householdId, "Groceries")

	// when
	created, err := repo.CreateIfMissing(bg, Budget{
		CategoryID: categoryId,
		Amount:     decimal.RequireFromString("120.50"),
		StartDate:  MonthStart(2026, 4),
		EndDate:    MonthEnd(2026, 4),
	})

	// then
	assert.NoError(t, err)
	assert.True(t, created)

	// when creating again for the same month
	created, err = repo.CreateIfMissing(bg, Budget{
		CategoryID: categoryId,
		Amount:     decimal.RequireFromString("999.99"),
		StartDate:  MonthStart(2026, 4),
		EndDate:    MonthEnd(2026, 4),
	})

	// then the existing row is left untouched
	assert.NoError(t, err)
	assert.False(t, created)
	stored, err := repo.GetForCategoryMonth(bg, categoryId, MonthStart(2026, 4))
	require.NoError(t, err)
	assert.Equal(t, "120.50", stored.Amount.StringFixed(2))
}

func TestRepositoryImpl_Upsert(t *testing.T) {
	// given
	bg := context.Background()
	repo := NewBudgetRepo(db)
	householdId := seedHousehold(t)
	categoryId := seedCategory(t, householdId, "Rent")
	first, created, err := repo.Upsert(bg, Budget{
		CategoryID: categoryId,
		Amount:     decimal.NewFromInt(800),
		StartDate:  MonthStart(2026, 4),
		EndDate:    MonthEnd(2026, 4),
		IsPaid:     true,
	})
	require.NoError(t, err)
	require.True(t, created)

	// when upserting the same month with a new amount and a different paid flag
	second, created, err := repo.Upsert(bg, Budget{
		CategoryID: categoryId,
		Amount:     decimal.NewFromInt(850),
		StartDate:  MonthStart(2026, 4),
		EndDate:    MonthEnd(2026, 4),
		IsPaid:     false,
	})

	// then only the amount changes
	assert.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "850.00", second.Amount.StringFixed(2))
	assert.True(t, second.IsPaid)
}

func TestRepositoryImpl_GetByID_ScopedToHousehold(t *testing.T) {
	// given
	bg := context.Background()
	repo := NewBudgetRepo(db)
	householdId := seedHousehold(t)
	otherHouseholdId := seedHousehold(t)
	categoryId := seedCategory(t, householdId, "Insurance")
	b, _, err := repo.Upsert(bg, Budget{
		CategoryID: categoryId,
		Amount:     decimal.NewFromInt(45),
		StartDate:  MonthStart(2026, 4),
		EndDate:    MonthEnd(2026, 4),
	})
	require.NoError(t, err)

	// when fetching with the owning household
	stored, err := repo.GetByID(bg, householdId, b.ID)

	// then
	assert.NoError(t, err)
	assert.Equal(t, categoryId, stored.CategoryID)

	// when fetching with another household
	_, err = repo.GetByID(bg, otherHouseholdId, b.ID)

	// then
	assert.ErrorIs(t, err, ErrBudgetNotFound)
}

func TestRepositoryImpl_ListForYear(t *testing.T) {
	// given
	bg := context.Background()
	repo := NewBudgetRepo(db)
	householdId := seedHousehold(t)
	categoryId := seedCategory(t, householdId, "Utilities")
	for _, month := range []int{1, 3, 12} {
		_, _, err := repo.Upsert(bg, Budget{
			CategoryID: categoryId,
			Amount:     decimal.NewFromInt(int64(month * 10)),
			StartDate:  MonthStart(2026, month),
			EndDate:    MonthEnd(2026, month),
		})
		require.NoError(t, err)
	}
	_, _, err := repo.Upsert(bg, Budget{
		CategoryID: categoryId,
		Amount:     decimal.NewFromInt(999),
		StartDate:  MonthStart(2027, 1),
		EndDate:    MonthEnd(2027, 1),
	})
	require.NoError(t, err)

	// when
	budgets, err := repo.ListForYear(bg, householdId, 2026)

	// then only the requested year is returned, ordered by start date
	assert.NoError(t, err)
	require.Len(t, budgets, 3)
	assert.True(t, budgets[0].StartDate.Equal(MonthStart(2026, 1)))
	assert.True(t, budgets[1].StartDate.Equal(MonthStart(2026, 3)))
	assert.True(t, budgets[2].StartDate.Equal(MonthStart(2026, 12)))
}

func TestRepositoryImpl_SetPaid(t *testing.T) {
	// given
	bg := context.Background()
	repo := NewBudgetRepo(db)
	householdId := seedHousehold(t)
	categoryId := seedCategory(t, householdId, "Car Payment")
	b, _, err := repo.Upsert(bg, Budget{
		CategoryID: categoryId,
		Amount:     decimal.NewFromInt(300),
		StartDate:  MonthStart(2026, 4),
		EndDate:    MonthEnd(2026, 4),
	})
	require.NoError(t, err)

	// when
	ok, err := repo.SetPaid(bg, b.ID, true)

	// then
	assert.NoError(t, err)
	assert.True(t, ok)
	stored, err := repo.GetByID(bg, householdId, b.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsPaid)

	// when updating a budget that does not exist
	ok, err = repo.SetPaid(bg, 999999, true)

	// then
	assert.NoError(t, err)
	assert.False(t, ok)
}
