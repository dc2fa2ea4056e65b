package template

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spendwell/spendwell/internal/event_bus"
	"github.com/spendwell/spendwell/pkg/budget"
	"github.com/spendwell/spendwell/pkg/category"
	"github.com/spendwell/spendwell/pkg/household"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = household.WithHousehold(context.Background(), household.Household{Id: 1, Name: "Test Household"})

var templateRepoStub = NewStubTemplateRepo()
var categoryRepoStub = category.NewStubCategoryRepo()
var budgetRepoStub = budget.NewStubBudgetRepo()

var service Service
var categoryService category.Service

func setup(t *testing.T) func() {
	categoryService = category.NewCategoryService(categoryRepoStub)
	service = NewTemplateService(templateRepoStub, categoryService, budgetRepoStub, event_bus.NewEventBus())
	return func() {
		t.Log("Teardown after test")
		templateRepoStub.Cleanup()
		categoryRepoStub.Cleanup()
		budgetRepoStub.Cleanup()
	}
}

func TestServiceImpl_ApplyDefault(t *testing.T) {
	t.Run("should fall back to the built-in starter set when no default exists", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		name, created, err := service.ApplyDefault(ctx)

		// then
		assert.NoError(t, err)
		assert.Equal(t, BuiltinTemplateName, name)
		assert.Equal(t, 33, created)

		tree, err := categoryService.Tree(ctx)
		require.NoError(t, err)
		byName := map[string]category.Node{}
		for _, node := range tree {
			byName[node.Category.Name] = node
		}
		require.Contains(t, byName, "Housing")
		assert.Len(t, byName["Housing"].Children, 3)
		require.Contains(t, byName, "Utilities")
		assert.Len(t, byName["Utilities"].Children, 4)
		require.Contains(t, byName, "Groceries")
		assert.False(t, byName["Groceries"].HasChildren())
		assert.Equal(t, category.TypeIncome, byName["Salary"].Category.Type)
		assert.Equal(t, category.TypeSavings, byName["Emergency Fund"].Category.Type)
	})

	t.Run("should prefer a configured active default template", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.Create(ctx, BudgetTemplate{Name: "Minimalist", IsActive: true})
		require.NoError(t, err)
		_, err = service.AddCategory(ctx, TemplateCategory{TemplateID: created.ID, Name: "Salary", Type: category.TypeIncome, PaymentType: category.PaymentIncome})
		require.NoError(t, err)
		_, err = service.AddCategory(ctx, TemplateCategory{TemplateID: created.ID, Name: "Rent", Type: category.TypeExpense, PaymentType: category.PaymentAuto})
		require.NoError(t, err)
		require.NoError(t, service.SetDefault(ctx, created.ID))

		// when
		name, count, err := service.ApplyDefault(ctx)

		// then
		assert.NoError(t, err)
		assert.Equal(t, "Minimalist", name)
		assert.Equal(t, 2, count)
	})
}

func TestServiceImpl_Apply(t *testing.T) {
	t.Run("should bind children to the parents created in the first pass", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.Create(ctx, BudgetTemplate{Name: "With Groups", IsActive: true})
		require.NoError(t, err)
		parent, err := service.AddCategory(ctx, TemplateCategory{TemplateID: created.ID, Name: "Housing", Type: category.TypeExpense, PaymentType: category.PaymentManual})
		require.NoError(t, err)
		_, err = service.AddCategory(ctx, TemplateCategory{TemplateID: created.ID, Name: "Rent", Type: category.TypeExpense, ParentID: parent.ID, PaymentType: category.PaymentAuto, IsPersistent: true})
		require.NoError(t, err)

		// when
		count, err := service.Apply(ctx, created.ID)

		// then
		assert.NoError(t, err)
		assert.Equal(t, 2, count)
		tree, _ := categoryService.Tree(ctx)
		require.Len(t, tree, 1)
		assert.Equal(t, "Housing", tree[0].Category.Name)
		require.Len(t, tree[0].Children, 1)
		assert.Equal(t, "Rent", tree[0].Children[0].Name)
		assert.True(t, tree[0].Children[0].IsPersistent)
	})

	t.Run("should create a child as top-level when its parent entry is missing", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given: the child references a template category that was deleted
		created, err := service.Create(ctx, BudgetTemplate{Name: "Broken", IsActive: true})
		require.NoError(t, err)
		parent, err := service.AddCategory(ctx, TemplateCategory{TemplateID: created.ID, Name: "Housing", Type: category.TypeExpense, PaymentType: category.PaymentManual})
		require.NoError(t, err)
		_, err = service.AddCategory(ctx, TemplateCategory{TemplateID: created.ID, Name: "Rent", Type: category.TypeExpense, ParentID: parent.ID, PaymentType: category.PaymentAuto})
		require.NoError(t, err)
		require.NoError(t, service.DeleteCategory(ctx, created.ID, parent.ID))

		// when
		count, err := service.Apply(ctx, created.ID)

		// then
		assert.NoError(t, err)
		assert.Equal(t, 1, count)
		tree, _ := categoryService.Tree(ctx)
		require.Len(t, tree, 1)
		assert.Equal(t, "Rent", tree[0].Category.Name)
		assert.False(t, tree[0].HasChildren())
	})

	t.Run("should not deduplicate against existing categories", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		_, err := categoryService.Create(ctx, category.Category{Name: "Rent", Type: category.TypeExpense, PaymentType: category.PaymentAuto})
		require.NoError(t, err)
		created, err := service.Create(ctx, BudgetTemplate{Name: "Dup", IsActive: true})
		require.NoError(t, err)
		_, err = service.AddCategory(ctx, TemplateCategory{TemplateID: created.ID, Name: "Rent", Type: category.TypeExpense, PaymentType: category.PaymentAuto})
		require.NoError(t, err)

		// when
		count, err := service.Apply(ctx, created.ID)

		// then
		assert.NoError(t, err)
		assert.Equal(t, 1, count)
		categories, _ := categoryService.Tree(ctx)
		assert.Len(t, categories, 2)
	})
}

func TestServiceImpl_SetDefault(t *testing.T) {
	t.Run("should keep at most one default template", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		first, err := service.Create(ctx, BudgetTemplate{Name: "First", IsActive: true})
		require.NoError(t, err)
		second, err := service.Create(ctx, BudgetTemplate{Name: "Second", IsActive: true})
		require.NoError(t, err)
		require.NoError(t, service.SetDefault(ctx, first.ID))

		// when
		err = service.SetDefault(ctx, second.ID)

		// then
		assert.NoError(t, err)
		templates, _ := service.List(ctx)
		defaults := 0
		for _, tpl := range templates {
			if tpl.IsDefault {
				defaults++
				assert.Equal(t, second.ID, tpl.ID)
			}
		}
		assert.Equal(t, 1, defaults)
	})
}

func TestServiceImpl_Delete(t *testing.T) {
	t.Run("should refuse to delete the default template", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.Create(ctx, BudgetTemplate{Name: "Default", IsActive: true})
		require.NoError(t, err)
		require.NoError(t, service.SetDefault(ctx, created.ID))

		// when
		err = service.Delete(ctx, created.ID)

		// then
		assert.ErrorIs(t, err, ErrDefaultTemplateDelete)
	})

	t.Run("should delete a non-default template", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.Create(ctx, BudgetTemplate{Name: "Disposable", IsActive: true})
		require.NoError(t, err)

		// when
		err = service.Delete(ctx, created.ID)

		// then
		assert.NoError(t, err)
		_, err = service.Get(ctx, created.ID)
		assert.ErrorIs(t, err, ErrTemplateNotFound)
	})
}

func TestServiceImpl_ApplyBarebones(t *testing.T) {
	createCategory := func(t *testing.T, c category.Category) category.Category {
		t.Helper()
		created, err := categoryService.Create(ctx, c)
		require.NoError(t, err)
		budgetRepoStub.CategoryHouseholds[created.ID] = created.HouseholdID
		return created
	}
	setAmount := func(t *testing.T, categoryId int, year int, month int, amount int64) {
		t.Helper()
		_, _, err := budgetRepoStub.Upsert(context.Background(), budget.Budget{
			CategoryID: categoryId,
			Amount:     decimal.NewFromInt(amount),
			StartDate:  budget.MonthStart(year, month),
			EndDate:    budget.MonthEnd(year, month),
		})
		require.NoError(t, err)
	}

	t.Run("should zero non-essential budgets and report only real changes", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		salary := createCategory(t, category.Category{Name: "Salary", Type: category.TypeIncome, PaymentType: category.PaymentIncome, IsEssential: true})
		rent := createCategory(t, category.Category{Name: "Rent", Type: category.TypeExpense, PaymentType: category.PaymentAuto, IsEssential: true})
		eatingOut := createCategory(t, category.Category{Name: "Eating Out", Type: category.TypeExpense, PaymentType: category.PaymentManual})
		hobby := createCategory(t, category.Category{Name: "Hobby", Type: category.TypeExpense, PaymentType: category.PaymentManual})
		setAmount(t, salary.ID, 2026, 3, 30000)
		setAmount(t, rent.ID, 2026, 3, 1200)
		setAmount(t, eatingOut.ID, 2026, 3, 400)
		setAmount(t, hobby.ID, 2026, 3, 0)

		// when
		changes, err := service.ApplyBarebones(ctx, 2026, 3)

		// then
		assert.NoError(t, err)
		require.Len(t, changes, 1)
		assert.Equal(t, "Eating Out", changes[0].Category)
		assert.True(t, changes[0].OldAmount.Equal(decimal.NewFromInt(400)))
		assert.True(t, changes[0].NewAmount.IsZero())
		assert.Equal(t, "zeroed", changes[0].Action)

		salaryBudget, err := budgetRepoStub.GetForCategoryMonth(ctx, salary.ID, budget.MonthStart(2026, 3))
		require.NoError(t, err)
		assert.True(t, salaryBudget.Amount.Equal(decimal.NewFromInt(30000)))
		rentBudget, _ := budgetRepoStub.GetForCategoryMonth(ctx, rent.ID, budget.MonthStart(2026, 3))
		assert.True(t, rentBudget.Amount.Equal(decimal.NewFromInt(1200)))
	})

	t.Run("should report nothing on a second run", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		createCategory(t, category.Category{Name: "Eating Out", Type: category.TypeExpense, PaymentType: category.PaymentManual})
		eatingOut, err := categoryService.Tree(ctx)
		require.NoError(t, err)
		setAmount(t, eatingOut[0].Category.ID, 2026, 3, 400)
		first, err := service.ApplyBarebones(ctx, 2026, 3)
		require.NoError(t, err)
		require.Len(t, first, 1)

		// when
		second, err := service.ApplyBarebones(ctx, 2026, 3)

		// then
		assert.NoError(t, err)
		assert.Empty(t, second)
	})

	t.Run("should create missing budget rows without reporting them", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given: no budget rows exist yet
		groceries := createCategory(t, category.Category{Name: "Groceries", Type: category.TypeExpense, PaymentType: category.PaymentManual, IsEssential: true})

		// when
		changes, err := service.ApplyBarebones(ctx, 2026, 3)

		// then
		assert.NoError(t, err)
		assert.Empty(t, changes)
		b, err := budgetRepoStub.GetForCategoryMonth(ctx, groceries.ID, budget.MonthStart(2026, 3))
		require.NoError(t, err)
		assert.True(t, b.Amount.IsZero())
	})

	t.Run("should reject an invalid period", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.ApplyBarebones(ctx, 2026, 0)

		// then
		assert.ErrorIs(t, err, budget.ErrInvalidPeriod)
	})
}
