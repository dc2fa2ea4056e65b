package category

import (
	"context"
	"testing"

	"github.com/spendwell/spendwell/pkg/household"
	"github.com/spendwell/spendwell/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = user.WithUser(
	household.WithHousehold(context.Background(), household.Household{Id: 1, Name: "Test Household"}),
	user.User{Id: 1, Email: "alice@example.com", DisplayName: "Alice"},
)

var categoryRepoStub = NewStubCategoryRepo()

var service Service

func setup(t *testing.T) func() {
	service = NewCategoryService(categoryRepoStub)
	return func() {
		t.Log("Teardown after test")
		categoryRepoStub.Cleanup()
	}
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should create a top-level category successfully", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		created, err := service.Create(ctx, Category{Name: "Housing", Type: TypeExpense, PaymentType: PaymentAuto, IsEssential: true})

		// then
		assert.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.Equal(t, 1, created.HouseholdID)
		assert.Equal(t, "Housing", created.Name)
	})

	t.Run("should create a sub-category under a matching parent", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		parent, err := service.Create(ctx, Category{Name: "Housing", Type: TypeExpense, PaymentType: PaymentAuto})
		require.NoError(t, err)

		// when
		child, err := service.Create(ctx, Category{Name: "Rent", Type: TypeExpense, ParentID: parent.ID, PaymentType: PaymentAuto})

		// then
		assert.NoError(t, err)
		assert.Equal(t, parent.ID, child.ParentID)
	})

	t.Run("should reject a sub-category under another sub-category", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		parent, _ := service.Create(ctx, Category{Name: "Housing", Type: TypeExpense, PaymentType: PaymentAuto})
		child, _ := service.Create(ctx, Category{Name: "Rent", Type: TypeExpense, ParentID: parent.ID, PaymentType: PaymentAuto})

		// when
		_, err := service.Create(ctx, Category{Name: "Deeper", Type: TypeExpense, ParentID: child.ID, PaymentType: PaymentAuto})

		// then
		assert.ErrorIs(t, err, ErrNestedSubcategory)
	})

	t.Run("should reject a sub-category whose type differs from the parent", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		parent, _ := service.Create(ctx, Category{Name: "Salary", Type: TypeIncome, PaymentType: PaymentIncome})

		// when
		_, err := service.Create(ctx, Category{Name: "Rent", Type: TypeExpense, ParentID: parent.ID, PaymentType: PaymentAuto})

		// then
		assert.ErrorIs(t, err, ErrParentTypeMismatch)
	})

	t.Run("should reject a missing parent", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Create(ctx, Category{Name: "Rent", Type: TypeExpense, ParentID: 999, PaymentType: PaymentAuto})

		// then
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})

	t.Run("should reject invalid enum values", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Create(ctx, Category{Name: "Housing", Type: "WEIRD", PaymentType: PaymentAuto})

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid category type")
	})

	t.Run("should return error when context has no household", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Create(context.Background(), Category{Name: "Housing", Type: TypeExpense, PaymentType: PaymentAuto})

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current household")
	})
}

func TestServiceImpl_Update(t *testing.T) {
	t.Run("should update a category successfully", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, _ := service.Create(ctx, Category{Name: "Housing", Type: TypeExpense, PaymentType: PaymentAuto})
		created.Name = "Home"
		created.IsPersistent = true

		// when
		updated, err := service.Update(ctx, created)

		// then
		assert.NoError(t, err)
		assert.Equal(t, "Home", updated.Name)
		assert.True(t, updated.IsPersistent)
	})

	t.Run("should not demote a category that still has children", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		parent, _ := service.Create(ctx, Category{Name: "Housing", Type: TypeExpense, PaymentType: PaymentAuto})
		other, _ := service.Create(ctx, Category{Name: "Utilities", Type: TypeExpense, PaymentType: PaymentAuto})
		_, err := service.Create(ctx, Category{Name: "Rent", Type: TypeExpense, ParentID: parent.ID, PaymentType: PaymentAuto})
		require.NoError(t, err)
		parent.ParentID = other.ID

		// when
		_, err = service.Update(ctx, parent)

		// then
		assert.ErrorIs(t, err, ErrNestedSubcategory)
	})
}

func TestServiceImpl_Move(t *testing.T) {
	t.Run("should move a sub-category to another parent of the same type", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		housing, _ := service.Create(ctx, Category{Name: "Housing", Type: TypeExpense, PaymentType: PaymentAuto})
		utilities, _ := service.Create(ctx, Category{Name: "Utilities", Type: TypeExpense, PaymentType: PaymentAuto})
		rent, _ := service.Create(ctx, Category{Name: "Rent", Type: TypeExpense, ParentID: housing.ID, PaymentType: PaymentAuto})

		// when
		err := service.Move(ctx, rent.ID, utilities.ID)

		// then
		assert.NoError(t, err)
		moved, err := service.Get(ctx, rent.ID)
		require.NoError(t, err)
		assert.Equal(t, utilities.ID, moved.ParentID)
	})

	t.Run("should refuse to move a top-level category", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		housing, _ := service.Create(ctx, Category{Name: "Housing", Type: TypeExpense, PaymentType: PaymentAuto})
		utilities, _ := service.Create(ctx, Category{Name: "Utilities", Type: TypeExpense, PaymentType: PaymentAuto})

		// when
		err := service.Move(ctx, housing.ID, utilities.ID)

		// then
		assert.ErrorIs(t, err, ErrNotSubcategory)
	})

	t.Run("should refuse a new parent that is itself a sub-category", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		housing, _ := service.Create(ctx, Category{Name: "Housing", Type: TypeExpense, PaymentType: PaymentAuto})
		rent, _ := service.Create(ctx, Category{Name: "Rent", Type: TypeExpense, ParentID: housing.ID, PaymentType: PaymentAuto})
		repairs, _ := service.Create(ctx, Category{Name: "Repairs", Type: TypeExpense, ParentID: housing.ID, PaymentType: PaymentManual})

		// when
		err := service.Move(ctx, rent.ID, repairs.ID)

		// then
		assert.ErrorIs(t, err, ErrNestedSubcategory)
	})

	t.Run("should refuse a new parent of a different type", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		housing, _ := service.Create(ctx, Category{Name: "Housing", Type: TypeExpense, PaymentType: PaymentAuto})
		salary, _ := service.Create(ctx, Category{Name: "Salary", Type: TypeIncome, PaymentType: PaymentIncome})
		rent, _ := service.Create(ctx, Category{Name: "Rent", Type: TypeExpense, ParentID: housing.ID, PaymentType: PaymentAuto})

		// when
		err := service.Move(ctx, rent.ID, salary.ID)

		// then
		assert.ErrorIs(t, err, ErrParentTypeMismatch)
	})
}

func TestServiceImpl_BulkAddChildren(t *testing.T) {
	t.Run("should create one sub-category per non-empty line", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		housing, _ := service.Create(ctx, Category{Name: "Housing", Type: TypeExpense, PaymentType: PaymentAuto})

		// when
		created, err := service.BulkAddChildren(ctx, housing.ID, []string{"Rent", "  ", "Insurance ", ""}, true, PaymentAuto)

		// then
		assert.NoError(t, err)
		assert.Equal(t, 2, created)
		tree, err := service.Tree(ctx)
		require.NoError(t, err)
		require.Len(t, tree, 1)
		require.Len(t, tree[0].Children, 2)
		assert.Equal(t, "Insurance", tree[0].Children[0].Name)
		assert.Equal(t, TypeExpense, tree[0].Children[0].Type)
		assert.True(t, tree[0].Children[0].IsEssential)
	})

	t.Run("should refuse a sub-category as parent", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		housing, _ := service.Create(ctx, Category{Name: "Housing", Type: TypeExpense, PaymentType: PaymentAuto})
		rent, _ := service.Create(ctx, Category{Name: "Rent", Type: TypeExpense, ParentID: housing.ID, PaymentType: PaymentAuto})

		// when
		_, err := service.BulkAddChildren(ctx, rent.ID, []string{"Deeper"}, false, PaymentAuto)

		// then
		assert.ErrorIs(t, err, ErrNestedSubcategory)
	})
}

func TestServiceImpl_Delete(t *testing.T) {
	t.Run("should delete a category without budgets", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, _ := service.Create(ctx, Category{Name: "Housing", Type: TypeExpense, PaymentType: PaymentAuto})

		// when
		err := service.Delete(ctx, created.ID)

		// then
		assert.NoError(t, err)
		_, err = service.Get(ctx, created.ID)
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})

	t.Run("should refuse to delete a category with budgets", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, _ := service.Create(ctx, Category{Name: "Housing", Type: TypeExpense, PaymentType: PaymentAuto})
		categoryRepoStub.BudgetedCategories[created.ID] = true

		// when
		err := service.Delete(ctx, created.ID)

		// then
		assert.ErrorIs(t, err, ErrCategoryInUse)
	})
}

func TestServiceImpl_Notes(t *testing.T) {
	t.Run("should add and list notes newest first", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, _ := service.Create(ctx, Category{Name: "Housing", Type: TypeExpense, PaymentType: PaymentAuto})
		_, err := service.AddNote(ctx, created.ID, "rent goes up in June")
		require.NoError(t, err)
		_, err = service.AddNote(ctx, created.ID, "check insurance renewal")
		require.NoError(t, err)

		// when
		notes, err := service.ListNotes(ctx, created.ID)

		// then
		assert.NoError(t, err)
		require.Len(t, notes, 2)
		assert.Equal(t, "check insurance renewal", notes[0].Note)
		assert.Equal(t, "alice@example.com", notes[0].AuthorEmail)
	})

	t.Run("should reject an empty note", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, _ := service.Create(ctx, Category{Name: "Housing", Type: TypeExpense, PaymentType: PaymentAuto})

		// when
		_, err := service.AddNote(ctx, created.ID, "   ")

		// then
		assert.Error(t, err)
	})
}

func TestBuildTree(t *testing.T) {
	t.Run("should group children under parents ordered by name", func(t *testing.T) {
		// given
		categories := []Category{
			{ID: 1, Name: "Utilities", Type: TypeExpense},
			{ID: 2, Name: "Housing", Type: TypeExpense},
			{ID: 3, Name: "Rent", Type: TypeExpense, ParentID: 2},
			{ID: 4, Name: "Electricity", Type: TypeExpense, ParentID: 1},
			{ID: 5, Name: "Water", Type: TypeExpense, ParentID: 1},
		}

		// when
		tree := BuildTree(categories)

		// then
		require.Len(t, tree, 2)
		assert.Equal(t, "Housing", tree[0].Category.Name)
		assert.Equal(t, "Utilities", tree[1].Category.Name)
		require.Len(t, tree[1].Children, 2)
		assert.Equal(t, "Electricity", tree[1].Children[0].Name)
	})

	t.Run("should ignore children whose parent is missing", func(t *testing.T) {
		// given
		categories := []Category{
			{ID: 1, Name: "Housing", Type: TypeExpense},
			{ID: 3, Name: "Orphan", Type: TypeExpense, ParentID: 99},
		}

		// when
		tree := BuildTree(categories)

		// then
		require.Len(t, tree, 1)
		assert.False(t, tree[0].HasChildren())
	})
}
