package storage

import (
	"context"
	"testing"

	"tally/internal/common"
	"tally/internal/model"

	"github.com/stretchr/testify/require"
)

func TestCreateCategory(t *testing.T) {
	tests := []struct {
		wantErr     error
		name        string
		catName     string
		budgetLimit float64
	}{
		{name: "plain category", catName: "Groceries", budgetLimit: 250},
		{name: "zero budget means no limit", catName: "Travel", budgetLimit: 0},
		{name: "negative budget rejected", catName: "Bad", budgetLimit: -1, wantErr: common.ErrInvalidBudget},
		{name: "empty name rejected", catName: "  ", budgetLimit: 10, wantErr: ErrEmptyString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := createTestStorage(t)
			ctx := context.Background()

			cat, err := store.CreateCategory(ctx, tt.catName, tt.budgetLimit)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotZero(t, cat.ID)
			require.Equal(t, tt.catName, cat.Name)
			require.Equal(t, tt.budgetLimit, cat.BudgetLimit)
			require.False(t, cat.CreatedAt.IsZero())

			got, err := store.GetCategoryByID(ctx, cat.ID)
			require.NoError(t, err)
			require.Equal(t, cat.Name, got.Name)
			require.Equal(t, cat.BudgetLimit, got.BudgetLimit)
		})
	}
}

func TestCreateCategory_DuplicateName(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	_, err := store.CreateCategory(ctx, "Food", 100)
	require.NoError(t, err)

	_, err = store.CreateCategory(ctx, "Food", 200)
	require.ErrorIs(t, err, common.ErrDuplicateName)

	// The failed call must leave the table unchanged
	categories, err := store.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	require.Equal(t, 100.00, categories[0].BudgetLimit)
}

func TestCreateCategory_NameMatchingIsCaseSensitive(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	_, err := store.CreateCategory(ctx, "Food", 0)
	require.NoError(t, err)

	// Different case is a different name
	_, err = store.CreateCategory(ctx, "food", 0)
	require.NoError(t, err)

	categories, err := store.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
}

func TestGetCategory_NotFound(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	_, err := store.GetCategoryByID(ctx, 999)
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = store.GetCategoryByName(ctx, "Nonexistent")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestListCategories_OrderedByID(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	for _, name := range []string{"Zulu", "Alpha", "Mike"} {
		_, err := store.CreateCategory(ctx, name, 0)
		require.NoError(t, err)
	}

	categories, err := store.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 3)
	// Insert order, not name order
	require.Equal(t, "Zulu", categories[0].Name)
	require.Equal(t, "Alpha", categories[1].Name)
	require.Equal(t, "Mike", categories[2].Name)
	require.Less(t, categories[0].ID, categories[1].ID)
	require.Less(t, categories[1].ID, categories[2].ID)
}

func TestUpdateCategory(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, "Food", 0)
	require.NoError(t, err)

	// Budget only; name must survive
	newLimit := 100.00
	updated, err := store.UpdateCategory(ctx, cat.ID, model.CategoryUpdate{BudgetLimit: &newLimit})
	require.NoError(t, err)
	require.Equal(t, "Food", updated.Name)
	require.Equal(t, 100.00, updated.BudgetLimit)

	// Name only; budget must survive
	newName := "Dining"
	updated, err = store.UpdateCategory(ctx, cat.ID, model.CategoryUpdate{Name: &newName})
	require.NoError(t, err)
	require.Equal(t, "Dining", updated.Name)
	require.Equal(t, 100.00, updated.BudgetLimit)

	got, err := store.GetCategoryByID(ctx, cat.ID)
	require.NoError(t, err)
	require.Equal(t, "Dining", got.Name)
	require.Equal(t, 100.00, got.BudgetLimit)
}

func TestUpdateCategory_Validation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, "Food", 0)
	require.NoError(t, err)
	_, err = store.CreateCategory(ctx, "Travel", 0)
	require.NoError(t, err)

	dup := "Travel"
	_, err = store.UpdateCategory(ctx, cat.ID, model.CategoryUpdate{Name: &dup})
	require.ErrorIs(t, err, common.ErrDuplicateName)

	negative := -5.0
	_, err = store.UpdateCategory(ctx, cat.ID, model.CategoryUpdate{BudgetLimit: &negative})
	require.ErrorIs(t, err, common.ErrInvalidBudget)

	name := "Whatever"
	_, err = store.UpdateCategory(ctx, 999, model.CategoryUpdate{Name: &name})
	require.ErrorIs(t, err, common.ErrNotFound)

	// Renaming a category to its own name is not a duplicate
	same := "Food"
	updated, err := store.UpdateCategory(ctx, cat.ID, model.CategoryUpdate{Name: &same})
	require.NoError(t, err)
	require.Equal(t, "Food", updated.Name)
}

func TestDeleteCategory_CascadesToExpenses(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	food, err := store.CreateCategory(ctx, "Food", 0)
	require.NoError(t, err)
	travel, err := store.CreateCategory(ctx, "Travel", 0)
	require.NoError(t, err)

	_, err = store.CreateExpense(ctx, 20, food.ID, "lunch", mustDate(t, "2024-03-05"))
	require.NoError(t, err)
	_, err = store.CreateExpense(ctx, 15.50, food.ID, "dinner", mustDate(t, "2024-03-10"))
	require.NoError(t, err)
	kept, err := store.CreateExpense(ctx, 99, travel.ID, "train", mustDate(t, "2024-03-11"))
	require.NoError(t, err)

	require.NoError(t, store.DeleteCategory(ctx, food.ID))

	_, err = store.GetCategoryByID(ctx, food.ID)
	require.ErrorIs(t, err, common.ErrNotFound)

	// No orphaned expenses: only the travel expense survives
	expenses, err := store.ListExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	require.Equal(t, kept.ID, expenses[0].ID)
}

func TestDeleteCategory_NotFound(t *testing.T) {
	store := createTestStorage(t)

	err := store.DeleteCategory(context.Background(), 42)
	require.ErrorIs(t, err, common.ErrNotFound)
}
