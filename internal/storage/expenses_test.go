package storage

import (
	"context"
	"testing"
	"time"

	"tally/internal/common"
	"tally/internal/model"

	"github.com/stretchr/testify/require"
)

func TestCreateExpense_RoundTrip(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, "Groceries", 300)
	require.NoError(t, err)

	date := mustDate(t, "2024-03-05")
	exp, err := store.CreateExpense(ctx, 42.75, cat.ID, "weekly shop", date)
	require.NoError(t, err)
	require.NotZero(t, exp.ID)
	require.Equal(t, "Groceries", exp.CategoryName)

	got, err := store.GetExpenseByID(ctx, exp.ID)
	require.NoError(t, err)
	require.Equal(t, exp.ID, got.ID)
	require.Equal(t, 42.75, got.Amount)
	require.Equal(t, cat.ID, got.CategoryID)
	require.Equal(t, "Groceries", got.CategoryName)
	require.Equal(t, "weekly shop", got.Description)
	require.True(t, got.Date.Equal(date), "expected %v, got %v", date, got.Date)
	require.WithinDuration(t, time.Now(), got.CreatedAt, time.Minute)
}

func TestCreateExpense_InvalidAmount(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, "Groceries", 0)
	require.NoError(t, err)

	for _, amount := range []float64{0, -5} {
		_, err := store.CreateExpense(ctx, amount, cat.ID, "", time.Time{})
		require.ErrorIs(t, err, common.ErrInvalidAmount, "amount %v", amount)
	}

	// Failed calls must leave the table empty
	expenses, err := store.ListExpenses(ctx)
	require.NoError(t, err)
	require.Empty(t, expenses)
}

func TestCreateExpense_CategoryNotFound(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	_, err := store.CreateExpense(ctx, 10, 999, "", time.Time{})
	require.ErrorIs(t, err, common.ErrCategoryNotFound)

	expenses, err := store.ListExpenses(ctx)
	require.NoError(t, err)
	require.Empty(t, expenses)
}

func TestCreateExpense_DateDefaultsToToday(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, "Groceries", 0)
	require.NoError(t, err)

	exp, err := store.CreateExpense(ctx, 5, cat.ID, "", time.Time{})
	require.NoError(t, err)

	today := time.Now().Format(model.DateLayout)
	require.Equal(t, today, exp.Date.Format(model.DateLayout))
}

func TestUpdateExpense(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	food, err := store.CreateCategory(ctx, "Food", 0)
	require.NoError(t, err)
	travel, err := store.CreateCategory(ctx, "Travel", 0)
	require.NoError(t, err)

	exp, err := store.CreateExpense(ctx, 10, food.ID, "sandwich", mustDate(t, "2024-03-05"))
	require.NoError(t, err)

	// Partial update: amount only
	amount := 12.50
	updated, err := store.UpdateExpense(ctx, exp.ID, model.ExpenseUpdate{Amount: &amount})
	require.NoError(t, err)
	require.Equal(t, 12.50, updated.Amount)
	require.Equal(t, "sandwich", updated.Description)
	require.Equal(t, food.ID, updated.CategoryID)

	// Move to another category, change date
	newDate := mustDate(t, "2024-04-01")
	updated, err = store.UpdateExpense(ctx, exp.ID, model.ExpenseUpdate{
		CategoryID: &travel.ID,
		Date:       &newDate,
	})
	require.NoError(t, err)
	require.Equal(t, travel.ID, updated.CategoryID)
	require.Equal(t, "Travel", updated.CategoryName)
	require.True(t, updated.Date.Equal(newDate))
	require.Equal(t, 12.50, updated.Amount)
}

func TestUpdateExpense_Validation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, "Food", 0)
	require.NoError(t, err)
	exp, err := store.CreateExpense(ctx, 10, cat.ID, "", time.Time{})
	require.NoError(t, err)

	bad := -1.0
	_, err = store.UpdateExpense(ctx, exp.ID, model.ExpenseUpdate{Amount: &bad})
	require.ErrorIs(t, err, common.ErrInvalidAmount)

	missing := int64(999)
	_, err = store.UpdateExpense(ctx, exp.ID, model.ExpenseUpdate{CategoryID: &missing})
	require.ErrorIs(t, err, common.ErrCategoryNotFound)

	amount := 5.0
	_, err = store.UpdateExpense(ctx, 999, model.ExpenseUpdate{Amount: &amount})
	require.ErrorIs(t, err, common.ErrNotFound)

	// Failed updates must not leak partial writes
	got, err := store.GetExpenseByID(ctx, exp.ID)
	require.NoError(t, err)
	require.Equal(t, 10.00, got.Amount)
	require.Equal(t, cat.ID, got.CategoryID)
}

func TestDeleteExpense(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, "Food", 0)
	require.NoError(t, err)
	exp, err := store.CreateExpense(ctx, 10, cat.ID, "", time.Time{})
	require.NoError(t, err)

	require.NoError(t, store.DeleteExpense(ctx, exp.ID))

	_, err = store.GetExpenseByID(ctx, exp.ID)
	require.ErrorIs(t, err, common.ErrNotFound)

	// Deleting an expense never touches its category
	_, err = store.GetCategoryByID(ctx, cat.ID)
	require.NoError(t, err)

	require.ErrorIs(t, store.DeleteExpense(ctx, exp.ID), common.ErrNotFound)
}

func TestListExpenses_NewestFirst(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, "Food", 0)
	require.NoError(t, err)

	older, err := store.CreateExpense(ctx, 1, cat.ID, "older", mustDate(t, "2024-01-10"))
	require.NoError(t, err)
	newest, err := store.CreateExpense(ctx, 2, cat.ID, "newest", mustDate(t, "2024-02-01"))
	require.NoError(t, err)
	// Same date as older: later id wins the tie
	tied, err := store.CreateExpense(ctx, 3, cat.ID, "tied", mustDate(t, "2024-01-10"))
	require.NoError(t, err)

	expenses, err := store.ListExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, expenses, 3)
	require.Equal(t, newest.ID, expenses[0].ID)
	require.Equal(t, tied.ID, expenses[1].ID)
	require.Equal(t, older.ID, expenses[2].ID)
}

func TestSearchExpenses(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	food, err := store.CreateCategory(ctx, "Food", 0)
	require.NoError(t, err)
	travel, err := store.CreateCategory(ctx, "Travel", 0)
	require.NoError(t, err)

	_, err = store.CreateExpense(ctx, 10, food.ID, "Lunch at cafe", mustDate(t, "2023-12-31"))
	require.NoError(t, err)
	january, err := store.CreateExpense(ctx, 20, food.ID, "groceries", mustDate(t, "2024-01-15"))
	require.NoError(t, err)
	_, err = store.CreateExpense(ctx, 30, travel.ID, "train ticket", mustDate(t, "2024-02-01"))
	require.NoError(t, err)

	t.Run("by category id", func(t *testing.T) {
		got, err := store.SearchExpenses(ctx, model.ExpenseFilter{CategoryID: &food.ID})
		require.NoError(t, err)
		require.Len(t, got, 2)
		for _, exp := range got {
			require.Equal(t, food.ID, exp.CategoryID)
		}
	})

	t.Run("by category name case-insensitive", func(t *testing.T) {
		got, err := store.SearchExpenses(ctx, model.ExpenseFilter{CategoryName: "tRaVeL"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, "Travel", got[0].CategoryName)
	})

	t.Run("by inclusive date range", func(t *testing.T) {
		start := mustDate(t, "2024-01-01")
		end := mustDate(t, "2024-01-31")
		got, err := store.SearchExpenses(ctx, model.ExpenseFilter{Start: &start, End: &end})
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, january.ID, got[0].ID)
	})

	t.Run("range bounds are inclusive", func(t *testing.T) {
		start := mustDate(t, "2023-12-31")
		end := mustDate(t, "2024-02-01")
		got, err := store.SearchExpenses(ctx, model.ExpenseFilter{Start: &start, End: &end})
		require.NoError(t, err)
		require.Len(t, got, 3)
	})

	t.Run("by keyword case-insensitive substring", func(t *testing.T) {
		got, err := store.SearchExpenses(ctx, model.ExpenseFilter{Keyword: "LUNCH"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, "Lunch at cafe", got[0].Description)
	})

	t.Run("no match returns empty slice", func(t *testing.T) {
		got, err := store.SearchExpenses(ctx, model.ExpenseFilter{Keyword: "yacht"})
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Empty(t, got)
	})

	t.Run("inverted range rejected", func(t *testing.T) {
		start := mustDate(t, "2024-02-01")
		end := mustDate(t, "2024-01-01")
		_, err := store.SearchExpenses(ctx, model.ExpenseFilter{Start: &start, End: &end})
		require.ErrorIs(t, err, ErrInvalidDateRange)
	})
}
