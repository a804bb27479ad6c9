package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tally/internal/common"
	"tally/internal/model"

	"github.com/stretchr/testify/require"
)

// Helper function to create migrated test storage.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err, "failed to create storage")

	require.NoError(t, store.Migrate(context.Background()), "failed to migrate")

	t.Cleanup(func() { _ = store.Close() })
	return store
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	date, err := time.Parse(model.DateLayout, s)
	require.NoError(t, err)
	return date
}

func TestNewSQLiteStorage_UnwritablePath(t *testing.T) {
	// A regular file where the parent directory should be
	tmpDir := t.TempDir()
	blocker := filepath.Join(tmpDir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	_, err := NewSQLiteStorage(filepath.Join(blocker, "sub", "test.db"))
	require.ErrorIs(t, err, common.ErrStorageUnavailable)
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("  ")
	require.ErrorIs(t, err, ErrEmptyString)
}

func TestMigrate_Idempotent(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	// Populate, then migrate again; data must survive untouched
	cat, err := store.CreateCategory(ctx, "Groceries", 250)
	require.NoError(t, err)
	_, err = store.CreateExpense(ctx, 12.50, cat.ID, "milk", mustDate(t, "2024-03-05"))
	require.NoError(t, err)

	require.NoError(t, store.Migrate(ctx))

	categories, err := store.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)

	expenses, err := store.ListExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
}

func TestSeedDefaultCategories(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SeedDefaultCategories(ctx))

	categories, err := store.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, len(model.DefaultCategories))
	require.Equal(t, "Food", categories[0].Name)
	require.Equal(t, 500.00, categories[0].BudgetLimit)

	// Seeding again must be a no-op
	require.NoError(t, store.SeedDefaultCategories(ctx))
	categories, err = store.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, len(model.DefaultCategories))
}

func TestSeedDefaultCategories_SkipsNonEmptyStore(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	_, err := store.CreateCategory(ctx, "Rent", 1200)
	require.NoError(t, err)

	// One existing category is enough to suppress seeding entirely
	require.NoError(t, store.SeedDefaultCategories(ctx))

	categories, err := store.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	require.Equal(t, "Rent", categories[0].Name)
}

func TestMigrate_ReopenExistingStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))
	_, err = store.CreateCategory(ctx, "Travel", 0)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	require.NoError(t, reopened.Migrate(ctx))

	cat, err := reopened.GetCategoryByName(ctx, "Travel")
	require.NoError(t, err)
	require.Equal(t, "Travel", cat.Name)
}
