// Package testutil provides shared helpers for tests that need a real
// SQLite database.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"tally/internal/storage"
)

// SetupTestDB creates a migrated, empty test database in a temp directory
// and registers cleanup. Foreign-key enforcement is on, exactly as in
// production.
func SetupTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "tally-test.db")
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// SetupSeededTestDB creates a test database with the default categories
// already seeded.
func SetupSeededTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store := SetupTestDB(t)
	if err := store.SeedDefaultCategories(context.Background()); err != nil {
		t.Fatalf("failed to seed default categories: %v", err)
	}
	return store
}
