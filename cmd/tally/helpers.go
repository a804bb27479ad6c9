package main

import (
	"context"
	"fmt"
	"time"

	"tally/internal/config"
	"tally/internal/model"
	"tally/internal/storage"

	"github.com/spf13/viper"
)

// initStorage opens the database, runs migrations, and seeds the default
// categories on a fresh store. Every command goes through here.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/tally/tally.db"
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := store.SeedDefaultCategories(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to seed categories: %w", err)
	}

	return store, nil
}

// parseDate is the strict input boundary for calendar dates: menu input is
// YYYY-MM-DD text, nothing else.
func parseDate(s string) (time.Time, error) {
	date, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected format %s", s, model.DateLayout)
	}
	return date, nil
}

// formatBudget renders a budget limit, treating zero as "no limit".
func formatBudget(limit float64) string {
	if limit <= 0 {
		return "no limit"
	}
	return fmt.Sprintf("$%.2f", limit)
}
