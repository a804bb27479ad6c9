package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tally/internal/common"
	"tally/internal/model"
)

// CreateCategory creates a new category. The name must be unique among all
// categories; matching is case-sensitive.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, name string, budgetLimit float64) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	if err := validateBudgetLimit(budgetLimit); err != nil {
		return nil, err
	}

	tx, err := s.beginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.checkNameAvailable(ctx, tx, name, 0); err != nil {
		return nil, err
	}

	now := time.Now()
	result, err := tx.ExecContext(ctx, `
		INSERT INTO categories (name, budget_limit, created_at)
		VALUES (?, ?, ?)
	`, name, budgetLimit, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get category ID: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit category: %w", err)
	}

	slog.Info("created category", "name", name, "id", id, "budget_limit", budgetLimit)
	return &model.Category{
		ID:          id,
		Name:        name,
		BudgetLimit: budgetLimit,
		CreatedAt:   now,
	}, nil
}

// GetCategoryByID returns the category with the given id.
func (s *SQLiteStorage) GetCategoryByID(ctx context.Context, id int64) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var cat model.Category
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, budget_limit, created_at
		FROM categories
		WHERE id = ?
	`, id).Scan(&cat.ID, &cat.Name, &cat.BudgetLimit, &cat.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: category id %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	return &cat, nil
}

// GetCategoryByName returns the category with the given name. Matching is
// case-sensitive, like the uniqueness constraint.
func (s *SQLiteStorage) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	var cat model.Category
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, budget_limit, created_at
		FROM categories
		WHERE name = ?
	`, name).Scan(&cat.ID, &cat.Name, &cat.BudgetLimit, &cat.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: category %q", common.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	return &cat, nil
}

// ListCategories returns all categories ordered by id ascending.
func (s *SQLiteStorage) ListCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, budget_limit, created_at
		FROM categories
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.BudgetLimit, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// UpdateCategory applies a partial update to a category. Only the fields
// set on upd change; a name change re-checks uniqueness.
func (s *SQLiteStorage) UpdateCategory(ctx context.Context, id int64, upd model.CategoryUpdate) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if upd.Name != nil {
		if err := validateString(*upd.Name, "name"); err != nil {
			return nil, err
		}
	}
	if upd.BudgetLimit != nil {
		if err := validateBudgetLimit(*upd.BudgetLimit); err != nil {
			return nil, err
		}
	}

	tx, err := s.beginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	cat, err := getCategoryTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil && *upd.Name != cat.Name {
		if err := s.checkNameAvailable(ctx, tx, *upd.Name, id); err != nil {
			return nil, err
		}
		cat.Name = *upd.Name
	}
	if upd.BudgetLimit != nil {
		cat.BudgetLimit = *upd.BudgetLimit
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE categories SET name = ?, budget_limit = ? WHERE id = ?
	`, cat.Name, cat.BudgetLimit, id); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit category update: %w", err)
	}

	slog.Info("updated category", "id", id, "name", cat.Name, "budget_limit", cat.BudgetLimit)
	return cat, nil
}

// DeleteCategory removes a category and, via the foreign-key cascade, every
// expense that references it. Both happen in the same transaction: either
// the category and all dependent expenses are removed, or neither is.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var dependents int
	if err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM expenses WHERE category_id = ?
	`, id).Scan(&dependents); err != nil {
		return fmt.Errorf("failed to count dependent expenses: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: category id %d", common.ErrNotFound, id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit category delete: %w", err)
	}

	slog.Info("deleted category", "id", id, "cascaded_expenses", dependents)
	return nil
}

// checkNameAvailable fails with ErrDuplicateName if another category
// already uses the name. excludeID skips the category being updated.
func (s *SQLiteStorage) checkNameAvailable(ctx context.Context, tx *sql.Tx, name string, excludeID int64) error {
	var existingID int64
	err := tx.QueryRowContext(ctx, `
		SELECT id FROM categories WHERE name = ? AND id != ?
	`, name, excludeID).Scan(&existingID)
	if err == nil {
		return fmt.Errorf("%w: %q", common.ErrDuplicateName, name)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check existing category: %w", err)
	}
	return nil
}

// getCategoryTx reads a category inside an open transaction.
func getCategoryTx(ctx context.Context, tx *sql.Tx, id int64) (*model.Category, error) {
	var cat model.Category
	err := tx.QueryRowContext(ctx, `
		SELECT id, name, budget_limit, created_at
		FROM categories
		WHERE id = ?
	`, id).Scan(&cat.ID, &cat.Name, &cat.BudgetLimit, &cat.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: category id %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return &cat, nil
}
