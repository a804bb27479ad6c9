package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tally/internal/common"
	"tally/internal/model"
)

// CategorySummary aggregates spending for every category, including those
// with no expenses, ordered by category id ascending.
func (s *SQLiteStorage) CategorySummary(ctx context.Context) ([]model.CategorySpend, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.budget_limit,
			COUNT(e.id) AS expense_count,
			COALESCE(SUM(e.amount), 0) AS total_spent
		FROM categories c
		LEFT JOIN expenses e ON e.category_id = c.id
		GROUP BY c.id, c.name, c.budget_limit
		ORDER BY c.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query category summary: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanCategorySpend(rows)
}

// MonthlySummary aggregates spending per category for one calendar month.
// Categories with no expenses in the month are omitted.
func (s *SQLiteStorage) MonthlySummary(ctx context.Context, year int, month int) ([]model.CategorySpend, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid month: %d", month)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.budget_limit,
			COUNT(e.id) AS expense_count,
			SUM(e.amount) AS total_spent
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE strftime('%Y', e.date) = ? AND strftime('%m', e.date) = ?
		GROUP BY c.id, c.name, c.budget_limit
		ORDER BY c.id
	`, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month))
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly summary: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanCategorySpend(rows)
}

// CategoryUsage returns the spending aggregate for a single category.
func (s *SQLiteStorage) CategoryUsage(ctx context.Context, id int64) (*model.CategorySpend, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var spend model.CategorySpend
	err := s.db.QueryRowContext(ctx, `
		SELECT c.id, c.name, c.budget_limit,
			COUNT(e.id) AS expense_count,
			COALESCE(SUM(e.amount), 0) AS total_spent
		FROM categories c
		LEFT JOIN expenses e ON e.category_id = c.id
		WHERE c.id = ?
		GROUP BY c.id, c.name, c.budget_limit
	`, id).Scan(&spend.CategoryID, &spend.Name, &spend.BudgetLimit, &spend.ExpenseCount, &spend.TotalSpent)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: category id %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category usage: %w", err)
	}

	return &spend, nil
}

// TotalSpending returns the sum of all expense amounts, zero when the
// database holds no expenses.
func (s *SQLiteStorage) TotalSpending(ctx context.Context) (float64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var total float64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM expenses
	`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to query total spending: %w", err)
	}
	return total, nil
}

func scanCategorySpend(rows *sql.Rows) ([]model.CategorySpend, error) {
	var summary []model.CategorySpend
	for rows.Next() {
		var spend model.CategorySpend
		if err := rows.Scan(&spend.CategoryID, &spend.Name, &spend.BudgetLimit,
			&spend.ExpenseCount, &spend.TotalSpent); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		summary = append(summary, spend)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating summary: %w", err)
	}
	return summary, nil
}
