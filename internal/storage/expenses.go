package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tally/internal/common"
	"tally/internal/model"
)

// expenseColumns is the select list shared by every expense read. The
// category name rides along via join so callers never need a second lookup.
const expenseColumns = `
	e.id, e.amount, e.category_id, c.name, e.description, e.date, e.created_at
	FROM expenses e
	JOIN categories c ON c.id = e.category_id`

// CreateExpense records a new expense. A zero date defaults to the current
// calendar date. The category check and the insert run in one transaction.
func (s *SQLiteStorage) CreateExpense(ctx context.Context, amount float64, categoryID int64, description string, date time.Time) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = time.Now()
	}

	tx, err := s.beginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	categoryName, err := categoryNameTx(ctx, tx, categoryID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	dateText := date.Format(model.DateLayout)
	result, err := tx.ExecContext(ctx, `
		INSERT INTO expenses (amount, category_id, description, date, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, amount, categoryID, description, dateText, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get expense ID: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expense: %w", err)
	}

	parsedDate, _ := time.Parse(model.DateLayout, dateText)
	slog.Info("created expense", "id", id, "amount", amount, "category", categoryName, "date", dateText)
	return &model.Expense{
		ID:           id,
		Amount:       amount,
		CategoryID:   categoryID,
		CategoryName: categoryName,
		Description:  description,
		Date:         parsedDate,
		CreatedAt:    now,
	}, nil
}

// GetExpenseByID returns the expense with the given id.
func (s *SQLiteStorage) GetExpenseByID(ctx context.Context, id int64) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT`+expenseColumns+` WHERE e.id = ?`, id)
	exp, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: expense id %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query expense: %w", err)
	}
	return exp, nil
}

// UpdateExpense applies a partial update to an expense with the same
// validation as create for any field supplied.
func (s *SQLiteStorage) UpdateExpense(ctx context.Context, id int64, upd model.ExpenseUpdate) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if upd.Amount != nil {
		if err := validateAmount(*upd.Amount); err != nil {
			return nil, err
		}
	}

	tx, err := s.beginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM expenses WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: expense id %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query expense: %w", err)
	}

	var sets []string
	var args []any
	if upd.Amount != nil {
		sets = append(sets, "amount = ?")
		args = append(args, *upd.Amount)
	}
	if upd.CategoryID != nil {
		if _, err := categoryNameTx(ctx, tx, *upd.CategoryID); err != nil {
			return nil, err
		}
		sets = append(sets, "category_id = ?")
		args = append(args, *upd.CategoryID)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	if upd.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, upd.Date.Format(model.DateLayout))
	}

	if len(sets) > 0 {
		args = append(args, id)
		query := fmt.Sprintf("UPDATE expenses SET %s WHERE id = ?", strings.Join(sets, ", "))
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("failed to update expense: %w", err)
		}
	}

	row := tx.QueryRowContext(ctx, `SELECT`+expenseColumns+` WHERE e.id = ?`, id)
	exp, err := scanExpense(row)
	if err != nil {
		return nil, fmt.Errorf("failed to re-read expense: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expense update: %w", err)
	}

	slog.Info("updated expense", "id", id, "fields", len(sets))
	return exp, nil
}

// DeleteExpense removes a single expense row. Expenses are leaves; nothing
// cascades from them.
func (s *SQLiteStorage) DeleteExpense(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: expense id %d", common.ErrNotFound, id)
	}

	slog.Info("deleted expense", "id", id)
	return nil
}

// ListExpenses returns all expenses, newest first by date. Expenses on the
// same date are ordered id-descending so the most recently recorded comes
// first.
func (s *SQLiteStorage) ListExpenses(ctx context.Context) ([]model.Expense, error) {
	return s.SearchExpenses(ctx, model.ExpenseFilter{})
}

// SearchExpenses returns expenses matching the filter, in the same ordering
// as ListExpenses. An empty result is an empty slice, not an error.
func (s *SQLiteStorage) SearchExpenses(ctx context.Context, filter model.ExpenseFilter) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if filter.Start != nil && filter.End != nil && filter.End.Before(*filter.Start) {
		return nil, fmt.Errorf("%w: %s after %s", ErrInvalidDateRange,
			filter.Start.Format(model.DateLayout), filter.End.Format(model.DateLayout))
	}

	var conds []string
	var args []any
	if filter.CategoryID != nil {
		conds = append(conds, "e.category_id = ?")
		args = append(args, *filter.CategoryID)
	}
	if filter.CategoryName != "" {
		conds = append(conds, "LOWER(c.name) = LOWER(?)")
		args = append(args, filter.CategoryName)
	}
	if filter.Start != nil {
		conds = append(conds, "e.date >= ?")
		args = append(args, filter.Start.Format(model.DateLayout))
	}
	if filter.End != nil {
		conds = append(conds, "e.date <= ?")
		args = append(args, filter.End.Format(model.DateLayout))
	}
	if filter.Keyword != "" {
		conds = append(conds, "e.description LIKE ?")
		args = append(args, "%"+filter.Keyword+"%")
	}

	query := `SELECT` + expenseColumns
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY e.date DESC, e.id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	expenses := []model.Expense{}
	for rows.Next() {
		exp, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, *exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	slog.Debug("retrieved expenses", "count", len(expenses))
	return expenses, nil
}

// categoryNameTx resolves a category id inside an open transaction, failing
// with ErrCategoryNotFound when the id does not reference a live category.
func categoryNameTx(ctx context.Context, tx *sql.Tx, categoryID int64) (string, error) {
	var name string
	err := tx.QueryRowContext(ctx, `SELECT name FROM categories WHERE id = ?`, categoryID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: id %d", common.ErrCategoryNotFound, categoryID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to check category: %w", err)
	}
	return name, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(row scanner) (*model.Expense, error) {
	var exp model.Expense
	var dateText string
	if err := row.Scan(
		&exp.ID,
		&exp.Amount,
		&exp.CategoryID,
		&exp.CategoryName,
		&exp.Description,
		&dateText,
		&exp.CreatedAt,
	); err != nil {
		return nil, err
	}

	date, err := time.Parse(model.DateLayout, dateText)
	if err != nil {
		return nil, fmt.Errorf("%w: bad date %q: %v", common.ErrSchemaCorrupt, dateText, err)
	}
	exp.Date = date
	return &exp, nil
}
