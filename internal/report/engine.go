// Package report builds aggregated spending reports from stored expenses
// and renders them as plain text. It is read-only with respect to the
// database.
package report

import (
	"context"
	"fmt"
	"os"
	"time"

	"tally/internal/common"
	"tally/internal/model"
)

// Store provides the read-only queries the reporting engine needs. It is
// implemented by *storage.SQLiteStorage.
type Store interface {
	CategorySummary(ctx context.Context) ([]model.CategorySpend, error)
	MonthlySummary(ctx context.Context, year int, month int) ([]model.CategorySpend, error)
	TotalSpending(ctx context.Context) (float64, error)
	ListExpenses(ctx context.Context) ([]model.Expense, error)
}

// Report is any renderable report that can be exported to a text file.
type Report interface {
	Render() string
}

// Engine produces reports from a Store.
type Engine struct {
	store Store
}

// NewEngine creates a reporting engine backed by the given store.
func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// Summary is the all-time per-category spending report.
type Summary struct {
	GeneratedAt time.Time
	Rows        []model.CategorySpend
	Total       float64
}

// Monthly is the spending report for a single calendar month. Categories
// with no expenses in the month are omitted from Rows; Total sums the
// month's actual expense amounts, so the omission loses nothing.
type Monthly struct {
	GeneratedAt time.Time
	Rows        []model.CategorySpend
	Total       float64
	Year        int
	Month       int
}

// CategorySummary computes the all-time spending summary: one row per
// category ordered by id, plus the overall total.
func (e *Engine) CategorySummary(ctx context.Context) (*Summary, error) {
	rows, err := e.store.CategorySummary(ctx)
	if err != nil {
		return nil, err
	}
	total, err := e.store.TotalSpending(ctx)
	if err != nil {
		return nil, err
	}
	return &Summary{
		GeneratedAt: time.Now(),
		Rows:        rows,
		Total:       total,
	}, nil
}

// MonthlyReport computes the spending breakdown for one calendar month.
func (e *Engine) MonthlyReport(ctx context.Context, year int, month int) (*Monthly, error) {
	rows, err := e.store.MonthlySummary(ctx, year, month)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, row := range rows {
		total += row.TotalSpent
	}

	return &Monthly{
		GeneratedAt: time.Now(),
		Rows:        rows,
		Total:       total,
		Year:        year,
		Month:       month,
	}, nil
}

// Export renders a report to plain text and writes it to destinationPath,
// overwriting any existing file. The export appends the most recent
// expenses after the report body.
func (e *Engine) Export(ctx context.Context, r Report, destinationPath string) error {
	expenses, err := e.store.ListExpenses(ctx)
	if err != nil {
		return err
	}
	if len(expenses) > exportRecentLimit {
		expenses = expenses[:exportRecentLimit]
	}

	text := renderExport(r, expenses)
	if err := os.WriteFile(destinationPath, []byte(text), 0600); err != nil {
		return fmt.Errorf("%w: %s: %v", common.ErrExportFailed, destinationPath, err)
	}
	return nil
}
