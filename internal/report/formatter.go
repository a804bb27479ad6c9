package report

import (
	"fmt"
	"strings"
	"time"

	"tally/internal/model"
)

const (
	rule              = "--------------------------------------------------"
	doubleRule        = "=================================================="
	exportRecentLimit = 20
)

// Render formats the all-time summary as plain text. Categories without a
// budget limit show "no limit" instead of a percentage; the division is
// never attempted.
func (s *Summary) Render() string {
	var b strings.Builder
	b.WriteString("SPENDING SUMMARY BY CATEGORY\n")
	b.WriteString(rule + "\n")

	for i := range s.Rows {
		writeCategorySpend(&b, &s.Rows[i])
	}
	if len(s.Rows) == 0 {
		b.WriteString("No categories defined.\n")
	}

	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "TOTAL SPENDING: $%.2f\n", s.Total)
	return b.String()
}

// Render formats the monthly report as plain text.
func (m *Monthly) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "MONTHLY REPORT FOR %04d-%02d\n", m.Year, m.Month)
	b.WriteString(rule + "\n")

	for i := range m.Rows {
		writeCategorySpend(&b, &m.Rows[i])
	}
	if len(m.Rows) == 0 {
		b.WriteString("No expenses recorded this month.\n")
	}

	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "MONTH TOTAL: $%.2f\n", m.Total)
	return b.String()
}

func writeCategorySpend(b *strings.Builder, row *model.CategorySpend) {
	fmt.Fprintf(b, "%s:\n", row.Name)
	fmt.Fprintf(b, "  Expenses: %d\n", row.ExpenseCount)
	fmt.Fprintf(b, "  Total Spent: $%.2f\n", row.TotalSpent)
	if pct, ok := row.PercentUsed(); ok {
		fmt.Fprintf(b, "  Budget Limit: $%.2f\n", row.BudgetLimit)
		fmt.Fprintf(b, "  Remaining: $%.2f\n", row.Remaining())
		fmt.Fprintf(b, "  Percent Used: %.1f%%\n", pct)
	} else {
		b.WriteString("  Budget Limit: no limit\n")
	}
	b.WriteString("\n")
}

// renderExport wraps a report body with a header and a recent-expenses
// section for file export.
func renderExport(r Report, recent []model.Expense) string {
	var b strings.Builder
	b.WriteString(doubleRule + "\n")
	b.WriteString("TALLY EXPENSE REPORT\n")
	fmt.Fprintf(&b, "Generated: %s\n", time.Now().Format(time.RFC1123))
	b.WriteString(doubleRule + "\n\n")

	b.WriteString(r.Render())

	b.WriteString("\nRECENT EXPENSES:\n")
	b.WriteString(rule + "\n")
	if len(recent) == 0 {
		b.WriteString("No expenses recorded.\n")
	}
	for i := range recent {
		exp := &recent[i]
		fmt.Fprintf(&b, "[%d] %s - %s\n", exp.ID, exp.Date.Format(model.DateLayout), exp.CategoryName)
		fmt.Fprintf(&b, "  Amount: $%.2f\n", exp.Amount)
		if exp.Description != "" {
			fmt.Fprintf(&b, "  Description: %s\n", exp.Description)
		}
		b.WriteString("\n")
	}

	return b.String()
}
