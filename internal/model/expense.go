package model

import "time"

// DateLayout is the calendar date format used for all expense dates, both
// on the wire (CLI input) and in the database.
const DateLayout = "2006-01-02"

// Expense represents a single dated monetary outflow attributed to exactly
// one category.
type Expense struct {
	Date         time.Time
	CreatedAt    time.Time
	Description  string
	CategoryName string // populated on reads via join, never stored
	ID           int64
	CategoryID   int64
	Amount       float64
}

// ExpenseUpdate describes a partial update to an expense. Nil fields are
// left unchanged.
type ExpenseUpdate struct {
	Amount      *float64
	CategoryID  *int64
	Description *string
	Date        *time.Time
}

// ExpenseFilter selects expenses for search. Zero-valued fields are ignored;
// set fields are combined with AND.
type ExpenseFilter struct {
	Start        *time.Time // inclusive lower bound on date
	End          *time.Time // inclusive upper bound on date
	CategoryID   *int64
	CategoryName string // case-insensitive match on category name
	Keyword      string // case-insensitive substring match on description
}

// IsZero reports whether no filter criteria are set.
func (f ExpenseFilter) IsZero() bool {
	return f.Start == nil && f.End == nil && f.CategoryID == nil &&
		f.CategoryName == "" && f.Keyword == ""
}
