package model

import "time"

// Category represents a named spending bucket with an optional budget ceiling.
type Category struct {
	CreatedAt   time.Time
	Name        string
	ID          int64
	BudgetLimit float64
}

// HasBudget reports whether a spending limit is set for this category.
// A budget limit of zero means unlimited.
func (c *Category) HasBudget() bool {
	return c.BudgetLimit > 0
}

// CategoryUpdate describes a partial update to a category. Nil fields are
// left unchanged.
type CategoryUpdate struct {
	Name        *string
	BudgetLimit *float64
}

// DefaultCategory is a category seeded into a fresh database.
type DefaultCategory struct {
	Name        string
	BudgetLimit float64
}

// DefaultCategories are inserted the first time a database is created.
var DefaultCategories = []DefaultCategory{
	{Name: "Food", BudgetLimit: 500.00},
	{Name: "Transportation", BudgetLimit: 200.00},
	{Name: "Entertainment", BudgetLimit: 100.00},
	{Name: "Utilities", BudgetLimit: 300.00},
	{Name: "Shopping", BudgetLimit: 150.00},
	{Name: "Healthcare", BudgetLimit: 100.00},
	{Name: "Education", BudgetLimit: 200.00},
	{Name: "Miscellaneous", BudgetLimit: 50.00},
}
