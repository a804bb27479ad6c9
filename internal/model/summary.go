package model

// CategorySpend aggregates spending for one category. BudgetLimit of zero
// means no limit is set and PercentUsed is undefined.
type CategorySpend struct {
	Name         string
	CategoryID   int64
	ExpenseCount int64
	TotalSpent   float64
	BudgetLimit  float64
}

// PercentUsed returns the share of the budget consumed, and whether a
// budget limit is set at all. Callers must not use the percentage when the
// second return value is false.
func (c *CategorySpend) PercentUsed() (float64, bool) {
	if c.BudgetLimit <= 0 {
		return 0, false
	}
	return c.TotalSpent / c.BudgetLimit * 100, true
}

// Remaining returns the unspent portion of the budget. Negative when the
// category is over budget. Only meaningful when a limit is set.
func (c *CategorySpend) Remaining() float64 {
	return c.BudgetLimit - c.TotalSpent
}
