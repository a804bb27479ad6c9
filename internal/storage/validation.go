package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tally/internal/common"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrInvalidDateRange = errors.New("start date must be before end date")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateAmount rejects non-positive expense amounts before any write.
func validateAmount(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: got %.2f", common.ErrInvalidAmount, amount)
	}
	return nil
}

// validateBudgetLimit rejects negative budget limits. Zero is valid and
// means "no limit".
func validateBudgetLimit(limit float64) error {
	if limit < 0 {
		return fmt.Errorf("%w: got %.2f", common.ErrInvalidBudget, limit)
	}
	return nil
}
