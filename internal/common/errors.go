// Package common provides shared error types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Storage errors. These are fatal for the current session; recovery
	// requires operator intervention.
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrSchemaCorrupt      = errors.New("database schema corrupt")

	// Repository errors. ErrNotFound is a normal outcome for lookups on
	// absent ids, not a crash condition.
	ErrNotFound         = errors.New("not found")
	ErrDuplicateName    = errors.New("category name already exists")
	ErrInvalidBudget    = errors.New("budget limit cannot be negative")
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrCategoryNotFound = errors.New("category does not exist")

	// Reporting errors.
	ErrExportFailed = errors.New("report export failed")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsFatal reports whether an error should abort the session rather than be
// surfaced as a correctable input problem.
func IsFatal(err error) bool {
	return errors.Is(err, ErrStorageUnavailable) || errors.Is(err, ErrSchemaCorrupt)
}
