package repositories

import (
	"errors"
	"strings"
)

// ErrNotFound is wrapped by repository errors for missing rows so services
// can branch on it without matching message strings.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateEntry is wrapped when an insert hits a unique constraint.
var ErrDuplicateEntry = errors.New("duplicate entry")

// isUniqueViolation recognizes unique-constraint failures from both the
// PostgreSQL and SQLite drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
