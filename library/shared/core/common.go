package core

import (
	"time"
)

const (
	// DefaultLoanDurationDays is used when a borrower does not ask for a specific loan duration.
	DefaultLoanDurationDays = 28

	// DefaultMaxLoanDurationDays caps the loan duration a borrower may ask for.
	DefaultMaxLoanDurationDays = 365
)

// ToOccurredAt normalizes a point in time to UTC with microsecond precision,
// the finest precision every supported database keeps.
func ToOccurredAt(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// DueDate returns the date a loan started at borrowDate must be returned by.
func DueDate(borrowDate time.Time, loanDurationDays int) time.Time {
	return borrowDate.AddDate(0, 0, loanDurationDays)
}
