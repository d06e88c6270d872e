package core

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DefaultFineRatePerDay is the fine per overdue day in currency minor units.
	DefaultFineRatePerDay = 10000

	day = 24 * time.Hour
)

// ErrNegativeFineRate is returned when a fine policy is configured with a negative rate.
var ErrNegativeFineRate = errors.New("fine rate per day must not be negative")

// FinePolicy maps a due date and a return date to the fine owed.
// It is a value type and safe for concurrent use.
type FinePolicy struct {
	ratePerDay       decimal.Decimal
	roundUpPartially bool
}

// FinePolicyOption configures a FinePolicy.
type FinePolicyOption func(*FinePolicy)

// WithPartialDaysRoundedUp charges a started overdue day as a full day.
// By default a fractional day is truncated.
func WithPartialDaysRoundedUp() FinePolicyOption {
	return func(p *FinePolicy) {
		p.roundUpPartially = true
	}
}

// NewFinePolicy creates a FinePolicy charging ratePerDay for every overdue day.
func NewFinePolicy(ratePerDay decimal.Decimal, opts ...FinePolicyOption) (FinePolicy, error) {
	if ratePerDay.IsNegative() {
		return FinePolicy{}, ErrNegativeFineRate
	}

	policy := FinePolicy{ratePerDay: ratePerDay}
	for _, opt := range opts {
		opt(&policy)
	}

	return policy, nil
}

// DefaultFinePolicy charges DefaultFineRatePerDay per whole overdue day.
func DefaultFinePolicy() FinePolicy {
	return FinePolicy{ratePerDay: decimal.NewFromInt(DefaultFineRatePerDay)}
}

// RatePerDay returns the configured rate.
func (p FinePolicy) RatePerDay() decimal.Decimal {
	return p.ratePerDay
}

// Fine returns zero when returnDate is not after dueDate, otherwise the number of overdue days
// multiplied by the rate per day.
func (p FinePolicy) Fine(dueDate, returnDate time.Time) decimal.Decimal {
	if !returnDate.After(dueDate) {
		return decimal.Zero
	}

	overdue := returnDate.Sub(dueDate)
	days := int64(overdue / day)

	if p.roundUpPartially && overdue%day != 0 {
		days++
	}

	return p.ratePerDay.Mul(decimal.NewFromInt(days))
}
