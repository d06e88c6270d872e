package core

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
)

// ErrNotPermitted is returned by queries whose actor lacks the required role.
var ErrNotPermitted = errors.New("not permitted")

// BorrowingView is a borrowing record as presented to readers at a point in time.
type BorrowingView struct {
	borrowing.Record

	// EffectiveStatus is Overdue for Approved records past their due date.
	EffectiveStatus borrowing.Status

	// DaysOverdue counts whole days past the due date, until now or until the return.
	DaysOverdue int

	// AccruedFine is the settled fine of a returned record, and for an open loan
	// the fine it would be charged if it were returned now.
	AccruedFine decimal.Decimal
}

// ViewOf projects record as of now.
func ViewOf(record borrowing.Record, now time.Time, policy FinePolicy) BorrowingView {
	view := BorrowingView{
		Record:          record,
		EffectiveStatus: record.EffectiveStatus(now),
		AccruedFine:     decimal.Zero,
	}

	switch {
	case record.IsReturned() && record.ReturnDate != nil:
		view.DaysOverdue = daysBetween(record.DueDate, *record.ReturnDate)
		view.AccruedFine = record.Fines
	case record.Status == borrowing.StatusApproved:
		view.DaysOverdue = daysBetween(record.DueDate, now)
		view.AccruedFine = policy.Fine(record.DueDate, now)
	}

	return view
}

func daysBetween(from, to time.Time) int {
	if !to.After(from) {
		return 0
	}

	return int(to.Sub(from) / day)
}
