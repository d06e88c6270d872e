package overdueborrowings

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
)

// Project implements the query logic for overdue loans.
//
// Query Logic:
//
//	GIVEN: The Approved borrowing records
//	WHEN: OverdueBorrowings query is executed
//	THEN: OverdueBorrowings is returned, oldest due date first
//	INCLUDES: Approved records whose due date lies before Now, with the fine accrued until Now
//	EXCLUDES: Pending and Returned records and loans that are not yet due
func Project(records borrowing.Records, query Query, policy core.FinePolicy) OverdueBorrowings {
	views := make([]core.BorrowingView, 0, len(records))
	total := decimal.Zero

	for _, record := range records {
		view := core.ViewOf(record, query.Now, policy)
		if view.EffectiveStatus != borrowing.StatusOverdue {
			continue
		}

		views = append(views, view)
		total = total.Add(view.AccruedFine)
	}

	slices.SortStableFunc(views, func(a, b core.BorrowingView) int {
		return a.DueDate.Compare(b.DueDate)
	})

	return OverdueBorrowings{
		Records:          views,
		Count:            len(views),
		TotalAccruedFine: total,
		AsOf:             query.Now,
	}
}
