package allborrowings

import (
	"github.com/rahulmaharshi/manage-library-app/borrowing"
	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
)

// Project implements the query logic for the list of all borrowing records.
//
// Query Logic:
//
//	GIVEN: All borrowing records, newest first
//	WHEN: AllBorrowings query is executed
//	THEN: AllBorrowings is returned in the same order
//	INCLUDES: Every record with its effective status and accrued fine as of Now
func Project(records borrowing.Records, query Query, policy core.FinePolicy) AllBorrowings {
	views := make([]core.BorrowingView, 0, len(records))
	for _, record := range records {
		views = append(views, core.ViewOf(record, query.Now, policy))
	}

	return AllBorrowings{
		Records: views,
		Count:   len(views),
		AsOf:    query.Now,
	}
}
