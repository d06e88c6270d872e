package myborrowings

import (
	"github.com/rahulmaharshi/manage-library-app/borrowing"
	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
)

// Project implements the query logic for the records of one borrower.
//
// Query Logic:
//
//	GIVEN: The borrowing records of all users
//	WHEN: MyBorrowings query is executed
//	THEN: MyBorrowings is returned, newest first
//	INCLUDES: Records whose UserID is the actor's
//	EXCLUDES: Records of other users
func Project(records borrowing.Records, query Query, policy core.FinePolicy) MyBorrowings {
	views := make([]core.BorrowingView, 0, len(records))
	for _, record := range records {
		if record.UserID != query.Actor.UserID {
			continue
		}

		views = append(views, core.ViewOf(record, query.Now, policy))
	}

	return MyBorrowings{
		UserID:  query.Actor.UserID,
		Records: views,
		Count:   len(views),
		AsOf:    query.Now,
	}
}
