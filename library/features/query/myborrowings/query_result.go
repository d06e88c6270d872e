package myborrowings

import (
	"time"

	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
)

// MyBorrowings represents the query result containing the records of one borrower.
type MyBorrowings struct {
	UserID  string
	Records []core.BorrowingView
	Count   int
	AsOf    time.Time
}
