package allborrowings

import (
	"time"

	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
)

// AllBorrowings represents the query result containing all borrowing records.
type AllBorrowings struct {
	Records []core.BorrowingView
	Count   int
	AsOf    time.Time
}
