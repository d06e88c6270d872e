package overdueborrowings

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
)

// OverdueBorrowings represents the query result containing all overdue loans.
type OverdueBorrowings struct {
	Records []core.BorrowingView
	Count   int

	// TotalAccruedFine sums the AccruedFine of all listed records.
	TotalAccruedFine decimal.Decimal
	AsOf             time.Time
}
