package core_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
)

func Test_ViewOf(t *testing.T) {
	due := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	returnedLate := due.AddDate(0, 0, 2)

	testCases := []struct {
		name           string
		status         borrowing.Status
		returnDate     *time.Time
		fines          decimal.Decimal
		now            time.Time
		expectedStatus borrowing.Status
		expectedDays   int
		expectedFine   string
	}{
		{"pending past due stays pending", borrowing.StatusPending, nil, decimal.Zero, due.AddDate(0, 0, 3), borrowing.StatusPending, 0, "0"},
		{"approved before due", borrowing.StatusApproved, nil, decimal.Zero, due.Add(-time.Hour), borrowing.StatusApproved, 0, "0"},
		{"approved past due is overdue", borrowing.StatusApproved, nil, decimal.Zero, due.AddDate(0, 0, 3).Add(time.Hour), borrowing.StatusOverdue, 3, "30000"},
		{"returned keeps settled fine", borrowing.StatusReturned, &returnedLate, decimal.NewFromInt(20000), due.AddDate(0, 0, 9), borrowing.StatusReturned, 2, "20000"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			record := borrowing.Record{
				ID:         uuid.New(),
				DueDate:    due,
				ReturnDate: tc.returnDate,
				Status:     tc.status,
				Fines:      tc.fines,
			}

			// act
			view := core.ViewOf(record, tc.now, core.DefaultFinePolicy())

			// assert
			assert.Equal(t, tc.expectedStatus, view.EffectiveStatus)
			assert.Equal(t, tc.status, view.Status, "the stored status is kept")
			assert.Equal(t, tc.expectedDays, view.DaysOverdue)
			assert.Equal(t, tc.expectedFine, view.AccruedFine.String())
		})
	}
}
