package returnborrowing_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
	"github.com/rahulmaharshi/manage-library-app/library/features/command/returnborrowing"
	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
)

var due = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func Test_Decide_Success_OnTime(t *testing.T) {
	// arrange
	record := givenRecord(borrowing.StatusApproved)
	returnedAt := due.Add(-2 * time.Hour)
	command := returnborrowing.BuildCommand(record.ID, core.BuildActor("l1", core.RoleLibrarian), returnedAt)

	// act
	result := returnborrowing.Decide(&record, command, core.DefaultFinePolicy())

	// assert
	assert.True(t, result.IsSuccess())
	assert.Equal(t, borrowing.StatusReturned, result.State.Status)
	require.NotNil(t, result.State.ReturnDate)
	assert.Equal(t, returnedAt, *result.State.ReturnDate)
	assert.True(t, result.State.Fines.IsZero())
	assert.Nil(t, record.ReturnDate, "the input must not be mutated")
}

func Test_Decide_Success_LateReturnIsFined(t *testing.T) {
	// arrange
	record := givenRecord(borrowing.StatusApproved)
	command := returnborrowing.BuildCommand(record.ID, core.BuildActor("a1", core.RoleAdmin), due.AddDate(0, 0, 5))

	// act
	result := returnborrowing.Decide(&record, command, core.DefaultFinePolicy())

	// assert
	assert.True(t, result.IsSuccess())
	assert.Equal(t, "50000", result.State.Fines.String())
}

func Test_Decide_Success_UsesGivenFinePolicy(t *testing.T) {
	// arrange
	record := givenRecord(borrowing.StatusApproved)
	policy, err := core.NewFinePolicy(decimal.NewFromInt(2))
	require.NoError(t, err)
	command := returnborrowing.BuildCommand(record.ID, core.BuildActor("l1", core.RoleLibrarian), due.AddDate(0, 0, 3))

	// act
	result := returnborrowing.Decide(&record, command, policy)

	// assert
	assert.Equal(t, "6", result.State.Fines.String())
}

func Test_Decide_BusinessErrors(t *testing.T) {
	librarian := core.BuildActor("l1", core.RoleLibrarian)
	pending := givenRecord(borrowing.StatusPending)
	approved := givenRecord(borrowing.StatusApproved)
	returned := givenRecord(borrowing.StatusReturned)

	testCases := []struct {
		name           string
		record         *borrowing.Record
		actor          core.Actor
		expectedReason core.FailureReason
	}{
		{
			name:           "member cannot return",
			record:         &approved,
			actor:          core.BuildActor("u1", core.RoleMember),
			expectedReason: core.FailureReasonNotPermitted,
		},
		{
			name:           "unknown record",
			record:         nil,
			actor:          librarian,
			expectedReason: core.FailureReasonRecordNotFound,
		},
		{
			name:           "record still pending",
			record:         &pending,
			actor:          librarian,
			expectedReason: core.FailureReasonNotApproved,
		},
		{
			name:           "record already returned",
			record:         &returned,
			actor:          librarian,
			expectedReason: core.FailureReasonAlreadyReturned,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result := returnborrowing.Decide(
				tc.record,
				returnborrowing.BuildCommand(uuid.New(), tc.actor, due),
				core.DefaultFinePolicy(),
			)

			// assert
			assert.False(t, result.IsSuccess())
			assert.Equal(t, tc.expectedReason, result.Reason)
		})
	}
}

func givenRecord(status borrowing.Status) borrowing.Record {
	return borrowing.Record{
		ID:         uuid.New(),
		BookID:     uuid.New(),
		UserID:     "u1",
		BorrowDate: due.AddDate(0, 0, -14),
		DueDate:    due,
		Status:     status,
		Fines:      decimal.Zero,
		Version:    2,
	}
}
