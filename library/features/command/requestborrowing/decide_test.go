package requestborrowing_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
	"github.com/rahulmaharshi/manage-library-app/library/features/command/requestborrowing"
	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
)

func Test_Decide_Success_WithDefaultLoanDuration(t *testing.T) {
	// arrange
	book := givenBook(3)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	command := requestborrowing.BuildCommandWithDefaultLoan(book.ID, givenMember("u1"), now)

	// act
	result := requestborrowing.Decide(&book, command, requestborrowing.DefaultLoanLimits())

	// assert
	assert.True(t, result.IsSuccess())
	assert.Equal(t, borrowing.StatusPending, result.State.Status)
	assert.Equal(t, book.ID, result.State.BookID)
	assert.Equal(t, "u1", result.State.UserID)
	assert.Equal(t, now, result.State.BorrowDate)
	assert.Equal(t, now.AddDate(0, 0, core.DefaultLoanDurationDays), result.State.DueDate)
	assert.Nil(t, result.State.ReturnDate)
	assert.True(t, result.State.Fines.IsZero())
	assert.Equal(t, book.Title, result.State.Book.Title)
}

func Test_Decide_Success_WithRequestedLoanDuration(t *testing.T) {
	// arrange
	book := givenBook(1)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	command := requestborrowing.BuildCommand(book.ID, givenMember("u1"), 14, now)

	// act
	result := requestborrowing.Decide(&book, command, requestborrowing.DefaultLoanLimits())

	// assert
	assert.True(t, result.IsSuccess())
	assert.Equal(t, time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC), result.State.DueDate)
}

func Test_Decide_BusinessErrors(t *testing.T) {
	now := time.Now()
	available := givenBook(2)
	exhausted := givenBook(2)
	exhausted.AvailableCopies = 0

	testCases := []struct {
		name           string
		book           *borrowing.Book
		actor          core.Actor
		loanDays       int
		expectedReason core.FailureReason
	}{
		{
			name:           "librarian cannot request a loan",
			book:           &available,
			actor:          core.BuildActor("l1", core.RoleLibrarian),
			expectedReason: core.FailureReasonNotPermitted,
		},
		{
			name:           "admin cannot request a loan",
			book:           &available,
			actor:          core.BuildActor("a1", core.RoleAdmin),
			expectedReason: core.FailureReasonNotPermitted,
		},
		{
			name:           "member without id",
			book:           &available,
			actor:          core.BuildActor("", core.RoleMember),
			expectedReason: core.FailureReasonNotPermitted,
		},
		{
			name:           "explicit zero loan duration",
			book:           &available,
			actor:          givenMember("u1"),
			loanDays:       0,
			expectedReason: core.FailureReasonInvalidLoanDuration,
		},
		{
			name:           "negative loan duration",
			book:           &available,
			actor:          givenMember("u1"),
			loanDays:       -1,
			expectedReason: core.FailureReasonInvalidLoanDuration,
		},
		{
			name:           "loan duration above the maximum",
			book:           &available,
			actor:          givenMember("u1"),
			loanDays:       core.DefaultMaxLoanDurationDays + 1,
			expectedReason: core.FailureReasonInvalidLoanDuration,
		},
		{
			name:           "unknown book",
			book:           nil,
			actor:          givenMember("u1"),
			loanDays:       7,
			expectedReason: core.FailureReasonBookNotFound,
		},
		{
			name:           "no copies left",
			book:           &exhausted,
			actor:          givenMember("u1"),
			loanDays:       7,
			expectedReason: core.FailureReasonNoCopiesAvailable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			command := requestborrowing.BuildCommand(available.ID, tc.actor, tc.loanDays, now)

			// act
			result := requestborrowing.Decide(tc.book, command, requestborrowing.DefaultLoanLimits())

			// assert
			assert.False(t, result.IsSuccess())
			assert.Equal(t, tc.expectedReason, result.Reason)
		})
	}
}

func Test_Decide_HonorsCustomLoanLimits(t *testing.T) {
	// arrange
	book := givenBook(1)
	limits := requestborrowing.LoanLimits{DefaultDays: 7, MaxDays: 10}
	now := time.Now()

	// act
	defaulted := requestborrowing.Decide(&book, requestborrowing.BuildCommandWithDefaultLoan(book.ID, givenMember("u1"), now), limits)
	tooLong := requestborrowing.Decide(&book, requestborrowing.BuildCommand(book.ID, givenMember("u1"), 11, now), limits)

	// assert
	assert.True(t, defaulted.IsSuccess())
	assert.Equal(t, core.DueDate(core.ToOccurredAt(now), 7), defaulted.State.DueDate)
	assert.Equal(t, core.FailureReasonInvalidLoanDuration, tooLong.Reason)
}

func givenBook(copies int) borrowing.Book {
	return borrowing.Book{
		ID:              uuid.New(),
		Title:           "Learning Domain-Driven Design",
		ISBN:            "978-1-098-10013-1",
		Author:          "Vlad Khononov",
		TotalCopies:     copies,
		AvailableCopies: copies,
	}
}

func givenMember(userID string) core.Actor {
	return core.BuildActor(userID, core.RoleMember)
}
