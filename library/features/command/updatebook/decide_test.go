package updatebook_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
	"github.com/rahulmaharshi/manage-library-app/library/features/command/updatebook"
	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
)

var (
	librarian = core.BuildActor("l1", core.RoleLibrarian)
	now       = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
)

// givenBookOnLoan has 4 copies, 3 of them on loan.
func givenBookOnLoan() *borrowing.Book {
	return &borrowing.Book{
		ID:              uuid.New(),
		Title:           "Learning Domain-Driven Design",
		ISBN:            "978-1-098-10013-1",
		Author:          "Vlad Khononov",
		TotalCopies:     4,
		AvailableCopies: 1,
	}
}

func Test_Decide_Success_KeepsCopiesOnLoan(t *testing.T) {
	// arrange
	current := givenBookOnLoan()
	command := updatebook.BuildCommand(current.ID, " 978-1-098-10013-1 ", "Learning DDD", "Vlad Khononov", "O'Reilly", 2021, 6, librarian, now)

	// act
	result := updatebook.Decide(current, command)

	// assert
	assert.True(t, result.IsSuccess())
	assert.Equal(t, "Learning DDD", result.State.Title)
	assert.Equal(t, "978-1-098-10013-1", result.State.ISBN)
	assert.Equal(t, 6, result.State.TotalCopies)
	assert.Equal(t, 3, result.State.AvailableCopies)
}

func Test_Decide_Success_ShrinkToCopiesOnLoan(t *testing.T) {
	// arrange
	current := givenBookOnLoan()
	command := updatebook.BuildCommand(current.ID, current.ISBN, current.Title, current.Author, "", 2021, 3, librarian, now)

	// act
	result := updatebook.Decide(current, command)

	// assert
	assert.True(t, result.IsSuccess())
	assert.Equal(t, 0, result.State.AvailableCopies)
}

func Test_Decide_BusinessErrors(t *testing.T) {
	testCases := []struct {
		name           string
		current        *borrowing.Book
		title          string
		copies         int
		year           int
		actor          core.Actor
		expectedReason core.FailureReason
	}{
		{"member cannot update books", givenBookOnLoan(), "title", 4, 2000, core.BuildActor("u1", core.RoleMember), core.FailureReasonNotPermitted},
		{"unknown book", nil, "title", 4, 2000, librarian, core.FailureReasonBookNotFound},
		{"blank title", givenBookOnLoan(), " ", 4, 2000, librarian, core.FailureReasonInvalidBook},
		{"no copies", givenBookOnLoan(), "title", 0, 2000, librarian, core.FailureReasonInvalidBook},
		{"published in the future", givenBookOnLoan(), "title", 4, 2026, librarian, core.FailureReasonInvalidBook},
		{"fewer copies than on loan", givenBookOnLoan(), "title", 2, 2000, librarian, core.FailureReasonCopiesOnLoan},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			command := updatebook.BuildCommand(uuid.New(), "isbn", tc.title, "author", "", tc.year, tc.copies, tc.actor, now)

			// act
			result := updatebook.Decide(tc.current, command)

			// assert
			assert.False(t, result.IsSuccess())
			assert.Equal(t, tc.expectedReason, result.Reason)
		})
	}
}
