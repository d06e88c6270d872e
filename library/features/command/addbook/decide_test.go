package addbook_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/rahulmaharshi/manage-library-app/library/features/command/addbook"
	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
)

var (
	librarian = core.BuildActor("l1", core.RoleLibrarian)
	now       = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
)

func Test_Decide_Success(t *testing.T) {
	// arrange
	command := addbook.BuildCommand(
		uuid.New(),
		" 978-1-098-10013-1 ",
		"Learning Domain-Driven Design",
		"Vlad Khononov",
		"O'Reilly Media, Inc.",
		2021,
		3,
		librarian,
		now,
	)

	// act
	result := addbook.Decide(command)

	// assert
	assert.True(t, result.IsSuccess())
	assert.Equal(t, "978-1-098-10013-1", result.State.ISBN)
	assert.Equal(t, 3, result.State.TotalCopies)
	assert.Equal(t, 3, result.State.AvailableCopies)
}

func Test_Decide_BusinessErrors(t *testing.T) {
	testCases := []struct {
		name           string
		isbn           string
		title          string
		author         string
		year           int
		copies         int
		actor          core.Actor
		expectedReason core.FailureReason
	}{
		{"member cannot add books", "isbn", "title", "author", 2000, 1, core.BuildActor("u1", core.RoleMember), core.FailureReasonNotPermitted},
		{"blank title", "isbn", "  ", "author", 2000, 1, librarian, core.FailureReasonInvalidBook},
		{"blank isbn", "", "title", "author", 2000, 1, librarian, core.FailureReasonInvalidBook},
		{"blank author", "isbn", "title", "", 2000, 1, librarian, core.FailureReasonInvalidBook},
		{"no copies", "isbn", "title", "author", 2000, 0, librarian, core.FailureReasonInvalidBook},
		{"published in the future", "isbn", "title", "author", 2026, 1, librarian, core.FailureReasonInvalidBook},
		{"negative published year", "isbn", "title", "author", -1, 1, librarian, core.FailureReasonInvalidBook},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			command := addbook.BuildCommand(uuid.New(), tc.isbn, tc.title, tc.author, "", tc.year, tc.copies, tc.actor, now)

			// act
			result := addbook.Decide(command)

			// assert
			assert.False(t, result.IsSuccess())
			assert.Equal(t, tc.expectedReason, result.Reason)
		})
	}
}
