package deletebook_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
	"github.com/rahulmaharshi/manage-library-app/library/features/command/deletebook"
	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
)

var (
	librarian = core.BuildActor("l1", core.RoleLibrarian)
	now       = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
)

func givenBook(total, available int) *borrowing.Book {
	return &borrowing.Book{ID: uuid.New(), Title: "title", ISBN: "isbn", Author: "author", TotalCopies: total, AvailableCopies: available}
}

func Test_Decide_Success(t *testing.T) {
	// arrange
	current := givenBook(2, 2)

	// act
	result := deletebook.Decide(current, deletebook.BuildCommand(current.ID, librarian, now))

	// assert
	assert.True(t, result.IsSuccess())
	assert.Equal(t, current.ID, result.State.ID)
}

func Test_Decide_BusinessErrors(t *testing.T) {
	testCases := []struct {
		name           string
		current        *borrowing.Book
		actor          core.Actor
		expectedReason core.FailureReason
	}{
		{"member cannot delete books", givenBook(1, 1), core.BuildActor("u1", core.RoleMember), core.FailureReasonNotPermitted},
		{"unknown book", nil, librarian, core.FailureReasonBookNotFound},
		{"copies on loan", givenBook(2, 1), librarian, core.FailureReasonBookHasRecords},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result := deletebook.Decide(tc.current, deletebook.BuildCommand(uuid.New(), tc.actor, now))

			// assert
			assert.False(t, result.IsSuccess())
			assert.Equal(t, tc.expectedReason, result.Reason)
		})
	}
}
