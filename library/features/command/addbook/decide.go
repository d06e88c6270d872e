package addbook

import (
	"strings"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
)

// Decide implements the business rules for adding a book. ISBN uniqueness is checked by the store.
//
// Business Rules:
//
//	GIVEN: A librarian and the data of a book title
//	WHEN: AddBook command is received
//	THEN: The book is added with AvailableCopies = TotalCopies
//	ERROR: NotPermitted if the actor is neither librarian nor admin
//	ERROR: InvalidBook if title, isbn or author is blank, TotalCopies is below 1
//	       or PublishedYear lies in the future
func Decide(command Command) core.DecisionResult[borrowing.Book] {
	if !command.Actor.CanManageCatalog() {
		return core.FailureDecision[borrowing.Book](core.FailureReasonNotPermitted)
	}

	book := borrowing.Book{
		ID:              command.BookID,
		Title:           strings.TrimSpace(command.Title),
		ISBN:            strings.TrimSpace(command.ISBN),
		Author:          strings.TrimSpace(command.Author),
		Publisher:       strings.TrimSpace(command.Publisher),
		PublishedYear:   command.PublishedYear,
		TotalCopies:     command.TotalCopies,
		AvailableCopies: command.TotalCopies,
	}

	if book.Title == "" || book.ISBN == "" || book.Author == "" {
		return core.FailureDecision[borrowing.Book](core.FailureReasonInvalidBook)
	}

	if book.TotalCopies < 1 {
		return core.FailureDecision[borrowing.Book](core.FailureReasonInvalidBook)
	}

	if book.PublishedYear < 0 || book.PublishedYear > command.OccurredAt.Year() {
		return core.FailureDecision[borrowing.Book](core.FailureReasonInvalidBook)
	}

	return core.SuccessDecision(book)
}
