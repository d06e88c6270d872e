package deletebook

import (
	"github.com/rahulmaharshi/manage-library-app/borrowing"
	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
)

// Decide implements the business rules for deleting a book.
// Whether borrowing records still reference the book is checked by the store.
//
// Business Rules:
//
//	GIVEN: A librarian and a book without borrowing records
//	WHEN: DeleteBook command is received
//	THEN: The book is removed from the catalog
//	ERROR: NotPermitted if the actor is neither librarian nor admin
//	ERROR: BookNotFound if the book does not exist
//	ERROR: BookHasRecords if any borrowing record references the book
func Decide(current *borrowing.Book, command Command) core.DecisionResult[borrowing.Book] {
	if !command.Actor.CanManageCatalog() {
		return core.FailureDecision[borrowing.Book](core.FailureReasonNotPermitted)
	}

	if current == nil {
		return core.FailureDecision[borrowing.Book](core.FailureReasonBookNotFound)
	}

	// every copy on loan has an open record
	if current.AvailableCopies < current.TotalCopies {
		return core.FailureDecision[borrowing.Book](core.FailureReasonBookHasRecords)
	}

	return core.SuccessDecision(*current)
}
