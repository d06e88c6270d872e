package returnborrowing

import (
	"github.com/rahulmaharshi/manage-library-app/borrowing"
	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
)

// Decide implements the business rules of a return. record is nil if it does not exist.
// An Approved record past its due date is still Approved in storage and can be returned.
//
// Business Rules:
//
//	GIVEN: An Approved borrowing record
//	WHEN: ReturnBorrowing command is received
//	THEN: The record becomes Returned with ReturnDate = OccurredAt and Fines set by the fine policy
//	ERROR: NotPermitted if the actor is neither librarian nor admin
//	ERROR: RecordNotFound if the record does not exist
//	ERROR: AlreadyReturned if the record was returned before
//	ERROR: NotApproved if the record is still Pending
func Decide(record *borrowing.Record, command Command, policy core.FinePolicy) core.DecisionResult[borrowing.Record] {
	if !command.Actor.CanManageLoans() {
		return core.FailureDecision[borrowing.Record](core.FailureReasonNotPermitted)
	}

	if record == nil {
		return core.FailureDecision[borrowing.Record](core.FailureReasonRecordNotFound)
	}

	switch record.Status {
	case borrowing.StatusReturned:
		return core.FailureDecision[borrowing.Record](core.FailureReasonAlreadyReturned)
	case borrowing.StatusApproved:
	default:
		return core.FailureDecision[borrowing.Record](core.FailureReasonNotApproved)
	}

	returnDate := command.OccurredAt

	returned := *record
	returned.Status = borrowing.StatusReturned
	returned.ReturnDate = &returnDate
	returned.Fines = policy.Fine(record.DueDate, returnDate)

	return core.SuccessDecision(returned)
}
