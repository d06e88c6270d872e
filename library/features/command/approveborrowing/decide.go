package approveborrowing

import (
	"github.com/rahulmaharshi/manage-library-app/borrowing"
	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
)

// Decide implements the business rules of an approval. record is nil if it does not exist.
//
// Business Rules:
//
//	GIVEN: A Pending borrowing record
//	WHEN: ApproveBorrowing command is received
//	THEN: The record becomes Approved, all other fields stay unchanged
//	ERROR: NotPermitted if the actor is neither librarian nor admin
//	ERROR: RecordNotFound if the record does not exist
//	ERROR: InvalidTransition if the record is not Pending
func Decide(record *borrowing.Record, command Command) core.DecisionResult[borrowing.Record] {
	if !command.Actor.CanManageLoans() {
		return core.FailureDecision[borrowing.Record](core.FailureReasonNotPermitted)
	}

	if record == nil {
		return core.FailureDecision[borrowing.Record](core.FailureReasonRecordNotFound)
	}

	if record.Status != borrowing.StatusPending {
		return core.FailureDecision[borrowing.Record](core.FailureReasonInvalidTransition)
	}

	approved := *record
	approved.Status = borrowing.StatusApproved

	return core.SuccessDecision(approved)
}
