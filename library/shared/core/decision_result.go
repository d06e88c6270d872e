package core

// DecisionResult is the outcome of a Decide function. On success State holds
// the entity as it must be persisted, on failure Reason says why nothing changes.
//
// Construct it with SuccessDecision or FailureDecision only.
type DecisionResult[T any] struct {
	Outcome string // "success" or "failure"
	State   T
	Reason  FailureReason
}

const (
	successOutcome = "success"
	failureOutcome = "failure"
)

// SuccessDecision accepts the command, state is what gets persisted.
func SuccessDecision[T any](state T) DecisionResult[T] {
	return DecisionResult[T]{
		Outcome: successOutcome,
		State:   state,
	}
}

// FailureDecision rejects the command without any state change.
func FailureDecision[T any](reason FailureReason) DecisionResult[T] {
	return DecisionResult[T]{
		Outcome: failureOutcome,
		Reason:  reason,
	}
}

// IsSuccess reports whether the decision accepted the command.
func (r DecisionResult[T]) IsSuccess() bool {
	return r.Outcome == successOutcome
}
