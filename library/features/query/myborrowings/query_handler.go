package myborrowings

import (
	"context"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
)

// QueryHandler loads the records of the actor and delegates to Project.
type QueryHandler struct {
	records    borrowing.RecordStore
	finePolicy core.FinePolicy
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(records borrowing.RecordStore, finePolicy core.FinePolicy) QueryHandler {
	return QueryHandler{
		records:    records,
		finePolicy: finePolicy,
	}
}

// Handle executes Query -> Project. Only members have own records, everybody else gets core.ErrNotPermitted.
func (h QueryHandler) Handle(ctx context.Context, query Query) (MyBorrowings, error) {
	if !query.Actor.CanBorrow() {
		return MyBorrowings{}, core.ErrNotPermitted
	}

	records, err := h.records.ListByUser(ctx, query.Actor.UserID)
	if err != nil {
		return MyBorrowings{}, err
	}

	return Project(records, query, h.finePolicy), nil
}
