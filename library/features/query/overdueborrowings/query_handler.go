package overdueborrowings

import (
	"context"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
)

// QueryHandler loads the Approved records and delegates to Project.
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

// Handle executes Query -> Project. Actors other than librarians and admins get core.ErrNotPermitted.
func (h QueryHandler) Handle(ctx context.Context, query Query) (OverdueBorrowings, error) {
	if !query.Actor.CanManageLoans() {
		return OverdueBorrowings{}, core.ErrNotPermitted
	}

	records, err := h.records.ListByStatus(ctx, borrowing.StatusApproved)
	if err != nil {
		return OverdueBorrowings{}, err
	}

	return Project(records, query, h.finePolicy), nil
}
