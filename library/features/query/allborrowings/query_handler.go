package allborrowings

import (
	"context"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
)

// QueryHandler loads the records and delegates to Project.
type QueryHandler struct {
	records    borrowing.RecordStore
	finePolicy core.FinePolicy
}

// NewQueryHandler creates a new QueryHandler. The fine policy only feeds the accrued fine preview.
func NewQueryHandler(records borrowing.RecordStore, finePolicy core.FinePolicy) QueryHandler {
	return QueryHandler{
		records:    records,
		finePolicy: finePolicy,
	}
}

// Handle executes Query -> Project. Actors other than librarians and admins get core.ErrNotPermitted.
func (h QueryHandler) Handle(ctx context.Context, query Query) (AllBorrowings, error) {
	if !query.Actor.CanManageLoans() {
		return AllBorrowings{}, core.ErrNotPermitted
	}

	records, err := h.records.ListAll(ctx)
	if err != nil {
		return AllBorrowings{}, err
	}

	return Project(records, query, h.finePolicy), nil
}
