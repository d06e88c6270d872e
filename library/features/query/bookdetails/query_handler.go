package bookdetails

import (
	"context"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
)

// QueryHandler reads one book from the inventory ledger.
type QueryHandler struct {
	ledger borrowing.InventoryLedger
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(ledger borrowing.InventoryLedger) QueryHandler {
	return QueryHandler{ledger: ledger}
}

// Handle returns borrowing.ErrBookNotFound for unknown books.
func (h QueryHandler) Handle(ctx context.Context, query Query) (BookDetails, error) {
	book, err := h.ledger.GetBook(ctx, query.BookID)
	if err != nil {
		return BookDetails{}, err
	}

	return BookDetails{
		Book:         book,
		CopiesOnLoan: book.TotalCopies - book.AvailableCopies,
		Available:    book.AvailableCopies > 0,
	}, nil
}
