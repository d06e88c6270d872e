package bookdetails

import (
	"github.com/rahulmaharshi/manage-library-app/borrowing"
)

// BookDetails represents the query result for one book.
type BookDetails struct {
	Book         borrowing.Book
	CopiesOnLoan int
	Available    bool
}
