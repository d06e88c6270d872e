package httpapi

import (
	"time"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
	"github.com/rahulmaharshi/manage-library-app/library/shared/shell"
)

type failureResponse struct {
	Reason string `json:"reason"`
}

type addBookRequest struct {
	Title         string `json:"title"`
	ISBN          string `json:"isbn"`
	Author        string `json:"author"`
	Publisher     string `json:"publisher"`
	PublishedYear int    `json:"publishedYear"`
	TotalCopies   int    `json:"totalCopies"`
}

type bookResponse struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	ISBN            string `json:"isbn"`
	Author          string `json:"author"`
	Publisher       string `json:"publisher"`
	PublishedYear   int    `json:"publishedYear"`
	TotalCopies     int    `json:"totalCopies"`
	AvailableCopies int    `json:"availableCopies"`
}

type recordResponse struct {
	ID         string     `json:"id"`
	BookID     string     `json:"bookId"`
	BookTitle  string     `json:"bookTitle,omitempty"`
	ISBN       string     `json:"isbn,omitempty"`
	UserID     string     `json:"userId"`
	FullName   string     `json:"fullName,omitempty"`
	Email      string     `json:"email,omitempty"`
	BorrowDate time.Time  `json:"borrowDate"`
	DueDate    time.Time  `json:"dueDate"`
	ReturnDate *time.Time `json:"returnDate"`
	Status     string     `json:"status"`
	Fines      string     `json:"fines"`
}

type viewResponse struct {
	recordResponse

	StoredStatus string `json:"storedStatus"`
	DaysOverdue  int    `json:"daysOverdue"`
	AccruedFine  string `json:"accruedFine"`
}

type overdueResponse struct {
	Records          []viewResponse `json:"records"`
	Count            int            `json:"count"`
	TotalAccruedFine string         `json:"totalAccruedFine"`
	AsOf             time.Time      `json:"asOf"`
}

type rowFailureResponse struct {
	Line    int    `json:"line"`
	ISBN    string `json:"isbn"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type importResponse struct {
	Imported int                  `json:"imported"`
	Rejected []rowFailureResponse `json:"rejected"`
}

func bookResponseOf(book borrowing.Book) bookResponse {
	return bookResponse{
		ID:              book.ID.String(),
		Title:           book.Title,
		ISBN:            book.ISBN,
		Author:          book.Author,
		Publisher:       book.Publisher,
		PublishedYear:   book.PublishedYear,
		TotalCopies:     book.TotalCopies,
		AvailableCopies: book.AvailableCopies,
	}
}

func recordResponseOf(record borrowing.Record) recordResponse {
	return recordResponse{
		ID:         record.ID.String(),
		BookID:     record.BookID.String(),
		BookTitle:  record.Book.Title,
		ISBN:       record.Book.ISBN,
		UserID:     record.UserID,
		FullName:   record.Borrower.FullName,
		Email:      record.Borrower.Email,
		BorrowDate: record.BorrowDate,
		DueDate:    record.DueDate,
		ReturnDate: record.ReturnDate,
		Status:     string(record.Status),
		Fines:      record.Fines.String(),
	}
}

// viewResponsesOf reports the effective status as status and keeps the persisted one as storedStatus.
func viewResponsesOf(views []core.BorrowingView) []viewResponse {
	responses := make([]viewResponse, 0, len(views))

	for _, view := range views {
		response := viewResponse{
			recordResponse: recordResponseOf(view.Record),
			StoredStatus:   string(view.Status),
			DaysOverdue:    view.DaysOverdue,
			AccruedFine:    view.AccruedFine.String(),
		}
		response.Status = string(view.EffectiveStatus)

		responses = append(responses, response)
	}

	return responses
}

func importResponseOf(result shell.HandlerResult) importResponse {
	rejected := make([]rowFailureResponse, 0, len(result.RowFailures))
	for _, failure := range result.RowFailures {
		rejected = append(rejected, rowFailureResponse{
			Line:    failure.Line,
			ISBN:    failure.Key,
			Reason:  string(failure.Reason),
			Message: failure.Message,
		})
	}

	return importResponse{
		Imported: result.Imported,
		Rejected: rejected,
	}
}
