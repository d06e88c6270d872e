package httpapi

import (
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/rahulmaharshi/manage-library-app/library/features/command/addbook"
	"github.com/rahulmaharshi/manage-library-app/library/features/command/approveborrowing"
	"github.com/rahulmaharshi/manage-library-app/library/features/command/deletebook"
	"github.com/rahulmaharshi/manage-library-app/library/features/command/importbooks"
	"github.com/rahulmaharshi/manage-library-app/library/features/command/requestborrowing"
	"github.com/rahulmaharshi/manage-library-app/library/features/command/returnborrowing"
	"github.com/rahulmaharshi/manage-library-app/library/features/command/updatebook"
	"github.com/rahulmaharshi/manage-library-app/library/features/query/allborrowings"
	"github.com/rahulmaharshi/manage-library-app/library/features/query/bookdetails"
	"github.com/rahulmaharshi/manage-library-app/library/features/query/myborrowings"
	"github.com/rahulmaharshi/manage-library-app/library/features/query/overdueborrowings"
)

const (
	msgRecordsListed = "borrowing records listed"
	msgBookFound     = "book found"
	importFormField  = "file"
)

func (a *API) requestBorrowing(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	bookID, err := uuid.Parse(query.Get("bookId"))
	if err != nil {
		a.writeBadRequest(w, r, msgInvalidBookID)
		return
	}

	command := requestborrowing.BuildCommandWithDefaultLoan(bookID, actorFrom(r), a.now())
	if query.Has("loanDurationInDays") {
		loanDays, convErr := strconv.Atoi(query.Get("loanDurationInDays"))
		if convErr != nil {
			a.writeBadRequest(w, r, msgInvalidLoanDuration)
			return
		}

		command = requestborrowing.BuildCommand(bookID, actorFrom(r), loanDays, a.now())
	}

	result, err := a.handlers.RequestBorrowing.Handle(r.Context(), command)
	a.writeResult(w, r, result, err, recordResponseOf(result.Record))
}

func (a *API) approveBorrowing(w http.ResponseWriter, r *http.Request) {
	recordID, ok := a.recordIDFrom(w, r)
	if !ok {
		return
	}

	command := approveborrowing.BuildCommand(recordID, actorFrom(r), a.now())
	result, err := a.handlers.ApproveBorrowing.Handle(r.Context(), command)
	a.writeResult(w, r, result, err, recordResponseOf(result.Record))
}

func (a *API) returnBorrowing(w http.ResponseWriter, r *http.Request) {
	recordID, ok := a.recordIDFrom(w, r)
	if !ok {
		return
	}

	command := returnborrowing.BuildCommand(recordID, actorFrom(r), a.now())
	result, err := a.handlers.ReturnBorrowing.Handle(r.Context(), command)
	a.writeResult(w, r, result, err, recordResponseOf(result.Record))
}

func (a *API) allBorrowings(w http.ResponseWriter, r *http.Request) {
	result, err := a.handlers.AllBorrowings.Handle(r.Context(), allborrowings.BuildQuery(actorFrom(r), a.now()))
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	a.writeSuccess(w, r, msgRecordsListed, viewResponsesOf(result.Records))
}

func (a *API) myBorrowings(w http.ResponseWriter, r *http.Request) {
	result, err := a.handlers.MyBorrowings.Handle(r.Context(), myborrowings.BuildQuery(actorFrom(r), a.now()))
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	a.writeSuccess(w, r, msgRecordsListed, viewResponsesOf(result.Records))
}

func (a *API) overdueBorrowings(w http.ResponseWriter, r *http.Request) {
	result, err := a.handlers.OverdueBorrowings.Handle(r.Context(), overdueborrowings.BuildQuery(actorFrom(r), a.now()))
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	a.writeSuccess(w, r, msgRecordsListed, overdueResponse{
		Records:          viewResponsesOf(result.Records),
		Count:            result.Count,
		TotalAccruedFine: result.TotalAccruedFine.String(),
		AsOf:             result.AsOf,
	})
}

func (a *API) addBook(w http.ResponseWriter, r *http.Request) {
	var body addBookRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.writeBadRequest(w, r, msgInvalidRequestBody)
		return
	}

	command := addbook.BuildCommand(
		uuid.New(),
		body.ISBN,
		body.Title,
		body.Author,
		body.Publisher,
		body.PublishedYear,
		body.TotalCopies,
		actorFrom(r),
		a.now(),
	)

	result, err := a.handlers.AddBook.Handle(r.Context(), command)
	a.writeResult(w, r, result, err, bookResponseOf(result.Book))
}

func (a *API) updateBook(w http.ResponseWriter, r *http.Request) {
	bookID, ok := a.bookIDFrom(w, r)
	if !ok {
		return
	}

	var body addBookRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.writeBadRequest(w, r, msgInvalidRequestBody)
		return
	}

	command := updatebook.BuildCommand(
		bookID,
		body.ISBN,
		body.Title,
		body.Author,
		body.Publisher,
		body.PublishedYear,
		body.TotalCopies,
		actorFrom(r),
		a.now(),
	)

	result, err := a.handlers.UpdateBook.Handle(r.Context(), command)
	a.writeResult(w, r, result, err, bookResponseOf(result.Book))
}

func (a *API) deleteBook(w http.ResponseWriter, r *http.Request) {
	bookID, ok := a.bookIDFrom(w, r)
	if !ok {
		return
	}

	result, err := a.handlers.DeleteBook.Handle(r.Context(), deletebook.BuildCommand(bookID, actorFrom(r), a.now()))
	a.writeResult(w, r, result, err, bookResponseOf(result.Book))
}

func (a *API) importBooks(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	source, closeSource, err := importSource(r)
	if err != nil {
		a.writeBadRequest(w, r, msgInvalidImportUpload)
		return
	}
	defer closeSource()

	result, err := a.handlers.ImportBooks.Handle(r.Context(), importbooks.BuildCommand(source, actorFrom(r), a.now()))
	a.writeResult(w, r, result, err, importResponseOf(result))
}

func (a *API) bookDetails(w http.ResponseWriter, r *http.Request) {
	bookID, ok := a.bookIDFrom(w, r)
	if !ok {
		return
	}

	result, err := a.handlers.BookDetails.Handle(r.Context(), bookdetails.BuildQuery(bookID))
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	a.writeSuccess(w, r, msgBookFound, bookResponseOf(result.Book))
}

func (a *API) bookIDFrom(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	bookID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		a.writeBadRequest(w, r, msgInvalidBookID)
		return uuid.Nil, false
	}

	return bookID, true
}

func (a *API) recordIDFrom(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	recordID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		a.writeBadRequest(w, r, msgInvalidRecordID)
		return uuid.Nil, false
	}

	return recordID, true
}

// importSource accepts a multipart upload in the field "file" or a plain CSV body.
func importSource(r *http.Request) (io.Reader, func(), error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		mediaType = ""
	}

	if !strings.HasPrefix(mediaType, "multipart/") {
		return r.Body, func() {}, nil
	}

	file, _, err := r.FormFile(importFormField)
	if err != nil {
		return nil, nil, err
	}

	return file, func() { _ = file.Close() }, nil
}
