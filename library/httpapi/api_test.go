package httpapi_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulmaharshi/manage-library-app/borrowing/sqlengine"
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
	"github.com/rahulmaharshi/manage-library-app/library/httpapi"
	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
	. "github.com/rahulmaharshi/manage-library-app/testutil/storefixture" //nolint:revive
)

type testEnvelope struct {
	Success  bool                `json:"success"`
	Message  string              `json:"message"`
	Response jsoniter.RawMessage `json:"response"`
}

type testRecord struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Status      string `json:"status"`
	Fines       string `json:"fines"`
	AccruedFine string `json:"accruedFine"`
}

type testServer struct {
	t      *testing.T
	store  sqlengine.Store
	router http.Handler
	clock  time.Time
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := NewSQLiteStore(t)
	policy := core.DefaultFinePolicy()

	server := &testServer{t: t, store: store, clock: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}

	api := httpapi.New(httpapi.Handlers{
		RequestBorrowing:  requestborrowing.NewCommandHandler(store),
		ApproveBorrowing:  approveborrowing.NewCommandHandler(store),
		ReturnBorrowing:   returnborrowing.NewCommandHandler(store, returnborrowing.WithFinePolicy(policy)),
		AddBook:           addbook.NewCommandHandler(store),
		UpdateBook:        updatebook.NewCommandHandler(store),
		DeleteBook:        deletebook.NewCommandHandler(store),
		ImportBooks:       importbooks.NewCommandHandler(store),
		AllBorrowings:     allborrowings.NewQueryHandler(store, policy),
		MyBorrowings:      myborrowings.NewQueryHandler(store, policy),
		OverdueBorrowings: overdueborrowings.NewQueryHandler(store, policy),
		BookDetails:       bookdetails.NewQueryHandler(store),
	}, httpapi.WithClock(func() time.Time { return server.clock }))

	server.router = api.Router()

	return server
}

func (s *testServer) do(method, target, userID, role string, body io.Reader, contentType string) (*httptest.ResponseRecorder, testEnvelope) {
	s.t.Helper()

	req := httptest.NewRequest(method, target, body)
	if userID != "" {
		req.Header.Set(httpapi.HeaderUserID, userID)
	}

	if role != "" {
		req.Header.Set(httpapi.HeaderUserRole, role)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var envelope testEnvelope
	require.NoError(s.t, jsoniter.Unmarshal(w.Body.Bytes(), &envelope), w.Body.String())

	return w, envelope
}

func decode[T any](t *testing.T, raw jsoniter.RawMessage) T {
	t.Helper()

	var value T
	require.NoError(t, jsoniter.Unmarshal(raw, &value))

	return value
}

//nolint:funlen
func Test_API_BorrowingLifecycle_WithLateReturn(t *testing.T) {
	// setup
	server := newTestServer(t)
	b1 := GivenBook(t, server.store, 1)
	requestURL := "/borrowings/request?bookId=" + b1.ID.String() + "&loanDurationInDays=7"

	// act & assert: u1 gets the only copy
	w, body := server.do(http.MethodPost, requestURL, "u1", "Member", nil, "")
	require.Equal(t, http.StatusOK, w.Code, body.Message)
	assert.True(t, body.Success)
	u1Record := decode[testRecord](t, body.Response)
	assert.Equal(t, "Pending", u1Record.Status)
	assert.Equal(t, 0, AvailableCopies(t, server.store, b1.ID))

	// act & assert: u2 finds no copy
	w, body = server.do(http.MethodPost, requestURL, "u2", "Member", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "NoCopiesAvailable", decode[map[string]string](t, body.Response)["reason"])

	// act & assert: the librarian approves
	w, body = server.do(http.MethodPost, "/borrowings/"+u1Record.ID+"/approve", "l1", "Librarian", nil, "")
	require.Equal(t, http.StatusOK, w.Code, body.Message)
	assert.Equal(t, "Approved", decode[testRecord](t, body.Response).Status)

	// act & assert: returned five days late
	server.clock = server.clock.AddDate(0, 0, 12)
	w, body = server.do(http.MethodPost, "/borrowings/"+u1Record.ID+"/return", "l1", "Librarian", nil, "")
	require.Equal(t, http.StatusOK, w.Code, body.Message)
	returned := decode[testRecord](t, body.Response)
	assert.Equal(t, "Returned", returned.Status)
	assert.Equal(t, "50000", returned.Fines)
	assert.Equal(t, 1, AvailableCopies(t, server.store, b1.ID))

	// act & assert: u2 now gets the copy
	w, body = server.do(http.MethodPost, requestURL, "u2", "Member", nil, "")
	assert.Equal(t, http.StatusOK, w.Code, body.Message)

	// act & assert: the second return fails
	w, body = server.do(http.MethodPost, "/borrowings/"+u1Record.ID+"/return", "l1", "Librarian", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "AlreadyReturned", decode[map[string]string](t, body.Response)["reason"])
}

func Test_API_ListsAreGatedByRole(t *testing.T) {
	// setup
	server := newTestServer(t)
	book := GivenBook(t, server.store, 2)
	requestURL := "/borrowings/request?bookId=" + book.ID.String()

	server.do(http.MethodPost, requestURL, "u1", "Member", nil, "")
	server.do(http.MethodPost, requestURL, "u2", "Member", nil, "")

	// act
	allW, all := server.do(http.MethodGet, "/borrowings", "a1", "Admin", nil, "")
	mineW, mine := server.do(http.MethodGet, "/borrowings/my-records", "u1", "member", nil, "")
	forbiddenW, _ := server.do(http.MethodGet, "/borrowings", "u1", "Member", nil, "")

	// assert
	require.Equal(t, http.StatusOK, allW.Code)
	assert.Len(t, decode[[]testRecord](t, all.Response), 2)

	require.Equal(t, http.StatusOK, mineW.Code)
	records := decode[[]testRecord](t, mine.Response)
	require.Len(t, records, 1)
	assert.Equal(t, "u1", records[0].UserID)

	assert.Equal(t, http.StatusForbidden, forbiddenW.Code)
}

func Test_API_OverdueListShowsAccruedFine(t *testing.T) {
	// setup
	server := newTestServer(t)
	book := GivenBook(t, server.store, 1)

	_, body := server.do(http.MethodPost, "/borrowings/request?bookId="+book.ID.String()+"&loanDurationInDays=3", "u1", "Member", nil, "")
	record := decode[testRecord](t, body.Response)
	server.do(http.MethodPost, "/borrowings/"+record.ID+"/approve", "l1", "Librarian", nil, "")

	server.clock = server.clock.AddDate(0, 0, 5)

	// act
	w, body := server.do(http.MethodGet, "/borrowings/overdue", "l1", "Librarian", nil, "")

	// assert
	require.Equal(t, http.StatusOK, w.Code)
	overdue := decode[struct {
		Records          []testRecord `json:"records"`
		TotalAccruedFine string       `json:"totalAccruedFine"`
	}](t, body.Response)
	require.Len(t, overdue.Records, 1)
	assert.Equal(t, "Overdue", overdue.Records[0].Status)
	assert.Equal(t, "20000", overdue.Records[0].AccruedFine)
	assert.Equal(t, "20000", overdue.TotalAccruedFine)
}

func Test_API_RejectsMissingIdentityAndWrongRoles(t *testing.T) {
	// setup
	server := newTestServer(t)
	book := GivenBook(t, server.store, 1)
	requestURL := "/borrowings/request?bookId=" + book.ID.String()

	testCases := []struct {
		name           string
		userID         string
		role           string
		expectedStatus int
	}{
		{name: "no headers", expectedStatus: http.StatusUnauthorized},
		{name: "unknown role", userID: "u1", role: "Visitor", expectedStatus: http.StatusUnauthorized},
		{name: "missing user id", role: "Member", expectedStatus: http.StatusUnauthorized},
		{name: "librarian cannot borrow", userID: "l1", role: "Librarian", expectedStatus: http.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			w, body := server.do(http.MethodPost, requestURL, tc.userID, tc.role, nil, "")

			// assert
			assert.Equal(t, tc.expectedStatus, w.Code)
			assert.False(t, body.Success)
			assert.NotEmpty(t, body.Message)
		})
	}

	assert.Equal(t, 1, AvailableCopies(t, server.store, book.ID))
}

func Test_API_RequestValidation(t *testing.T) {
	// setup
	server := newTestServer(t)
	book := GivenBook(t, server.store, 1)

	testCases := []struct {
		name           string
		target         string
		expectedStatus int
	}{
		{"malformed book id", "/borrowings/request?bookId=nope", http.StatusBadRequest},
		{"unknown book", "/borrowings/request?bookId=" + "00000000-0000-0000-0000-000000000001", http.StatusNotFound},
		{"loan duration not a number", "/borrowings/request?bookId=" + book.ID.String() + "&loanDurationInDays=x", http.StatusBadRequest},
		{"loan duration too long", "/borrowings/request?bookId=" + book.ID.String() + "&loanDurationInDays=1000", http.StatusBadRequest},
		{"explicit zero loan duration", "/borrowings/request?bookId=" + book.ID.String() + "&loanDurationInDays=0", http.StatusBadRequest},
		{"empty loan duration", "/borrowings/request?bookId=" + book.ID.String() + "&loanDurationInDays=", http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			w, _ := server.do(http.MethodPost, tc.target, "u1", "Member", nil, "")

			// assert
			assert.Equal(t, tc.expectedStatus, w.Code)
		})
	}

	assert.Equal(t, 1, AvailableCopies(t, server.store, book.ID))
}

func Test_API_RequestBorrowing_ZeroLoanDurationIsRejected_AbsentTakesDefault(t *testing.T) {
	// setup
	server := newTestServer(t)
	book := GivenBook(t, server.store, 1)
	requestURL := "/borrowings/request?bookId=" + book.ID.String()

	// act
	zeroW, zero := server.do(http.MethodPost, requestURL+"&loanDurationInDays=0", "u1", "Member", nil, "")
	defaultW, defaulted := server.do(http.MethodPost, requestURL, "u1", "Member", nil, "")

	// assert
	assert.Equal(t, http.StatusBadRequest, zeroW.Code)
	assert.Equal(t, "InvalidLoanDuration", decode[map[string]string](t, zero.Response)["reason"])

	require.Equal(t, http.StatusOK, defaultW.Code, defaulted.Message)
	record := decode[struct {
		DueDate time.Time `json:"dueDate"`
	}](t, defaulted.Response)
	assert.True(t, record.DueDate.Equal(server.clock.AddDate(0, 0, core.DefaultLoanDurationDays)))
}

func Test_API_ApproveUnknownRecord(t *testing.T) {
	// setup
	server := newTestServer(t)

	// act
	w, body := server.do(http.MethodPost, "/borrowings/00000000-0000-0000-0000-000000000001/approve", "l1", "Librarian", nil, "")

	// assert
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, core.FailureReasonRecordNotFound.Message(), body.Message)
}

func Test_API_AddBookAndReadIt(t *testing.T) {
	// setup
	server := newTestServer(t)
	payload := `{"title":"Concurrency in Go","isbn":"978-1-491-94119-5","author":"Katherine Cox-Buday","publisher":"O'Reilly","publishedYear":2017,"totalCopies":2}`

	// act
	w, body := server.do(http.MethodPost, "/books", "l1", "Librarian", strings.NewReader(payload), "application/json")

	// assert
	require.Equal(t, http.StatusOK, w.Code, body.Message)
	added := decode[map[string]any](t, body.Response)
	bookID, ok := added["id"].(string)
	require.True(t, ok)

	w, body = server.do(http.MethodGet, "/books/"+bookID, "u1", "Member", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decode[map[string]any](t, body.Response)["availableCopies"])

	w, _ = server.do(http.MethodPost, "/books", "l1", "Librarian", strings.NewReader(payload), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func Test_API_UpdateAndDeleteBook(t *testing.T) {
	// setup
	server := newTestServer(t)
	lent := GivenBook(t, server.store, 2)
	unused := GivenBook(t, server.store, 1)
	for _, userID := range []string{"u1", "u2"} {
		_, body := server.do(http.MethodPost, "/borrowings/request?bookId="+lent.ID.String(), userID, "Member", nil, "")
		require.True(t, body.Success, body.Message)
	}

	payload := func(copies string) io.Reader {
		return strings.NewReader(`{"title":"Renamed","isbn":"` + lent.ISBN + `","author":"A","publishedYear":2001,"totalCopies":` + copies + `}`)
	}

	// act & assert: growing the title keeps the loaned copies out
	w, body := server.do(http.MethodPut, "/books/"+lent.ID.String(), "l1", "Librarian", payload("4"), "application/json")
	require.Equal(t, http.StatusOK, w.Code, body.Message)
	updated := decode[map[string]any](t, body.Response)
	assert.Equal(t, "Renamed", updated["title"])
	assert.Equal(t, float64(2), updated["availableCopies"])

	// act & assert: the total cannot drop below the loaned copies
	w, body = server.do(http.MethodPut, "/books/"+lent.ID.String(), "l1", "Librarian", payload("1"), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "CopiesOnLoan", decode[map[string]string](t, body.Response)["reason"])
	assert.Equal(t, 2, AvailableCopies(t, server.store, lent.ID))

	// act & assert: members cannot edit the catalog
	w, _ = server.do(http.MethodPut, "/books/"+lent.ID.String(), "u1", "Member", payload("5"), "application/json")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// act & assert: a borrowed title keeps its history
	w, body = server.do(http.MethodDelete, "/books/"+lent.ID.String(), "l1", "Librarian", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BookHasRecords", decode[map[string]string](t, body.Response)["reason"])

	// act & assert: an unused title is removed
	w, body = server.do(http.MethodDelete, "/books/"+unused.ID.String(), "a1", "Admin", nil, "")
	require.Equal(t, http.StatusOK, w.Code, body.Message)

	w, _ = server.do(http.MethodGet, "/books/"+unused.ID.String(), "u1", "Member", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = server.do(http.MethodDelete, "/books/"+unused.ID.String(), "a1", "Admin", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func Test_API_ImportBooksFromMultipartUpload(t *testing.T) {
	// setup
	server := newTestServer(t)

	var upload bytes.Buffer
	form := multipart.NewWriter(&upload)
	part, err := form.CreateFormFile("file", "books.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("Title,ISBN,Author,TotalCopies\nA,isbn-a,X,1\nB,isbn-b,Y,many\n"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	// act
	w, body := server.do(http.MethodPost, "/books/import", "l1", "Librarian", &upload, form.FormDataContentType())

	// assert
	require.Equal(t, http.StatusOK, w.Code, body.Message)
	report := decode[struct {
		Imported int `json:"imported"`
		Rejected []struct {
			Line int `json:"line"`
		} `json:"rejected"`
	}](t, body.Response)
	assert.Equal(t, 1, report.Imported)
	require.Len(t, report.Rejected, 1)
	assert.Equal(t, 3, report.Rejected[0].Line)
}

func Test_API_Healthz_NeedsNoIdentity(t *testing.T) {
	// setup
	server := newTestServer(t)

	// act
	w, body := server.do(http.MethodGet, "/healthz", "", "", nil, "")

	// assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Success)
}
