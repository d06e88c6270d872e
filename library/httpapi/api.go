package httpapi

import (
	"net/http"
	"time"

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
	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
	"github.com/rahulmaharshi/manage-library-app/library/shared/shell"
)

const (
	logMsgRequestServed = "http request served"
	logMsgRequestFailed = "http request failed"
	logMsgWriteFailed   = "writing http response failed"

	logAttrMethod = "method"
	logAttrPath   = "path"
	logAttrStatus = "http_status"

	maxImportBytes = 10 << 20
)

// Handlers bundles the use cases served by the API. Observable wrappers satisfy the same interfaces.
type Handlers struct {
	RequestBorrowing  shell.CoreCommandHandler[requestborrowing.Command]
	ApproveBorrowing  shell.CoreCommandHandler[approveborrowing.Command]
	ReturnBorrowing   shell.CoreCommandHandler[returnborrowing.Command]
	AddBook           shell.CoreCommandHandler[addbook.Command]
	UpdateBook        shell.CoreCommandHandler[updatebook.Command]
	DeleteBook        shell.CoreCommandHandler[deletebook.Command]
	ImportBooks       shell.CoreCommandHandler[importbooks.Command]
	AllBorrowings     shell.QueryHandler[allborrowings.Query, allborrowings.AllBorrowings]
	MyBorrowings      shell.QueryHandler[myborrowings.Query, myborrowings.MyBorrowings]
	OverdueBorrowings shell.QueryHandler[overdueborrowings.Query, overdueborrowings.OverdueBorrowings]
	BookDetails       shell.QueryHandler[bookdetails.Query, bookdetails.BookDetails]
}

// API serves Handlers over HTTP.
type API struct {
	handlers         Handlers
	now              func() time.Time
	logger           shell.Logger
	contextualLogger shell.ContextualLogger
}

// Option configures an API.
type Option func(*API)

// WithClock replaces time.Now as the source of OccurredAt and query times.
func WithClock(now func() time.Time) Option {
	return func(a *API) {
		a.now = now
	}
}

// WithLogger sets a logger for access and error logs.
func WithLogger(logger shell.Logger) Option {
	return func(a *API) {
		a.logger = logger
	}
}

// WithContextualLogger sets a context-aware logger, it takes precedence over WithLogger.
func WithContextualLogger(logger shell.ContextualLogger) Option {
	return func(a *API) {
		a.contextualLogger = logger
	}
}

// New creates an API for handlers.
func New(handlers Handlers, opts ...Option) *API {
	api := &API{
		handlers: handlers,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(api)
	}

	return api
}

// Router returns the routes of the API.
func (a *API) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(a.accessLogMiddleware)
	r.HandleFunc("/healthz", a.healthz).Methods(http.MethodGet)

	secured := r.PathPrefix("/").Subrouter()
	secured.Use(a.identityMiddleware)

	secured.HandleFunc("/borrowings/request", a.requireRole(core.Actor.CanBorrow, a.requestBorrowing)).Methods(http.MethodPost)
	secured.HandleFunc("/borrowings", a.requireRole(core.Actor.CanManageLoans, a.allBorrowings)).Methods(http.MethodGet)
	secured.HandleFunc("/borrowings/my-records", a.requireRole(core.Actor.CanBorrow, a.myBorrowings)).Methods(http.MethodGet)
	secured.HandleFunc("/borrowings/overdue", a.requireRole(core.Actor.CanManageLoans, a.overdueBorrowings)).Methods(http.MethodGet)
	secured.HandleFunc("/borrowings/{id}/approve", a.requireRole(core.Actor.CanManageLoans, a.approveBorrowing)).Methods(http.MethodPost)
	secured.HandleFunc("/borrowings/{id}/return", a.requireRole(core.Actor.CanManageLoans, a.returnBorrowing)).Methods(http.MethodPost)

	secured.HandleFunc("/books", a.requireRole(core.Actor.CanManageCatalog, a.addBook)).Methods(http.MethodPost)
	secured.HandleFunc("/books/import", a.requireRole(core.Actor.CanManageCatalog, a.importBooks)).Methods(http.MethodPost)
	secured.HandleFunc("/books/{id}", a.bookDetails).Methods(http.MethodGet)
	secured.HandleFunc("/books/{id}", a.requireRole(core.Actor.CanManageCatalog, a.updateBook)).Methods(http.MethodPut)
	secured.HandleFunc("/books/{id}", a.requireRole(core.Actor.CanManageCatalog, a.deleteBook)).Methods(http.MethodDelete)

	return r
}

func (a *API) healthz(w http.ResponseWriter, r *http.Request) {
	a.writeSuccess(w, r, "ok", nil)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func (a *API) accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		shell.LogInfo(r.Context(), a.logger, a.contextualLogger, logMsgRequestServed,
			logAttrMethod, r.Method,
			logAttrPath, r.URL.Path,
			logAttrStatus, recorder.status,
			shell.LogAttrDurationMS, shell.ToMilliseconds(time.Since(start)),
		)
	})
}
