package sqlengine

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
	"github.com/rahulmaharshi/manage-library-app/borrowing/sqlengine/internal/adapters"
)

const (
	// DialectPostgres renders statements for PostgreSQL.
	DialectPostgres = "postgres"

	// DialectSQLite renders statements for SQLite.
	DialectSQLite = "sqlite3"

	defaultBooksTableName   = "books"
	defaultUsersTableName   = "users"
	defaultRecordsTableName = "borrowing_records"
)

type tableNames struct {
	books   string
	users   string
	records string
}

// Store is the relational borrowing store.
// The zero value is not usable, create it with one of the NewStoreFrom... constructors.
type Store struct {
	db               adapters.DBAdapter
	q                adapters.Querier
	inTx             bool
	dialect          string
	tables           tableNames
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
}

// NewStoreFromPGXPool creates a new Store using a pgx Pool with optional configuration.
func NewStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, borrowing.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapter(db), DialectPostgres, options...)
}

// NewStoreFromSQLDB creates a new Store using a sql.DB opened with a PostgreSQL driver (lib/pq).
func NewStoreFromSQLDB(db *sql.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, borrowing.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLAdapter(db), DialectPostgres, options...)
}

// NewStoreFromSQLX creates a new Store using a sqlx.DB connected to PostgreSQL.
func NewStoreFromSQLX(db *sqlx.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, borrowing.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLXAdapter(db), DialectPostgres, options...)
}

// NewStoreFromSQLite creates a new Store using a sql.DB opened with the sqlite3 driver.
// SQLite serializes writers, so the connection pool should be limited to one open connection.
func NewStoreFromSQLite(db *sql.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, borrowing.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLAdapter(db), DialectSQLite, options...)
}

func newStore(db adapters.DBAdapter, dialect string, options ...Option) (Store, error) {
	s := Store{
		db:      db,
		q:       db,
		dialect: dialect,
		tables: tableNames{
			books:   defaultBooksTableName,
			users:   defaultUsersTableName,
			records: defaultRecordsTableName,
		},
	}

	for _, option := range options {
		if err := option(&s); err != nil {
			return Store{}, err
		}
	}

	return s, nil
}

// Dialect returns the SQL dialect the Store renders statements for.
func (s Store) Dialect() string {
	return s.dialect
}

// WithinTransaction runs fn with a UnitOfWork bound to a new transaction.
// The transaction is committed when fn returns nil, and rolled back when fn returns an error or panics.
// A canceled context aborts the transaction before commit, so no partial effect is ever persisted.
func (s Store) WithinTransaction(
	ctx context.Context,
	fn func(ctx context.Context, uow borrowing.UnitOfWork) error,
) (err error) {

	if s.inTx {
		return borrowing.ErrNestedTransaction
	}

	ctx, op := s.startOperation(ctx, operationTransaction)
	defer func() { op.finish(err) }()

	tx, beginErr := s.db.BeginTx(ctx)
	if beginErr != nil {
		s.logError(ctx, logMsgBeginTxFailed, beginErr)
		return errors.Join(borrowing.ErrStorageFailure, borrowing.ErrBeginningTransactionFailed, beginErr)
	}

	txStore := s
	txStore.q = tx
	txStore.inTx = true

	defer func() {
		if p := recover(); p != nil {
			s.rollback(ctx, tx)
			panic(p)
		}
	}()

	if fnErr := fn(ctx, txStore); fnErr != nil {
		s.rollback(ctx, tx)
		return fnErr
	}

	if commitErr := tx.Commit(ctx); commitErr != nil {
		s.rollback(ctx, tx)
		s.logError(ctx, logMsgCommitTxFailed, commitErr)
		return errors.Join(borrowing.ErrStorageFailure, borrowing.ErrCommittingTransactionFailed, commitErr)
	}

	return nil
}

// rollback is also used after a canceled context, so it must not inherit the cancellation.
func (s Store) rollback(ctx context.Context, tx adapters.TxAdapter) {
	if rollbackErr := tx.Rollback(context.WithoutCancel(ctx)); rollbackErr != nil {
		s.logWarn(ctx, logMsgRollbackFailed, logAttrError, rollbackErr.Error())
	}
}

// GetBook returns the catalog view of a book or borrowing.ErrBookNotFound.
func (s Store) GetBook(ctx context.Context, bookID uuid.UUID) (book borrowing.Book, err error) {
	ctx, op := s.startOperation(ctx, operationGetBook)
	defer func() { op.finish(err) }()

	sqlQuery, buildErr := s.buildSelectBookQuery(bookID)
	if buildErr != nil {
		return borrowing.Book{}, buildErr
	}

	rows, queryErr := s.executeQuery(ctx, sqlQuery, operationGetBook)
	if queryErr != nil {
		return borrowing.Book{}, queryErr
	}
	defer s.closeRows(ctx, rows)

	books, scanErr := s.scanBooks(ctx, rows)
	if scanErr != nil {
		return borrowing.Book{}, scanErr
	}

	if len(books) == 0 {
		return borrowing.Book{}, borrowing.ErrBookNotFound
	}

	return books[0], nil
}

// TryReserveCopy decrements the available copies of a book if at least one copy is available.
// It returns false if the book does not exist or no copy is available.
func (s Store) TryReserveCopy(ctx context.Context, bookID uuid.UUID) (reserved bool, err error) {
	ctx, op := s.startOperation(ctx, operationReserveCopy)
	defer func() { op.finish(err) }()

	sqlQuery, buildErr := s.buildReserveCopyQuery(bookID)
	if buildErr != nil {
		return false, buildErr
	}

	rowsAffected, execErr := s.executeStatement(ctx, sqlQuery, operationReserveCopy)
	if execErr != nil {
		return false, execErr
	}

	if rowsAffected == 0 {
		s.recordReservationRejected(ctx)
		s.logOperation(ctx, logMsgReservationRejected, logAttrBookID, bookID.String())

		return false, nil
	}

	s.logOperation(ctx, logMsgCopyReserved, logAttrBookID, bookID.String())

	return true, nil
}

// ReleaseCopy increments the available copies of a book.
// It fails with borrowing.ErrCopyReleaseRejected if the book is missing or all copies are already available.
func (s Store) ReleaseCopy(ctx context.Context, bookID uuid.UUID) (err error) {
	ctx, op := s.startOperation(ctx, operationReleaseCopy)
	defer func() { op.finish(err) }()

	sqlQuery, buildErr := s.buildReleaseCopyQuery(bookID)
	if buildErr != nil {
		return buildErr
	}

	rowsAffected, execErr := s.executeStatement(ctx, sqlQuery, operationReleaseCopy)
	if execErr != nil {
		return execErr
	}

	if rowsAffected == 0 {
		s.logError(ctx, logMsgReleaseRejected, borrowing.ErrCopyReleaseRejected, logAttrBookID, bookID.String())
		return borrowing.ErrCopyReleaseRejected
	}

	s.logOperation(ctx, logMsgCopyReleased, logAttrBookID, bookID.String())

	return nil
}

// Create persists a new borrowing record with status Pending, zero fines and version 1.
// A nil record ID is replaced by a generated one.
func (s Store) Create(ctx context.Context, record borrowing.Record) (id uuid.UUID, err error) {
	ctx, op := s.startOperation(ctx, operationCreateRecord)
	defer func() { op.finish(err) }()

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	sqlQuery, buildErr := s.buildInsertRecordQuery(record)
	if buildErr != nil {
		return uuid.Nil, buildErr
	}

	if _, execErr := s.executeStatement(ctx, sqlQuery, operationCreateRecord); execErr != nil {
		return uuid.Nil, execErr
	}

	s.logOperation(ctx, logMsgRecordCreated, logAttrRecordID, record.ID.String(), logAttrBookID, record.BookID.String())

	return record.ID, nil
}

// GetByID returns a single borrowing record or borrowing.ErrRecordNotFound.
func (s Store) GetByID(ctx context.Context, id uuid.UUID) (record borrowing.Record, err error) {
	ctx, op := s.startOperation(ctx, operationGetRecord)
	defer func() { op.finish(err) }()

	records, listErr := s.listRecords(ctx, operationGetRecord, goqu.I(colRecordID).Eq(id.String()))
	if listErr != nil {
		return borrowing.Record{}, listErr
	}

	if len(records) == 0 {
		return borrowing.Record{}, borrowing.ErrRecordNotFound
	}

	return records[0], nil
}

// Update persists status, return date and fines of a record and bumps its version.
// It fails with borrowing.ErrConcurrentModification if record.Version is no longer the stored version.
func (s Store) Update(ctx context.Context, record borrowing.Record) (err error) {
	ctx, op := s.startOperation(ctx, operationUpdateRecord)
	defer func() { op.finish(err) }()

	sqlQuery, buildErr := s.buildUpdateRecordQuery(record)
	if buildErr != nil {
		return buildErr
	}

	rowsAffected, execErr := s.executeStatement(ctx, sqlQuery, operationUpdateRecord)
	if execErr != nil {
		return execErr
	}

	if rowsAffected == 0 {
		s.logOperation(
			ctx,
			logMsgVersionConflict,
			logAttrRecordID, record.ID.String(),
			logAttrExpectedVersion, record.Version,
		)

		return borrowing.ErrConcurrentModification
	}

	s.logOperation(ctx, logMsgRecordUpdated, logAttrRecordID, record.ID.String(), logAttrStatus, string(record.Status))

	return nil
}

// ListAll returns every borrowing record, most recent borrow date first.
func (s Store) ListAll(ctx context.Context) (records borrowing.Records, err error) {
	ctx, op := s.startOperation(ctx, operationListAll)
	defer func() { op.finish(err) }()

	return s.listRecords(ctx, operationListAll)
}

// ListByUser returns the borrowing records of one borrower, most recent borrow date first.
func (s Store) ListByUser(ctx context.Context, userID string) (records borrowing.Records, err error) {
	ctx, op := s.startOperation(ctx, operationListByUser)
	defer func() { op.finish(err) }()

	return s.listRecords(ctx, operationListByUser, goqu.I(colRecordUserID).Eq(userID))
}

// ListByStatus returns the borrowing records currently persisted with the given status.
func (s Store) ListByStatus(ctx context.Context, status borrowing.Status) (records borrowing.Records, err error) {
	ctx, op := s.startOperation(ctx, operationListByStatus)
	defer func() { op.finish(err) }()

	return s.listRecords(ctx, operationListByStatus, goqu.I(colRecordStatus).Eq(string(status)))
}

// EnsureBorrower inserts the borrower row if it does not exist yet.
func (s Store) EnsureBorrower(ctx context.Context, borrower borrowing.BorrowerSummary) (err error) {
	ctx, op := s.startOperation(ctx, operationEnsureBorrower)
	defer func() { op.finish(err) }()

	sqlQuery, buildErr := s.buildInsertBorrowerQuery(borrower)
	if buildErr != nil {
		return buildErr
	}

	_, execErr := s.executeStatement(ctx, sqlQuery, operationEnsureBorrower)

	return execErr
}

// AddBook inserts a new book. It fails with borrowing.ErrDuplicateISBN if the ISBN is taken.
// A nil book ID is replaced by a generated one.
func (s Store) AddBook(ctx context.Context, book borrowing.Book) (id uuid.UUID, err error) {
	ctx, op := s.startOperation(ctx, operationAddBook)
	defer func() { op.finish(err) }()

	if book.ID == uuid.Nil {
		book.ID = uuid.New()
	}

	sqlQuery, buildErr := s.buildInsertBookQuery(book)
	if buildErr != nil {
		return uuid.Nil, buildErr
	}

	if _, execErr := s.executeStatement(ctx, sqlQuery, operationAddBook); execErr != nil {
		if isUniqueViolation(execErr) {
			return uuid.Nil, borrowing.ErrDuplicateISBN
		}

		return uuid.Nil, execErr
	}

	s.logOperation(ctx, logMsgBookAdded, logAttrBookID, book.ID.String())

	return book.ID, nil
}

// UpdateBook replaces the catalog data of a book and moves its available copies by the change of
// its total copies.
func (s Store) UpdateBook(ctx context.Context, book borrowing.Book) (err error) {
	ctx, op := s.startOperation(ctx, operationUpdateBook)
	defer func() { op.finish(err) }()

	sqlQuery, buildErr := s.buildUpdateBookQuery(book)
	if buildErr != nil {
		return buildErr
	}

	rowsAffected, execErr := s.executeStatement(ctx, sqlQuery, operationUpdateBook)
	if execErr != nil {
		if isUniqueViolation(execErr) {
			return borrowing.ErrDuplicateISBN
		}

		return execErr
	}

	if rowsAffected == 0 {
		return s.explainUntouchedBook(ctx, book.ID, borrowing.ErrCopiesOnLoan)
	}

	s.logOperation(ctx, logMsgBookUpdated, logAttrBookID, book.ID.String())

	return nil
}

// DeleteBook removes a book that no borrowing record references.
func (s Store) DeleteBook(ctx context.Context, bookID uuid.UUID) (err error) {
	ctx, op := s.startOperation(ctx, operationDeleteBook)
	defer func() { op.finish(err) }()

	sqlQuery, buildErr := s.buildDeleteBookQuery(bookID)
	if buildErr != nil {
		return buildErr
	}

	rowsAffected, execErr := s.executeStatement(ctx, sqlQuery, operationDeleteBook)
	if execErr != nil {
		return execErr
	}

	if rowsAffected == 0 {
		return s.explainUntouchedBook(ctx, bookID, borrowing.ErrBookHasRecords)
	}

	s.logOperation(ctx, logMsgBookDeleted, logAttrBookID, bookID.String())

	return nil
}

// explainUntouchedBook tells a missing book apart from a guard that rejected the statement.
func (s Store) explainUntouchedBook(ctx context.Context, bookID uuid.UUID, guardErr error) error {
	if _, err := s.GetBook(ctx, bookID); err != nil {
		return err
	}

	return guardErr
}

func (s Store) listRecords(ctx context.Context, operation string, where ...goqu.Expression) (borrowing.Records, error) {
	sqlQuery, buildErr := s.buildSelectRecordsQuery(where...)
	if buildErr != nil {
		return nil, buildErr
	}

	rows, queryErr := s.executeQuery(ctx, sqlQuery, operation)
	if queryErr != nil {
		return nil, queryErr
	}
	defer s.closeRows(ctx, rows)

	records, scanErr := s.scanRecords(ctx, rows)
	if scanErr != nil {
		return nil, scanErr
	}

	// SQLite compares timestamps as text, ties within a second are settled here.
	slices.SortStableFunc(records, func(a, b borrowing.Record) int {
		return b.BorrowDate.Compare(a.BorrowDate)
	})

	return records, nil
}

// executeQuery runs a query and returns the rows with the duration logged at debug level.
func (s Store) executeQuery(ctx context.Context, sqlQuery string, operation string) (adapters.DBRows, error) {
	start := time.Now()
	rows, queryErr := s.q.Query(ctx, sqlQuery)
	s.logQueryWithDuration(ctx, sqlQuery, operation, time.Since(start))

	if queryErr != nil {
		s.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		return nil, errors.Join(borrowing.ErrStorageFailure, borrowing.ErrQueryingFailed, queryErr)
	}

	return rows, nil
}

// executeStatement runs a statement and returns the number of affected rows.
func (s Store) executeStatement(ctx context.Context, sqlQuery string, operation string) (int64, error) {
	start := time.Now()
	result, execErr := s.q.Exec(ctx, sqlQuery)
	s.logQueryWithDuration(ctx, sqlQuery, operation, time.Since(start))

	if execErr != nil {
		s.logError(ctx, logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		return 0, errors.Join(borrowing.ErrStorageFailure, borrowing.ErrExecutingFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		s.logError(ctx, logMsgRowsAffectedFailed, rowsAffectedErr)
		return 0, errors.Join(borrowing.ErrStorageFailure, borrowing.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	return rowsAffected, nil
}

// closeRows safely closes database rows and logs any errors.
func (s Store) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		s.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}
