package borrowing

import (
	"errors"
)

// ErrStorageFailure is joined into every error caused by database I/O, so that callers can
// tell infrastructure failures apart from business outcomes with errors.Is.
var ErrStorageFailure = errors.New("storage failure")

var ErrNilDatabaseConnection = errors.New("nil database connection supplied")
var ErrUnsupportedDialect = errors.New("unsupported sql dialect")
var ErrNestedTransaction = errors.New("nested transactions are not supported")

var ErrBookNotFound = errors.New("book not found")
var ErrRecordNotFound = errors.New("borrowing record not found")
var ErrDuplicateISBN = errors.New("a book with this isbn already exists")
var ErrCopiesOnLoan = errors.New("the total copies cannot drop below the copies on loan")
var ErrBookHasRecords = errors.New("the book is referenced by borrowing records")
var ErrCopyReleaseRejected = errors.New("releasing a copy would exceed the total copies of the book")

// ErrConcurrentModification signals that a record changed between read and write (optimistic lock conflict).
var ErrConcurrentModification = errors.New("concurrent modification, no rows were affected")

var ErrBuildingQueryFailed = errors.New("building query failed")
var ErrQueryingFailed = errors.New("querying failed")
var ErrExecutingFailed = errors.New("executing statement failed")
var ErrScanningDBRowFailed = errors.New("scanning db row failed")
var ErrGettingRowsAffectedFailed = errors.New("getting rows affected failed")
var ErrBeginningTransactionFailed = errors.New("beginning transaction failed")
var ErrCommittingTransactionFailed = errors.New("committing transaction failed")
var ErrParsingColumnFailed = errors.New("parsing column value failed")

// VersionUint is the optimistic concurrency version of a borrowing record.
type VersionUint = uint
