package sqlengine

import (
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
)

const (
	colID              = "id"
	colTitle           = "title"
	colISBN            = "isbn"
	colAuthor          = "author"
	colPublisher       = "publisher"
	colPublishedYear   = "published_year"
	colTotalCopies     = "total_copies"
	colAvailableCopies = "available_copies"
	colFullName        = "full_name"
	colEmail           = "email"
	colBookID          = "book_id"
	colUserID          = "user_id"
	colBorrowDate      = "borrow_date"
	colDueDate         = "due_date"
	colReturnDate      = "return_date"
	colStatus          = "status"
	colFines           = "fines"
	colVersion         = "version"

	aliasRecords = "r"
	aliasBooks   = "b"
	aliasUsers   = "u"

	colRecordID       = aliasRecords + "." + colID
	colRecordUserID   = aliasRecords + "." + colUserID
	colRecordStatus   = aliasRecords + "." + colStatus
	colRecordBookID   = aliasRecords + "." + colBookID
	colRecordBorrowed = aliasRecords + "." + colBorrowDate

	castAsText = "TEXT"

	exprDecrementAvailable = colAvailableCopies + " - 1"
	exprIncrementAvailable = colAvailableCopies + " + 1"
	exprIncrementVersion   = colVersion + " + 1"
	exprShiftAvailable     = colAvailableCopies + " + ? - " + colTotalCopies

	initialVersion = 1
	zeroFines      = "0"

	// timestampLayout has a fixed width, so text timestamps in SQLite sort chronologically.
	timestampLayout = "2006-01-02T15:04:05.000000Z07:00"
)

type sqlQueryString = string

func (s Store) builder() goqu.DialectWrapper {
	return goqu.Dialect(s.dialect)
}

func (s Store) buildSelectBookQuery(bookID uuid.UUID) (sqlQueryString, error) {
	selectStmt := s.builder().
		From(s.tables.books).
		Select(
			goqu.Cast(goqu.C(colID), castAsText),
			colTitle,
			colISBN,
			colAuthor,
			colPublisher,
			colPublishedYear,
			colTotalCopies,
			colAvailableCopies,
		).
		Where(goqu.C(colID).Eq(bookID.String()))

	return s.toSQL(selectStmt)
}

// buildReserveCopyQuery carries the availability guard in the WHERE clause of the decrement.
func (s Store) buildReserveCopyQuery(bookID uuid.UUID) (sqlQueryString, error) {
	updateStmt := s.builder().
		Update(s.tables.books).
		Set(goqu.Record{colAvailableCopies: goqu.L(exprDecrementAvailable)}).
		Where(
			goqu.C(colID).Eq(bookID.String()),
			goqu.C(colAvailableCopies).Gt(0),
		)

	return s.toSQL(updateStmt)
}

func (s Store) buildReleaseCopyQuery(bookID uuid.UUID) (sqlQueryString, error) {
	updateStmt := s.builder().
		Update(s.tables.books).
		Set(goqu.Record{colAvailableCopies: goqu.L(exprIncrementAvailable)}).
		Where(
			goqu.C(colID).Eq(bookID.String()),
			goqu.C(colAvailableCopies).Lt(goqu.C(colTotalCopies)),
		)

	return s.toSQL(updateStmt)
}

func (s Store) buildInsertRecordQuery(record borrowing.Record) (sqlQueryString, error) {
	insertStmt := s.builder().
		Insert(s.tables.records).
		Rows(goqu.Record{
			colID:         record.ID.String(),
			colBookID:     record.BookID.String(),
			colUserID:     record.UserID,
			colBorrowDate: timeLiteral(record.BorrowDate),
			colDueDate:    timeLiteral(record.DueDate),
			colReturnDate: nil,
			colStatus:     string(borrowing.StatusPending),
			colFines:      zeroFines,
			colVersion:    initialVersion,
		})

	return s.toSQL(insertStmt)
}

func (s Store) buildUpdateRecordQuery(record borrowing.Record) (sqlQueryString, error) {
	var returnDate any
	if record.ReturnDate != nil {
		returnDate = timeLiteral(*record.ReturnDate)
	}

	updateStmt := s.builder().
		Update(s.tables.records).
		Set(goqu.Record{
			colStatus:     string(record.Status),
			colReturnDate: returnDate,
			colFines:      record.Fines.String(),
			colVersion:    goqu.L(exprIncrementVersion),
		}).
		Where(
			goqu.C(colID).Eq(record.ID.String()),
			goqu.C(colVersion).Eq(record.Version),
		)

	return s.toSQL(updateStmt)
}

func (s Store) buildSelectRecordsQuery(where ...goqu.Expression) (sqlQueryString, error) {
	selectStmt := s.builder().
		From(goqu.T(s.tables.records).As(aliasRecords)).
		LeftJoin(
			goqu.T(s.tables.books).As(aliasBooks),
			goqu.On(goqu.I(aliasBooks+"."+colID).Eq(goqu.I(colRecordBookID))),
		).
		LeftJoin(
			goqu.T(s.tables.users).As(aliasUsers),
			goqu.On(goqu.I(aliasUsers+"."+colID).Eq(goqu.I(colRecordUserID))),
		).
		Select(
			goqu.Cast(goqu.I(colRecordID), castAsText),
			goqu.Cast(goqu.I(colRecordBookID), castAsText),
			goqu.I(colRecordUserID),
			goqu.I(colRecordBorrowed),
			goqu.I(aliasRecords+"."+colDueDate),
			goqu.I(aliasRecords+"."+colReturnDate),
			goqu.I(colRecordStatus),
			goqu.Cast(goqu.I(aliasRecords+"."+colFines), castAsText),
			goqu.I(aliasRecords+"."+colVersion),
			goqu.COALESCE(goqu.I(aliasBooks+"."+colTitle), ""),
			goqu.COALESCE(goqu.I(aliasBooks+"."+colISBN), ""),
			goqu.COALESCE(goqu.I(aliasUsers+"."+colFullName), ""),
			goqu.COALESCE(goqu.I(aliasUsers+"."+colEmail), ""),
		).
		Order(goqu.I(colRecordBorrowed).Desc())

	if len(where) > 0 {
		selectStmt = selectStmt.Where(where...)
	}

	return s.toSQL(selectStmt)
}

// buildInsertBorrowerQuery never overwrites an existing row.
func (s Store) buildInsertBorrowerQuery(borrower borrowing.BorrowerSummary) (sqlQueryString, error) {
	insertStmt := s.builder().
		Insert(s.tables.users).
		Rows(goqu.Record{
			colID:       borrower.UserID,
			colFullName: borrower.FullName,
			colEmail:    borrower.Email,
		}).
		OnConflict(goqu.DoNothing())

	return s.toSQL(insertStmt)
}

func (s Store) buildInsertBookQuery(book borrowing.Book) (sqlQueryString, error) {
	insertStmt := s.builder().
		Insert(s.tables.books).
		Rows(goqu.Record{
			colID:              book.ID.String(),
			colTitle:           book.Title,
			colISBN:            book.ISBN,
			colAuthor:          book.Author,
			colPublisher:       book.Publisher,
			colPublishedYear:   book.PublishedYear,
			colTotalCopies:     book.TotalCopies,
			colAvailableCopies: book.TotalCopies,
		})

	return s.toSQL(insertStmt)
}

// buildUpdateBookQuery shifts available_copies by the change of total_copies. SET and WHERE both
// see the old row, and the guard keeps available_copies from going negative.
func (s Store) buildUpdateBookQuery(book borrowing.Book) (sqlQueryString, error) {
	updateStmt := s.builder().
		Update(s.tables.books).
		Set(goqu.Record{
			colTitle:           book.Title,
			colISBN:            book.ISBN,
			colAuthor:          book.Author,
			colPublisher:       book.Publisher,
			colPublishedYear:   book.PublishedYear,
			colTotalCopies:     book.TotalCopies,
			colAvailableCopies: goqu.L(exprShiftAvailable, book.TotalCopies),
		}).
		Where(
			goqu.C(colID).Eq(book.ID.String()),
			goqu.L(exprShiftAvailable, book.TotalCopies).Gte(0),
		)

	return s.toSQL(updateStmt)
}

// buildDeleteBookQuery only deletes a book no record refers to.
func (s Store) buildDeleteBookQuery(bookID uuid.UUID) (sqlQueryString, error) {
	referenced := s.builder().
		From(s.tables.records).
		Select(colBookID).
		Where(goqu.C(colBookID).Eq(bookID.String()))

	deleteStmt := s.builder().
		Delete(s.tables.books).
		Where(
			goqu.C(colID).Eq(bookID.String()),
			goqu.C(colID).NotIn(referenced),
		)

	return s.toSQL(deleteStmt)
}

// timeLiteral renders timestamps identically for every dialect, go-sqlite3 parses the format back on scan.
func timeLiteral(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

type sqlBuilder interface {
	ToSQL() (string, []any, error)
}

func (s Store) toSQL(stmt sqlBuilder) (sqlQueryString, error) {
	sqlQuery, _, toSQLErr := stmt.ToSQL()
	if toSQLErr != nil {
		if s.logger != nil {
			s.logger.Error(logMsgBuildQueryFailed, logAttrError, toSQLErr.Error())
		}

		return "", errors.Join(borrowing.ErrStorageFailure, borrowing.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}
