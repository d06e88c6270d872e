package sqlengine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
	"github.com/rahulmaharshi/manage-library-app/borrowing/sqlengine/internal/adapters"
)

type bookRow struct {
	id              string
	title           string
	isbn            string
	author          string
	publisher       string
	publishedYear   int
	totalCopies     int
	availableCopies int
}

type recordRow struct {
	id         string
	bookID     string
	userID     string
	borrowDate time.Time
	dueDate    time.Time
	returnDate *time.Time
	status     string
	fines      string
	version    borrowing.VersionUint
	bookTitle  string
	bookISBN   string
	fullName   string
	email      string
}

func (s Store) scanBooks(ctx context.Context, rows adapters.DBRows) ([]borrowing.Book, error) {
	books := make([]borrowing.Book, 0, 1)

	for rows.Next() {
		row := bookRow{}

		scanErr := rows.Scan(
			&row.id,
			&row.title,
			&row.isbn,
			&row.author,
			&row.publisher,
			&row.publishedYear,
			&row.totalCopies,
			&row.availableCopies,
		)
		if scanErr != nil {
			s.logError(ctx, logMsgScanRowFailed, scanErr)
			return nil, errors.Join(borrowing.ErrStorageFailure, borrowing.ErrScanningDBRowFailed, scanErr)
		}

		id, parseErr := uuid.Parse(row.id)
		if parseErr != nil {
			s.logError(ctx, logMsgParseColumnFailed, parseErr, logAttrColumn, colID)
			return nil, errors.Join(borrowing.ErrStorageFailure, borrowing.ErrParsingColumnFailed, parseErr)
		}

		books = append(books, borrowing.Book{
			ID:              id,
			Title:           row.title,
			ISBN:            row.isbn,
			Author:          row.author,
			Publisher:       row.publisher,
			PublishedYear:   row.publishedYear,
			TotalCopies:     row.totalCopies,
			AvailableCopies: row.availableCopies,
		})
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		s.logError(ctx, logMsgScanRowFailed, rowsErr)
		return nil, errors.Join(borrowing.ErrStorageFailure, borrowing.ErrScanningDBRowFailed, rowsErr)
	}

	return books, nil
}

func (s Store) scanRecords(ctx context.Context, rows adapters.DBRows) (borrowing.Records, error) {
	records := make(borrowing.Records, 0)

	for rows.Next() {
		row := recordRow{}

		scanErr := rows.Scan(
			&row.id,
			&row.bookID,
			&row.userID,
			&row.borrowDate,
			&row.dueDate,
			&row.returnDate,
			&row.status,
			&row.fines,
			&row.version,
			&row.bookTitle,
			&row.bookISBN,
			&row.fullName,
			&row.email,
		)
		if scanErr != nil {
			s.logError(ctx, logMsgScanRowFailed, scanErr)
			return nil, errors.Join(borrowing.ErrStorageFailure, borrowing.ErrScanningDBRowFailed, scanErr)
		}

		record, buildErr := row.toRecord()
		if buildErr != nil {
			s.logError(ctx, logMsgParseColumnFailed, buildErr, logAttrRecordID, row.id)
			return nil, errors.Join(borrowing.ErrStorageFailure, borrowing.ErrParsingColumnFailed, buildErr)
		}

		records = append(records, record)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		s.logError(ctx, logMsgScanRowFailed, rowsErr)
		return nil, errors.Join(borrowing.ErrStorageFailure, borrowing.ErrScanningDBRowFailed, rowsErr)
	}

	return records, nil
}

func (row recordRow) toRecord() (borrowing.Record, error) {
	id, idErr := uuid.Parse(row.id)
	if idErr != nil {
		return borrowing.Record{}, idErr
	}

	bookID, bookIDErr := uuid.Parse(row.bookID)
	if bookIDErr != nil {
		return borrowing.Record{}, bookIDErr
	}

	fines, finesErr := decimal.NewFromString(row.fines)
	if finesErr != nil {
		return borrowing.Record{}, finesErr
	}

	var returnDate *time.Time
	if row.returnDate != nil {
		normalized := row.returnDate.UTC()
		returnDate = &normalized
	}

	return borrowing.Record{
		ID:         id,
		BookID:     bookID,
		UserID:     row.userID,
		BorrowDate: row.borrowDate.UTC(),
		DueDate:    row.dueDate.UTC(),
		ReturnDate: returnDate,
		Status:     borrowing.Status(row.status),
		Fines:      fines,
		Version:    row.version,
		Book: borrowing.BookSummary{
			Title: row.bookTitle,
			ISBN:  row.bookISBN,
		},
		Borrower: borrowing.BorrowerSummary{
			UserID:   row.userID,
			FullName: row.fullName,
			Email:    row.email,
		},
	}, nil
}
