// Package allborrowings implements the All Borrowings query use case for librarians.
//
// It lists every borrowing record, newest first, with book and borrower summaries and the
// status as it presents at the time of the query: Approved records past their due date are
// reported as Overdue.
package allborrowings
