// Package overdueborrowings implements the Overdue Borrowings query use case.
//
// Overdue is never stored. A record is overdue while it is Approved and its due date lies before
// the time of the query. The result carries the fine each loan would be charged if it were
// returned at that time, the most overdue loans first.
package overdueborrowings
