// Package requestborrowing implements the Request Borrowing use case.
//
// A member asks to borrow one copy of a book for a number of days. The request reserves a copy
// in the inventory ledger first and then creates a Pending borrowing record, both inside one
// transaction: if the record cannot be stored the reservation is rolled back with it.
//
// The reservation is a conditional decrement in the database, so concurrent requests for the
// last copy cannot both succeed.
package requestborrowing
