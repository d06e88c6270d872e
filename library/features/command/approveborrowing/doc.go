// Package approveborrowing implements the Approve Borrowing use case.
//
// A librarian confirms a Pending borrowing record. The copy was already reserved when the member
// asked for it, so approval only moves the record to Approved; the inventory is not touched.
package approveborrowing
