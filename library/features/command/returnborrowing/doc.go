// Package returnborrowing implements the Return Borrowing use case.
//
// A librarian marks an Approved record as returned. The fine for a late return is fixed at this
// moment from the due date, the return date and the configured fine policy. The record update and
// the release of the copy back to the inventory commit together or not at all.
package returnborrowing
