// Package myborrowings implements the My Borrowings query use case: a member lists the own
// borrowing records, newest first, with their effective status.
package myborrowings
