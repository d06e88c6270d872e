// Package deletebook implements the Delete Book use case: a librarian removes a title from the
// catalog. Titles that were ever borrowed keep their history and cannot be deleted.
package deletebook
