// Package addbook implements the Add Book use case: a librarian adds a title with a number of
// copies to the catalog. All copies start out available.
package addbook
