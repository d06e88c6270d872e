// Package bookdetails implements the Book Details query: the catalog data of one book with its
// current number of available copies.
package bookdetails
