// Package updatebook implements the Update Book use case: a librarian corrects the catalog data
// of a title or changes its number of copies. Copies on loan stay on loan, only the available
// copies follow the new total.
package updatebook
