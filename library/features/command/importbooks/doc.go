// Package importbooks implements the bulk import of books from a CSV file.
//
// Every data row becomes one AddBook command. A rejected row is reported with its line number
// and reason and does not stop the batch; a storage failure does. The header names columns,
// their order is free. Besides the canonical names the column names of the Book-Crossing
// dataset are understood ("Book-Title", "Book-Author", "Year-Of-Publication").
package importbooks
