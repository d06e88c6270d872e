package importbooks

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	// ErrMissingColumn is returned for a header without one of the required columns.
	ErrMissingColumn = errors.New("required column is missing")

	// ErrEmptyFile is returned for a file without a header line.
	ErrEmptyFile = errors.New("the file has no header")
)

const (
	columnTitle         = "title"
	columnISBN          = "isbn"
	columnAuthor        = "author"
	columnPublisher     = "publisher"
	columnPublishedYear = "publishedyear"
	columnTotalCopies   = "totalcopies"
)

var columnAliases = map[string]string{
	"book-title":          columnTitle,
	"book-author":         columnAuthor,
	"year-of-publication": columnPublishedYear,
	"published_year":      columnPublishedYear,
	"total_copies":        columnTotalCopies,
}

var requiredColumns = []string{columnTitle, columnISBN, columnAuthor}

// Row is one data line of the import file.
type Row struct {
	Line          int
	Title         string
	ISBN          string
	Author        string
	Publisher     string
	PublishedYear int
	TotalCopies   int

	// Err is set if the line could not be read or a number did not parse.
	Err error
}

// RowReader yields the data rows of a CSV import file.
type RowReader struct {
	reader  *csv.Reader
	columns map[string]int
}

// NewRowReader reads and validates the header of source.
func NewRowReader(source io.Reader) (*RowReader, error) {
	reader := csv.NewReader(source)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}

	if err != nil {
		return nil, err
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if alias, ok := columnAliases[key]; ok {
			key = alias
		}

		columns[key] = i
	}

	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	return &RowReader{reader: reader, columns: columns}, nil
}

// Next returns the next row, or io.EOF after the last one.
func (r *RowReader) Next() (Row, error) {
	fields, err := r.reader.Read()
	if errors.Is(err, io.EOF) {
		return Row{}, io.EOF
	}

	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return Row{Line: parseErr.StartLine, Err: parseErr.Err}, nil
	}

	if err != nil {
		return Row{}, err
	}

	line, _ := r.reader.FieldPos(0)
	row := Row{Line: line}

	row.Title = r.field(fields, columnTitle)
	row.ISBN = r.field(fields, columnISBN)
	row.Author = r.field(fields, columnAuthor)
	row.Publisher = r.field(fields, columnPublisher)
	row.TotalCopies = DefaultCopiesPerTitle

	if year := r.field(fields, columnPublishedYear); year != "" {
		row.PublishedYear, err = strconv.Atoi(year)
		if err != nil {
			row.Err = fmt.Errorf("published year %q is not a number", year)
			return row, nil
		}
	}

	if copies := r.field(fields, columnTotalCopies); copies != "" {
		row.TotalCopies, err = strconv.Atoi(copies)
		if err != nil {
			row.Err = fmt.Errorf("total copies %q is not a number", copies)
			return row, nil
		}
	}

	return row, nil
}

func (r *RowReader) field(fields []string, column string) string {
	i, ok := r.columns[column]
	if !ok || i >= len(fields) {
		return ""
	}

	return strings.TrimSpace(fields[i])
}
