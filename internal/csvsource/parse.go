package csvsource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"fjacquet/budget-dashboard/internal/parsererror"

	"github.com/gocarina/gocsv"
)

// Parse reads a CSV document whose first row is the header row, streaming
// rows through the gocsv decoder. Rows may have fewer or more fields than
// the header.
func Parse(r io.Reader, source string, delimiter rune) (*RawTable, error) {
	reader := csv.NewReader(r)
	if delimiter != 0 {
		reader.Comma = delimiter
	}
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	decoder := gocsv.NewSimpleDecoderFromCSVReader(reader)
	headers, err := decoder.GetCSVRow()
	if errors.Is(err, io.EOF) {
		return &RawTable{}, nil
	}
	if err != nil {
		return nil, parseError(source, err)
	}

	var rows [][]string
	for {
		row, err := decoder.GetCSVRow()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, parseError(source, err)
		}
		rows = append(rows, row)
	}
	return NewRawTable(headers, rows), nil
}

func parseError(source string, err error) error {
	perr := &parsererror.ParseError{Source: source, Err: err}
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		perr.Line = csvErr.Line
	}
	return perr
}

// ParseLocalFile parses the CSV file at path.
func ParseLocalFile(path string, delimiter rune) (*RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f, path, delimiter)
}
