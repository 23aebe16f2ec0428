// Package csvsource reads header-row CSV data from files, published
// spreadsheet URLs and the Google Sheets API into an untyped RawTable.
package csvsource

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Cell is one parsed CSV value. Numeric is set when the text looked like a
// plain number, in which case Number holds its value.
type Cell struct {
	Text    string
	Number  decimal.Decimal
	Numeric bool
}

// IsBlank reports whether the cell has no content.
func (c Cell) IsBlank() bool {
	return strings.TrimSpace(c.Text) == ""
}

var numberPattern = regexp.MustCompile(`^\s*-?(\d+\.?|\.\d+|\d+\.\d+)([eE][-+]?\d+)?\s*$`)

// NewCell infers the scalar type of a raw CSV value.
func NewCell(text string) Cell {
	cell := Cell{Text: text}
	if numberPattern.MatchString(text) {
		if n, err := decimal.NewFromString(strings.TrimSpace(text)); err == nil {
			cell.Number = n
			cell.Numeric = true
		}
	}
	return cell
}

// RawRecord is one data row keyed by header. Cells missing from a short row
// are absent from Cells.
type RawRecord struct {
	Headers []string
	Cells   map[string]Cell
}

// Get returns the cell stored under an exact header.
func (r RawRecord) Get(header string) (Cell, bool) {
	c, ok := r.Cells[header]
	return c, ok
}

// RawTable is a parsed CSV document.
type RawTable struct {
	Headers []string
	Rows    []RawRecord
}

// Len returns the number of data rows.
func (t *RawTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// NewRawTable builds a table from a header row and string rows. Rows with
// only blank cells are skipped; values past the last header are ignored.
func NewRawTable(headers []string, rows [][]string) *RawTable {
	table := &RawTable{Headers: cleanHeaders(headers)}
	for _, row := range rows {
		if blankRow(row) {
			continue
		}
		rec := RawRecord{Headers: table.Headers, Cells: make(map[string]Cell, len(row))}
		for i, value := range row {
			if i >= len(table.Headers) {
				break
			}
			rec.Cells[table.Headers[i]] = NewCell(value)
		}
		table.Rows = append(table.Rows, rec)
	}
	return table
}

func cleanHeaders(headers []string) []string {
	out := make([]string, len(headers))
	copy(out, headers)
	if len(out) > 0 {
		out[0] = strings.TrimPrefix(out[0], "\ufeff")
	}
	return out
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
