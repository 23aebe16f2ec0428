// Package headers resolves a logical field to a cell of a raw CSV row by
// trying a list of accepted header spellings.
package headers

import (
	"strings"

	"fjacquet/budget-dashboard/internal/csvsource"
)

// Candidates holds the accepted spellings for every logical field, in
// priority order. Adding a new spelling only requires editing this table.
var Candidates = map[string][]string{
	"income.date":     {"Date", "date", "Date (DD-MMM-YYYY)", "date (dd-mmm-yyyy)"},
	"income.source":   {"Source", "source"},
	"income.amount":   {"Amount", "amount"},
	"income.tags":     {"Tags", "tags"},
	"bills.due":       {"Due Date", "due date", "Due", "due", "Due (DD-MMM-YYYY)"},
	"bills.name":      {"Bill", "bill", "Description", "description"},
	"bills.category":  {"Category", "category"},
	"bills.amount":    {"Amount", "amount"},
	"bills.status":    {"Status", "status"},
	"categories.name": {"Name", "name"},
	"categories.type": {"Type", "type"},
}

// Lookup returns the cell for the first candidate present in rec. Exact
// header matches are tried first for every candidate; after that each
// candidate is compared case-insensitively, ignoring surrounding spaces,
// against the headers in their original order. ok is false when nothing
// matched.
func Lookup(rec csvsource.RawRecord, candidates []string) (csvsource.Cell, bool) {
	for _, c := range candidates {
		if cell, ok := rec.Get(c); ok {
			return cell, true
		}
	}
	for _, c := range candidates {
		want := strings.ToLower(strings.TrimSpace(c))
		for _, h := range rec.Headers {
			if strings.ToLower(strings.TrimSpace(h)) != want {
				continue
			}
			if cell, ok := rec.Get(h); ok {
				return cell, true
			}
		}
	}
	return csvsource.Cell{}, false
}

// Field is Lookup with the candidates registered under key.
func Field(rec csvsource.RawRecord, key string) (csvsource.Cell, bool) {
	return Lookup(rec, Candidates[key])
}
