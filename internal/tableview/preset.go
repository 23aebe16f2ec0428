package tableview

import (
	"strconv"
	"strings"

	"fjacquet/budget-dashboard/internal/models"
	"fjacquet/budget-dashboard/internal/parsererror"
)

// ColumnKind tells the view how to compare and print a column.
type ColumnKind int

const (
	Text ColumnKind = iota
	Number
)

// Column describes one table column. A non-empty Options restricts the
// values accepted in a draft. Suggestions are common values: a draft value
// matching one case-insensitively takes its spelling, anything else is kept
// as typed.
type Column struct {
	Key         string
	Label       string
	Kind        ColumnKind
	Options     []string
	Suggestions []string
}

// Config describes a table page.
type Config struct {
	Kind        models.Kind
	Title       string
	Columns     []Column
	PillField   string
	MultiSelect bool
}

// Column returns the column with key.
func (c Config) Column(key string) (Column, bool) {
	for _, col := range c.Columns {
		if col.Key == key {
			return col, true
		}
	}
	return Column{}, false
}

// PageSizeAll shows every row on one page.
const PageSizeAll = 0

// PageSizes are the page sizes offered to the user.
var PageSizes = []int{25, 50, 100, PageSizeAll}

// DefaultPageSize is used until the user picks another size.
const DefaultPageSize = 25

// ParsePageSize accepts "all" or one of PageSizes.
func ParsePageSize(s string) (int, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return PageSizeAll, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || !validPageSize(n) {
		return 0, &parsererror.ValidationError{Field: "page size", Reason: "must be one of 25, 50, 100 or all"}
	}
	return n, nil
}

func validPageSize(n int) bool {
	for _, size := range PageSizes {
		if size == n {
			return true
		}
	}
	return false
}

// Preset returns the page layout for kind. categoryNames feeds the bills
// category selector.
func Preset(kind models.Kind, categoryNames []string) (Config, bool) {
	switch kind {
	case models.KindCategories:
		types := make([]string, len(models.CategoryTypes))
		for i, t := range models.CategoryTypes {
			types[i] = string(t)
		}
		return Config{
			Kind:  kind,
			Title: "Categories",
			Columns: []Column{
				{Key: "name", Label: "Name"},
				{Key: "type", Label: "Type", Options: types},
			},
			PillField: "type",
		}, true
	case models.KindIncome:
		return Config{
			Kind:  kind,
			Title: "Income",
			Columns: []Column{
				{Key: "date", Label: "Date (DD-MMM-YYYY)"},
				{Key: "source", Label: "Source"},
				{Key: "amount", Label: "Amount", Kind: Number},
				{Key: "tags", Label: "Tags"},
			},
			PillField: "tags",
		}, true
	case models.KindBills:
		return Config{
			Kind:  kind,
			Title: "Bills",
			Columns: []Column{
				{Key: "due", Label: "Due (DD-MMM-YYYY)"},
				{Key: "name", Label: "Bill"},
				{Key: "category", Label: "Category", Options: categoryNames},
				{Key: "amount", Label: "Amount", Kind: Number},
				{Key: "status", Label: "Status", Suggestions: []string{models.StatusPaid, models.StatusDue}},
			},
			PillField:   "category",
			MultiSelect: true,
		}, true
	}
	return Config{}, false
}

// CategoryNames lists the names of category records in order.
func CategoryNames(records []models.Record) []string {
	names := make([]string, 0, len(records))
	for _, rec := range records {
		if v, ok := rec.Field("name"); ok {
			if name := models.FieldText(v); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}
