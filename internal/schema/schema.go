// Package schema classifies a CSV header row as one of the collections.
package schema

import (
	"strings"

	"fjacquet/budget-dashboard/internal/models"
)

// MaxCategoryColumns bounds the width of a categories file so wider files
// that merely contain name and type columns are not mistaken for one.
const MaxCategoryColumns = 3

// Detect returns the collection a header row belongs to. Bills are checked
// before income, and income before categories; KindUnknown means no layout
// matched.
func Detect(headers []string) models.Kind {
	h := make(map[string]struct{}, len(headers))
	var due, date bool
	for _, raw := range headers {
		name := strings.ToLower(strings.TrimSpace(raw))
		h[name] = struct{}{}
		if strings.HasPrefix(name, "due") {
			due = true
		}
		if strings.HasPrefix(name, "date") {
			date = true
		}
	}
	has := func(name string) bool {
		_, ok := h[name]
		return ok
	}

	switch {
	case (has("bill") || has("description")) && has("category") && has("amount") && due:
		return models.KindBills
	case has("source") && has("amount") && date:
		return models.KindIncome
	case has("name") && has("type") && len(headers) <= MaxCategoryColumns:
		return models.KindCategories
	}
	return models.KindUnknown
}
