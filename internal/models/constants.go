package models

import (
	"fmt"
	"strings"
)

// Kind names one of the three collections.
type Kind string

const (
	KindCategories Kind = "categories"
	KindIncome     Kind = "income"
	KindBills      Kind = "bills"
	KindUnknown    Kind = "unknown"
)

// Kinds lists the collections in the order they are loaded and persisted.
var Kinds = []Kind{KindCategories, KindIncome, KindBills}

// ParseKind accepts a collection name in any case.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindCategories, "category", "cats":
		return KindCategories, nil
	case KindIncome:
		return KindIncome, nil
	case KindBills, "bill":
		return KindBills, nil
	}
	return KindUnknown, fmt.Errorf("unknown collection %q (expected categories, income or bills)", s)
}

// RowsLabel is the noun used in status messages ("Loaded 3 income rows").
func (k Kind) RowsLabel() string {
	switch k {
	case KindIncome:
		return "income rows"
	case KindBills:
		return "bills rows"
	default:
		return string(k)
	}
}

// CategoryType classifies a category.
type CategoryType string

const (
	CategoryExpense CategoryType = "Expense"
	CategoryIncome  CategoryType = "Income"
	CategorySavings CategoryType = "Savings"
)

// CategoryTypes lists the allowed values in display order.
var CategoryTypes = []CategoryType{CategoryExpense, CategoryIncome, CategorySavings}

// ParseCategoryType matches s case-insensitively; anything else is Expense.
func ParseCategoryType(s string) CategoryType {
	s = strings.TrimSpace(s)
	for _, t := range CategoryTypes {
		if strings.EqualFold(s, string(t)) {
			return t
		}
	}
	return CategoryExpense
}

// Bill status values offered by the bills editor.
const (
	StatusPaid = "paid"
	StatusDue  = "due"
)

// Defaults applied when an imported bill leaves a column empty.
const (
	DefaultBillStatus   = StatusPaid
	DefaultBillCategory = "Misc"
)
