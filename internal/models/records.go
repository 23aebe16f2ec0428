package models

import (
	"fmt"
	"sort"

	"fjacquet/budget-dashboard/internal/currencyutils"
	"fjacquet/budget-dashboard/internal/dateutils"

	"github.com/shopspring/decimal"
)

// Record is the behaviour shared by the three record types. Field values
// are strings, decimal.Decimal amounts, CategoryType or Tags.
type Record interface {
	GetID() string
	SetID(id string)
	Kind() Kind
	// Field returns the value stored under a field key.
	Field(key string) (interface{}, bool)
	// Apply sets fields from their text form, normalizing dates and amounts.
	Apply(patch Patch) error
	Clone() Record
}

// Patch maps field keys to text values.
type Patch map[string]string

// Keys returns the patch keys in sorted order.
func (p Patch) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// UnknownFieldError is returned when a patch names a field the record type
// does not have.
type UnknownFieldError struct {
	Kind  Kind
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s records have no field %q", e.Kind, e.Field)
}

// FieldKeys lists the editable fields of each kind in column order.
var FieldKeys = map[Kind][]string{
	KindCategories: {"name", "type"},
	KindIncome:     {"date", "source", "amount", "tags"},
	KindBills:      {"due", "name", "category", "amount", "status"},
}

// NewRecord returns an empty record of kind k.
func NewRecord(k Kind) (Record, error) {
	switch k {
	case KindCategories:
		return &CategoryRecord{Type: CategoryExpense}, nil
	case KindIncome:
		return &IncomeRecord{Tags: Tags{}}, nil
	case KindBills:
		return &BillRecord{}, nil
	}
	return nil, fmt.Errorf("cannot create records of kind %q", k)
}

// CategoryRecord is a spending/income/savings category.
type CategoryRecord struct {
	ID   string       `json:"id"`
	Name string       `json:"name"`
	Type CategoryType `json:"type"`
}

func (r *CategoryRecord) GetID() string   { return r.ID }
func (r *CategoryRecord) SetID(id string) { r.ID = id }
func (r *CategoryRecord) Kind() Kind      { return KindCategories }

func (r *CategoryRecord) Field(key string) (interface{}, bool) {
	switch key {
	case "id":
		return r.ID, true
	case "name":
		return r.Name, true
	case "type":
		return r.Type, true
	}
	return nil, false
}

func (r *CategoryRecord) Apply(patch Patch) error {
	for _, key := range patch.Keys() {
		value := patch[key]
		switch key {
		case "name":
			r.Name = value
		case "type":
			r.Type = ParseCategoryType(value)
		default:
			return &UnknownFieldError{Kind: KindCategories, Field: key}
		}
	}
	return nil
}

func (r *CategoryRecord) Clone() Record {
	c := *r
	return &c
}

// IncomeRecord is one income entry.
type IncomeRecord struct {
	ID     string          `json:"id"`
	Date   string          `json:"date"`
	Source string          `json:"source"`
	Amount decimal.Decimal `json:"amount"`
	Tags   Tags            `json:"tags"`
	// Unnormalized is set when Date holds text that could not be parsed.
	Unnormalized bool `json:"unnormalized,omitempty"`
}

func (r *IncomeRecord) GetID() string   { return r.ID }
func (r *IncomeRecord) SetID(id string) { r.ID = id }
func (r *IncomeRecord) Kind() Kind      { return KindIncome }

func (r *IncomeRecord) Field(key string) (interface{}, bool) {
	switch key {
	case "id":
		return r.ID, true
	case "date":
		return r.Date, true
	case "source":
		return r.Source, true
	case "amount":
		return r.Amount, true
	case "tags":
		return r.Tags, true
	}
	return nil, false
}

func (r *IncomeRecord) Apply(patch Patch) error {
	for _, key := range patch.Keys() {
		value := patch[key]
		switch key {
		case "date":
			var ok bool
			r.Date, ok = dateutils.NormalizeDate(value)
			r.Unnormalized = !ok
		case "source":
			r.Source = value
		case "amount":
			r.Amount = currencyutils.Parse(value)
		case "tags":
			r.Tags = ParseTags(value)
		default:
			return &UnknownFieldError{Kind: KindIncome, Field: key}
		}
	}
	return nil
}

func (r *IncomeRecord) Clone() Record {
	c := *r
	c.Tags = append(Tags(nil), r.Tags...)
	return &c
}

// BillRecord is one bill. Amounts are kept non-negative.
type BillRecord struct {
	ID           string          `json:"id"`
	Due          string          `json:"due"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status"`
	Unnormalized bool            `json:"unnormalized,omitempty"`
}

func (r *BillRecord) GetID() string   { return r.ID }
func (r *BillRecord) SetID(id string) { r.ID = id }
func (r *BillRecord) Kind() Kind      { return KindBills }

func (r *BillRecord) Field(key string) (interface{}, bool) {
	switch key {
	case "id":
		return r.ID, true
	case "due":
		return r.Due, true
	case "name":
		return r.Name, true
	case "category":
		return r.Category, true
	case "amount":
		return r.Amount, true
	case "status":
		return r.Status, true
	}
	return nil, false
}

func (r *BillRecord) Apply(patch Patch) error {
	for _, key := range patch.Keys() {
		value := patch[key]
		switch key {
		case "due":
			var ok bool
			r.Due, ok = dateutils.NormalizeDate(value)
			r.Unnormalized = !ok
		case "name":
			r.Name = value
		case "category":
			r.Category = value
		case "amount":
			r.Amount = currencyutils.Parse(value).Abs()
		case "status":
			r.Status = value
		default:
			return &UnknownFieldError{Kind: KindBills, Field: key}
		}
	}
	return nil
}

func (r *BillRecord) Clone() Record {
	c := *r
	return &c
}

// FieldText renders a field value in its text form.
func FieldText(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case CategoryType:
		return string(val)
	case decimal.Decimal:
		return val.String()
	case Tags:
		return val.String()
	case fmt.Stringer:
		return val.String()
	}
	return fmt.Sprint(v)
}
