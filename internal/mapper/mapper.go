// Package mapper turns raw CSV rows into typed records.
package mapper

import (
	"strings"

	"fjacquet/budget-dashboard/internal/csvsource"
	"fjacquet/budget-dashboard/internal/currencyutils"
	"fjacquet/budget-dashboard/internal/dateutils"
	"fjacquet/budget-dashboard/internal/headers"
	"fjacquet/budget-dashboard/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Result is the output of one mapping pass.
type Result struct {
	Records []models.Record
	// Dropped counts rows with none of their identifying fields set.
	Dropped int
	// Unnormalized counts records whose date was kept as typed.
	Unnormalized int
}

// Mapper converts rows of a detected kind. Source ids are ignored; every
// record receives a fresh id from NewID.
type Mapper struct {
	NewID func() string
}

// New returns a Mapper issuing random UUIDs.
func New() *Mapper {
	return &Mapper{NewID: uuid.NewString}
}

// Map dispatches on kind. Unknown kinds produce an empty result.
func (m *Mapper) Map(kind models.Kind, rows []csvsource.RawRecord) Result {
	switch kind {
	case models.KindIncome:
		return m.MapIncome(rows)
	case models.KindBills:
		return m.MapBills(rows)
	case models.KindCategories:
		return m.MapCategories(rows)
	}
	return Result{}
}

// MapIncome maps income rows.
func (m *Mapper) MapIncome(rows []csvsource.RawRecord) Result {
	var res Result
	for _, row := range rows {
		date, dateOK := normalizedDate(row, "income.date")
		source := text(row, "income.source")
		if source == "" && date == "" {
			res.Dropped++
			continue
		}
		rec := &models.IncomeRecord{
			ID:           m.NewID(),
			Date:         date,
			Source:       source,
			Amount:       amount(row, "income.amount"),
			Tags:         models.ParseTags(text(row, "income.tags")),
			Unnormalized: !dateOK,
		}
		if rec.Unnormalized {
			res.Unnormalized++
		}
		res.Records = append(res.Records, rec)
	}
	return res
}

// MapBills maps bill rows. Amounts are made absolute; a missing or blank
// status becomes "paid" and a missing or blank category becomes "Misc".
func (m *Mapper) MapBills(rows []csvsource.RawRecord) Result {
	var res Result
	for _, row := range rows {
		due, dueOK := normalizedDate(row, "bills.due")
		name := text(row, "bills.name")
		if name == "" && due == "" {
			res.Dropped++
			continue
		}
		rec := &models.BillRecord{
			ID:           m.NewID(),
			Due:          due,
			Name:         name,
			Category:     orDefault(text(row, "bills.category"), models.DefaultBillCategory),
			Amount:       amount(row, "bills.amount").Abs(),
			Status:       orDefault(text(row, "bills.status"), models.DefaultBillStatus),
			Unnormalized: !dueOK,
		}
		if rec.Unnormalized {
			res.Unnormalized++
		}
		res.Records = append(res.Records, rec)
	}
	return res
}

// MapCategories maps category rows. Unrecognized types become Expense.
func (m *Mapper) MapCategories(rows []csvsource.RawRecord) Result {
	var res Result
	for _, row := range rows {
		name := text(row, "categories.name")
		if name == "" {
			res.Dropped++
			continue
		}
		res.Records = append(res.Records, &models.CategoryRecord{
			ID:   m.NewID(),
			Name: name,
			Type: models.ParseCategoryType(text(row, "categories.type")),
		})
	}
	return res
}

func text(row csvsource.RawRecord, key string) string {
	cell, _ := headers.Field(row, key)
	return strings.TrimSpace(cell.Text)
}

func normalizedDate(row csvsource.RawRecord, key string) (string, bool) {
	return dateutils.NormalizeDate(text(row, key))
}

func amount(row csvsource.RawRecord, key string) decimal.Decimal {
	cell, ok := headers.Field(row, key)
	if !ok {
		return decimal.Zero
	}
	if cell.Numeric {
		return cell.Number
	}
	return currencyutils.Parse(cell.Text)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
