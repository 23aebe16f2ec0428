// Package dashboard derives read-only aggregates from the dataset: totals,
// spend per category and per-month series.
package dashboard

import (
	"sort"

	"fjacquet/budget-dashboard/internal/dateutils"
	"fjacquet/budget-dashboard/internal/models"
	"fjacquet/budget-dashboard/internal/store"

	"github.com/shopspring/decimal"
)

// Uncategorized is the bucket for bills with a blank category.
const Uncategorized = "Uncategorized"

// DefaultTopCategories is the number of categories shown by default.
const DefaultTopCategories = 5

// Totals holds the headline figures.
type Totals struct {
	Income   decimal.Decimal `json:"income" yaml:"income"`
	Expenses decimal.Decimal `json:"expenses" yaml:"expenses"`
	Net      decimal.Decimal `json:"net" yaml:"net"`
}

// CategoryTotal is the spend for one category.
type CategoryTotal struct {
	Category string          `json:"category" yaml:"category"`
	Amount   decimal.Decimal `json:"amount" yaml:"amount"`
}

// MonthlySeries has one bucket per month, January first.
type MonthlySeries [12]decimal.Decimal

// Max returns the largest bucket.
func (s MonthlySeries) Max() decimal.Decimal {
	m := decimal.Zero
	for _, v := range s {
		if v.GreaterThan(m) {
			m = v
		}
	}
	return m
}

// Summary is everything the dashboard shows.
type Summary struct {
	Totals            Totals          `json:"totals" yaml:"totals"`
	TopCategories     []CategoryTotal `json:"top_categories" yaml:"top_categories"`
	IncomeByMonth     MonthlySeries   `json:"income_by_month" yaml:"income_by_month"`
	ExpensesByMonth   MonthlySeries   `json:"expenses_by_month" yaml:"expenses_by_month"`
	IncomeCount       int             `json:"income_count" yaml:"income_count"`
	BillCount         int             `json:"bill_count" yaml:"bill_count"`
	UnnormalizedDates int             `json:"unnormalized_dates" yaml:"unnormalized_dates"`
}

// ComputeTotals sums income and bill amounts.
func ComputeTotals(income []*models.IncomeRecord, bills []*models.BillRecord) Totals {
	t := Totals{Income: decimal.Zero, Expenses: decimal.Zero}
	for _, r := range income {
		t.Income = t.Income.Add(r.Amount)
	}
	for _, b := range bills {
		t.Expenses = t.Expenses.Add(b.Amount)
	}
	t.Net = t.Income.Sub(t.Expenses)
	return t
}

// ByCategory sums bill amounts per category, largest first with ties
// broken by name. topN > 0 keeps only the first topN entries.
func ByCategory(bills []*models.BillRecord, topN int) []CategoryTotal {
	sums := make(map[string]decimal.Decimal)
	for _, b := range bills {
		cat := b.Category
		if cat == "" {
			cat = Uncategorized
		}
		sums[cat] = sums[cat].Add(b.Amount)
	}
	out := make([]CategoryTotal, 0, len(sums))
	for cat, amount := range sums {
		out = append(out, CategoryTotal{Category: cat, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// Dated is a record with a canonical date and an amount.
type Dated interface {
	DateText() string
	AmountValue() decimal.Decimal
}

type incomeDated struct{ r *models.IncomeRecord }

func (d incomeDated) DateText() string             { return d.r.Date }
func (d incomeDated) AmountValue() decimal.Decimal { return d.r.Amount }

type billDated struct{ b *models.BillRecord }

func (d billDated) DateText() string             { return d.b.Due }
func (d billDated) AmountValue() decimal.Decimal { return d.b.Amount }

// Monthly buckets amounts by the month of each record's date. Records whose
// date has no recognizable month are left out.
func Monthly(items []Dated) MonthlySeries {
	var s MonthlySeries
	for i := range s {
		s[i] = decimal.Zero
	}
	for _, it := range items {
		idx := dateutils.MonthIndex(it.DateText())
		if idx < 0 {
			continue
		}
		s[idx] = s[idx].Add(it.AmountValue())
	}
	return s
}

// IncomeByMonth buckets income by date.
func IncomeByMonth(income []*models.IncomeRecord) MonthlySeries {
	items := make([]Dated, len(income))
	for i, r := range income {
		items[i] = incomeDated{r}
	}
	return Monthly(items)
}

// ExpensesByMonth buckets bills by due date.
func ExpensesByMonth(bills []*models.BillRecord) MonthlySeries {
	items := make([]Dated, len(bills))
	for i, b := range bills {
		items[i] = billDated{b}
	}
	return Monthly(items)
}

// Build computes the full summary. topN <= 0 keeps every category.
func Build(income []*models.IncomeRecord, bills []*models.BillRecord, topN int) Summary {
	s := Summary{
		Totals:          ComputeTotals(income, bills),
		TopCategories:   ByCategory(bills, topN),
		IncomeByMonth:   IncomeByMonth(income),
		ExpensesByMonth: ExpensesByMonth(bills),
		IncomeCount:     len(income),
		BillCount:       len(bills),
	}
	for _, r := range income {
		if r.Unnormalized {
			s.UnnormalizedDates++
		}
	}
	for _, b := range bills {
		if b.Unnormalized {
			s.UnnormalizedDates++
		}
	}
	return s
}

// FromState builds the summary of a store snapshot.
func FromState(st store.State, topN int) Summary {
	return Build(st.Income, st.Bills, topN)
}
