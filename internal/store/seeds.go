package store

import (
	"fjacquet/budget-dashboard/internal/models"

	"github.com/shopspring/decimal"
)

func seedData(newID func() string) map[models.Kind][]models.Record {
	categories := []struct {
		name string
		typ  models.CategoryType
	}{
		{"Utilities", models.CategoryExpense},
		{"Insurance", models.CategoryExpense},
		{"Shopping", models.CategoryExpense},
		{"Groceries", models.CategoryExpense},
		{"Dining", models.CategoryExpense},
		{"Income", models.CategoryIncome},
		{"Savings", models.CategorySavings},
		{"Misc", models.CategoryExpense},
	}
	bills := []struct {
		due, name, category string
		amount              int64
		status              string
	}{
		{"20-Jul-2025", "Electricity", "Utilities", 150, models.StatusDue},
		{"25-Jul-2025", "Internet", "Utilities", 80, models.StatusPaid},
		{"10-Jul-2025", "Allstate Insurance", "Insurance", 460, models.StatusPaid},
		{"05-Jul-2025", "Groceries (weekly)", "Groceries", 200, models.StatusDue},
	}

	data := map[models.Kind][]models.Record{
		models.KindCategories: {},
		models.KindBills:      {},
		models.KindIncome: {
			&models.IncomeRecord{
				ID:     newID(),
				Date:   "01-Jul-2025",
				Source: "Paycheck",
				Amount: decimal.NewFromInt(2500),
				Tags:   models.Tags{"salary"},
			},
		},
	}
	for _, c := range categories {
		data[models.KindCategories] = append(data[models.KindCategories],
			&models.CategoryRecord{ID: newID(), Name: c.name, Type: c.typ})
	}
	for _, b := range bills {
		data[models.KindBills] = append(data[models.KindBills], &models.BillRecord{
			ID:       newID(),
			Due:      b.due,
			Name:     b.name,
			Category: b.category,
			Amount:   decimal.NewFromInt(b.amount),
			Status:   b.status,
		})
	}
	return data
}
