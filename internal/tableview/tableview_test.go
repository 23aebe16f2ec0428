package tableview

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"fjacquet/budget-dashboard/internal/kvstore"
	"fjacquet/budget-dashboard/internal/logging"
	"fjacquet/budget-dashboard/internal/models"
	"fjacquet/budget-dashboard/internal/parsererror"
	"fjacquet/budget-dashboard/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	n := 0
	return store.New(kvstore.NewMemory(), logging.NewMockLogger(), store.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("rec-%04d", n)
	}))
}

func billsView(t *testing.T, bills ...*models.BillRecord) (*View, *store.Store) {
	t.Helper()
	s := newStore(t)
	records := make([]models.Record, len(bills))
	for i, b := range bills {
		records[i] = b
	}
	require.NoError(t, s.ReplaceAll(context.Background(), models.KindBills, records))
	cfg, ok := Preset(models.KindBills, CategoryNames(s.GetAll(models.KindCategories)))
	require.True(t, ok)
	return New(cfg, s), s
}

func bill(id, name, category string, amount int64) *models.BillRecord {
	return &models.BillRecord{ID: id, Name: name, Category: category, Amount: decimal.NewFromInt(amount), Status: models.StatusPaid}
}

func names(rows []models.Record) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		v, _ := r.Field("name")
		out[i] = models.FieldText(v)
	}
	return out
}

func TestParsePageSize(t *testing.T) {
	for in, want := range map[string]int{"25": 25, "50": 50, "100": 100, "All": PageSizeAll, "all": PageSizeAll} {
		got, err := ParsePageSize(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParsePageSize("10")
	var verr *parsererror.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestPreset_Layouts(t *testing.T) {
	cfg, ok := Preset(models.KindIncome, nil)
	require.True(t, ok)
	assert.Equal(t, "tags", cfg.PillField)
	assert.False(t, cfg.MultiSelect)
	assert.Equal(t, "date", cfg.Columns[0].Key)

	cfg, ok = Preset(models.KindBills, []string{"Housing"})
	require.True(t, ok)
	assert.True(t, cfg.MultiSelect)
	col, ok := cfg.Column("category")
	require.True(t, ok)
	assert.Equal(t, []string{"Housing"}, col.Options)

	_, ok = Preset(models.KindUnknown, nil)
	assert.False(t, ok)
}

func TestView_DefaultSortIsFirstColumnAscending(t *testing.T) {
	v, _ := billsView(t,
		&models.BillRecord{ID: "a", Due: "03-Jul-2025", Name: "C"},
		&models.BillRecord{ID: "b", Due: "01-Jul-2025", Name: "A"},
		&models.BillRecord{ID: "c", Due: "02-Jul-2025", Name: "B"},
	)
	key, dir := v.Sort()
	assert.Equal(t, "due", key)
	assert.Equal(t, Asc, dir)
	assert.Equal(t, []string{"A", "B", "C"}, names(v.Rows()))
}

func TestView_ToggleSort(t *testing.T) {
	v, _ := billsView(t,
		bill("a", "Water", "Utilities", 40),
		bill("b", "Rent", "Housing", 1200),
		bill("c", "Phone", "Utilities", 9),
	)

	require.NoError(t, v.ToggleSort("amount"))
	assert.Equal(t, []string{"Phone", "Water", "Rent"}, names(v.Rows()), "amounts compare numerically")

	require.NoError(t, v.ToggleSort("amount"))
	assert.Equal(t, []string{"Rent", "Water", "Phone"}, names(v.Rows()))

	require.NoError(t, v.ToggleSort("name"))
	key, dir := v.Sort()
	assert.Equal(t, "name", key)
	assert.Equal(t, Asc, dir)
	assert.Equal(t, []string{"Phone", "Rent", "Water"}, names(v.Rows()))

	assert.Error(t, v.ToggleSort("nope"))
}

func TestView_MultiSelectPills(t *testing.T) {
	v, _ := billsView(t,
		bill("a", "Water", "Utilities", 40),
		bill("b", "Rent", "Housing", 1200),
		bill("c", "Food", "Groceries", 90),
	)
	require.NoError(t, v.SetSort("name", Asc))

	assert.Equal(t, []string{"Groceries", "Housing", "Utilities"}, v.PillValues())
	assert.Len(t, v.Rows(), 3, "no selection shows everything")

	v.TogglePill("Utilities")
	v.TogglePill("Housing")
	assert.Equal(t, []string{"Rent", "Water"}, names(v.Rows()))
	assert.Equal(t, []string{"Housing", "Utilities"}, v.SelectedPills())

	v.TogglePill("Utilities")
	assert.Equal(t, []string{"Rent"}, names(v.Rows()))

	v.ClearPills()
	assert.Len(t, v.Rows(), 3)
}

func TestView_SingleSelectTagPills(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.ReplaceAll(context.Background(), models.KindIncome, []models.Record{
		&models.IncomeRecord{ID: "1", Date: "01-Jul-2025", Source: "Paycheck", Tags: models.NewTags("salary", "main")},
		&models.IncomeRecord{ID: "2", Date: "02-Jul-2025", Source: "Gig", Tags: models.NewTags("side")},
		&models.IncomeRecord{ID: "3", Date: "03-Jul-2025", Source: "Bonus", Tags: models.NewTags("salary")},
	}))
	cfg, _ := Preset(models.KindIncome, nil)
	v := New(cfg, s)

	assert.Equal(t, []string{"main", "salary", "side"}, v.PillValues())

	v.SelectPill("salary")
	assert.Len(t, v.Rows(), 2)

	v.SelectPill("side")
	assert.Len(t, v.Rows(), 1)
	assert.Equal(t, []string{"side"}, v.SelectedPills())

	v.SelectPill("all")
	assert.Len(t, v.Rows(), 3)
	assert.Empty(t, v.SelectedPills())
}

func TestView_Pagination(t *testing.T) {
	bills := make([]*models.BillRecord, 130)
	for i := range bills {
		bills[i] = bill(fmt.Sprintf("id-%03d", i), fmt.Sprintf("Bill %03d", i), "Misc", int64(i))
	}
	v, _ := billsView(t, bills...)

	assert.Equal(t, 25, v.PageSize())
	assert.Equal(t, 6, v.TotalPages())

	require.NoError(t, v.SetPageSize(50))
	assert.Equal(t, 3, v.TotalPages())

	v.SetPage(4)
	assert.Equal(t, 3, v.Page())
	page := v.PageRows()
	require.Len(t, page, 30)

	v.SetPage(0)
	assert.Equal(t, 1, v.Page())

	v.SetPage(2)
	v.TogglePill("Misc")
	assert.Equal(t, 1, v.Page(), "filter change resets the page")

	v.SetPage(3)
	require.NoError(t, v.SetPageSize(PageSizeAll))
	assert.Equal(t, 1, v.Page())
	assert.Equal(t, 1, v.TotalPages())
	assert.Len(t, v.PageRows(), 130)

	assert.Error(t, v.SetPageSize(7))
}

func TestView_EmptyHasOnePage(t *testing.T) {
	v, _ := billsView(t)
	assert.Equal(t, 1, v.TotalPages())
	assert.Empty(t, v.PageRows())
	v.SetPage(5)
	assert.Equal(t, 1, v.Page())
}

func TestView_AddDraft(t *testing.T) {
	v, s := billsView(t)
	ctx := context.Background()

	_, err := v.Submit(ctx)
	assert.ErrorIs(t, err, ErrNoDraft)

	v.StartAdd()
	assert.Equal(t, "0", v.Draft()["amount"])
	require.NoError(t, v.SetDraftField("due", "2025-07-05"))
	require.NoError(t, v.SetDraftField("name", "Gym"))
	require.NoError(t, v.SetDraftField("category", "dining"))
	require.NoError(t, v.SetDraftField("amount", "-$45.00"))
	require.NoError(t, v.SetDraftField("status", "DUE"))

	saved, err := v.Submit(ctx)
	require.NoError(t, err)
	b := saved.(*models.BillRecord)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "05-Jul-2025", b.Due)
	assert.Equal(t, "Dining", b.Category)
	assert.Equal(t, models.StatusDue, b.Status)
	assert.True(t, decimal.NewFromInt(45).Equal(b.Amount))

	assert.Len(t, s.GetAll(models.KindBills), 1)
	_, editing := v.Editing()
	assert.False(t, editing)
}

func TestView_DraftRejectsBadValues(t *testing.T) {
	v, _ := billsView(t)
	v.StartAdd()

	var verr *parsererror.ValidationError
	assert.ErrorAs(t, v.SetDraftField("category", "Nowhere"), &verr)
	assert.ErrorAs(t, v.SetDraftField("colour", "red"), &verr)
	assert.NoError(t, v.SetDraftField("category", ""))
}

func TestView_StatusIsFreeText(t *testing.T) {
	v, s := billsView(t, bill("abc-1", "Rent", "Housing", 1200))
	ctx := context.Background()

	v.StartAdd()
	require.NoError(t, v.SetDraftField("name", "Phone"))
	require.NoError(t, v.SetDraftField("status", "overdue"))
	saved, err := v.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "overdue", saved.(*models.BillRecord).Status)

	require.NoError(t, v.StartEdit("abc-1"))
	require.NoError(t, v.SetDraftField("status", "Scheduled"))
	edited, err := v.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Scheduled", edited.(*models.BillRecord).Status)

	v.StartAdd()
	require.NoError(t, v.SetDraftField("status", "PAID"))
	assert.Equal(t, models.StatusPaid, v.Draft()["status"])
	assert.Len(t, s.GetAll(models.KindBills), 2)
}

func TestView_EditMergesAndCancelDiscards(t *testing.T) {
	v, s := billsView(t, bill("abc-1", "Rent", "Housing", 1200))
	ctx := context.Background()

	require.NoError(t, v.StartEdit("abc-1"))
	assert.Equal(t, "Rent", v.Draft()["name"])
	assert.Equal(t, "1200", v.Draft()["amount"])
	require.NoError(t, v.SetDraftField("name", "Changed"))
	v.Cancel()

	got, err := s.Get(models.KindBills, "abc-1")
	require.NoError(t, err)
	assert.Equal(t, "Rent", got.(*models.BillRecord).Name)

	require.NoError(t, v.StartEdit("abc-1"))
	require.NoError(t, v.SetDraftField("amount", "1250"))
	saved, err := v.Submit(ctx)
	require.NoError(t, err)
	b := saved.(*models.BillRecord)
	assert.Equal(t, "abc-1", b.ID)
	assert.Equal(t, "Rent", b.Name)
	assert.Equal(t, "Housing", b.Category)
	assert.True(t, decimal.NewFromInt(1250).Equal(b.Amount))

	assert.Error(t, v.StartEdit("missing"))
}

func TestView_DeleteAndResolveID(t *testing.T) {
	v, s := billsView(t, bill("abc-1", "Rent", "Housing", 1200), bill("abd-2", "Water", "Utilities", 40))
	ctx := context.Background()

	id, err := v.ResolveID("abd")
	require.NoError(t, err)
	assert.Equal(t, "abd-2", id)

	_, err = v.ResolveID("ab")
	assert.Error(t, err, "ambiguous prefix")
	_, err = v.ResolveID("zzz")
	assert.Error(t, err)

	require.NoError(t, v.Delete(ctx, "abd-2"))
	assert.Len(t, s.GetAll(models.KindBills), 1)

	var nf *store.NotFoundError
	assert.ErrorAs(t, v.Delete(ctx, "abd-2"), &nf)
}

func TestView_ExportCSV(t *testing.T) {
	v, _ := billsView(t,
		&models.BillRecord{ID: "1", Due: "01-Jul-2025", Name: `The "Big" One`, Category: "Housing", Amount: decimal.RequireFromString("1200.5"), Status: "paid"},
		&models.BillRecord{ID: "2", Due: "02-Jul-2025", Name: "Water, hot", Category: "Utilities", Amount: decimal.NewFromInt(40), Status: "due"},
	)
	var buf bytes.Buffer
	require.NoError(t, v.ExportCSV(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `"Due (DD-MMM-YYYY)","Bill","Category","Amount","Status"`, lines[0])
	assert.Equal(t, `"01-Jul-2025","The ""Big"" One","Housing",1200.5,"paid"`, lines[1])
	assert.Equal(t, `"02-Jul-2025","Water, hot","Utilities",40,"due"`, lines[2])
}

func TestView_ExportCSVUsesFilter(t *testing.T) {
	v, _ := billsView(t, bill("1", "Rent", "Housing", 1200), bill("2", "Water", "Utilities", 40))
	v.TogglePill("Utilities")

	var buf bytes.Buffer
	require.NoError(t, v.ExportCSV(&buf))
	assert.NotContains(t, buf.String(), "Rent")
	assert.Contains(t, buf.String(), `"Water"`)
}

func TestView_ExportHTMLEscapes(t *testing.T) {
	v, _ := billsView(t, bill("1", "<b>Rent</b>", "Housing", 1200))

	var buf bytes.Buffer
	require.NoError(t, v.ExportHTML(&buf))
	out := buf.String()
	assert.Contains(t, out, "<title>Bills</title>")
	assert.Contains(t, out, "&lt;b&gt;Rent&lt;/b&gt;")
	assert.Contains(t, out, "$1200.00")
}

func TestView_RenderTable(t *testing.T) {
	v, _ := billsView(t, bill("0123456789", "Rent", "Housing", 1200))

	out := v.RenderTable()
	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "0123456789")
	assert.Contains(t, out, "$1200.00")
	assert.Contains(t, out, "page 1 of 1, 1 rows, 25 per page")
}
