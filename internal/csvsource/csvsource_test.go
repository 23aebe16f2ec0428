package csvsource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"fjacquet/budget-dashboard/internal/logging"
	"fjacquet/budget-dashboard/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestParse_HeadersAndCells(t *testing.T) {
	input := "\ufeffDate,Source,Amount,Tags\n" +
		"07/05/2025,Paycheck,2500,salary\n" +
		"\n" +
		",,,\n" +
		"01-Aug-2025,\"Side, gig\",$300,\n"

	table, err := Parse(strings.NewReader(input), "test.csv", ',')
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Source", "Amount", "Tags"}, table.Headers)
	require.Equal(t, 2, table.Len())

	amount, ok := table.Rows[0].Get("Amount")
	require.True(t, ok)
	assert.True(t, amount.Numeric)
	assert.True(t, decimal.NewFromInt(2500).Equal(amount.Number))

	source, _ := table.Rows[1].Get("Source")
	assert.Equal(t, "Side, gig", source.Text)

	dollars, _ := table.Rows[1].Get("Amount")
	assert.False(t, dollars.Numeric)
	assert.Equal(t, "$300", dollars.Text)
}

func TestParse_SparseRows(t *testing.T) {
	input := "Name,Type,Notes\nRent\nFood,Expense,weekly,extra\n"
	table, err := Parse(strings.NewReader(input), "cats.csv", ',')
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	_, ok := table.Rows[0].Get("Type")
	assert.False(t, ok)
	name, ok := table.Rows[0].Get("Name")
	assert.True(t, ok)
	assert.Equal(t, "Rent", name.Text)
	assert.Len(t, table.Rows[1].Cells, 3)
}

func TestParse_Empty(t *testing.T) {
	table, err := Parse(strings.NewReader(""), "empty.csv", ',')
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	assert.Empty(t, table.Headers)
}

func TestParse_HeaderOnly(t *testing.T) {
	table, err := Parse(strings.NewReader("Bill,Category,Amount,Due Date\n"), "bills.csv", ',')
	require.NoError(t, err)
	assert.Equal(t, []string{"Bill", "Category", "Amount", "Due Date"}, table.Headers)
	assert.Equal(t, 0, table.Len())
}

func TestParse_Semicolon(t *testing.T) {
	table, err := Parse(strings.NewReader("Name;Type\nRent;Expense\n"), "x.csv", ';')
	require.NoError(t, err)
	typ, _ := table.Rows[0].Get("Type")
	assert.Equal(t, "Expense", typ.Text)
}

func TestNewCell(t *testing.T) {
	tests := []struct {
		text    string
		numeric bool
	}{
		{"150", true},
		{"-150.5", true},
		{".5", true},
		{"1e3", true},
		{"", false},
		{"$1,200", false},
		{"07/05/2025", false},
		{"2025-07-05", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.numeric, NewCell(tt.text).Numeric, tt.text)
	}
	assert.True(t, NewCell("  ").IsBlank())
}

func TestParseLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bills.csv")
	require.NoError(t, os.WriteFile(path, []byte("Bill,Category,Amount,Due Date\nRent,Housing,1200,01-Aug-2025\n"), 0o600))

	table, err := ParseLocalFile(path, ',')
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())

	_, err = ParseLocalFile(filepath.Join(t.TempDir(), "missing.csv"), ',')
	assert.Error(t, err)
}

func TestCacheBust(t *testing.T) {
	at := time.UnixMilli(1720000000000)

	got, err := CacheBust("https://docs.example.test/pub?output=csv", at)
	require.NoError(t, err)
	assert.Equal(t, "https://docs.example.test/pub?output=csv&_=1720000000000", got)

	got, err = CacheBust("https://docs.example.test/pub", at)
	require.NoError(t, err)
	assert.Equal(t, "https://docs.example.test/pub?_=1720000000000", got)
}

func TestRemoteSource_Fetch(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.NotEmpty(t, r.URL.Query().Get("_"))
		assert.Equal(t, "csv", r.URL.Query().Get("output"))
		assert.Equal(t, "no-cache", r.Header.Get("Cache-Control"))
		assert.Equal(t, "no-cache", r.Header.Get("Pragma"))
		_, _ = w.Write([]byte("Name,Type\nRent,Expense\nSalary,Income\n"))
	}))
	defer srv.Close()

	src := NewRemoteSource(srv.Client(), 0, ',', logging.NewMockLogger())
	table, err := src.Fetch(context.Background(), srv.URL+"/pub?output=csv")
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestRemoteSource_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	src := NewRemoteSource(srv.Client(), 0, ',', logging.NewMockLogger())
	_, err := src.Fetch(context.Background(), srv.URL)

	var fetchErr *parsererror.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
}

func TestRemoteSource_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	src := NewRemoteSource(nil, time.Second, ',', logging.NewMockLogger())
	_, err := src.Fetch(context.Background(), url)

	var fetchErr *parsererror.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Zero(t, fetchErr.StatusCode)
}

func TestParseSheetsLocation(t *testing.T) {
	id, rng, err := ParseSheetsLocation("sheets://abc123/Income!A1:D")
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)
	assert.Equal(t, "Income!A1:D", rng)

	_, _, err = ParseSheetsLocation("sheets://abc123")
	assert.Error(t, err)
	_, _, err = ParseSheetsLocation("https://abc123/x")
	assert.Error(t, err)
}

func TestSheetsSource_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v4/spreadsheets/sheet-id/values/")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"range":"Bills!A1:E3","majorDimension":"ROWS","values":[` +
			`["Bill","Category","Amount","Due Date","Status"],` +
			`["Electricity","Utilities","150","20-Jul-2025","due"],` +
			`["Internet","Utilities","80"]]}`))
	}))
	defer srv.Close()

	src, err := NewSheetsSource(context.Background(), "", logging.NewMockLogger(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	table, err := src.Fetch(context.Background(), "sheets://sheet-id/Bills!A1:E3")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bill", "Category", "Amount", "Due Date", "Status"}, table.Headers)
	require.Equal(t, 2, table.Len())
	_, ok := table.Rows[1].Get("Status")
	assert.False(t, ok)
}

func TestRouter(t *testing.T) {
	called := ""
	fake := func(name string) Fetcher {
		return FetcherFunc(func(ctx context.Context, location string) (*RawTable, error) {
			called = name
			return &RawTable{}, nil
		})
	}
	r := &Router{Remote: fake("remote"), Sheets: fake("sheets"), Local: fake("local")}

	for location, want := range map[string]string{
		"https://example.test/x.csv": "remote",
		"http://example.test/x.csv":  "remote",
		"sheets://id/A1:B2":          "sheets",
		"./income.csv":               "local",
	} {
		_, err := r.Fetch(context.Background(), location)
		require.NoError(t, err)
		assert.Equal(t, want, called, location)
	}

	_, err := (&Router{}).Fetch(context.Background(), "https://example.test")
	assert.Error(t, err)
}
