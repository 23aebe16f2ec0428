package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/budget-dashboard/cmd/root"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root.Cmd.SetOut(&out)
	root.Cmd.SetErr(&out)
	root.Cmd.SetArgs(args)
	err := root.Cmd.Execute()
	return out.String(), err
}

func TestCLI_EndToEnd(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dataDir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log:\n  level: error\nstorage:\n  backend: file\n"), 0600))
	base := []string{"--config", cfgPath, "--data-dir", dataDir}

	out, err := execute(t, append([]string{"add", "income", "date=07/15/2025", "source=Bonus", "amount=$1,000.00", "tags=bonus"}, base...)...)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Added income")

	out, err = execute(t, append([]string{"list", "income", "--filter", "bonus"}, base...)...)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Bonus")
	assert.Contains(t, out, "15-Jul-2025")
	assert.NotContains(t, out, "Paycheck")

	out, err = execute(t, append([]string{"dashboard", "--format", "json"}, base...)...)
	require.NoError(t, err, out)
	var summary struct {
		Totals struct {
			Income   string `json:"income"`
			Expenses string `json:"expenses"`
		} `json:"totals"`
		IncomeCount int `json:"income_count"`
		BillCount   int `json:"bill_count"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, "3500", summary.Totals.Income)
	assert.Equal(t, "890", summary.Totals.Expenses)
	assert.Equal(t, 2, summary.IncomeCount)
	assert.Equal(t, 4, summary.BillCount)

	exportPath := filepath.Join(t.TempDir(), "bills.csv")
	_, err = execute(t, append([]string{"export", "bills", "--sort", "amount", "--desc", "-o", exportPath}, base...)...)
	require.NoError(t, err)
	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[1], "Allstate Insurance")

	_, err = execute(t, append([]string{"export", "bills", "--format", "json", "-o", ""}, base...)...)
	assert.Error(t, err)

	_, err = execute(t, append([]string{"reset"}, base...)...)
	assert.Error(t, err, "reset needs --force")
}
