// Package common contains shared functionality for command handlers
package common

import (
	"fmt"
	"strings"

	"fjacquet/budget-dashboard/internal/models"
	"fjacquet/budget-dashboard/internal/tableview"

	"github.com/spf13/cobra"
)

// ViewFlags are the table options accepted by list and export.
type ViewFlags struct {
	Sort     string
	Desc     bool
	Filters  []string
	PageSize string
	Page     int
}

// AddViewFlags registers the view flags on cmd.
func AddViewFlags(cmd *cobra.Command, f *ViewFlags, paging bool) {
	cmd.Flags().StringVar(&f.Sort, "sort", "", "Column key to sort by (default: first column)")
	cmd.Flags().BoolVar(&f.Desc, "desc", false, "Sort descending")
	cmd.Flags().StringSliceVar(&f.Filters, "filter", nil, "Pill filter value; repeat for multi-select pages")
	if paging {
		cmd.Flags().StringVar(&f.PageSize, "page-size", "", "Rows per page: 25, 50, 100 or all")
		cmd.Flags().IntVar(&f.Page, "page", 1, "Page to show")
	}
}

// Apply configures v from the flags.
func (f ViewFlags) Apply(v *tableview.View) error {
	if f.Sort != "" || f.Desc {
		key, _ := v.Sort()
		if f.Sort != "" {
			key = f.Sort
		}
		dir := tableview.Asc
		if f.Desc {
			dir = tableview.Desc
		}
		if err := v.SetSort(key, dir); err != nil {
			return err
		}
	}
	for _, value := range f.Filters {
		v.TogglePill(value)
	}
	if f.PageSize != "" {
		n, err := tableview.ParsePageSize(f.PageSize)
		if err != nil {
			return err
		}
		if err := v.SetPageSize(n); err != nil {
			return err
		}
	}
	if f.Page > 1 {
		v.SetPage(f.Page)
	}
	return nil
}

// ParseKind reads the collection argument.
func ParseKind(arg string) (models.Kind, error) {
	return models.ParseKind(arg)
}

// ParseAssignments turns key=value arguments into a patch. Keys are
// lower-cased; values keep their spacing apart from the outer trim.
func ParseAssignments(args []string) (models.Patch, error) {
	patch := make(models.Patch, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		if _, dup := patch[key]; dup {
			return nil, fmt.Errorf("field %q given more than once", key)
		}
		patch[key] = strings.TrimSpace(value)
	}
	return patch, nil
}
