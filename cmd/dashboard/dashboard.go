// Package dashboard handles the dashboard command
package dashboard

import (
	"fmt"

	"fjacquet/budget-dashboard/cmd/root"
	"fjacquet/budget-dashboard/internal/dashboard"
	"fjacquet/budget-dashboard/internal/fileutils"
	"fjacquet/budget-dashboard/internal/validation"

	"github.com/spf13/cobra"
)

var (
	format string
	top    int
)

// Cmd represents the dashboard command
var Cmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Summarize income, bills and spend per category",
	Long: `Dashboard shows total income, total bills and the net (income minus bills),
the categories with the largest spend and the income and bill totals per
calendar month. Rows whose dates could not be read are counted but not placed
in a month.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json or yaml")
	Cmd.Flags().IntVar(&top, "top", 0, "Number of categories to list (default from config)")
}

func run(cmd *cobra.Command, args []string) error {
	if err := validation.IsValidOutputFormat(format, validation.DashboardFormats...); err != nil {
		return err
	}
	c := root.GetContainer()
	n := top
	if n <= 0 {
		n = c.GetConfig().Dashboard.TopCategories
	}

	summary := dashboard.FromState(c.GetStore().Snapshot(), n)
	out, err := c.GetReportGenerator().Generate(summary, format)
	if err != nil {
		return err
	}

	w, err := fileutils.OutputWriter(root.SharedFlags.Output, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("failed to open output: %w", err)
	}
	defer func() { _ = w.Close() }()
	_, err = w.Write(out)
	return err
}
