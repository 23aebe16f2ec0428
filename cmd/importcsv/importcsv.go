// Package importcsv handles the import command
package importcsv

import (
	"fmt"

	"fjacquet/budget-dashboard/cmd/common"
	"fjacquet/budget-dashboard/cmd/root"
	"fjacquet/budget-dashboard/internal/importer"
	"fjacquet/budget-dashboard/internal/validation"

	"github.com/spf13/cobra"
)

var as string

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:   "import <file|url|sheets://id/range>",
	Short: "Replace a collection with the rows of a CSV",
	Long: `Import reads a CSV from a local file, a published spreadsheet URL or a
Sheets API range, detects from its header row whether it holds categories,
income or bills, and replaces that whole collection.

Use --as to skip detection and load into a given collection.`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().StringVar(&as, "as", "", "Collection to load into (categories, income, bills); detected when empty")
}

func run(cmd *cobra.Command, args []string) error {
	location := args[0]
	if err := validation.IsValidSource(location); err != nil {
		return err
	}
	c := root.GetContainer()
	imp := c.GetImporter()

	var (
		res importer.Result
		err error
	)
	if as != "" {
		kind, kerr := common.ParseKind(as)
		if kerr != nil {
			return kerr
		}
		res, err = imp.ImportAs(cmd.Context(), kind, location)
	} else {
		res, err = imp.Import(cmd.Context(), location)
	}
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), importer.StatusForError(err))
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Status())
	if res.Dropped > 0 || res.Unnormalized > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%d row(s) skipped, %d date(s) left as typed\n", res.Dropped, res.Unnormalized)
	}
	return nil
}
