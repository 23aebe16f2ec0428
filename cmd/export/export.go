// Package export handles the export command
package export

import (
	"fmt"

	"fjacquet/budget-dashboard/cmd/common"
	"fjacquet/budget-dashboard/cmd/root"
	"fjacquet/budget-dashboard/internal/fileutils"
	"fjacquet/budget-dashboard/internal/logging"
	"fjacquet/budget-dashboard/internal/validation"

	"github.com/spf13/cobra"
)

var (
	flags     common.ViewFlags
	format    string
	canonical bool
)

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export <categories|income|bills>",
	Short: "Export the filtered, sorted rows of a collection",
	Long: `Export writes every row that passes the current filter, in the current sort
order, regardless of pagination. The csv format uses the column labels as
header and quotes every text cell; html writes a printable page.

With --canonical the csv output uses the import headers instead, so the file
can be read back with the import command.`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

func init() {
	common.AddViewFlags(Cmd, &flags, false)
	Cmd.Flags().StringVarP(&format, "format", "f", "csv", "Export format: csv or html")
	Cmd.Flags().BoolVar(&canonical, "canonical", false, "Write csv with import headers")
}

func run(cmd *cobra.Command, args []string) error {
	if err := validation.IsValidOutputFormat(format, validation.ExportFormats...); err != nil {
		return err
	}
	kind, err := common.ParseKind(args[0])
	if err != nil {
		return err
	}
	c := root.GetContainer()
	v, err := c.NewTableView(kind)
	if err != nil {
		return err
	}
	if err := flags.Apply(v); err != nil {
		return err
	}

	w, err := fileutils.OutputWriter(root.SharedFlags.Output, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("failed to open output: %w", err)
	}
	defer func() { _ = w.Close() }()

	switch {
	case format == "html":
		err = v.ExportHTML(w)
	case canonical:
		err = c.GetCSVWriter().WriteRecords(w, kind, v.Rows())
	default:
		err = v.ExportCSV(w)
	}
	if err != nil {
		return err
	}
	c.GetLogger().Info("Exported rows",
		logging.F(logging.FieldKind, kind),
		logging.F(logging.FieldCount, v.Total()),
		logging.F(logging.FieldFormat, format))
	return nil
}
