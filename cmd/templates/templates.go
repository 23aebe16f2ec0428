// Package templates handles the templates command
package templates

import (
	"fmt"
	"path/filepath"

	"fjacquet/budget-dashboard/cmd/common"
	"fjacquet/budget-dashboard/cmd/root"
	"fjacquet/budget-dashboard/internal/fileutils"
	"fjacquet/budget-dashboard/internal/models"

	"github.com/spf13/cobra"
)

var dir string

// Cmd represents the templates command
var Cmd = &cobra.Command{
	Use:   "templates [categories|income|bills]",
	Short: "Write header-only CSV templates",
	Long: `Templates writes an empty CSV with the headers the importer recognizes.
Without --dir the template for the named collection is printed; with --dir one
file per collection (or only the named one) is written to that directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory to write <collection>.csv files into")
}

func run(cmd *cobra.Command, args []string) error {
	kinds := models.Kinds
	if len(args) == 1 {
		kind, err := common.ParseKind(args[0])
		if err != nil {
			return err
		}
		kinds = []models.Kind{kind}
	}
	writer := root.GetContainer().GetCSVWriter()

	if dir == "" {
		if len(kinds) != 1 {
			return fmt.Errorf("name a collection or pass --dir")
		}
		return writer.WriteTemplate(cmd.OutOrStdout(), kinds[0])
	}

	if err := fileutils.EnsureDirectoryExists(dir); err != nil {
		return err
	}
	for _, kind := range kinds {
		path := filepath.Join(dir, string(kind)+".csv")
		f, err := fileutils.CreateFile(path)
		if err != nil {
			return err
		}
		err = writer.WriteTemplate(f, kind)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	}
	return nil
}
