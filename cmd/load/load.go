// Package load handles the load command
package load

import (
	"fmt"

	"fjacquet/budget-dashboard/cmd/root"
	"fjacquet/budget-dashboard/internal/importer"
	"fjacquet/budget-dashboard/internal/models"

	"github.com/spf13/cobra"
)

var (
	categoriesURL string
	incomeURL     string
	billsURL      string
)

// Cmd represents the load command
var Cmd = &cobra.Command{
	Use:   "load",
	Short: "Load every configured source at once",
	Long: `Load fetches the categories, income and bills sources named in the
configuration (sources.*_url) or on the command line, concurrently. Each
source is loaded into its own collection without header detection. Nothing
is replaced unless every source loads.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().StringVar(&categoriesURL, "categories", "", "Categories source (overrides sources.categories_url)")
	Cmd.Flags().StringVar(&incomeURL, "income", "", "Income source (overrides sources.income_url)")
	Cmd.Flags().StringVar(&billsURL, "bills", "", "Bills source (overrides sources.bills_url)")
}

func run(cmd *cobra.Command, args []string) error {
	c := root.GetContainer()
	sources := c.Sources()
	for kind, loc := range map[models.Kind]string{
		models.KindCategories: categoriesURL,
		models.KindIncome:     incomeURL,
		models.KindBills:      billsURL,
	} {
		if loc != "" {
			sources[kind] = loc
		}
	}
	if len(sources) == 0 {
		return fmt.Errorf("no sources configured; set sources.*_url or pass --categories, --income or --bills")
	}

	res, err := c.GetImporter().LoadAll(cmd.Context(), sources)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), importer.StatusForError(err))
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Status())
	return nil
}
