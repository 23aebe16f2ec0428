// Package reset handles the reset command
package reset

import (
	"fmt"

	"fjacquet/budget-dashboard/cmd/root"

	"github.com/spf13/cobra"
)

var force bool

// Cmd represents the reset command
var Cmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace all data with the sample dataset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !force {
			return fmt.Errorf("reset discards every category, income and bill row; pass --force to continue")
		}
		root.GetContainer().GetStore().Reset(cmd.Context())
		fmt.Fprintln(cmd.OutOrStdout(), "Dataset reset to sample data")
		return nil
	},
}

func init() {
	Cmd.Flags().BoolVar(&force, "force", false, "Confirm the reset")
}
