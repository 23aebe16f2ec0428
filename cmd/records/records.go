// Package records handles the list, add, edit and delete commands
package records

import (
	"fmt"

	"fjacquet/budget-dashboard/cmd/common"
	"fjacquet/budget-dashboard/cmd/root"
	"fjacquet/budget-dashboard/internal/logging"
	"fjacquet/budget-dashboard/internal/models"
	"fjacquet/budget-dashboard/internal/tableview"

	"github.com/spf13/cobra"
)

var listFlags common.ViewFlags

// ListCmd represents the list command
var ListCmd = &cobra.Command{
	Use:   "list <categories|income|bills>",
	Short: "Show one page of a collection",
	Long: `List prints a page of the collection as a table. Rows can be sorted on any
column and filtered by pill values: the category type for categories, a tag
for income and one or more categories for bills.`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

// AddCmd represents the add command
var AddCmd = &cobra.Command{
	Use:   "add <categories|income|bills> key=value...",
	Short: "Add a record",
	Long: `Add creates a record from key=value pairs. Keys are the column keys of the
collection (categories: name, type; income: date, source, amount, tags;
bills: due, name, category, amount, status). Dates are normalized to
DD-MMM-YYYY and amounts may carry a currency sign and thousands separators.`,
	Example: `  budget add income date=2025-07-15 source=Paycheck amount=2500 tags=salary
  budget add bills due=07/20/2025 name=Electricity category=Utilities amount=150 status=due`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAdd,
}

// EditCmd represents the edit command
var EditCmd = &cobra.Command{
	Use:   "edit <categories|income|bills> <id> key=value...",
	Short: "Change fields of a record",
	Long: `Edit merges key=value pairs into an existing record; fields that are not
named keep their values. The id may be any unique prefix of the record id.`,
	Args: cobra.MinimumNArgs(3),
	RunE: runEdit,
}

// DeleteCmd represents the delete command
var DeleteCmd = &cobra.Command{
	Use:   "delete <categories|income|bills> <id>",
	Short: "Delete a record",
	Args:  cobra.ExactArgs(2),
	RunE:  runDelete,
}

func init() {
	common.AddViewFlags(ListCmd, &listFlags, true)
}

func view(arg string) (*tableview.View, error) {
	kind, err := common.ParseKind(arg)
	if err != nil {
		return nil, err
	}
	return root.GetContainer().NewTableView(kind)
}

func runList(cmd *cobra.Command, args []string) error {
	v, err := view(args[0])
	if err != nil {
		return err
	}
	if err := listFlags.Apply(v); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), v.RenderTable())
	if values := v.PillValues(); len(values) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Filters (%s): %v\n", v.Config().PillField, values)
	}
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	v, err := view(args[0])
	if err != nil {
		return err
	}
	patch, err := common.ParseAssignments(args[1:])
	if err != nil {
		return err
	}
	v.StartAdd()
	if err := stage(v, patch); err != nil {
		return err
	}
	rec, err := v.Submit(cmd.Context())
	if err != nil {
		return err
	}
	report(cmd, "Added", rec)
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	v, err := view(args[0])
	if err != nil {
		return err
	}
	id, err := v.ResolveID(args[1])
	if err != nil {
		return err
	}
	patch, err := common.ParseAssignments(args[2:])
	if err != nil {
		return err
	}
	if err := v.StartEdit(id); err != nil {
		return err
	}
	if err := stage(v, patch); err != nil {
		return err
	}
	rec, err := v.Submit(cmd.Context())
	if err != nil {
		return err
	}
	report(cmd, "Updated", rec)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	v, err := view(args[0])
	if err != nil {
		return err
	}
	id, err := v.ResolveID(args[1])
	if err != nil {
		return err
	}
	if err := v.Delete(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", v.Config().Kind, id)
	return nil
}

func stage(v *tableview.View, patch models.Patch) error {
	for _, key := range patch.Keys() {
		if err := v.SetDraftField(key, patch[key]); err != nil {
			v.Cancel()
			return err
		}
	}
	return nil
}

func report(cmd *cobra.Command, verb string, rec models.Record) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", verb, rec.Kind(), rec.GetID())
	if warn := unnormalized(rec); warn != "" {
		fmt.Fprintln(cmd.OutOrStdout(), warn)
		root.GetContainer().GetLogger().Warn("Date left as typed",
			logging.F(logging.FieldKind, rec.Kind()),
			logging.F(logging.FieldRecordID, rec.GetID()))
	}
}

func unnormalized(rec models.Record) string {
	switch r := rec.(type) {
	case *models.IncomeRecord:
		if r.Unnormalized {
			return fmt.Sprintf("Date %q could not be read and was kept as typed", r.Date)
		}
	case *models.BillRecord:
		if r.Unnormalized {
			return fmt.Sprintf("Due date %q could not be read and was kept as typed", r.Due)
		}
	}
	return ""
}
