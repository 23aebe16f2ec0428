package main

import (
	"fmt"
	"os"

	"fjacquet/budget-dashboard/cmd/dashboard"
	"fjacquet/budget-dashboard/cmd/export"
	"fjacquet/budget-dashboard/cmd/importcsv"
	"fjacquet/budget-dashboard/cmd/load"
	"fjacquet/budget-dashboard/cmd/records"
	"fjacquet/budget-dashboard/cmd/reset"
	"fjacquet/budget-dashboard/cmd/root"
	"fjacquet/budget-dashboard/cmd/templates"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(load.Cmd)
	root.Cmd.AddCommand(importcsv.Cmd)
	root.Cmd.AddCommand(records.ListCmd)
	root.Cmd.AddCommand(records.AddCmd)
	root.Cmd.AddCommand(records.EditCmd)
	root.Cmd.AddCommand(records.DeleteCmd)
	root.Cmd.AddCommand(dashboard.Cmd)
	root.Cmd.AddCommand(export.Cmd)
	root.Cmd.AddCommand(templates.Cmd)
	root.Cmd.AddCommand(reset.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
