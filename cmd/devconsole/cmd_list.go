package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"devconsole/cmd/devconsole/ui"
)

// listOperations prints the operation table.
func listOperations(cmd *cobra.Command, args []string) error {
	s, err := boot()
	if err != nil {
		return err
	}
	defer s.Close()

	all, _ := cmd.Flags().GetBool("all")

	ops := s.console.Selectable()
	title := "Selectable operations"
	if all {
		ops = s.console.Operations()
		title = "All operations"
	}
	logger.Debug("listing operations", zap.Int("count", len(ops)), zap.Bool("all", all))

	if len(ops) == 0 {
		fmt.Println("No operations found. Check console.modules in the config.")
		return nil
	}

	fmt.Print(ui.OperationTable(title, ops).View(ui.NewStyles(ui.ThemeFor(s.cfg.UI.DarkMode))))
	return nil
}
