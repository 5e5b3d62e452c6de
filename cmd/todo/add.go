// ABOUTME: Todo add command
// ABOUTME: Appends one or more tasks to a section or to the ungrouped tasks

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harper/todo/internal/ui"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:     "add <title>...",
	Aliases: []string{"a"},
	Short:   "Add tasks to the end of a section",
	Long: `Add one or more tasks. Each argument becomes a task, appended in order
to the end of the section's open tasks. Without --section the tasks are
ungrouped.

Examples:
  todo add "buy milk"
  todo add "do the dishes" "mop the floor" --section kitchen
  todo add "call plumber" -p home -s kitchen`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		board, err := currentBoard(ctx)
		if err != nil {
			return err
		}
		sectionID, err := sectionFlag(cmd, board)
		if err != nil {
			return err
		}

		created, err := svc.AddTasks(ctx, board.Project.ID, sectionID, args)
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, task := range created {
			_, _ = fmt.Fprintln(out, color.GreenString("✓ Added %s", task.Title))
			_, _ = fmt.Fprintf(out, "  %s @ %d\n", color.New(color.Faint).Sprint(ui.ShortID(task.ID)), task.Position)
		}
		return nil
	},
}

func init() {
	addCmd.Flags().StringP("section", "s", "", "section name or id (default: ungrouped)")

	rootCmd.AddCommand(addCmd)
}
