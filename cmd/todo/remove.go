// ABOUTME: Todo rm command
// ABOUTME: Deletes tasks and closes the gaps they leave

package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove <task>...",
	Aliases: []string{"rm"},
	Short:   "Delete tasks",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		board, err := currentBoard(ctx)
		if err != nil {
			return err
		}
		tasks, err := resolveTasks(board, args)
		if err != nil {
			return err
		}

		titles := make([]string, len(tasks))
		for i, t := range tasks {
			titles[i] = t.Title
		}
		if !confirm(cmd, fmt.Sprintf("Delete %s?", strings.Join(titles, ", "))) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Canceled.")
			return nil
		}

		if err := svc.DeleteTasks(ctx, taskIDs(tasks)); err != nil {
			return fmt.Errorf("failed to delete: %w", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Deleted %d task(s)", len(tasks)))
		return nil
	},
}

func init() {
	removeCmd.Flags().Bool("confirm", false, "skip confirmation prompt")

	rootCmd.AddCommand(removeCmd)
}
