// ABOUTME: Todo rename command
// ABOUTME: Changes a task's title without touching its position

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harper/todo/internal/service"
	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename <task> <title>",
	Short: "Rename a task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		board, err := currentBoard(ctx)
		if err != nil {
			return err
		}
		task, err := service.ResolveTask(board.Tasks, args[0])
		if err != nil {
			return err
		}
		if err := svc.RenameTask(ctx, task.ID, args[1]); err != nil {
			return fmt.Errorf("failed to rename: %w", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Renamed %s to %s", task.Title, args[1]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
