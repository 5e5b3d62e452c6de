// ABOUTME: Todo done and undo commands
// ABOUTME: Completes tasks or reopens completed ones

package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:     "done <task>...",
	Aliases: []string{"complete"},
	Short:   "Mark tasks as done",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return eachTask(cmd, args, svc.CompleteTask, "Completed")
	},
}

var undoCmd = &cobra.Command{
	Use:     "undo <task>...",
	Aliases: []string{"reopen"},
	Short:   "Reopen completed tasks at the end of their section",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return eachTask(cmd, args, svc.IncompleteTask, "Reopened")
	},
}

// eachTask resolves every reference up front, then applies action in order.
func eachTask(cmd *cobra.Command, refs []string, action func(context.Context, uuid.UUID) error, verb string) error {
	ctx := cmd.Context()
	board, err := currentBoard(ctx)
	if err != nil {
		return err
	}
	tasks, err := resolveTasks(board, refs)
	if err != nil {
		return err
	}
	for _, task := range tasks {
		if err := action(ctx, task.ID); err != nil {
			return fmt.Errorf("%s: %w", task.Title, err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ %s %s", verb, task.Title))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(doneCmd, undoCmd)
}
