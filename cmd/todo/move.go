// ABOUTME: Todo mv command
// ABOUTME: Moves one task, or a run of tasks with --with, to a position in a section

package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/harper/todo/internal/storage"
	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:   "mv <task> <index>",
	Short: "Move tasks to a zero-based position",
	Long: `Move a task to a position within its section, or into another section
with --section. Use --ungrouped to take it out of every section.

With --with, the extra tasks move together with the first one as a single
run in their current display order, placed at the index.

Examples:
  todo mv dishes 0
  todo mv dishes 2 --section garden
  todo mv dishes 0 --with mop --with sweep
  todo mv "call plumber" 0 --ungrouped`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid index %q: %w", args[1], err)
		}
		ctx := cmd.Context()
		board, err := currentBoard(ctx)
		if err != nil {
			return err
		}

		with, _ := cmd.Flags().GetStringSlice("with")
		tasks, err := resolveTasks(board, append([]string{args[0]}, with...))
		if err != nil {
			return err
		}

		toSection, err := moveTarget(cmd, board, tasks[0].SectionID)
		if err != nil {
			return err
		}

		if len(tasks) == 1 {
			err = svc.MoveTask(ctx, tasks[0].ID, toSection, index)
		} else {
			err = svc.MoveTasks(ctx, tasks[0].ID, taskIDs(tasks[1:]), toSection, index)
		}
		if err != nil {
			return fmt.Errorf("failed to move: %w", err)
		}

		_, _ = fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Moved %d task(s) to %d", len(tasks), index))
		return nil
	},
}

// moveTarget picks the destination section: --ungrouped, --section, or the
// task's current section.
func moveTarget(cmd *cobra.Command, board *storage.Board, current *uuid.UUID) (*uuid.UUID, error) {
	if ungrouped, _ := cmd.Flags().GetBool("ungrouped"); ungrouped {
		return nil, nil
	}
	if ref, _ := cmd.Flags().GetString("section"); ref != "" {
		return sectionFlag(cmd, board)
	}
	return current, nil
}

func init() {
	moveCmd.Flags().StringP("section", "s", "", "destination section (default: the task's current section)")
	moveCmd.Flags().Bool("ungrouped", false, "move out of every section")
	moveCmd.Flags().StringSliceP("with", "w", nil, "more tasks to move along with the first")
	moveCmd.MarkFlagsMutuallyExclusive("section", "ungrouped")

	rootCmd.AddCommand(moveCmd)
}
