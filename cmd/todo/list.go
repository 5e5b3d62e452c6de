// ABOUTME: Todo list command
// ABOUTME: Prints boards in display order, one project or all of them

package main

import (
	"fmt"

	"github.com/harper/todo/internal/ui"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show tasks in display order",
	Long: `Show the board of the project given with --project, or of every project.

Open tasks come first in each section, by position. Completed tasks follow,
most recently completed first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if flagProject != "" {
			board, err := currentBoard(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(out, ui.FormatBoard(board))
			return nil
		}

		projects, err := svc.Projects(ctx)
		if err != nil {
			return err
		}
		if len(projects) == 0 {
			_, _ = fmt.Fprintln(out, "No projects yet. Use 'todo project add' to create one.")
			return nil
		}
		for i, p := range projects {
			board, err := svc.Board(ctx, p.ID)
			if err != nil {
				return err
			}
			if i > 0 {
				_, _ = fmt.Fprintln(out)
			}
			_, _ = fmt.Fprint(out, ui.FormatBoard(board))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
