// ABOUTME: Section commands: add, move, rename and remove
// ABOUTME: Removing a section deletes the tasks inside it

package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/harper/todo/internal/service"
	"github.com/spf13/cobra"
)

var sectionCmd = &cobra.Command{
	Use:     "section",
	Aliases: []string{"sec"},
	Short:   "Manage sections of a project",
}

var sectionAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a section to the end of the project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		project, err := currentProject(ctx)
		if err != nil {
			return err
		}
		section, err := svc.AddSection(ctx, project.ID, args[0])
		if err != nil {
			return fmt.Errorf("failed to add section: %w", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Added section %s to %s", section.Name, project.Name))
		return nil
	},
}

var sectionMoveCmd = &cobra.Command{
	Use:   "mv <section> <index>",
	Short: "Move a section to a zero-based position",
	Args:  cobra.ExactArgs(2),
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
		section, err := service.ResolveSection(board.Sections, args[0])
		if err != nil {
			return err
		}
		if err := svc.MoveSection(ctx, section.ID, index); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Moved section %s", section.Name))
		return nil
	},
}

var sectionRenameCmd = &cobra.Command{
	Use:   "rename <section> <name>",
	Short: "Rename a section",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		board, err := currentBoard(ctx)
		if err != nil {
			return err
		}
		section, err := service.ResolveSection(board.Sections, args[0])
		if err != nil {
			return err
		}
		if err := svc.RenameSection(ctx, section.ID, args[1]); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Renamed %s to %s", section.Name, args[1]))
		return nil
	},
}

var sectionRemoveCmd = &cobra.Command{
	Use:     "remove <section>",
	Aliases: []string{"rm"},
	Short:   "Remove a section and its tasks",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		board, err := currentBoard(ctx)
		if err != nil {
			return err
		}
		section, err := service.ResolveSection(board.Sections, args[0])
		if err != nil {
			return err
		}
		if !confirm(cmd, fmt.Sprintf("Remove section '%s' and its tasks?", section.Name)) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Canceled.")
			return nil
		}
		if err := svc.DeleteSection(ctx, section.ID); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Removed section %s", section.Name))
		return nil
	},
}

func init() {
	sectionRemoveCmd.Flags().Bool("confirm", false, "skip confirmation prompt")

	sectionCmd.AddCommand(sectionAddCmd, sectionMoveCmd, sectionRenameCmd, sectionRemoveCmd)
	rootCmd.AddCommand(sectionCmd)
}
