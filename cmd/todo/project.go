// ABOUTME: Project commands: add, list and remove
// ABOUTME: Removing a project deletes its sections and tasks too

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harper/todo/internal/ui"
	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"projects"},
	Short:   "Manage projects",
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		project, err := svc.CreateProject(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Created project %s", project.Name))
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List projects",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		projects, err := svc.Projects(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(projects) == 0 {
			_, _ = fmt.Fprintln(out, "No projects yet. Use 'todo project add' to create one.")
			return nil
		}
		for _, p := range projects {
			_, _ = fmt.Fprintln(out, ui.FormatProject(p))
		}
		return nil
	},
}

var projectRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a project with all its sections and tasks",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		project, err := svc.ResolveProject(ctx, args[0])
		if err != nil {
			return err
		}
		if !confirm(cmd, fmt.Sprintf("Remove project '%s' and all its tasks?", project.Name)) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Canceled.")
			return nil
		}
		if err := svc.DeleteProject(ctx, project.ID); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Removed project %s", project.Name))
		return nil
	},
}

func init() {
	projectRemoveCmd.Flags().Bool("confirm", false, "skip confirmation prompt")

	projectCmd.AddCommand(projectAddCmd, projectListCmd, projectRemoveCmd)
	rootCmd.AddCommand(projectCmd)
}
