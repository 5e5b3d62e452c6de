// ABOUTME: Seed command for creating a project from a TOML plan
// ABOUTME: The plan is schema-checked before anything is written

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harper/todo/internal/storage"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed <plan.toml>",
	Short: "Create a project from a TOML plan",
	Long: `Create a project with its sections and tasks from a TOML file.

Example plan:

  project = "home"
  tasks = ["water plants"]

  [[sections]]
  name = "kitchen"
  tasks = ["do the dishes", "mop the floor"]

Examples:
  todo seed home.toml
  todo seed home.toml --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := storage.LoadSeedPlan(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
			_, _ = fmt.Fprintf(out, "Plan for %s is valid: %d sections, %d tasks\n",
				plan.Project, len(plan.Sections), plan.TaskCount())
			return nil
		}

		project, err := svc.Seed(cmd.Context(), plan)
		if err != nil {
			return fmt.Errorf("failed to seed: %w", err)
		}
		_, _ = fmt.Fprintln(out, color.GreenString("✓ Seeded %s", project.Name))
		_, _ = fmt.Fprintf(out, "  %d sections, %d tasks\n", len(plan.Sections), plan.TaskCount())
		return nil
	},
}

func init() {
	seedCmd.Flags().Bool("dry-run", false, "validate the plan without writing")

	rootCmd.AddCommand(seedCmd)
}
