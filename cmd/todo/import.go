// ABOUTME: Import command for restoring data from YAML backup
// ABOUTME: Supports importing backup files created by the backup command

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harper/todo/internal/storage"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import data from a YAML backup",
	Long: `Import projects, sections and tasks from a YAML backup file.

This restores data from a backup created with 'todo backup'.

Projects are added next to existing data. A project whose name or id is
already present fails the import.

Examples:
  todo import todo.yaml
  todo import ~/backups/todo-20260401.yaml --confirm`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename) //nolint:gosec // user-supplied path is the point
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		if !confirm(cmd, fmt.Sprintf("Import data from '%s'?", filename)) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Canceled.")
			return nil
		}

		if err := storage.ImportBackup(cmd.Context(), repo, data); err != nil {
			return fmt.Errorf("failed to import: %w", err)
		}

		projects, _ := svc.Projects(cmd.Context())
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("Import complete"))
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %d projects in database\n", len(projects))
		return nil
	},
}

func init() {
	importCmd.Flags().Bool("confirm", false, "skip confirmation prompt")

	rootCmd.AddCommand(importCmd)
}
