// ABOUTME: Backup command for exporting data to YAML
// ABOUTME: Creates portable backup files for data migration

package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/google/renameio/v2"
	"github.com/harper/todo/internal/storage"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create a YAML backup of all data",
	Long: `Create a YAML backup file containing every project with its sections
and tasks.

The backup file can be used to:
- Migrate data between machines
- Restore after data loss
- Import into a fresh database

Examples:
  todo backup --output todo.yaml
  todo backup -o ~/backups/todo-$(date +%Y%m%d).yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		data, err := storage.ExportBackup(cmd.Context(), repo)
		if err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}

		if output == "" {
			output = fmt.Sprintf("todo-%s.yaml", time.Now().Format("20060102-150405"))
		}

		if err := renameio.WriteFile(output, data, 0644); err != nil { //nolint:gosec // 0644 is intentional for backup files
			return fmt.Errorf("failed to write backup: %w", err)
		}

		projects, _ := svc.Projects(cmd.Context())
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("Backup created: %s", output))
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %d projects\n", len(projects))
		return nil
	},
}

func init() {
	backupCmd.Flags().StringP("output", "o", "", "output file (default: todo-YYYYMMDD-HHMMSS.yaml)")

	rootCmd.AddCommand(backupCmd)
}
