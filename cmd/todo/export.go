// ABOUTME: Export command for markdown and YAML output
// ABOUTME: Writes one project or every project as a checklist or a backup document

package main

import (
	"fmt"

	"github.com/google/renameio/v2"
	"github.com/google/uuid"
	"github.com/harper/todo/internal/storage"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:     "export",
	Aliases: []string{"e"},
	Short:   "Export tasks as markdown or YAML",
	Long: `Export projects as a markdown checklist or a YAML document.

Markdown lists each project's ungrouped tasks first, then one heading per
section, in display order. With --project only that project is written.

Examples:
  todo export
  todo export -p home --output home.md
  todo export --format yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		format, _ := cmd.Flags().GetString("format")

		var data []byte
		var err error
		switch format {
		case "markdown", "md":
			var projectID *uuid.UUID
			if flagProject != "" {
				project, err := svc.ResolveProject(ctx, flagProject)
				if err != nil {
					return err
				}
				projectID = &project.ID
			}
			data, err = storage.ExportToMarkdown(ctx, repo, projectID)
		case "yaml":
			data, err = storage.ExportToYAML(ctx, repo)
		default:
			return fmt.Errorf("unsupported format: %s (use 'markdown' or 'yaml')", format)
		}
		if err != nil {
			return fmt.Errorf("failed to export: %w", err)
		}

		output, _ := cmd.Flags().GetString("output")
		if output != "" {
			if err := renameio.WriteFile(output, data, 0644); err != nil { //nolint:gosec // exports are meant to be shared
				return fmt.Errorf("failed to write file: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", output)
			return nil
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	exportCmd.Flags().StringP("format", "f", "markdown", "output format (markdown, yaml)")
	exportCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
}
