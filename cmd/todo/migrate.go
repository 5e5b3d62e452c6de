// ABOUTME: Migration command for converting todo data between storage backends
// ABOUTME: Supports sqlite-to-badger and badger-to-sqlite with safety checks

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/todo/internal/config"
	"github.com/harper/todo/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate data between storage backends",
	Long: `Migrate all projects from the currently configured backend to a different backend.

Reads projects, sections and tasks from the current backend and writes them
to the target backend. Does NOT update the config file; verify the migration
was successful then update config.json manually.

Examples:
  todo migrate --to badger
  todo migrate --to sqlite --target-dir ~/todo-sqlite
  todo migrate --to badger --force`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

var (
	migrateTo        string
	migrateTargetDir string
	migrateForce     bool
)

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "target backend (sqlite or badger)")
	migrateCmd.Flags().StringVar(&migrateTargetDir, "target-dir", "", "target data directory (defaults to current data directory)")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "allow writing into a non-empty target")
	_ = migrateCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	sourceBackend := cfg.GetBackend()
	targetBackend := migrateTo

	if targetBackend != config.BackendSQLite && targetBackend != config.BackendBadger {
		return fmt.Errorf("invalid target backend %q: must be %q or %q", targetBackend, config.BackendSQLite, config.BackendBadger)
	}
	if targetBackend == sourceBackend {
		return fmt.Errorf("target backend %q is the same as the current backend", targetBackend)
	}

	targetDataDir := cfg.GetDataDir()
	if migrateTargetDir != "" {
		targetDataDir = config.ExpandPath(migrateTargetDir)
	}
	target := &config.Config{Backend: targetBackend, DataDir: targetDataDir}

	nonEmpty, err := targetHasData(target)
	if err != nil {
		return fmt.Errorf("check target: %w", err)
	}
	if nonEmpty && !migrateForce {
		return fmt.Errorf("target %q already has data; use --force to write into it", target.StoragePath())
	}

	dst, err := target.OpenStorage()
	if err != nil {
		return fmt.Errorf("open target storage (%s): %w", targetBackend, err)
	}
	defer func() {
		if cerr := dst.Close(); cerr != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: closing target storage: %v\n", cerr)
		}
	}()

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, color.YellowString("Migrating todo data:"))
	_, _ = fmt.Fprintf(out, "  Source:  %s (%s)\n", sourceBackend, cfg.StoragePath())
	_, _ = fmt.Fprintf(out, "  Target:  %s (%s)\n", targetBackend, target.StoragePath())
	_, _ = fmt.Fprintln(out)

	summary, err := storage.MigrateData(cmd.Context(), repo, dst)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	_, _ = fmt.Fprintln(out, color.GreenString("Migration complete!"))
	_, _ = fmt.Fprintf(out, "  Projects: %d\n", summary.Projects)
	_, _ = fmt.Fprintf(out, "  Sections: %d\n", summary.Sections)
	_, _ = fmt.Fprintf(out, "  Tasks:    %d\n", summary.Tasks)
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, color.YellowString("Note: config.json was NOT updated. To switch to the new backend, edit:"))
	_, _ = fmt.Fprintf(out, "  %s\n", config.GetConfigPath())
	_, _ = fmt.Fprintf(out, "  Set \"backend\": %q", targetBackend)
	if migrateTargetDir != "" {
		_, _ = fmt.Fprintf(out, " and \"data_dir\": %q", migrateTargetDir)
	}
	_, _ = fmt.Fprintln(out)

	return nil
}

// targetHasData reports whether the target backend's files already exist.
func targetHasData(target *config.Config) (bool, error) {
	path := target.StoragePath()
	if target.GetBackend() == config.BackendBadger {
		return storage.IsDirNonEmpty(path)
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
