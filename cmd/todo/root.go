// ABOUTME: Root Cobra command and global flags
// ABOUTME: Loads config, builds the logger, and opens the configured storage backend

package main

import (
	"fmt"

	"github.com/harper/todo/internal/config"
	"github.com/harper/todo/internal/logging"
	"github.com/harper/todo/internal/service"
	"github.com/harper/todo/internal/storage"
	"github.com/spf13/cobra"
)

var (
	cfg  *config.Config
	repo storage.Repository
	svc  *service.Service
)

var (
	flagBackend  string
	flagDataDir  string
	flagLogLevel string
	flagProject  string
)

var rootCmd = &cobra.Command{
	Use:   "todo",
	Short: "Projects, sections and ordered tasks",
	Long: `
████████╗ ██████╗ ██████╗  ██████╗
╚══██╔══╝██╔═══██╗██╔══██╗██╔═══██╗
   ██║   ██║   ██║██║  ██║██║   ██║
   ██║   ██║   ██║██║  ██║██║   ██║
   ██║   ╚██████╔╝██████╔╝╚██████╔╝
   ╚═╝    ╚═════╝ ╚═════╝  ╚═════╝

     Keep tasks in order, section by section

Examples:
  todo project add home
  todo section add kitchen -p home
  todo add "do the dishes" --section kitchen -p home
  todo mv dishes 0 -p home
  todo done dishes -p home
  todo list`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyFlagOverrides(cfg)

		logger, err := logging.New(cmd.ErrOrStderr(), cfg.GetLogLevel())
		if err != nil {
			return err
		}

		repo, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
		}
		logger.Debug("opened storage", "backend", cfg.GetBackend(), "path", cfg.StoragePath())

		svc = service.New(repo, service.WithLogger(logger))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if repo != nil {
			return repo.Close()
		}
		return nil
	},
}

// applyFlagOverrides lets global flags win over the config file.
func applyFlagOverrides(c *config.Config) {
	if flagBackend != "" {
		c.Backend = flagBackend
	}
	if flagDataDir != "" {
		c.DataDir = flagDataDir
	}
	if flagLogLevel != "" {
		c.LogLevel = flagLogLevel
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend (sqlite or badger)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (overrides config data_dir)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&flagProject, "project", "p", "", "project name or id (optional when only one project exists)")
}
