// ABOUTME: Watch command that follows a project as it changes
// ABOUTME: Reprints the board on every committed write until interrupted

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/harper/todo/internal/config"
	"github.com/harper/todo/internal/ui"
	"github.com/spf13/cobra"
)

// errWatchBadger explains why a standalone watch cannot follow a badger store.
var errWatchBadger = errors.New("badger allows one process at a time, so a separate watch would lock out every other command; use 'todo mcp --watch' to follow the MCP server's changes instead")

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print a project's board whenever it changes",
	Long: `Print the board of the current project, then print it again after every
change, including changes made by other todo commands and the MCP server.

Needs the sqlite backend. With badger, run 'todo mcp --watch' to print
the boards from inside the MCP server's process.

Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg != nil && cfg.GetBackend() == config.BackendBadger {
			return errWatchBadger
		}

		ctx, cancel := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		project, err := currentProject(ctx)
		if err != nil {
			return err
		}
		return printBoards(ctx, cmd.OutOrStdout(), project.ID)
	},
}

// printBoards writes the project's board to out on every change until ctx
// is done or the project is deleted.
func printBoards(ctx context.Context, out io.Writer, projectID uuid.UUID) error {
	boards, err := svc.Watch(ctx, projectID)
	if err != nil {
		return err
	}
	for board := range boards {
		_, _ = fmt.Fprintln(out, color.New(color.Faint).Sprint("──"))
		_, _ = fmt.Fprint(out, ui.FormatBoard(board))
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
