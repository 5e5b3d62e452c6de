// ABOUTME: MCP serve command
// ABOUTME: Starts the MCP server for AI agent integration, optionally echoing board changes to stderr

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/harper/todo/internal/mcp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI agents",
	Long: `Start the MCP server on stdin and stdout.

With --watch, the current project's board is printed to stderr after every
change, which is the way to follow an agent's edits on the badger backend.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(svc)
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		watch, _ := cmd.Flags().GetBool("watch")
		if !watch {
			return server.Serve(ctx)
		}

		project, err := currentProject(ctx)
		if err != nil {
			return err
		}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			defer cancel()
			return server.Serve(gctx)
		})
		g.Go(func() error {
			return printBoards(gctx, cmd.ErrOrStderr(), project.ID)
		})
		return g.Wait()
	},
}

func init() {
	mcpCmd.Flags().Bool("watch", false, "print the current project's board to stderr on every change")
	rootCmd.AddCommand(mcpCmd)
}
