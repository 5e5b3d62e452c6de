// ABOUTME: Shared helpers for CLI commands
// ABOUTME: Picks the target project, resolves task and section references, and prompts

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/harper/todo/internal/models"
	"github.com/harper/todo/internal/service"
	"github.com/harper/todo/internal/storage"
	"github.com/spf13/cobra"
)

// currentProject returns the --project target, or the only project when
// there is exactly one.
func currentProject(ctx context.Context) (*models.Project, error) {
	if flagProject != "" {
		return svc.ResolveProject(ctx, flagProject)
	}
	projects, err := svc.Projects(ctx)
	if err != nil {
		return nil, err
	}
	switch len(projects) {
	case 0:
		return nil, fmt.Errorf("no projects yet; create one with 'todo project add <name>'")
	case 1:
		return projects[0], nil
	default:
		return nil, fmt.Errorf("%d projects exist; choose one with --project", len(projects))
	}
}

// currentBoard loads the board of the current project.
func currentBoard(ctx context.Context) (*storage.Board, error) {
	project, err := currentProject(ctx)
	if err != nil {
		return nil, err
	}
	return svc.Board(ctx, project.ID)
}

// resolveTasks maps task references to ids, keeping their order.
func resolveTasks(board *storage.Board, refs []string) ([]models.Task, error) {
	tasks := make([]models.Task, len(refs))
	for i, ref := range refs {
		task, err := service.ResolveTask(board.Tasks, ref)
		if err != nil {
			return nil, err
		}
		tasks[i] = task
	}
	return tasks, nil
}

func taskIDs(tasks []models.Task) []uuid.UUID {
	ids := make([]uuid.UUID, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

// sectionFlag resolves the --section flag. An empty value means ungrouped.
func sectionFlag(cmd *cobra.Command, board *storage.Board) (*uuid.UUID, error) {
	ref, _ := cmd.Flags().GetString("section")
	if ref == "" {
		return nil, nil
	}
	sec, err := service.ResolveSection(board.Sections, ref)
	if err != nil {
		return nil, err
	}
	return &sec.ID, nil
}

// confirm asks a yes/no question on the command's streams unless --confirm
// was given.
func confirm(cmd *cobra.Command, prompt string) bool {
	if ok, _ := cmd.Flags().GetBool("confirm"); ok {
		return true
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
	return readYes(cmd.InOrStdin())
}

func readYes(r io.Reader) bool {
	response, _ := bufio.NewReader(r).ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
