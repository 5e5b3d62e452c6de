// ABOUTME: Task operations: add, rename, move, complete, reopen and delete
// ABOUTME: Unknown tasks and sections surface as ErrNotFound before any reordering

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harper/todo/internal/models"
	"github.com/harper/todo/internal/reorder"
	"github.com/harper/todo/internal/storage"
)

// taskBoard loads the board that owns task id.
func (s *Service) taskBoard(ctx context.Context, id uuid.UUID) (*models.Task, *storage.Board, error) {
	task, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("task %s: %w", id, err)
	}
	board, err := s.Board(ctx, task.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	return task, board, nil
}

// checkSection verifies that sectionID (when set) is a section of board.
func checkSection(board *storage.Board, sectionID *uuid.UUID) error {
	if sectionID == nil {
		return nil
	}
	if _, ok := findSection(board.Sections, *sectionID); !ok {
		return fmt.Errorf("section %s in project %s: %w", sectionID, board.Project.Name, storage.ErrNotFound)
	}
	return nil
}

// AddTask appends a new task to the end of a section (nil for ungrouped).
func (s *Service) AddTask(ctx context.Context, projectID uuid.UUID, sectionID *uuid.UUID, title string) (*models.Task, error) {
	created, err := s.AddTasks(ctx, projectID, sectionID, []string{title})
	if err != nil {
		return nil, err
	}
	return &created[0], nil
}

// AddTasks appends tasks to a section in the order given, in one batch.
func (s *Service) AddTasks(ctx context.Context, projectID uuid.UUID, sectionID *uuid.UUID, titles []string) ([]models.Task, error) {
	if len(titles) == 0 {
		return nil, fmt.Errorf("no tasks to add")
	}
	newTasks := make([]models.Task, len(titles))
	for i, title := range titles {
		title = strings.TrimSpace(title)
		if err := models.ValidateTitle(title); err != nil {
			return nil, err
		}
		newTasks[i] = *models.NewTask(projectID, sectionID, title)
	}

	board, err := s.Board(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := checkSection(board, sectionID); err != nil {
		return nil, err
	}

	tasks := reorder.InsertMany(board.Tasks, board.Sections, newTasks)
	if err := s.commit(ctx, "add tasks", board, board.Sections, tasks); err != nil {
		return nil, err
	}

	created := make([]models.Task, len(newTasks))
	for i, t := range newTasks {
		created[i], _ = findTask(tasks, t.ID)
	}
	return created, nil
}

// RenameTask changes a task's title.
func (s *Service) RenameTask(ctx context.Context, id uuid.UUID, title string) error {
	title = strings.TrimSpace(title)
	if err := models.ValidateTitle(title); err != nil {
		return err
	}
	_, board, err := s.taskBoard(ctx, id)
	if err != nil {
		return err
	}
	tasks := reorder.Update(board.Tasks, board.Sections, models.TaskPatch{
		ID:     id,
		Fields: models.TaskFieldTitle,
		Title:  title,
	})
	return s.commit(ctx, "rename task", board, board.Sections, tasks)
}

// MoveTask moves a task to toIndex within toSection (nil for ungrouped).
// The index is clamped. A completed task only changes section.
func (s *Service) MoveTask(ctx context.Context, id uuid.UUID, toSection *uuid.UUID, toIndex int) error {
	_, board, err := s.taskBoard(ctx, id)
	if err != nil {
		return err
	}
	if err := checkSection(board, toSection); err != nil {
		return err
	}
	tasks := reorder.Move(board.Tasks, board.Sections, id, toSection, toIndex)
	return s.commit(ctx, "move task", board, board.Sections, tasks)
}

// MoveTasks moves a selection as one contiguous run. firstID lands at
// toIndex in toSection; the others follow it in display order. Every task
// must belong to the same project.
func (s *Service) MoveTasks(ctx context.Context, firstID uuid.UUID, otherIDs []uuid.UUID, toSection *uuid.UUID, toIndex int) error {
	_, board, err := s.taskBoard(ctx, firstID)
	if err != nil {
		return err
	}
	for _, id := range otherIDs {
		if _, ok := findTask(board.Tasks, id); !ok {
			return fmt.Errorf("task %s in project %s: %w", id, board.Project.Name, storage.ErrNotFound)
		}
	}
	if err := checkSection(board, toSection); err != nil {
		return err
	}
	tasks := reorder.MoveMany(board.Tasks, board.Sections, firstID, otherIDs, toSection, toIndex)
	return s.commit(ctx, "move tasks", board, board.Sections, tasks)
}

// CompleteTask marks a task done at the service clock's current time.
func (s *Service) CompleteTask(ctx context.Context, id uuid.UUID) error {
	task, board, err := s.taskBoard(ctx, id)
	if err != nil {
		return err
	}
	if task.IsCompleted() {
		s.log.Warn("task already completed", "task", task.Title)
		return nil
	}
	tasks := reorder.Complete(board.Tasks, board.Sections, id, s.now().UTC())
	return s.commit(ctx, "complete task", board, board.Sections, tasks)
}

// IncompleteTask reopens a completed task at the end of its section.
func (s *Service) IncompleteTask(ctx context.Context, id uuid.UUID) error {
	task, board, err := s.taskBoard(ctx, id)
	if err != nil {
		return err
	}
	if !task.IsCompleted() {
		s.log.Warn("task is not completed", "task", task.Title)
		return nil
	}
	tasks := reorder.Incomplete(board.Tasks, board.Sections, id)
	return s.commit(ctx, "reopen task", board, board.Sections, tasks)
}

// DeleteTask removes a task.
func (s *Service) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return s.DeleteTasks(ctx, []uuid.UUID{id})
}

// DeleteTasks removes tasks, which may span projects. Each project is
// written as one batch.
func (s *Service) DeleteTasks(ctx context.Context, ids []uuid.UUID) error {
	byProject := make(map[uuid.UUID][]uuid.UUID)
	var order []uuid.UUID
	for _, id := range ids {
		task, err := s.repo.GetTask(ctx, id)
		if err != nil {
			return fmt.Errorf("task %s: %w", id, err)
		}
		if _, seen := byProject[task.ProjectID]; !seen {
			order = append(order, task.ProjectID)
		}
		byProject[task.ProjectID] = append(byProject[task.ProjectID], id)
	}

	for _, projectID := range order {
		board, err := s.Board(ctx, projectID)
		if err != nil {
			return err
		}
		tasks := reorder.DeleteMany(board.Tasks, board.Sections, byProject[projectID])
		if err := s.commit(ctx, "delete tasks", board, board.Sections, tasks); err != nil {
			return err
		}
	}
	return nil
}
