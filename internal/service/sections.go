// ABOUTME: Section operations: add, rename, move and delete
// ABOUTME: Deleting a section deletes its tasks in the same batch

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

// AddSection appends a new section to the end of the project.
func (s *Service) AddSection(ctx context.Context, projectID uuid.UUID, name string) (*models.Section, error) {
	name = strings.TrimSpace(name)
	if err := models.ValidateName(name); err != nil {
		return nil, err
	}
	board, err := s.Board(ctx, projectID)
	if err != nil {
		return nil, err
	}

	section := models.NewSection(projectID, name)
	sections := reorder.CreateSection(board.Sections, *section)
	if err := s.commit(ctx, "add section", board, sections, board.Tasks); err != nil {
		return nil, err
	}

	created, _ := findSection(sections, section.ID)
	return &created, nil
}

// sectionBoard loads the board that owns section id.
func (s *Service) sectionBoard(ctx context.Context, id uuid.UUID) (*models.Section, *storage.Board, error) {
	section, err := s.repo.GetSection(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("section %s: %w", id, err)
	}
	board, err := s.Board(ctx, section.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	return section, board, nil
}

// RenameSection changes a section's name.
func (s *Service) RenameSection(ctx context.Context, id uuid.UUID, name string) error {
	name = strings.TrimSpace(name)
	if err := models.ValidateName(name); err != nil {
		return err
	}
	_, board, err := s.sectionBoard(ctx, id)
	if err != nil {
		return err
	}
	sections := reorder.UpdateSection(board.Sections, models.SectionPatch{
		ID:     id,
		Fields: models.SectionFieldName,
		Name:   name,
	})
	return s.commit(ctx, "rename section", board, sections, board.Tasks)
}

// MoveSection moves a section to toIndex among the project's sections.
// The index is clamped.
func (s *Service) MoveSection(ctx context.Context, id uuid.UUID, toIndex int) error {
	_, board, err := s.sectionBoard(ctx, id)
	if err != nil {
		return err
	}
	sections := reorder.MoveSection(board.Sections, id, toIndex)
	return s.commit(ctx, "move section", board, sections, board.Tasks)
}

// DeleteSection removes a section and every task in it.
func (s *Service) DeleteSection(ctx context.Context, id uuid.UUID) error {
	section, board, err := s.sectionBoard(ctx, id)
	if err != nil {
		return err
	}
	sections := reorder.DeleteSection(board.Sections, id)
	tasks := reorder.DeleteInSection(board.Tasks, sections, id)
	if err := s.commit(ctx, "delete section", board, sections, tasks); err != nil {
		return err
	}
	s.log.Info("deleted section", "section", section.Name, "tasks", len(board.Tasks)-len(tasks))
	return nil
}
