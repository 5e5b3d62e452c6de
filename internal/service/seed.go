// ABOUTME: Creates a whole project from a validated seed plan
// ABOUTME: The project's sections and tasks are written as one batch

package service

import (
	"context"
	"fmt"

	"github.com/harper/todo/internal/models"
	"github.com/harper/todo/internal/reorder"
	"github.com/harper/todo/internal/storage"
)

// Seed creates the project a plan describes. Sections keep plan order and
// tasks keep plan order within their section.
func (s *Service) Seed(ctx context.Context, plan *storage.SeedPlan) (*models.Project, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	project, err := s.CreateProject(ctx, plan.Project)
	if err != nil {
		return nil, err
	}
	empty := &storage.Board{Project: project}

	var sections []models.Section
	var newTasks []models.Task
	for _, title := range plan.Tasks {
		newTasks = append(newTasks, *models.NewTask(project.ID, nil, title))
	}
	for _, sp := range plan.Sections {
		section := models.NewSection(project.ID, sp.Name)
		sections = reorder.CreateSection(sections, *section)
		for _, title := range sp.Tasks {
			newTasks = append(newTasks, *models.NewTask(project.ID, &section.ID, title))
		}
	}
	tasks := reorder.InsertMany(nil, sections, newTasks)

	if err := s.commit(ctx, "seed", empty, sections, tasks); err != nil {
		return nil, fmt.Errorf("seed %s: %w", project.Name, err)
	}
	s.log.Info("seeded project", "project", project.Name, "sections", len(sections), "tasks", len(tasks))
	return project, nil
}
