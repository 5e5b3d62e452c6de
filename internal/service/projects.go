// ABOUTME: Project operations: create, list, look up and delete
// ABOUTME: Deleting a project removes its sections and tasks with it

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harper/todo/internal/models"
	"github.com/harper/todo/internal/storage"
)

// CreateProject creates an empty project.
func (s *Service) CreateProject(ctx context.Context, name string) (*models.Project, error) {
	name = strings.TrimSpace(name)
	if err := models.ValidateName(name); err != nil {
		return nil, err
	}
	project := models.NewProject(name)
	if err := s.repo.CreateProject(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	s.log.Info("created project", "project", name)
	return project, nil
}

// Projects lists all projects by name.
func (s *Service) Projects(ctx context.Context) ([]*models.Project, error) {
	projects, err := s.repo.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// ProjectByName looks a project up by its exact name.
func (s *Service) ProjectByName(ctx context.Context, name string) (*models.Project, error) {
	project, err := s.repo.GetProjectByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("project %q: %w", name, err)
	}
	return project, nil
}

// ResolveProject finds a project by name, full id, or unique id prefix.
func (s *Service) ResolveProject(ctx context.Context, ref string) (*models.Project, error) {
	ref = strings.TrimSpace(ref)
	project, err := s.repo.GetProjectByName(ctx, ref)
	if err == nil {
		return project, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	if id, err := uuid.Parse(ref); err == nil {
		project, err := s.repo.GetProject(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("project %q: %w", ref, err)
		}
		return project, nil
	}

	projects, err := s.Projects(ctx)
	if err != nil {
		return nil, err
	}
	var match *models.Project
	for _, p := range projects {
		if strings.EqualFold(p.Name, ref) || hasIDPrefix(p.ID, ref) {
			if match != nil {
				return nil, fmt.Errorf("project %q: %w", ref, ErrAmbiguous)
			}
			match = p
		}
	}
	if match == nil {
		return nil, fmt.Errorf("project %q: %w", ref, storage.ErrNotFound)
	}
	return match, nil
}

// DeleteProject removes a project with all of its sections and tasks.
func (s *Service) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	s.log.Info("deleted project", "id", id)
	return nil
}
