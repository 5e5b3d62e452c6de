// ABOUTME: Repository interfaces for project, section and task storage
// ABOUTME: Enables testability and storage backend swapping

package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/harper/todo/internal/models"
)

// ProjectRepository defines operations for managing projects.
type ProjectRepository interface {
	CreateProject(ctx context.Context, project *models.Project) error
	GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error)
	GetProjectByName(ctx context.Context, name string) (*models.Project, error)
	ListProjects(ctx context.Context) ([]*models.Project, error)
	// DeleteProject removes the project with all of its sections and tasks.
	DeleteProject(ctx context.Context, id uuid.UUID) error
}

// SectionRepository defines read operations for sections. Writes go through Apply.
type SectionRepository interface {
	GetSection(ctx context.Context, id uuid.UUID) (*models.Section, error)
	ListSections(ctx context.Context, projectID uuid.UUID) ([]models.Section, error)
}

// TaskRepository defines read operations for tasks. Writes go through Apply.
type TaskRepository interface {
	GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error)
	ListTasks(ctx context.Context, projectID uuid.UUID) ([]models.Task, error)
}

// Repository combines all repository operations with lifecycle management.
type Repository interface {
	ProjectRepository
	SectionRepository
	TaskRepository

	// Apply writes a batch atomically: either every change lands or none does.
	Apply(ctx context.Context, batch *Batch) error

	// Subscribe streams the project's current sections and tasks, first
	// immediately and then after every write that touches the project.
	// The channel is closed when ctx is done.
	Subscribe(ctx context.Context, projectID uuid.UUID) (<-chan Snapshot, error)

	Close() error
	Reset() error
}
