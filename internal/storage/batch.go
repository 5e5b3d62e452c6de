// ABOUTME: Batched multi-document writes for one project
// ABOUTME: Built from reorder diffs and applied atomically by each backend

package storage

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/harper/todo/internal/models"
	"github.com/harper/todo/internal/reorder"
)

// Batch is a set of section and task writes scoped to one project.
// Backends apply deletes first, then creates, then updates.
type Batch struct {
	ProjectID uuid.UUID

	CreateSections []models.Section
	UpdateSections []models.SectionPatch
	DeleteSections []uuid.UUID

	CreateTasks []models.Task
	UpdateTasks []models.TaskPatch
	DeleteTasks []uuid.UUID
}

// NewBatch builds a batch from reorder diffs.
func NewBatch(projectID uuid.UUID, sections reorder.SectionChanges, tasks reorder.TaskChanges) *Batch {
	return &Batch{
		ProjectID:      projectID,
		CreateSections: sections.Created,
		UpdateSections: sections.Updated,
		DeleteSections: sections.Deleted,
		CreateTasks:    tasks.Created,
		UpdateTasks:    tasks.Updated,
		DeleteTasks:    tasks.Deleted,
	}
}

// Empty reports whether the batch writes nothing.
func (b *Batch) Empty() bool {
	return b == nil || (len(b.CreateSections) == 0 && len(b.UpdateSections) == 0 && len(b.DeleteSections) == 0 &&
		len(b.CreateTasks) == 0 && len(b.UpdateTasks) == 0 && len(b.DeleteTasks) == 0)
}

// Size returns the number of documents the batch touches.
func (b *Batch) Size() int {
	if b == nil {
		return 0
	}
	return len(b.CreateSections) + len(b.UpdateSections) + len(b.DeleteSections) +
		len(b.CreateTasks) + len(b.UpdateTasks) + len(b.DeleteTasks)
}

// validate checks that every created entity belongs to the batch's project.
func (b *Batch) validate() error {
	if b.ProjectID == uuid.Nil {
		return fmt.Errorf("batch has no project")
	}
	for _, s := range b.CreateSections {
		if s.ProjectID != b.ProjectID {
			return fmt.Errorf("section %s belongs to another project", s.ID)
		}
	}
	for _, t := range b.CreateTasks {
		if t.ProjectID != b.ProjectID {
			return fmt.Errorf("task %s belongs to another project", t.ID)
		}
	}
	return nil
}
