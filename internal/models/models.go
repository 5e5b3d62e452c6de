// ABOUTME: Core data models for projects, sections and tasks
// ABOUTME: Provides constructor functions and validation for new entities

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// maxNameLength bounds project names, section names and task titles.
const maxNameLength = 255

// ValidateName checks if a name is valid (non-empty, within length limits).
// Note: This validates the raw input - callers should trim whitespace themselves if needed.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("name cannot be empty or whitespace")
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("name too long (max %d characters)", maxNameLength)
	}
	return nil
}

// ValidateTitle checks if a task title is valid.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title cannot be empty or whitespace")
	}
	if len(title) > maxNameLength {
		return fmt.Errorf("title too long (max %d characters)", maxNameLength)
	}
	return nil
}

// Project owns an ordered list of sections and the tasks inside them.
type Project struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Section is an ordered container of tasks within a project.
type Section struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// Task is a single to-do entry. A nil SectionID means the task is ungrouped.
// Position is only meaningful while the task is incomplete.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	ProjectID   uuid.UUID  `json:"project_id"`
	SectionID   *uuid.UUID `json:"section_id,omitempty"`
	Title       string     `json:"title"`
	Position    int        `json:"position"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IsCompleted reports whether the task carries a completion timestamp.
func (t Task) IsCompleted() bool {
	return t.CompletedAt != nil
}

// InSection reports whether the task belongs to the given section (nil for ungrouped).
func (t Task) InSection(sectionID *uuid.UUID) bool {
	return SameSection(t.SectionID, sectionID)
}

// SameSection compares two optional section ids.
func SameSection(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// NewProject creates a new project with generated UUID and timestamp.
func NewProject(name string) *Project {
	return &Project{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}
}

// NewSection creates a section for a project. Its position is assigned when
// it is placed into the project's section list.
func NewSection(projectID uuid.UUID, name string) *Section {
	return &Section{
		ID:        uuid.New(),
		ProjectID: projectID,
		Name:      name,
		CreatedAt: time.Now(),
	}
}

// NewTask creates an incomplete task. sectionID may be nil.
func NewTask(projectID uuid.UUID, sectionID *uuid.UUID, title string) *Task {
	return &Task{
		ID:        uuid.New(),
		ProjectID: projectID,
		SectionID: CloneID(sectionID),
		Title:     title,
		CreatedAt: time.Now(),
	}
}

// CloneID copies an optional id so callers never share the pointer.
func CloneID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

// CloneTime copies an optional timestamp.
func CloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	t.SectionID = CloneID(t.SectionID)
	t.CompletedAt = CloneTime(t.CompletedAt)
	return t
}
