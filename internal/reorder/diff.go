// ABOUTME: Computes the minimal write set between two collections
// ABOUTME: Output is the partial-field payload handed to a store's batch write

package reorder

import (
	"github.com/google/uuid"
	"github.com/harper/todo/internal/models"
)

// TaskChanges lists what a store must write to turn one task collection
// into another.
type TaskChanges struct {
	Created []models.Task
	Updated []models.TaskPatch
	Deleted []uuid.UUID
}

// Empty reports whether there is nothing to write.
func (c TaskChanges) Empty() bool {
	return len(c.Created) == 0 && len(c.Updated) == 0 && len(c.Deleted) == 0
}

// SectionChanges is the section counterpart of TaskChanges.
type SectionChanges struct {
	Created []models.Section
	Updated []models.SectionPatch
	Deleted []uuid.UUID
}

// Empty reports whether there is nothing to write.
func (c SectionChanges) Empty() bool {
	return len(c.Created) == 0 && len(c.Updated) == 0 && len(c.Deleted) == 0
}

// DiffTasks compares before and after by id. Results follow the order of
// after (created, updated) and before (deleted).
func DiffTasks(before, after []models.Task) TaskChanges {
	old := make(map[uuid.UUID]models.Task, len(before))
	for _, t := range before {
		old[t.ID] = t
	}

	var c TaskChanges
	seen := make(map[uuid.UUID]bool, len(after))
	for _, t := range after {
		seen[t.ID] = true
		prev, ok := old[t.ID]
		if !ok {
			c.Created = append(c.Created, t.Clone())
			continue
		}
		if p := taskPatch(prev, t); !p.Empty() {
			c.Updated = append(c.Updated, p)
		}
	}
	for _, t := range before {
		if !seen[t.ID] {
			c.Deleted = append(c.Deleted, t.ID)
		}
	}
	return c
}

func taskPatch(prev, next models.Task) models.TaskPatch {
	p := models.TaskPatch{ID: next.ID}
	if prev.Title != next.Title {
		p.Fields |= models.TaskFieldTitle
		p.Title = next.Title
	}
	if !models.SameSection(prev.SectionID, next.SectionID) {
		p.Fields |= models.TaskFieldSection
		p.SectionID = models.CloneID(next.SectionID)
	}
	if prev.Position != next.Position {
		p.Fields |= models.TaskFieldPosition
		p.Position = next.Position
	}
	if !sameTime(prev, next) {
		p.Fields |= models.TaskFieldCompletedAt
		p.CompletedAt = models.CloneTime(next.CompletedAt)
	}
	return p
}

func sameTime(a, b models.Task) bool {
	if a.CompletedAt == nil || b.CompletedAt == nil {
		return a.CompletedAt == nil && b.CompletedAt == nil
	}
	return a.CompletedAt.Equal(*b.CompletedAt)
}

// DiffSections compares two section lists by id.
func DiffSections(before, after []models.Section) SectionChanges {
	old := make(map[uuid.UUID]models.Section, len(before))
	for _, s := range before {
		old[s.ID] = s
	}

	var c SectionChanges
	seen := make(map[uuid.UUID]bool, len(after))
	for _, s := range after {
		seen[s.ID] = true
		prev, ok := old[s.ID]
		if !ok {
			c.Created = append(c.Created, s)
			continue
		}
		p := models.SectionPatch{ID: s.ID}
		if prev.Name != s.Name {
			p.Fields |= models.SectionFieldName
			p.Name = s.Name
		}
		if prev.Position != s.Position {
			p.Fields |= models.SectionFieldPosition
			p.Position = s.Position
		}
		if !p.Empty() {
			c.Updated = append(c.Updated, p)
		}
	}
	for _, s := range before {
		if !seen[s.ID] {
			c.Deleted = append(c.Deleted, s.ID)
		}
	}
	return c
}
