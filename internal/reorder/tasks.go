// ABOUTME: Task lifecycle operations: create, update, complete, reopen, delete
// ABOUTME: Each operation finishes with Normalize so positions stay dense

package reorder

import (
	"time"

	"github.com/google/uuid"
	"github.com/harper/todo/internal/models"
)

// tailPosition is one past the highest incomplete position in a section.
func tailPosition(tasks []models.Task, sectionID *uuid.UUID) int {
	next := 0
	for _, t := range tasks {
		if !t.IsCompleted() && t.InSection(sectionID) && t.Position >= next {
			next = t.Position + 1
		}
	}
	return next
}

// Create appends task to the end of its section. A task whose id already
// exists, or whose section is unknown, leaves tasks unchanged.
func Create(tasks []models.Task, sections []models.Section, task models.Task) []models.Task {
	if indexOf(tasks, task.ID) >= 0 || !indexSections(sections).has(task.SectionID) {
		return tasks
	}
	task = task.Clone()
	if task.IsCompleted() {
		task.Position = CompletedPosition
	} else {
		task.Position = tailPosition(tasks, task.SectionID)
	}
	out := append(cloneTasks(tasks), task)
	return Normalize(out, sections)
}

// InsertMany creates each task in order, so tasks sharing a section keep
// the order they were given in.
func InsertMany(tasks []models.Task, sections []models.Section, newTasks []models.Task) []models.Task {
	out := tasks
	for _, t := range newTasks {
		out = Create(out, sections, t)
	}
	return out
}

// Update applies the payload fields of patch (the title). Ordering fields
// are owned by Move, Complete and Incomplete and are ignored here.
func Update(tasks []models.Task, sections []models.Section, patch models.TaskPatch) []models.Task {
	i := indexOf(tasks, patch.ID)
	if i < 0 || !patch.Has(models.TaskFieldTitle) {
		return tasks
	}
	out := cloneTasks(tasks)
	out[i].Title = patch.Title
	return Normalize(out, sections)
}

// Complete stamps task id with at and drops it out of the position
// sequence; its former siblings close the gap.
func Complete(tasks []models.Task, sections []models.Section, id uuid.UUID, at time.Time) []models.Task {
	i := indexOf(tasks, id)
	if i < 0 || tasks[i].IsCompleted() {
		return tasks
	}
	out := cloneTasks(tasks)
	out[i].CompletedAt = &at
	out[i].Position = CompletedPosition
	return Normalize(out, sections)
}

// Incomplete clears the completion of task id and appends it to the end of
// its section's incomplete tasks.
func Incomplete(tasks []models.Task, sections []models.Section, id uuid.UUID) []models.Task {
	i := indexOf(tasks, id)
	if i < 0 || !tasks[i].IsCompleted() {
		return tasks
	}
	out := cloneTasks(tasks)
	out[i].CompletedAt = nil
	out[i].Position = tailPosition(tasks, out[i].SectionID)
	return Normalize(out, sections)
}

// Delete removes task id and repacks its section.
func Delete(tasks []models.Task, sections []models.Section, id uuid.UUID) []models.Task {
	return DeleteMany(tasks, sections, []uuid.UUID{id})
}

// DeleteMany removes every listed task. Unknown ids are ignored; if none
// are known, tasks is returned unchanged.
func DeleteMany(tasks []models.Task, sections []models.Section, ids []uuid.UUID) []models.Task {
	drop := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	return removeWhere(tasks, sections, func(t models.Task) bool { return drop[t.ID] })
}

// DeleteInSection removes every task that belongs to sectionID.
func DeleteInSection(tasks []models.Task, sections []models.Section, sectionID uuid.UUID) []models.Task {
	return removeWhere(tasks, sections, func(t models.Task) bool { return t.InSection(&sectionID) })
}

func removeWhere(tasks []models.Task, sections []models.Section, match func(models.Task) bool) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if !match(t) {
			out = append(out, t.Clone())
		}
	}
	if len(out) == len(tasks) {
		return tasks
	}
	return Normalize(out, sections)
}
