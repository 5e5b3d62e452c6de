// ABOUTME: Single-task and multi-task moves across sections
// ABOUTME: Moves shift siblings to close the source gap and open the target slot

package reorder

import (
	"github.com/google/uuid"
	"github.com/harper/todo/internal/models"
)

// Move places task id at index toIndex among the incomplete tasks of
// toSection (nil for ungrouped). The index is clamped; an index past the end
// appends. Unknown tasks and unknown target sections leave tasks unchanged,
// except that a task may still be reordered within its own stale section.
//
// A completed task has no position to move; only its section changes.
func Move(tasks []models.Task, sections []models.Section, id uuid.UUID, toSection *uuid.UUID, toIndex int) []models.Task {
	i := indexOf(tasks, id)
	if i < 0 {
		return tasks
	}
	task := tasks[i]
	if !task.InSection(toSection) && !indexSections(sections).has(toSection) {
		return tasks
	}

	if task.IsCompleted() {
		if task.InSection(toSection) {
			return tasks
		}
		moved := task.Clone()
		moved.SectionID = models.CloneID(toSection)
		return Normalize(merge(tasks, []models.Task{moved}), sections)
	}

	src := siblings(tasks, task.SectionID)
	from := indexOf(src, id)

	if task.InSection(toSection) {
		to := clamp(toIndex, 0, len(src)-1)
		if from == to {
			return tasks
		}
		list := MoveWithin(src, from, to)
		renumber(list)
		return Normalize(merge(tasks, list), sections)
	}

	dst := siblings(tasks, toSection)
	src, dst = MoveBetween(src, dst, from, toIndex)
	for k := range dst {
		if dst[k].ID == id {
			dst[k].SectionID = models.CloneID(toSection)
		}
	}
	renumber(src)
	renumber(dst)
	return Normalize(merge(tasks, src, dst), sections)
}

// MoveMany moves firstID and every existing id in otherIDs to toSection as
// one contiguous run starting near toIndex. The run keeps the selection's
// current display order (see Sort), not the order of otherIDs. Missing
// others are dropped; a missing firstID leaves tasks unchanged.
func MoveMany(tasks []models.Task, sections []models.Section, firstID uuid.UUID, otherIDs []uuid.UUID, toSection *uuid.UUID, toIndex int) []models.Task {
	if indexOf(tasks, firstID) < 0 || !indexSections(sections).has(toSection) {
		return tasks
	}

	selected := map[uuid.UUID]bool{firstID: true}
	selection := []models.Task{tasks[indexOf(tasks, firstID)]}
	rest := make(map[uuid.UUID]bool)
	for _, oid := range otherIDs {
		k := indexOf(tasks, oid)
		if k < 0 || selected[oid] {
			continue
		}
		selected[oid] = true
		rest[oid] = true
		selection = append(selection, tasks[k])
	}
	if len(rest) == 0 {
		return Move(tasks, sections, firstID, toSection, toIndex)
	}

	// Relative order of the batch, captured before anything moves.
	order := Sort(selection, sections)

	// Anchor move, then lift the others out and close their gaps.
	moved := Move(tasks, sections, firstID, toSection, toIndex)
	var remaining, lifted []models.Task
	for _, t := range moved {
		if rest[t.ID] {
			lifted = append(lifted, t)
			continue
		}
		remaining = append(remaining, t)
	}
	remaining = Normalize(remaining, sections)

	anchor := remaining[indexOf(remaining, firstID)]
	dst := siblings(remaining, toSection)
	at := indexOf(dst, firstID)
	if anchor.IsCompleted() || at < 0 {
		at = clamp(toIndex, 0, len(dst))
	} else {
		dst = append(dst[:at:at], dst[at+1:]...)
	}

	liftedByID := make(map[uuid.UUID]models.Task, len(lifted)+1)
	for _, t := range lifted {
		liftedByID[t.ID] = t
	}
	liftedByID[firstID] = anchor

	var run, completed []models.Task
	for _, t := range order {
		t = liftedByID[t.ID].Clone()
		t.SectionID = models.CloneID(toSection)
		if t.IsCompleted() {
			completed = append(completed, t)
			continue
		}
		run = append(run, t)
	}

	dst = insertAt(dst, at, run...)
	renumber(dst)

	result := remaining
	for _, t := range append(run, completed...) {
		if t.ID != firstID {
			result = append(result, t)
		}
	}
	return Normalize(merge(result, dst, completed), sections)
}
