// ABOUTME: Canonical task ordering and dense position renumbering
// ABOUTME: Sort orders tasks by section, completion and position; Normalize repacks positions

package reorder

import (
	"sort"

	"github.com/google/uuid"
	"github.com/harper/todo/internal/models"
)

// CompletedPosition is stored on completed tasks. It carries no ordering
// meaning; completed tasks are ordered by completion time instead.
const CompletedPosition = -1

// Section ranks. Ungrouped tasks come first, then tasks whose section is not
// in the known section list, then real sections by their position.
const (
	rankUngrouped  = 0
	rankUnresolved = 1
	rankResolved   = 2
)

type sectionKey struct {
	class    int
	position int
	id       string
}

func (a sectionKey) less(b sectionKey) bool {
	if a.class != b.class {
		return a.class < b.class
	}
	if a.position != b.position {
		return a.position < b.position
	}
	return a.id < b.id
}

// sectionIndex maps section ids to their ordering keys.
type sectionIndex map[uuid.UUID]sectionKey

func indexSections(sections []models.Section) sectionIndex {
	idx := make(sectionIndex, len(sections))
	for _, s := range sections {
		idx[s.ID] = sectionKey{class: rankResolved, position: s.Position, id: s.ID.String()}
	}
	return idx
}

func (idx sectionIndex) key(id *uuid.UUID) sectionKey {
	if id == nil {
		return sectionKey{class: rankUngrouped}
	}
	if k, ok := idx[*id]; ok {
		return k
	}
	return sectionKey{class: rankUnresolved, id: id.String()}
}

// has reports whether id is nil (ungrouped) or a known section.
func (idx sectionIndex) has(id *uuid.UUID) bool {
	if id == nil {
		return true
	}
	_, ok := idx[*id]
	return ok
}

// Sort returns tasks in display order: by section, incomplete before
// completed, incomplete by position ascending, completed newest first.
// The sort is stable.
func Sort(tasks []models.Task, sections []models.Section) []models.Task {
	idx := indexSections(sections)
	out := cloneTasks(tasks)
	sort.SliceStable(out, func(i, j int) bool {
		return taskLess(idx, out[i], out[j])
	})
	return out
}

func taskLess(idx sectionIndex, a, b models.Task) bool {
	ka, kb := idx.key(a.SectionID), idx.key(b.SectionID)
	if ka != kb {
		return ka.less(kb)
	}
	if a.IsCompleted() != b.IsCompleted() {
		return !a.IsCompleted()
	}
	if a.IsCompleted() {
		return a.CompletedAt.After(*b.CompletedAt)
	}
	return a.Position < b.Position
}

// Normalize renumbers the incomplete tasks of every section 0..n-1, keeping
// their relative order, and marks completed tasks with CompletedPosition.
// The result is sorted. Normalize is idempotent.
func Normalize(tasks []models.Task, sections []models.Section) []models.Task {
	out := cloneTasks(tasks)

	// Stable by position so ties keep input order.
	order := make([]int, len(out))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return out[order[i]].Position < out[order[j]].Position
	})

	next := make(map[sectionKey]int)
	idx := indexSections(sections)
	for _, i := range order {
		if out[i].IsCompleted() {
			out[i].Position = CompletedPosition
			continue
		}
		k := idx.key(out[i].SectionID)
		out[i].Position = next[k]
		next[k]++
	}

	return Sort(out, sections)
}

// siblings returns the incomplete tasks of a section ordered by position.
func siblings(tasks []models.Task, sectionID *uuid.UUID) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if !t.IsCompleted() && t.InSection(sectionID) {
			out = append(out, t.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	return out
}

// renumber assigns list positions 0..n-1 in slice order.
func renumber(list []models.Task) {
	for i := range list {
		list[i].Position = i
	}
}

// merge replaces tasks in base with same-id tasks from the updates.
func merge(base []models.Task, updates ...[]models.Task) []models.Task {
	byID := make(map[uuid.UUID]models.Task)
	for _, list := range updates {
		for _, t := range list {
			byID[t.ID] = t
		}
	}
	out := make([]models.Task, len(base))
	for i, t := range base {
		if u, ok := byID[t.ID]; ok {
			out[i] = u.Clone()
			continue
		}
		out[i] = t.Clone()
	}
	return out
}

func indexOf(tasks []models.Task, id uuid.UUID) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func cloneTasks(tasks []models.Task) []models.Task {
	out := make([]models.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
