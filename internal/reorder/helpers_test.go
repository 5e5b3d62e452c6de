// ABOUTME: Shared fixtures for reorder tests
// ABOUTME: Builds named boards and checks position density

package reorder

import (
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harper/todo/internal/models"
	"github.com/stretchr/testify/require"
)

var testProject = uuid.MustParse("00000000-0000-0000-0000-0000000000aa")

// board is a small fixture: named sections and tasks addressed by title.
type board struct {
	sections []models.Section
	tasks    []models.Task
	byTitle  map[string]uuid.UUID
	byName   map[string]uuid.UUID
}

func newBoard(sectionNames ...string) *board {
	b := &board{byTitle: map[string]uuid.UUID{}, byName: map[string]uuid.UUID{}}
	for i, name := range sectionNames {
		s := models.Section{ID: uuid.New(), ProjectID: testProject, Name: name, Position: i}
		b.sections = append(b.sections, s)
		b.byName[name] = s.ID
	}
	return b
}

// section returns the id pointer for a section name; "" means ungrouped.
func (b *board) section(name string) *uuid.UUID {
	if name == "" {
		return nil
	}
	id := b.byName[name]
	return &id
}

func (b *board) add(section string, titles ...string) *board {
	for _, title := range titles {
		pos := 0
		for _, t := range b.tasks {
			if !t.IsCompleted() && t.InSection(b.section(section)) {
				pos++
			}
		}
		task := models.Task{ID: uuid.New(), ProjectID: testProject, SectionID: b.section(section), Title: title, Position: pos}
		b.tasks = append(b.tasks, task)
		b.byTitle[title] = task.ID
	}
	return b
}

func (b *board) id(title string) uuid.UUID {
	return b.byTitle[title]
}

// sid returns the id of a section by name.
func (b *board) sid(name string) uuid.UUID {
	return b.byName[name]
}

func (b *board) ids(titles ...string) []uuid.UUID {
	out := make([]uuid.UUID, len(titles))
	for i, title := range titles {
		out[i] = b.id(title)
	}
	return out
}

// titlesIn lists the incomplete titles of a section in position order.
func titlesIn(tasks []models.Task, section *uuid.UUID) []string {
	var list []models.Task
	for _, t := range tasks {
		if !t.IsCompleted() && t.InSection(section) {
			list = append(list, t)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Position < list[j].Position })
	out := make([]string, len(list))
	for i, t := range list {
		out[i] = t.Title
	}
	return out
}

func find(t *testing.T, tasks []models.Task, id uuid.UUID) models.Task {
	t.Helper()
	i := indexOf(tasks, id)
	require.GreaterOrEqual(t, i, 0, "task %s not found", id)
	return tasks[i]
}

// requireDense checks that every section's incomplete positions are exactly 0..n-1.
func requireDense(t *testing.T, tasks []models.Task) {
	t.Helper()
	groups := map[string][]int{}
	for _, task := range tasks {
		if task.IsCompleted() {
			require.Equal(t, CompletedPosition, task.Position, "completed task %q", task.Title)
			continue
		}
		key := "ungrouped"
		if task.SectionID != nil {
			key = task.SectionID.String()
		}
		groups[key] = append(groups[key], task.Position)
	}
	for key, positions := range groups {
		sort.Ints(positions)
		for i, p := range positions {
			require.Equal(t, i, p, "section %s positions %v", key, positions)
		}
	}
}

func idSet(tasks []models.Task) map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(tasks))
	for _, t := range tasks {
		out[t.ID]++
	}
	return out
}

func at(minute int) time.Time {
	return time.Date(2024, 6, 1, 12, minute, 0, 0, time.UTC)
}
