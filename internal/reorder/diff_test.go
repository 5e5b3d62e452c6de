// ABOUTME: Tests for task and section diffing
// ABOUTME: Verifies create, patch and delete sets between two collections

package reorder

import (
	"testing"

	"github.com/harper/todo/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffTasks_MoveProducesPositionAndSectionPatches(t *testing.T) {
	b := newBoard("one")
	b.add("", "u0", "u1").add("one", "a0", "a1")

	after := Move(b.tasks, b.sections, b.id("u0"), b.section("one"), 1)
	c := DiffTasks(b.tasks, after)

	assert.Empty(t, c.Created)
	assert.Empty(t, c.Deleted)

	patches := map[string]models.TaskPatch{}
	for _, p := range c.Updated {
		patches[find(t, after, p.ID).Title] = p
	}
	require.Len(t, patches, 3, "u0 moved, u1 and a1 shifted")

	u0 := patches["u0"]
	assert.True(t, u0.Has(models.TaskFieldSection))
	assert.Equal(t, b.sid("one"), *u0.SectionID)
	assert.Equal(t, 1, u0.Position)
	assert.False(t, u0.Has(models.TaskFieldTitle))

	assert.Equal(t, models.TaskFieldPosition, patches["u1"].Fields)
	assert.Equal(t, 0, patches["u1"].Position)
	assert.Equal(t, 2, patches["a1"].Position)
}

func TestDiffTasks_CreateAndDelete(t *testing.T) {
	b := newBoard()
	b.add("", "a", "b")
	added := *models.NewTask(testProject, nil, "c")

	after := Create(Delete(b.tasks, nil, b.id("a")), nil, added)
	c := DiffTasks(b.tasks, after)

	require.Len(t, c.Created, 1)
	assert.Equal(t, "c", c.Created[0].Title)
	assert.Equal(t, b.ids("a"), c.Deleted)
	require.Len(t, c.Updated, 1)
	assert.Equal(t, b.id("b"), c.Updated[0].ID)
}

func TestDiffTasks_CompletionPatch(t *testing.T) {
	b := newBoard()
	b.add("", "a")

	done := Complete(b.tasks, nil, b.id("a"), at(4))
	c := DiffTasks(b.tasks, done)

	require.Len(t, c.Updated, 1)
	p := c.Updated[0]
	assert.True(t, p.Has(models.TaskFieldCompletedAt))
	assert.True(t, p.CompletedAt.Equal(at(4)))
	assert.Equal(t, CompletedPosition, p.Position)

	assert.True(t, DiffTasks(done, done).Empty())
}

func TestDiffSections(t *testing.T) {
	b := newBoard("a", "b", "c")

	after := DeleteSection(MoveSection(b.sections, b.sid("c"), 0), b.sid("a"))
	c := DiffSections(b.sections, after)

	assert.Empty(t, c.Created)
	assert.Equal(t, []string{b.sid("a").String()}, []string{c.Deleted[0].String()})
	// c: 2 -> 0, b: 1 -> 1 (unchanged)
	require.Len(t, c.Updated, 1)
	assert.Equal(t, b.sid("c"), c.Updated[0].ID)
	assert.Equal(t, 0, c.Updated[0].Position)
}
