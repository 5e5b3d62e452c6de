// ABOUTME: Tests for section ordering operations
// ABOUTME: Covers create, move, rename and delete of sections

package reorder

import (
	"testing"

	"github.com/google/uuid"
	"github.com/harper/todo/internal/models"
	"github.com/stretchr/testify/assert"
)

func sectionNames(sections []models.Section, projectID uuid.UUID) []string {
	var out []string
	for _, s := range SortSections(sections) {
		if s.ProjectID == projectID {
			out = append(out, s.Name)
		}
	}
	return out
}

func TestCreateSection_AppendsPerProject(t *testing.T) {
	other := uuid.New()
	b := newBoard("a", "b")

	got := CreateSection(b.sections, *models.NewSection(testProject, "c"))
	got = CreateSection(got, *models.NewSection(other, "elsewhere"))

	assert.Equal(t, []string{"a", "b", "c"}, sectionNames(got, testProject))
	for _, s := range got {
		if s.ProjectID == other {
			assert.Equal(t, 0, s.Position)
		}
	}
}

func TestMoveSection(t *testing.T) {
	b := newBoard("a", "b", "c", "d")

	got := MoveSection(b.sections, b.sid("d"), 1)
	assert.Equal(t, []string{"a", "d", "b", "c"}, sectionNames(got, testProject))

	got = MoveSection(b.sections, b.sid("a"), 99)
	assert.Equal(t, []string{"b", "c", "d", "a"}, sectionNames(got, testProject))

	assert.Equal(t, b.sections, MoveSection(b.sections, b.sid("b"), 1))
	assert.Equal(t, b.sections, MoveSection(b.sections, uuid.New(), 0))
}

func TestMoveSection_ReordersTasks(t *testing.T) {
	b := newBoard("a", "b")
	b.add("a", "ta").add("b", "tb")

	sections := MoveSection(b.sections, b.sid("b"), 0)
	got := Sort(b.tasks, sections)

	assert.Equal(t, "tb", got[0].Title)
	assert.Equal(t, "ta", got[1].Title)
}

func TestDeleteSection_ClosesGap(t *testing.T) {
	b := newBoard("a", "b", "c")

	got := DeleteSection(b.sections, b.sid("b"))

	assert.Equal(t, []string{"a", "c"}, sectionNames(got, testProject))
	for i, s := range SortSections(got) {
		assert.Equal(t, i, s.Position)
	}
	assert.Equal(t, b.sections, DeleteSection(b.sections, uuid.New()))
}

func TestUpdateSection(t *testing.T) {
	b := newBoard("a")

	got := UpdateSection(b.sections, models.SectionPatch{ID: b.sid("a"), Fields: models.SectionFieldName, Name: "z"})

	assert.Equal(t, []string{"z"}, sectionNames(got, testProject))
	assert.Equal(t, "a", b.sections[0].Name)
}
