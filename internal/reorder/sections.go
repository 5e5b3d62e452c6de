// ABOUTME: Section ordering within a project
// ABOUTME: Sections form one flat dense list per project with no completion partition

package reorder

import (
	"sort"

	"github.com/google/uuid"
	"github.com/harper/todo/internal/models"
)

// SortSections orders sections by project, then position. Stable.
func SortSections(sections []models.Section) []models.Section {
	out := append([]models.Section(nil), sections...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ProjectID != out[j].ProjectID {
			return out[i].ProjectID.String() < out[j].ProjectID.String()
		}
		return out[i].Position < out[j].Position
	})
	return out
}

// NormalizeSections renumbers each project's sections 0..m-1 in their
// current order.
func NormalizeSections(sections []models.Section) []models.Section {
	out := SortSections(sections)
	next := make(map[uuid.UUID]int)
	for i := range out {
		out[i].Position = next[out[i].ProjectID]
		next[out[i].ProjectID]++
	}
	return out
}

func sectionIndexOf(sections []models.Section, id uuid.UUID) int {
	for i, s := range sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// CreateSection appends section after its project's last section. A
// duplicate id leaves sections unchanged.
func CreateSection(sections []models.Section, section models.Section) []models.Section {
	if sectionIndexOf(sections, section.ID) >= 0 {
		return sections
	}
	next := 0
	for _, s := range sections {
		if s.ProjectID == section.ProjectID && s.Position >= next {
			next = s.Position + 1
		}
	}
	section.Position = next
	return NormalizeSections(append(append([]models.Section(nil), sections...), section))
}

// UpdateSection applies the name of patch. Position changes go through MoveSection.
func UpdateSection(sections []models.Section, patch models.SectionPatch) []models.Section {
	i := sectionIndexOf(sections, patch.ID)
	if i < 0 || !patch.Has(models.SectionFieldName) {
		return sections
	}
	out := append([]models.Section(nil), sections...)
	out[i].Name = patch.Name
	return NormalizeSections(out)
}

// MoveSection moves section id to toIndex among its project's sections.
func MoveSection(sections []models.Section, id uuid.UUID, toIndex int) []models.Section {
	i := sectionIndexOf(sections, id)
	if i < 0 {
		return sections
	}
	projectID := sections[i].ProjectID

	var list, others []models.Section
	for _, s := range SortSections(sections) {
		if s.ProjectID == projectID {
			list = append(list, s)
			continue
		}
		others = append(others, s)
	}

	from := sectionIndexOf(list, id)
	if from == clamp(toIndex, 0, len(list)-1) {
		return sections
	}
	list = MoveWithin(list, from, toIndex)
	for k := range list {
		list[k].Position = k
	}
	return NormalizeSections(append(others, list...))
}

// DeleteSection removes section id and closes the gap. Its tasks are not
// touched; see DeleteInSection.
func DeleteSection(sections []models.Section, id uuid.UUID) []models.Section {
	i := sectionIndexOf(sections, id)
	if i < 0 {
		return sections
	}
	out := make([]models.Section, 0, len(sections)-1)
	out = append(out, sections[:i]...)
	out = append(out, sections[i+1:]...)
	return NormalizeSections(out)
}
