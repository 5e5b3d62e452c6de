// ABOUTME: Typed partial updates for tasks and sections
// ABOUTME: A patch names exactly which fields change so stores write only those

package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskField identifies a mutable task field.
type TaskField uint8

const (
	TaskFieldTitle TaskField = 1 << iota
	TaskFieldSection
	TaskFieldPosition
	TaskFieldCompletedAt
)

// TaskPatch is a partial update of a single task. Only fields named in
// Fields are applied; the others are ignored even if set.
type TaskPatch struct {
	ID          uuid.UUID
	Fields      TaskField
	Title       string
	SectionID   *uuid.UUID
	Position    int
	CompletedAt *time.Time
}

// Has reports whether the patch sets field f.
func (p TaskPatch) Has(f TaskField) bool {
	return p.Fields&f != 0
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Fields == 0
}

// Apply returns a copy of t with the patch applied.
func (p TaskPatch) Apply(t Task) Task {
	t = t.Clone()
	if p.Has(TaskFieldTitle) {
		t.Title = p.Title
	}
	if p.Has(TaskFieldSection) {
		t.SectionID = CloneID(p.SectionID)
	}
	if p.Has(TaskFieldPosition) {
		t.Position = p.Position
	}
	if p.Has(TaskFieldCompletedAt) {
		t.CompletedAt = CloneTime(p.CompletedAt)
	}
	return t
}

// SectionField identifies a mutable section field.
type SectionField uint8

const (
	SectionFieldName SectionField = 1 << iota
	SectionFieldPosition
)

// SectionPatch is a partial update of a single section.
type SectionPatch struct {
	ID       uuid.UUID
	Fields   SectionField
	Name     string
	Position int
}

// Has reports whether the patch sets field f.
func (p SectionPatch) Has(f SectionField) bool {
	return p.Fields&f != 0
}

// Empty reports whether the patch changes nothing.
func (p SectionPatch) Empty() bool {
	return p.Fields == 0
}

// Apply returns a copy of s with the patch applied.
func (p SectionPatch) Apply(s Section) Section {
	if p.Has(SectionFieldName) {
		s.Name = p.Name
	}
	if p.Has(SectionFieldPosition) {
		s.Position = p.Position
	}
	return s
}
