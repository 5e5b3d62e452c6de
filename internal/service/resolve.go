// ABOUTME: Resolves user-supplied references to tasks and sections
// ABOUTME: Accepts a full id, a unique id prefix, or a case-insensitive title

package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harper/todo/internal/models"
	"github.com/harper/todo/internal/storage"
)

// ErrAmbiguous is returned when a reference matches more than one entity.
var ErrAmbiguous = errors.New("ambiguous reference")

// minPrefix is the shortest id prefix accepted as a reference.
const minPrefix = 4

func hasIDPrefix(id uuid.UUID, ref string) bool {
	return len(ref) >= minPrefix && strings.HasPrefix(id.String(), strings.ToLower(ref))
}

// ResolveTask picks the task that ref names. A full id wins outright; then
// an exact title match; then a unique id prefix.
func ResolveTask(tasks []models.Task, ref string) (models.Task, error) {
	ref = strings.TrimSpace(ref)
	if id, err := uuid.Parse(ref); err == nil {
		if t, ok := findTask(tasks, id); ok {
			return t, nil
		}
		return models.Task{}, fmt.Errorf("task %q: %w", ref, storage.ErrNotFound)
	}

	match := func(f func(models.Task) bool) ([]models.Task, error) {
		var out []models.Task
		for _, t := range tasks {
			if f(t) {
				out = append(out, t)
			}
		}
		if len(out) > 1 {
			return nil, fmt.Errorf("task %q matches %d tasks: %w", ref, len(out), ErrAmbiguous)
		}
		return out, nil
	}

	byTitle, err := match(func(t models.Task) bool { return strings.EqualFold(t.Title, ref) })
	if err != nil {
		return models.Task{}, err
	}
	if len(byTitle) == 1 {
		return byTitle[0], nil
	}

	byPrefix, err := match(func(t models.Task) bool { return hasIDPrefix(t.ID, ref) })
	if err != nil {
		return models.Task{}, err
	}
	if len(byPrefix) == 1 {
		return byPrefix[0], nil
	}
	return models.Task{}, fmt.Errorf("task %q: %w", ref, storage.ErrNotFound)
}

// ResolveSection picks the section that ref names, the same way ResolveTask does.
func ResolveSection(sections []models.Section, ref string) (models.Section, error) {
	ref = strings.TrimSpace(ref)
	if id, err := uuid.Parse(ref); err == nil {
		if sec, ok := findSection(sections, id); ok {
			return sec, nil
		}
		return models.Section{}, fmt.Errorf("section %q: %w", ref, storage.ErrNotFound)
	}

	var found []models.Section
	for _, sec := range sections {
		if strings.EqualFold(sec.Name, ref) {
			found = append(found, sec)
		}
	}
	if len(found) == 0 {
		for _, sec := range sections {
			if hasIDPrefix(sec.ID, ref) {
				found = append(found, sec)
			}
		}
	}

	switch len(found) {
	case 0:
		return models.Section{}, fmt.Errorf("section %q: %w", ref, storage.ErrNotFound)
	case 1:
		return found[0], nil
	default:
		return models.Section{}, fmt.Errorf("section %q matches %d sections: %w", ref, len(found), ErrAmbiguous)
	}
}
