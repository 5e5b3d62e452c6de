// ABOUTME: Data migration between todo storage backends
// ABOUTME: Copies projects, sections and tasks from source to destination repository

package storage

import (
	"context"
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Projects int
	Sections int
	Tasks    int
}

// MigrateData copies all data from src to dst storage. Ids, positions and
// timestamps are preserved. The destination should be empty before calling
// this function.
func MigrateData(ctx context.Context, src, dst Repository) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	projects, err := src.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list source projects: %w", err)
	}

	for _, project := range projects {
		sections, err := src.ListSections(ctx, project.ID)
		if err != nil {
			return nil, fmt.Errorf("list sections for project %q: %w", project.Name, err)
		}
		tasks, err := src.ListTasks(ctx, project.ID)
		if err != nil {
			return nil, fmt.Errorf("list tasks for project %q: %w", project.Name, err)
		}

		if err := dst.CreateProject(ctx, project); err != nil {
			return nil, fmt.Errorf("create project %q: %w", project.Name, err)
		}
		batch := &Batch{
			ProjectID:      project.ID,
			CreateSections: sections,
			CreateTasks:    tasks,
		}
		if err := dst.Apply(ctx, batch); err != nil {
			return nil, fmt.Errorf("copy project %q: %w", project.Name, err)
		}

		summary.Projects++
		summary.Sections += len(sections)
		summary.Tasks += len(tasks)
	}

	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
