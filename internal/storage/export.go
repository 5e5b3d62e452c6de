// ABOUTME: Export and import functionality for todo data
// ABOUTME: Supports YAML backup format and markdown board export

package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harper/todo/internal/models"
	"github.com/harper/todo/internal/reorder"
	"gopkg.in/yaml.v3"
)

// BackupVersion is the current backup format version.
const BackupVersion = "1.0"

// backupTool tags backups written by this program.
const backupTool = "todo"

// Backup represents the YAML backup format.
type Backup struct {
	Version    string          `yaml:"version"`
	ExportedAt time.Time       `yaml:"exported_at"`
	Tool       string          `yaml:"tool"`
	Projects   []ProjectBackup `yaml:"projects"`
}

// ProjectBackup is a project with everything it owns.
type ProjectBackup struct {
	ID        string          `yaml:"id"`
	Name      string          `yaml:"name"`
	CreatedAt time.Time       `yaml:"created_at"`
	Sections  []SectionBackup `yaml:"sections,omitempty"`
	Tasks     []TaskBackup    `yaml:"tasks,omitempty"`
}

// SectionBackup represents a section in the backup format.
type SectionBackup struct {
	ID        string    `yaml:"id"`
	Name      string    `yaml:"name"`
	Position  int       `yaml:"position"`
	CreatedAt time.Time `yaml:"created_at"`
}

// TaskBackup represents a task in the backup format.
type TaskBackup struct {
	ID          string     `yaml:"id"`
	SectionID   string     `yaml:"section_id,omitempty"`
	Title       string     `yaml:"title"`
	Position    int        `yaml:"position"`
	CompletedAt *time.Time `yaml:"completed_at,omitempty"`
	CreatedAt   time.Time  `yaml:"created_at"`
}

// Board is one project's sections and tasks in display order.
type Board struct {
	Project  *models.Project
	Sections []models.Section
	Tasks    []models.Task
}

// LoadBoard reads a project and returns it in display order.
func LoadBoard(ctx context.Context, repo Repository, project *models.Project) (*Board, error) {
	sections, err := repo.ListSections(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("list sections for %s: %w", project.Name, err)
	}
	tasks, err := repo.ListTasks(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("list tasks for %s: %w", project.Name, err)
	}
	sections = reorder.SortSections(sections)
	return &Board{
		Project:  project,
		Sections: sections,
		Tasks:    reorder.Sort(tasks, sections),
	}, nil
}

// Unfiled returns tasks whose section is not on the board, in display order.
func (b *Board) Unfiled() []models.Task {
	known := make(map[uuid.UUID]bool, len(b.Sections))
	for _, sec := range b.Sections {
		known[sec.ID] = true
	}
	var out []models.Task
	for _, t := range b.Tasks {
		if t.SectionID != nil && !known[*t.SectionID] {
			out = append(out, t)
		}
	}
	return out
}

// UnfiledHeading titles the group of tasks whose section no longer exists.
const UnfiledHeading = "(missing section)"

// ExportToYAML exports all data to YAML format.
func ExportToYAML(ctx context.Context, repo Repository) ([]byte, error) {
	projects, err := repo.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	backup := Backup{
		Version:    BackupVersion,
		ExportedAt: time.Now().UTC(),
		Tool:       backupTool,
		Projects:   make([]ProjectBackup, len(projects)),
	}

	for i, project := range projects {
		board, err := LoadBoard(ctx, repo, project)
		if err != nil {
			return nil, err
		}
		pb := ProjectBackup{
			ID:        project.ID.String(),
			Name:      project.Name,
			CreatedAt: project.CreatedAt,
		}
		for _, sec := range board.Sections {
			pb.Sections = append(pb.Sections, SectionBackup{
				ID:        sec.ID.String(),
				Name:      sec.Name,
				Position:  sec.Position,
				CreatedAt: sec.CreatedAt,
			})
		}
		for _, t := range board.Tasks {
			tb := TaskBackup{
				ID:          t.ID.String(),
				Title:       t.Title,
				Position:    t.Position,
				CompletedAt: t.CompletedAt,
				CreatedAt:   t.CreatedAt,
			}
			if t.SectionID != nil {
				tb.SectionID = t.SectionID.String()
			}
			pb.Tasks = append(pb.Tasks, tb)
		}
		backup.Projects[i] = pb
	}

	return yaml.Marshal(backup)
}

// ImportFromYAML restores data from YAML format. Each project is written
// with one batch so a failed project leaves nothing half-imported.
func ImportFromYAML(ctx context.Context, repo Repository, data []byte) error {
	var backup Backup
	if err := yaml.Unmarshal(data, &backup); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}

	if backup.Version != BackupVersion {
		return fmt.Errorf("unsupported backup version: %s (expected %s)", backup.Version, BackupVersion)
	}

	if backup.Tool != backupTool {
		return fmt.Errorf("wrong tool: %s (expected %s)", backup.Tool, backupTool)
	}

	for _, pb := range backup.Projects {
		project, batch, err := pb.restore()
		if err != nil {
			return err
		}
		if err := repo.CreateProject(ctx, project); err != nil {
			return fmt.Errorf("create project %s: %w", project.Name, err)
		}
		if err := repo.Apply(ctx, batch); err != nil {
			return fmt.Errorf("restore project %s: %w", project.Name, err)
		}
	}

	return nil
}

func (pb ProjectBackup) restore() (*models.Project, *Batch, error) {
	id, err := uuid.Parse(pb.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid project ID %s: %w", pb.ID, err)
	}
	project := &models.Project{ID: id, Name: pb.Name, CreatedAt: pb.CreatedAt}
	batch := &Batch{ProjectID: id}

	for _, sb := range pb.Sections {
		sid, err := uuid.Parse(sb.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid section ID %s: %w", sb.ID, err)
		}
		batch.CreateSections = append(batch.CreateSections, models.Section{
			ID:        sid,
			ProjectID: id,
			Name:      sb.Name,
			Position:  sb.Position,
			CreatedAt: sb.CreatedAt,
		})
	}

	for _, tb := range pb.Tasks {
		tid, err := uuid.Parse(tb.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid task ID %s: %w", tb.ID, err)
		}
		task := models.Task{
			ID:          tid,
			ProjectID:   id,
			Title:       tb.Title,
			Position:    tb.Position,
			CompletedAt: tb.CompletedAt,
			CreatedAt:   tb.CreatedAt,
		}
		if tb.SectionID != "" {
			sid, err := uuid.Parse(tb.SectionID)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid section ID %s: %w", tb.SectionID, err)
			}
			task.SectionID = &sid
		}
		batch.CreateTasks = append(batch.CreateTasks, task)
	}

	return project, batch, nil
}

// ExportToMarkdown renders boards as markdown checklists.
// If projectID is nil, exports all projects.
func ExportToMarkdown(ctx context.Context, repo Repository, projectID *uuid.UUID) ([]byte, error) {
	var projects []*models.Project
	if projectID != nil {
		project, err := repo.GetProject(ctx, *projectID)
		if err != nil {
			return nil, err
		}
		projects = []*models.Project{project}
	} else {
		var err error
		projects, err = repo.ListProjects(ctx)
		if err != nil {
			return nil, err
		}
	}

	var sb strings.Builder

	now := time.Now().UTC()
	sb.WriteString(fmt.Sprintf("# Todo Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	if len(projects) == 0 {
		sb.WriteString("No projects.\n")
		return []byte(sb.String()), nil
	}

	for _, project := range projects {
		board, err := LoadBoard(ctx, repo, project)
		if err != nil {
			return nil, err
		}
		writeBoardMarkdown(&sb, board)
	}

	return []byte(sb.String()), nil
}

func writeBoardMarkdown(sb *strings.Builder, board *Board) {
	sb.WriteString(fmt.Sprintf("## %s\n\n", board.Project.Name))

	if len(board.Tasks) == 0 && len(board.Sections) == 0 {
		sb.WriteString("No tasks.\n\n")
		return
	}

	writeTask := func(t models.Task) {
		box := " "
		if t.IsCompleted() {
			box = "x"
		}
		sb.WriteString(fmt.Sprintf("- [%s] %s\n", box, t.Title))
	}
	writeTasks := func(sectionID *uuid.UUID) {
		for _, t := range board.Tasks {
			if t.InSection(sectionID) {
				writeTask(t)
			}
		}
	}

	writeTasks(nil)
	sb.WriteString("\n")
	if unfiled := board.Unfiled(); len(unfiled) > 0 {
		sb.WriteString(fmt.Sprintf("### %s\n\n", UnfiledHeading))
		for _, t := range unfiled {
			writeTask(t)
		}
		sb.WriteString("\n")
	}
	for _, sec := range board.Sections {
		id := sec.ID
		sb.WriteString(fmt.Sprintf("### %s\n\n", sec.Name))
		writeTasks(&id)
		sb.WriteString("\n")
	}
}

// ExportBackup creates a YAML backup (alias for ExportToYAML).
func ExportBackup(ctx context.Context, repo Repository) ([]byte, error) {
	return ExportToYAML(ctx, repo)
}

// ImportBackup restores from a YAML backup (alias for ImportFromYAML).
func ImportBackup(ctx context.Context, repo Repository, data []byte) error {
	return ImportFromYAML(ctx, repo, data)
}
