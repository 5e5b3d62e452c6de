// ABOUTME: SQLite storage implementation for projects, sections and tasks
// ABOUTME: Provides local-only persistence using pure Go SQLite driver

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harper/todo/internal/models"
	_ "modernc.org/sqlite"
)

// SQLiteDB implements Repository with a local SQLite database.
type SQLiteDB struct {
	db   *sql.DB
	path string
	hub  *hub

	// pollInterval is how often subscriptions check for commits made by
	// other connections, including other processes.
	pollInterval time.Duration
}

// defaultPollInterval paces the data_version check behind Subscribe.
const defaultPollInterval = 250 * time.Millisecond

// Compile-time check that SQLiteDB implements Repository.
var _ Repository = (*SQLiteDB)(nil)

// DefaultDBPath returns the default database path.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".local", "share", "todo", "todo.db")
}

// NewSQLiteDB creates a new SQLite database at the given path.
// Creates the directory and database file if they don't exist.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil { //nolint:gosec // 0750 is appropriate for user data directory
		return nil, fmt.Errorf("create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &SQLiteDB{db: db, path: path, hub: newHub(), pollInterval: defaultPollInterval}

	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// migrate creates or updates the database schema.
func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS sections (
			id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			position INTEGER NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			section_id TEXT REFERENCES sections(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			position INTEGER NOT NULL,
			completed_at DATETIME,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_sections_project_id ON sections(project_id);
		CREATE INDEX IF NOT EXISTS idx_tasks_project_id ON tasks(project_id);
		CREATE INDEX IF NOT EXISTS idx_tasks_section_id ON tasks(section_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Reset clears all data from the database.
func (s *SQLiteDB) Reset() error {
	_, err := s.db.Exec("DELETE FROM tasks; DELETE FROM sections; DELETE FROM projects;")
	return err
}

// --- Projects ---

// CreateProject creates a new project. Names are unique.
func (s *SQLiteDB) CreateProject(ctx context.Context, project *models.Project) error {
	if _, err := s.GetProjectByName(ctx, project.Name); err == nil {
		return fmt.Errorf("project %q: %w", project.Name, ErrDuplicate)
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO projects (id, name, created_at) VALUES (?, ?, ?)",
		project.ID.String(), project.Name, project.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// GetProject retrieves a project by its UUID.
func (s *SQLiteDB) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM projects WHERE id = ?",
		id.String(),
	)
	return scanProject(row)
}

// GetProjectByName retrieves a project by its name.
func (s *SQLiteDB) GetProjectByName(ctx context.Context, name string) (*models.Project, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM projects WHERE name = ?",
		name,
	)
	return scanProject(row)
}

// ListProjects returns all projects sorted by name.
func (s *SQLiteDB) ListProjects(ctx context.Context) ([]*models.Project, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, created_at FROM projects ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var projects []*models.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// DeleteProject removes a project (sections and tasks cascade delete automatically).
func (s *SQLiteDB) DeleteProject(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	s.hub.publish(id)
	return nil
}

// --- Sections and tasks ---

// GetSection retrieves a section by its UUID.
func (s *SQLiteDB) GetSection(ctx context.Context, id uuid.UUID) (*models.Section, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, project_id, name, position, created_at FROM sections WHERE id = ?",
		id.String(),
	)
	section, err := scanSection(row)
	if err != nil {
		return nil, err
	}
	return &section, nil
}

// ListSections returns a project's sections ordered by position.
func (s *SQLiteDB) ListSections(ctx context.Context, projectID uuid.UUID) ([]models.Section, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, name, position, created_at
		 FROM sections WHERE project_id = ? ORDER BY position, created_at`,
		projectID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("query sections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sections []models.Section
	for rows.Next() {
		section, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		sections = append(sections, section)
	}
	return sections, rows.Err()
}

// GetTask retrieves a task by its UUID.
func (s *SQLiteDB) GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, project_id, section_id, title, position, completed_at, created_at
		 FROM tasks WHERE id = ?`,
		id.String(),
	)
	task, err := scanTask(row)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// ListTasks returns all of a project's tasks. Order is unspecified; callers
// sort with reorder.Sort.
func (s *SQLiteDB) ListTasks(ctx context.Context, projectID uuid.UUID) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, section_id, title, position, completed_at, created_at
		 FROM tasks WHERE project_id = ? ORDER BY position, created_at`,
		projectID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// Apply writes the batch in a single transaction.
func (s *SQLiteDB) Apply(ctx context.Context, batch *Batch) error {
	if batch.Empty() {
		return nil
	}
	if err := batch.validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	project := batch.ProjectID.String()
	for _, id := range batch.DeleteTasks {
		if _, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE id = ? AND project_id = ?", id.String(), project); err != nil {
			return fmt.Errorf("delete task %s: %w", id, err)
		}
	}
	for _, id := range batch.DeleteSections {
		if _, err := tx.ExecContext(ctx, "DELETE FROM sections WHERE id = ? AND project_id = ?", id.String(), project); err != nil {
			return fmt.Errorf("delete section %s: %w", id, err)
		}
	}
	for _, sec := range batch.CreateSections {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO sections (id, project_id, name, position, created_at) VALUES (?, ?, ?, ?, ?)",
			sec.ID.String(), project, sec.Name, sec.Position, sec.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert section: %w", err)
		}
	}
	for _, t := range batch.CreateTasks {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO tasks (id, project_id, section_id, title, position, completed_at, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.ID.String(), project, nullableID(t.SectionID), t.Title, t.Position,
			nullableTime(t.CompletedAt), t.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
	}
	for _, p := range batch.UpdateSections {
		query, args := sectionUpdate(p, project)
		if query == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update section %s: %w", p.ID, err)
		}
	}
	for _, p := range batch.UpdateTasks {
		query, args := taskUpdate(p, project)
		if query == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update task %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.hub.publish(batch.ProjectID)
	return nil
}

// Subscribe streams snapshots of a project. Writes through this handle wake
// subscribers at once; commits from other connections and processes are
// picked up by polling PRAGMA data_version on a dedicated connection.
func (s *SQLiteDB) Subscribe(ctx context.Context, projectID uuid.UUID) (<-chan Snapshot, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("open watch connection: %w", err)
	}
	version, err := dataVersion(ctx, conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	ch, err := s.hub.subscribe(ctx, projectID, s.loadProject)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	go s.pollCommits(ctx, conn, projectID, version)
	return ch, nil
}

// pollCommits publishes projectID whenever data_version moves. The value
// only changes when a different connection commits, so conn must stay
// read-only and private to this loop.
func (s *SQLiteDB) pollCommits(ctx context.Context, conn *sql.Conn, projectID uuid.UUID, version int64) {
	defer func() { _ = conn.Close() }()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		current, err := dataVersion(ctx, conn)
		if err != nil {
			// Closed database or cancelled context; either way stop.
			return
		}
		if current != version {
			version = current
			s.hub.publish(projectID)
		}
	}
}

func dataVersion(ctx context.Context, conn *sql.Conn) (int64, error) {
	var version int64
	if err := conn.QueryRowContext(ctx, "PRAGMA data_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("read data_version: %w", err)
	}
	return version, nil
}

func (s *SQLiteDB) loadProject(ctx context.Context, projectID uuid.UUID) ([]models.Section, []models.Task, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, nil, err
	}
	sections, err := s.ListSections(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	tasks, err := s.ListTasks(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	return sections, tasks, nil
}

func taskUpdate(p models.TaskPatch, project string) (string, []any) {
	var sets []string
	var args []any
	if p.Has(models.TaskFieldTitle) {
		sets = append(sets, "title = ?")
		args = append(args, p.Title)
	}
	if p.Has(models.TaskFieldSection) {
		sets = append(sets, "section_id = ?")
		args = append(args, nullableID(p.SectionID))
	}
	if p.Has(models.TaskFieldPosition) {
		sets = append(sets, "position = ?")
		args = append(args, p.Position)
	}
	if p.Has(models.TaskFieldCompletedAt) {
		sets = append(sets, "completed_at = ?")
		args = append(args, nullableTime(p.CompletedAt))
	}
	if len(sets) == 0 {
		return "", nil
	}
	args = append(args, p.ID.String(), project)
	return "UPDATE tasks SET " + strings.Join(sets, ", ") + " WHERE id = ? AND project_id = ?", args
}

func sectionUpdate(p models.SectionPatch, project string) (string, []any) {
	var sets []string
	var args []any
	if p.Has(models.SectionFieldName) {
		sets = append(sets, "name = ?")
		args = append(args, p.Name)
	}
	if p.Has(models.SectionFieldPosition) {
		sets = append(sets, "position = ?")
		args = append(args, p.Position)
	}
	if len(sets) == 0 {
		return "", nil
	}
	args = append(args, p.ID.String(), project)
	return "UPDATE sections SET " + strings.Join(sets, ", ") + " WHERE id = ? AND project_id = ?", args
}

func nullableID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*models.Project, error) {
	var idStr string
	var project models.Project
	err := row.Scan(&idStr, &project.Name, &project.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan project: %w", err)
	}
	project.ID, _ = uuid.Parse(idStr)
	return &project, nil
}

func scanSection(row scanner) (models.Section, error) {
	var idStr, projectStr string
	var section models.Section
	err := row.Scan(&idStr, &projectStr, &section.Name, &section.Position, &section.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Section{}, ErrNotFound
	}
	if err != nil {
		return models.Section{}, fmt.Errorf("scan section: %w", err)
	}
	section.ID, _ = uuid.Parse(idStr)
	section.ProjectID, _ = uuid.Parse(projectStr)
	return section, nil
}

func scanTask(row scanner) (models.Task, error) {
	var idStr, projectStr string
	var sectionStr sql.NullString
	var completedAt sql.NullTime
	var task models.Task
	err := row.Scan(&idStr, &projectStr, &sectionStr, &task.Title, &task.Position, &completedAt, &task.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("scan task: %w", err)
	}
	task.ID, _ = uuid.Parse(idStr)
	task.ProjectID, _ = uuid.Parse(projectStr)
	if sectionStr.Valid {
		sectionID, err := uuid.Parse(sectionStr.String)
		if err != nil {
			return models.Task{}, fmt.Errorf("parse section id %q: %w", sectionStr.String, err)
		}
		task.SectionID = &sectionID
	}
	if completedAt.Valid {
		t := completedAt.Time
		task.CompletedAt = &t
	}
	return task, nil
}
