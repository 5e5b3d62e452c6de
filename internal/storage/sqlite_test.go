// ABOUTME: Tests for SQLite storage implementation
// ABOUTME: Covers schema setup, cascades and reset against a real database file

package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/harper/todo/internal/models"
)

// testDB creates a temporary database for testing.
func testDB(t *testing.T) *SQLiteDB {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := NewSQLiteDB(dbPath)
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func TestNewSQLiteDB(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := NewSQLiteDB(dbPath)
	if err != nil {
		t.Fatalf("failed to create db: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestNewSQLiteDB_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	nestedDir := filepath.Join(tmpDir, "nested", "path")
	dbPath := filepath.Join(nestedDir, "test.db")

	db, err := NewSQLiteDB(dbPath)
	if err != nil {
		t.Fatalf("failed to create db: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(nestedDir); os.IsNotExist(err) {
		t.Error("directory was not created")
	}
}

func TestNewSQLiteDB_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := NewSQLiteDB(dbPath)
	if err != nil {
		t.Fatalf("failed to create db: %v", err)
	}
	project := models.NewProject("home")
	if err := db.CreateProject(ctx, project); err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	_ = db.Close()

	db, err = NewSQLiteDB(dbPath)
	if err != nil {
		t.Fatalf("failed to reopen db: %v", err)
	}
	defer db.Close()

	got, err := db.GetProjectByName(ctx, "home")
	if err != nil {
		t.Fatalf("failed to get project after reopen: %v", err)
	}
	if got.ID != project.ID {
		t.Errorf("expected id %s, got %s", project.ID, got.ID)
	}
}

func TestSQLiteDB_DeleteProjectCascades(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)

	project := models.NewProject("home")
	if err := db.CreateProject(ctx, project); err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	section := models.NewSection(project.ID, "kitchen")
	task := models.NewTask(project.ID, &section.ID, "dishes")
	batch := &Batch{
		ProjectID:      project.ID,
		CreateSections: []models.Section{*section},
		CreateTasks:    []models.Task{*task},
	}
	if err := db.Apply(ctx, batch); err != nil {
		t.Fatalf("failed to apply: %v", err)
	}

	if err := db.DeleteProject(ctx, project.ID); err != nil {
		t.Fatalf("failed to delete project: %v", err)
	}

	var count int
	if err := db.db.QueryRow("SELECT COUNT(*) FROM tasks").Scan(&count); err != nil {
		t.Fatalf("failed to count tasks: %v", err)
	}
	if count != 0 {
		t.Errorf("expected tasks to cascade delete, found %d", count)
	}
	if err := db.db.QueryRow("SELECT COUNT(*) FROM sections").Scan(&count); err != nil {
		t.Fatalf("failed to count sections: %v", err)
	}
	if count != 0 {
		t.Errorf("expected sections to cascade delete, found %d", count)
	}
}

func TestSQLiteDB_ApplyRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)

	project := models.NewProject("home")
	if err := db.CreateProject(ctx, project); err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	task := models.NewTask(project.ID, nil, "first")
	dup := *task
	batch := &Batch{
		ProjectID:   project.ID,
		CreateTasks: []models.Task{*task, dup},
	}
	if err := db.Apply(ctx, batch); err == nil {
		t.Fatal("expected duplicate primary key to fail")
	}

	tasks, err := db.ListTasks(ctx, project.ID)
	if err != nil {
		t.Fatalf("failed to list tasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected rollback to leave no tasks, found %d", len(tasks))
	}
}

func TestSQLiteDB_Reset(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)

	project := models.NewProject("home")
	if err := db.CreateProject(ctx, project); err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	if err := db.Reset(); err != nil {
		t.Fatalf("failed to reset: %v", err)
	}
	if _, err := db.GetProject(ctx, project.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after reset, got %v", err)
	}
}
