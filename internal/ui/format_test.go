// ABOUTME: Unit tests for terminal UI formatting
// ABOUTME: Tests human-readable output for tasks, sections and boards

package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/harper/todo/internal/models"
	"github.com/harper/todo/internal/storage"
)

func init() {
	color.NoColor = true
}

func TestShortID(t *testing.T) {
	id := uuid.MustParse("12345678-90ab-cdef-1234-567890abcdef")
	if got := ShortID(id); got != "12345678" {
		t.Errorf("expected 12345678, got %q", got)
	}
}

func TestFormatTask(t *testing.T) {
	task := models.Task{ID: uuid.New(), Title: "dishes", Position: 2}

	output := FormatTask(task)
	if !strings.Contains(output, "[ ] dishes") {
		t.Errorf("expected open checkbox and title, got %q", output)
	}
	if !strings.Contains(output, " 2 ") {
		t.Errorf("expected position in output, got %q", output)
	}
	if !strings.Contains(output, ShortID(task.ID)) {
		t.Errorf("expected short id in output, got %q", output)
	}
}

func TestFormatTask_Completed(t *testing.T) {
	done := time.Now().Add(-2 * time.Hour)
	task := models.Task{ID: uuid.New(), Title: "dishes", Position: -1, CompletedAt: &done}

	output := FormatTask(task)
	if !strings.Contains(output, "[x]") {
		t.Errorf("expected checked box, got %q", output)
	}
	if !strings.Contains(output, "done 2 hours ago") {
		t.Errorf("expected completion time, got %q", output)
	}
	if strings.Contains(output, "-1") {
		t.Errorf("completed tasks should not show a position, got %q", output)
	}
}

func TestFormatProject(t *testing.T) {
	project := models.NewProject("home")
	output := FormatProject(project)
	if !strings.Contains(output, "home") {
		t.Error("expected output to contain project name")
	}
	if !strings.Contains(output, "just now") {
		t.Errorf("expected creation time, got %q", output)
	}
	if !strings.Contains(FormatProject(nil), "invalid") {
		t.Error("expected placeholder for nil project")
	}
}

func TestFormatBoard(t *testing.T) {
	project := models.NewProject("home")
	kitchen := models.NewSection(project.ID, "kitchen")
	board := &storage.Board{
		Project:  project,
		Sections: []models.Section{*kitchen},
		Tasks: []models.Task{
			*models.NewTask(project.ID, nil, "water plants"),
			*models.NewTask(project.ID, &kitchen.ID, "dishes"),
		},
	}

	output := FormatBoard(board)
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if lines[0] != "home" {
		t.Errorf("expected project name first, got %q", lines[0])
	}

	plants := strings.Index(output, "water plants")
	header := strings.Index(output, "kitchen")
	dishes := strings.Index(output, "dishes")
	if plants < 0 || header < 0 || dishes < 0 {
		t.Fatalf("missing board content: %q", output)
	}
	if !(plants < header && header < dishes) {
		t.Errorf("expected ungrouped tasks, then section header, then its tasks: %q", output)
	}
}

func TestFormatBoard_TaskInMissingSection(t *testing.T) {
	project := models.NewProject("home")
	kitchen := models.NewSection(project.ID, "kitchen")
	gone := uuid.New()
	board := &storage.Board{
		Project:  project,
		Sections: []models.Section{*kitchen},
		Tasks: []models.Task{
			*models.NewTask(project.ID, nil, "water plants"),
			*models.NewTask(project.ID, &gone, "stray"),
			*models.NewTask(project.ID, &kitchen.ID, "dishes"),
		},
	}

	output := FormatBoard(board)
	plants := strings.Index(output, "water plants")
	heading := strings.Index(output, storage.UnfiledHeading)
	stray := strings.Index(output, "stray")
	header := strings.Index(output, "kitchen")
	if stray < 0 || heading < 0 {
		t.Fatalf("expected stray task under its own heading: %q", output)
	}
	if !(plants < heading && heading < stray && stray < header) {
		t.Errorf("expected stray tasks between ungrouped tasks and sections: %q", output)
	}
}

func TestFormatBoard_Empty(t *testing.T) {
	board := &storage.Board{Project: models.NewProject("home")}
	if !strings.Contains(FormatBoard(board), "(empty)") {
		t.Error("expected empty marker")
	}
}

func TestFormatRelativeTime(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		contains string
	}{
		{"just_now", 30 * time.Second, "just now"},
		{"one_minute", 1 * time.Minute, "1 minute ago"},
		{"five_minutes", 5 * time.Minute, "5 minutes ago"},
		{"one_hour", 1 * time.Hour, "1 hour ago"},
		{"two_hours", 2 * time.Hour, "2 hours ago"},
		{"one_day", 25 * time.Hour, "1 day ago"},
		{"multiple_days", 72 * time.Hour, "3 days ago"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tm := time.Now().Add(-tc.duration)
			result := FormatRelativeTime(tm)
			if !strings.Contains(result, tc.contains) {
				t.Errorf("FormatRelativeTime for %v: expected to contain %q, got %q", tc.duration, tc.contains, result)
			}
		})
	}
}

func TestFormatRelativeTime_FutureTime(t *testing.T) {
	futureTime := time.Now().Add(1 * time.Hour)
	result := FormatRelativeTime(futureTime)
	if !strings.Contains(result, "future") {
		t.Errorf("expected future time message, got %q", result)
	}
}
