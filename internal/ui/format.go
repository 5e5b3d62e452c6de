// ABOUTME: Terminal UI formatting utilities
// ABOUTME: Provides human-readable output for projects, sections and task boards

package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/harper/todo/internal/models"
	"github.com/harper/todo/internal/storage"
)

// shortIDLen is how many characters of an id are shown.
const shortIDLen = 8

// ShortID returns the leading characters of an id for display.
func ShortID(id uuid.UUID) string {
	return id.String()[:shortIDLen]
}

// FormatTask formats a task for terminal display. Incomplete tasks show
// their position so it can be used as a move target.
func FormatTask(task models.Task) string {
	faint := color.New(color.Faint)
	id := faint.Sprint(ShortID(task.ID))
	if task.IsCompleted() {
		return fmt.Sprintf("     %s %s %s - %s",
			color.GreenString("[x]"),
			faint.Sprint(task.Title),
			id,
			faint.Sprintf("done %s", FormatRelativeTime(*task.CompletedAt)))
	}
	return fmt.Sprintf("  %2d %s %s %s",
		task.Position,
		"[ ]",
		task.Title,
		id)
}

// FormatProject formats a project line for listings.
func FormatProject(project *models.Project) string {
	if project == nil {
		return color.New(color.Faint).Sprint("(invalid project)")
	}
	return fmt.Sprintf("%s %s - %s",
		color.GreenString(project.Name),
		color.New(color.Faint).Sprint(ShortID(project.ID)),
		color.New(color.Faint).Sprintf("created %s", FormatRelativeTime(project.CreatedAt)))
}

// FormatSectionHeader formats a section heading with its position.
func FormatSectionHeader(section models.Section) string {
	return fmt.Sprintf("%s %s %s",
		color.New(color.Faint).Sprintf("%d.", section.Position),
		color.New(color.Bold, color.FgCyan).Sprint(section.Name),
		color.New(color.Faint).Sprint(ShortID(section.ID)))
}

// FormatBoard renders a whole project: ungrouped tasks first, then tasks
// whose section is gone, then each section in order with its tasks.
func FormatBoard(board *storage.Board) string {
	var sb strings.Builder
	sb.WriteString(color.New(color.Bold).Sprint(board.Project.Name))
	sb.WriteString("\n")

	if len(board.Tasks) == 0 && len(board.Sections) == 0 {
		sb.WriteString(color.New(color.Faint).Sprint("  (empty)"))
		sb.WriteString("\n")
		return sb.String()
	}

	writeTasks := func(sectionID *uuid.UUID) {
		for _, t := range board.Tasks {
			if t.InSection(sectionID) {
				sb.WriteString(FormatTask(t))
				sb.WriteString("\n")
			}
		}
	}

	writeTasks(nil)
	if unfiled := board.Unfiled(); len(unfiled) > 0 {
		sb.WriteString("\n")
		sb.WriteString(color.New(color.Faint).Sprint(storage.UnfiledHeading))
		sb.WriteString("\n")
		for _, t := range unfiled {
			sb.WriteString(FormatTask(t))
			sb.WriteString("\n")
		}
	}
	for _, sec := range board.Sections {
		id := sec.ID
		sb.WriteString("\n")
		sb.WriteString(FormatSectionHeader(sec))
		sb.WriteString("\n")
		writeTasks(&id)
	}
	return sb.String()
}

// FormatRelativeTime formats a time as relative to now.
func FormatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	// Handle future times (clock skew, bad data)
	if diff < 0 {
		return color.YellowString("in the future")
	}

	if diff < time.Minute {
		return "just now"
	}
	if diff < time.Hour {
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	}
	if diff < 24*time.Hour {
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	}
	days := int(diff.Hours() / 24)
	if days == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}
