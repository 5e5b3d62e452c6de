// ABOUTME: MCP tool definitions and handlers
// ABOUTME: Lets AI agents read boards and add, move, complete and delete tasks

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harper/todo/internal/models"
	"github.com/harper/todo/internal/service"
	"github.com/harper/todo/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	s.registerListProjectsTool()
	s.registerCreateProjectTool()
	s.registerGetBoardTool()
	s.registerAddTaskTool()
	s.registerMoveTaskTool()
	s.registerMoveTasksTool()
	s.registerCompleteTaskTool()
	s.registerIncompleteTaskTool()
	s.registerDeleteTaskTool()
	s.registerAddSectionTool()
	s.registerMoveSectionTool()
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func intProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": description}
}

func objectSchema(props map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

var (
	projectProp = stringProp("Project name or id")
	taskProp    = stringProp("Task title, id, or id prefix")
	sectionProp = stringProp("Section name or id; omit for ungrouped tasks")
	indexProp   = intProp("Zero-based position within the section (clamped)")
)

// TaskOutput is a task as returned to agents.
type TaskOutput struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Section     string     `json:"section,omitempty"`
	Position    int        `json:"position"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// SectionOutput is a section with its tasks in display order.
type SectionOutput struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Position int          `json:"position"`
	Tasks    []TaskOutput `json:"tasks"`
}

// BoardOutput is a whole project in display order.
type BoardOutput struct {
	Project   string          `json:"project"`
	ProjectID string          `json:"project_id"`
	Ungrouped []TaskOutput    `json:"ungrouped"`
	Unfiled   []TaskOutput    `json:"unfiled,omitempty"`
	Sections  []SectionOutput `json:"sections"`
}

// ProjectOutput is a project summary.
type ProjectOutput struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ListProjectsOutput defines output for list_projects tool.
type ListProjectsOutput struct {
	Projects []ProjectOutput `json:"projects"`
	Count    int             `json:"count"`
}

func taskOutput(t models.Task, sectionName string) TaskOutput {
	return TaskOutput{
		ID:          t.ID.String(),
		Title:       t.Title,
		Section:     sectionName,
		Position:    t.Position,
		Completed:   t.IsCompleted(),
		CompletedAt: t.CompletedAt,
	}
}

func boardOutput(board *storage.Board) BoardOutput {
	out := BoardOutput{
		Project:   board.Project.Name,
		ProjectID: board.Project.ID.String(),
		Ungrouped: []TaskOutput{},
		Sections:  make([]SectionOutput, 0, len(board.Sections)),
	}
	for _, t := range board.Tasks {
		if t.SectionID == nil {
			out.Ungrouped = append(out.Ungrouped, taskOutput(t, ""))
		}
	}
	for _, t := range board.Unfiled() {
		out.Unfiled = append(out.Unfiled, taskOutput(t, ""))
	}
	for _, sec := range board.Sections {
		so := SectionOutput{ID: sec.ID.String(), Name: sec.Name, Position: sec.Position, Tasks: []TaskOutput{}}
		for _, t := range board.Tasks {
			if t.InSection(&sec.ID) {
				so.Tasks = append(so.Tasks, taskOutput(t, sec.Name))
			}
		}
		out.Sections = append(out.Sections, so)
	}
	return out
}

func jsonResult(v interface{}) *mcp.CallToolResult {
	jsonBytes, _ := json.MarshalIndent(v, "", "  ") //nolint:errchkjson // output is always serializable
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(jsonBytes)}},
	}
}

// loadBoard resolves a project reference and loads its board.
func (s *Server) loadBoard(ctx context.Context, projectRef string) (*storage.Board, error) {
	project, err := s.svc.ResolveProject(ctx, projectRef)
	if err != nil {
		return nil, err
	}
	return s.svc.Board(ctx, project.ID)
}

// resolveSection maps an optional section reference to a section id.
func resolveSection(board *storage.Board, ref *string) (*uuid.UUID, error) {
	if ref == nil || *ref == "" {
		return nil, nil
	}
	sec, err := service.ResolveSection(board.Sections, *ref)
	if err != nil {
		return nil, err
	}
	return &sec.ID, nil
}

// boardResult reloads the board after a change and returns it.
func (s *Server) boardResult(ctx context.Context, projectID uuid.UUID) (*mcp.CallToolResult, BoardOutput, error) {
	board, err := s.svc.Board(ctx, projectID)
	if err != nil {
		return nil, BoardOutput{}, err
	}
	output := boardOutput(board)
	return jsonResult(output), output, nil
}

// --- list_projects ---

// ListProjectsInput defines input for list_projects tool.
type ListProjectsInput struct{}

func (s *Server) registerListProjectsTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_projects",
		Description: "List all todo projects.",
		InputSchema: objectSchema(map[string]interface{}{}),
	}, s.handleListProjects)
}

func (s *Server) handleListProjects(ctx context.Context, _ *mcp.CallToolRequest, _ ListProjectsInput) (*mcp.CallToolResult, ListProjectsOutput, error) {
	projects, err := s.svc.Projects(ctx)
	if err != nil {
		return nil, ListProjectsOutput{}, err
	}
	output := ListProjectsOutput{Projects: make([]ProjectOutput, len(projects)), Count: len(projects)}
	for i, p := range projects {
		output.Projects[i] = ProjectOutput{ID: p.ID.String(), Name: p.Name, CreatedAt: p.CreatedAt}
	}
	return jsonResult(output), output, nil
}

// --- create_project ---

// CreateProjectInput defines input for create_project tool.
type CreateProjectInput struct {
	Name string `json:"name"`
}

func (s *Server) registerCreateProjectTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "create_project",
		Description: "Create an empty project.",
		InputSchema: objectSchema(map[string]interface{}{
			"name": stringProp("Unique project name"),
		}, "name"),
	}, s.handleCreateProject)
}

func (s *Server) handleCreateProject(ctx context.Context, _ *mcp.CallToolRequest, input CreateProjectInput) (*mcp.CallToolResult, ProjectOutput, error) {
	project, err := s.svc.CreateProject(ctx, input.Name)
	if err != nil {
		return nil, ProjectOutput{}, err
	}
	output := ProjectOutput{ID: project.ID.String(), Name: project.Name, CreatedAt: project.CreatedAt}
	return jsonResult(output), output, nil
}

// --- get_board ---

// ProjectInput identifies a project.
type ProjectInput struct {
	Project string `json:"project"`
}

func (s *Server) registerGetBoardTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_board",
		Description: "Get a project's sections and tasks in display order. Incomplete tasks come first in each section, ordered by position; completed tasks follow, newest first.",
		InputSchema: objectSchema(map[string]interface{}{
			"project": projectProp,
		}, "project"),
	}, s.handleGetBoard)
}

func (s *Server) handleGetBoard(ctx context.Context, _ *mcp.CallToolRequest, input ProjectInput) (*mcp.CallToolResult, BoardOutput, error) {
	board, err := s.loadBoard(ctx, input.Project)
	if err != nil {
		return nil, BoardOutput{}, err
	}
	output := boardOutput(board)
	return jsonResult(output), output, nil
}

// --- add_task ---

// AddTaskInput defines input for add_task tool.
type AddTaskInput struct {
	Project string  `json:"project"`
	Title   string  `json:"title"`
	Section *string `json:"section,omitempty"`
}

func (s *Server) registerAddTaskTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "add_task",
		Description: "Add a task to the end of a section, or to the ungrouped tasks when no section is given.",
		InputSchema: objectSchema(map[string]interface{}{
			"project": projectProp,
			"title":   stringProp("Task title"),
			"section": sectionProp,
		}, "project", "title"),
	}, s.handleAddTask)
}

func (s *Server) handleAddTask(ctx context.Context, _ *mcp.CallToolRequest, input AddTaskInput) (*mcp.CallToolResult, TaskOutput, error) {
	board, err := s.loadBoard(ctx, input.Project)
	if err != nil {
		return nil, TaskOutput{}, err
	}
	sectionID, err := resolveSection(board, input.Section)
	if err != nil {
		return nil, TaskOutput{}, err
	}
	task, err := s.svc.AddTask(ctx, board.Project.ID, sectionID, input.Title)
	if err != nil {
		return nil, TaskOutput{}, fmt.Errorf("failed to add task: %w", err)
	}
	name := ""
	for _, sec := range board.Sections {
		if task.InSection(&sec.ID) {
			name = sec.Name
		}
	}
	output := taskOutput(*task, name)
	return jsonResult(output), output, nil
}

// --- move_task ---

// MoveTaskInput defines input for move_task tool.
type MoveTaskInput struct {
	Project string  `json:"project"`
	Task    string  `json:"task"`
	Section *string `json:"section,omitempty"`
	Index   int     `json:"index"`
}

func (s *Server) registerMoveTaskTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "move_task",
		Description: "Move a task to a position within a section (or the ungrouped tasks). Moving a completed task only changes its section.",
		InputSchema: objectSchema(map[string]interface{}{
			"project": projectProp,
			"task":    taskProp,
			"section": sectionProp,
			"index":   indexProp,
		}, "project", "task", "index"),
	}, s.handleMoveTask)
}

func (s *Server) handleMoveTask(ctx context.Context, _ *mcp.CallToolRequest, input MoveTaskInput) (*mcp.CallToolResult, BoardOutput, error) {
	board, err := s.loadBoard(ctx, input.Project)
	if err != nil {
		return nil, BoardOutput{}, err
	}
	task, err := service.ResolveTask(board.Tasks, input.Task)
	if err != nil {
		return nil, BoardOutput{}, err
	}
	sectionID, err := resolveSection(board, input.Section)
	if err != nil {
		return nil, BoardOutput{}, err
	}
	if err := s.svc.MoveTask(ctx, task.ID, sectionID, input.Index); err != nil {
		return nil, BoardOutput{}, err
	}
	return s.boardResult(ctx, board.Project.ID)
}

// --- move_tasks ---

// MoveTasksInput defines input for move_tasks tool.
type MoveTasksInput struct {
	Project string   `json:"project"`
	Tasks   []string `json:"tasks"`
	Section *string  `json:"section,omitempty"`
	Index   int      `json:"index"`
}

func (s *Server) registerMoveTasksTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "move_tasks",
		Description: "Move several tasks as one contiguous run. The first task is placed at index; the run keeps the tasks' current display order.",
		InputSchema: objectSchema(map[string]interface{}{
			"project": projectProp,
			"tasks": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"minItems":    1,
				"description": "Task titles or ids; the first one anchors the move",
			},
			"section": sectionProp,
			"index":   indexProp,
		}, "project", "tasks", "index"),
	}, s.handleMoveTasks)
}

func (s *Server) handleMoveTasks(ctx context.Context, _ *mcp.CallToolRequest, input MoveTasksInput) (*mcp.CallToolResult, BoardOutput, error) {
	if len(input.Tasks) == 0 {
		return nil, BoardOutput{}, fmt.Errorf("at least one task is required")
	}
	board, err := s.loadBoard(ctx, input.Project)
	if err != nil {
		return nil, BoardOutput{}, err
	}
	ids := make([]uuid.UUID, len(input.Tasks))
	for i, ref := range input.Tasks {
		task, err := service.ResolveTask(board.Tasks, ref)
		if err != nil {
			return nil, BoardOutput{}, err
		}
		ids[i] = task.ID
	}
	sectionID, err := resolveSection(board, input.Section)
	if err != nil {
		return nil, BoardOutput{}, err
	}
	if err := s.svc.MoveTasks(ctx, ids[0], ids[1:], sectionID, input.Index); err != nil {
		return nil, BoardOutput{}, err
	}
	return s.boardResult(ctx, board.Project.ID)
}

// --- complete_task / incomplete_task / delete_task ---

// TaskInput identifies a task within a project.
type TaskInput struct {
	Project string `json:"project"`
	Task    string `json:"task"`
}

func taskInputSchema() map[string]interface{} {
	return objectSchema(map[string]interface{}{
		"project": projectProp,
		"task":    taskProp,
	}, "project", "task")
}

func (s *Server) registerCompleteTaskTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "complete_task",
		Description: "Mark a task as done. It drops below the section's open tasks.",
		InputSchema: taskInputSchema(),
	}, s.taskAction(s.svc.CompleteTask))
}

func (s *Server) registerIncompleteTaskTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "incomplete_task",
		Description: "Reopen a completed task. It goes to the end of its section's open tasks.",
		InputSchema: taskInputSchema(),
	}, s.taskAction(s.svc.IncompleteTask))
}

func (s *Server) registerDeleteTaskTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "delete_task",
		Description: "Delete a task permanently.",
		InputSchema: taskInputSchema(),
	}, s.taskAction(s.svc.DeleteTask))
}

// taskAction adapts a single-task service call into a tool handler.
func (s *Server) taskAction(action func(context.Context, uuid.UUID) error) mcp.ToolHandlerFor[TaskInput, BoardOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TaskInput) (*mcp.CallToolResult, BoardOutput, error) {
		board, err := s.loadBoard(ctx, input.Project)
		if err != nil {
			return nil, BoardOutput{}, err
		}
		task, err := service.ResolveTask(board.Tasks, input.Task)
		if err != nil {
			return nil, BoardOutput{}, err
		}
		if err := action(ctx, task.ID); err != nil {
			return nil, BoardOutput{}, err
		}
		return s.boardResult(ctx, board.Project.ID)
	}
}

// --- add_section / move_section ---

// AddSectionInput defines input for add_section tool.
type AddSectionInput struct {
	Project string `json:"project"`
	Name    string `json:"name"`
}

func (s *Server) registerAddSectionTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "add_section",
		Description: "Add a section to the end of a project.",
		InputSchema: objectSchema(map[string]interface{}{
			"project": projectProp,
			"name":    stringProp("Section name"),
		}, "project", "name"),
	}, s.handleAddSection)
}

func (s *Server) handleAddSection(ctx context.Context, _ *mcp.CallToolRequest, input AddSectionInput) (*mcp.CallToolResult, BoardOutput, error) {
	project, err := s.svc.ResolveProject(ctx, input.Project)
	if err != nil {
		return nil, BoardOutput{}, err
	}
	if _, err := s.svc.AddSection(ctx, project.ID, input.Name); err != nil {
		return nil, BoardOutput{}, fmt.Errorf("failed to add section: %w", err)
	}
	return s.boardResult(ctx, project.ID)
}

// MoveSectionInput defines input for move_section tool.
type MoveSectionInput struct {
	Project string `json:"project"`
	Section string `json:"section"`
	Index   int    `json:"index"`
}

func (s *Server) registerMoveSectionTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "move_section",
		Description: "Move a section to a new position among the project's sections.",
		InputSchema: objectSchema(map[string]interface{}{
			"project": projectProp,
			"section": stringProp("Section name or id"),
			"index":   intProp("Zero-based section position (clamped)"),
		}, "project", "section", "index"),
	}, s.handleMoveSection)
}

func (s *Server) handleMoveSection(ctx context.Context, _ *mcp.CallToolRequest, input MoveSectionInput) (*mcp.CallToolResult, BoardOutput, error) {
	board, err := s.loadBoard(ctx, input.Project)
	if err != nil {
		return nil, BoardOutput{}, err
	}
	sec, err := service.ResolveSection(board.Sections, input.Section)
	if err != nil {
		return nil, BoardOutput{}, err
	}
	if err := s.svc.MoveSection(ctx, sec.ID, input.Index); err != nil {
		return nil, BoardOutput{}, err
	}
	return s.boardResult(ctx, board.Project.ID)
}
