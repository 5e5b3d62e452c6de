// ABOUTME: MCP resource definitions
// ABOUTME: Provides a read-only view of every project board for AI agents

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const projectsURI = "todo://projects"

// ProjectsResource is the payload of the todo://projects resource.
type ProjectsResource struct {
	Boards []BoardOutput `json:"boards"`
	Count  int           `json:"count"`
}

func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		Name:        projectsURI,
		Description: "All projects with their sections and tasks in display order",
		URI:         projectsURI,
		MIMEType:    "application/json",
	}, s.handleProjectsResource)
}

func (s *Server) handleProjectsResource(ctx context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	projects, err := s.svc.Projects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	output := ProjectsResource{Boards: make([]BoardOutput, 0, len(projects))}
	for _, p := range projects {
		board, err := s.svc.Board(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", p.Name, err)
		}
		output.Boards = append(output.Boards, boardOutput(board))
	}
	output.Count = len(output.Boards)

	jsonBytes, _ := json.MarshalIndent(output, "", "  ") //nolint:errchkjson // output is always serializable

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      projectsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		},
	}, nil
}
