// ABOUTME: MCP server initialization and configuration
// ABOUTME: Sets up server with todo tools and resources for AI agents

package mcp

import (
	"context"
	"fmt"

	"github.com/harper/todo/internal/service"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with the todo service.
type Server struct {
	mcp *mcp.Server
	svc *service.Service
}

// NewServer creates MCP server with all capabilities.
func NewServer(svc *service.Service) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("service is required")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "todo",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcp: mcpServer,
		svc: svc,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}
