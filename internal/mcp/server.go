// ABOUTME: MCP server setup for the gymlog engine.
// ABOUTME: Wraps the MCP server with storage, schedule, and session services.
package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/gymlog/internal/schedule"
	"github.com/harperreed/gymlog/internal/session"
	"github.com/harperreed/gymlog/internal/storage"
)

// Server wraps the MCP server with engine access.
type Server struct {
	mcpServer *mcp.Server
	db        *storage.DB
	schedule  *schedule.Service
	sessions  *session.Manager
	now       func() time.Time
}

// NewServer creates a new MCP server over the given services.
func NewServer(db *storage.DB, sched *schedule.Service, sessions *session.Manager) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "gymlog",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		db:        db,
		schedule:  sched,
		sessions:  sessions,
		now:       time.Now,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
