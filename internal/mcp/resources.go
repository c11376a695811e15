// ABOUTME: MCP resource implementations for gymlog.
// ABOUTME: Provides gymlog://week, gymlog://stats, and gymlog://records resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/gymlog/internal/models"
)

func (s *Server) registerResources() {
	// gymlog://week - schedule of the current anchored week
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "gymlog://week",
		Name:        "This Week's Schedule",
		Description: "Planned, completed, and skipped entries of the current week",
		MIMEType:    "application/json",
	}, s.handleWeekResource)

	// gymlog://stats - lifetime totals
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "gymlog://stats",
		Name:        "Lifetime Stats",
		Description: "Completed sessions, sets, volume load, and training time",
		MIMEType:    "application/json",
	}, s.handleStatsResource)

	// gymlog://records - personal records
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "gymlog://records",
		Name:        "Personal Records",
		Description: "Max working-set load per exercise",
		MIMEType:    "application/json",
	}, s.handleRecordsResource)
}

// Resource handlers

func (s *Server) handleWeekResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	today := models.DateOf(s.now())
	entries, err := s.schedule.Week(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("failed to get week: %w", err)
	}

	var active any
	if id, ok, err := s.sessions.ResumeActive(ctx); err == nil && ok {
		active = id
	}

	result := map[string]interface{}{
		"today":          today,
		"entries":        entries,
		"active_session": active,
	}
	return jsonResource("gymlog://week", result)
}

func (s *Server) handleStatsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	g, err := s.globalStats(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource("gymlog://stats", g)
}

func (s *Server) handleRecordsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	views, err := s.recordViews(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource("gymlog://records", map[string]interface{}{
		"records": views,
		"count":   len(views),
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
