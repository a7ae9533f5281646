package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

var resCurrentSession = mcp.NewResource(
	"liftlog://current_session",
	"Current Workout Session",
	mcp.WithResourceDescription("The in-progress workout session: date, notes, exercises with sets and their local IDs, superset groups, and cached previous performance"),
	mcp.WithMIMEType("application/json"),
)

func (h *handlers) currentSession(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(h.tracker.Snapshot())
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
