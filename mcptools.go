// Package mcptools serves a tool registry over the Model Context Protocol
// (stdio or streamable HTTP) and provides a matching client.
package mcptools

import (
	"context"
	"log/slog"

	"github.com/y0ug/mcptools/internal/client"
	"github.com/y0ug/mcptools/internal/mcp"
)

type (
	Client         = client.Client
	ServerInfo     = client.ServerInfo
	Tool           = mcp.Tool
	CallToolResult = mcp.CallToolResult
)

// NewClient starts serverCmd and returns a client speaking MCP over its
// stdio. Call Initialize before anything else.
func NewClient(
	ctx context.Context,
	logger *slog.Logger,
	serverCmd string,
	args ...string,
) (Client, error) {
	return client.New(ctx, logger, serverCmd, args...)
}
