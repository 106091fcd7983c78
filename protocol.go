package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/exp/jsonrpc2"

	"github.com/y0ug/mcptools/internal/mcp"
	"github.com/y0ug/mcptools/internal/registry"
)

// handleInitialize implements the MCP "initialize" request.
func (s *Server) handleInitialize(
	ctx context.Context,
	r *jsonrpc2.Request,
) (any, error) {
	var params mcp.InitializeRequestParams
	if err := json.Unmarshal(r.Params, &params); err != nil {
		return nil, fmt.Errorf("%w: initialize: %v", jsonrpc2.ErrInvalidParams, err)
	}

	version := mcp.NegotiateVersion(params.ProtocolVersion)
	s.logger.Info("Client connected",
		"client", params.ClientInfo.Name,
		"client_version", params.ClientInfo.Version,
		"requested_protocol", params.ProtocolVersion,
		"protocol", version)

	result := mcp.InitializeResult{
		ProtocolVersion: version,
		ServerInfo:      s.info,
		Capabilities: mcp.ServerCapabilities{
			Tools: &mcp.ServerCapabilitiesTools{},
		},
	}
	if s.instructions != "" {
		result.Instructions = &s.instructions
	}
	return result, nil
}

func (s *Server) handleInitialized(
	ctx context.Context,
	r *jsonrpc2.Request,
) (any, error) {
	s.logger.Debug("Client finished initialization")
	return nil, nil
}

func (s *Server) handlePing(
	ctx context.Context,
	r *jsonrpc2.Request,
) (any, error) {
	return struct{}{}, nil
}

func (s *Server) handleToolsList(
	ctx context.Context,
	r *jsonrpc2.Request,
) (any, error) {
	var params mcp.ListToolsRequestParams
	if len(r.Params) > 0 {
		if err := json.Unmarshal(r.Params, &params); err != nil {
			return nil, fmt.Errorf("%w: tools/list: %v", jsonrpc2.ErrInvalidParams, err)
		}
	}

	descriptors := s.registry.List()
	start := 0
	if params.Cursor != nil {
		n, err := strconv.Atoi(*params.Cursor)
		if err != nil || n < 0 || n > len(descriptors) {
			return nil, fmt.Errorf("%w: invalid cursor %q", jsonrpc2.ErrInvalidParams, *params.Cursor)
		}
		start = n
	}
	end := len(descriptors)
	if s.pageSize > 0 && start+s.pageSize < end {
		end = start + s.pageSize
	}

	result := mcp.ListToolsResult{Tools: make([]mcp.Tool, 0, end-start)}
	for _, d := range descriptors[start:end] {
		result.Tools = append(result.Tools, wireTool(d))
	}
	if end < len(descriptors) {
		next := strconv.Itoa(end)
		result.NextCursor = &next
	}
	return result, nil
}

// handleToolsCall runs a tool. Unknown tools are protocol errors; invalid
// arguments and domain failures are reported inside the result with isError
// set so the caller can see and correct them.
func (s *Server) handleToolsCall(
	ctx context.Context,
	r *jsonrpc2.Request,
) (any, error) {
	var params mcp.CallToolRequestParams
	if err := json.Unmarshal(r.Params, &params); err != nil {
		return nil, fmt.Errorf("%w: tools/call: %v", jsonrpc2.ErrInvalidParams, err)
	}

	res, err := s.registry.Call(ctx, params.Name, params.Arguments)
	switch {
	case err == nil:
	case errors.Is(err, registry.ErrNotFound):
		return nil, fmt.Errorf("%w: %v", jsonrpc2.ErrInvalidParams, err)
	case errors.Is(err, registry.ErrValidation), errors.Is(err, registry.ErrDomain):
		s.logger.Info("Tool call failed", "tool", params.Name, "error", err)
		return &mcp.CallToolResult{
			Content: []mcp.TextContent{mcp.NewTextContent(err.Error())},
			IsError: true,
		}, nil
	default:
		s.logger.Error("Tool call fault", "tool", params.Name, "error", err)
		return nil, fmt.Errorf("%w: %v", jsonrpc2.ErrInternal, err)
	}

	text, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: encoding result: %v", jsonrpc2.ErrInternal, err)
	}
	return &mcp.CallToolResult{
		Content:           []mcp.TextContent{mcp.NewTextContent(string(text))},
		StructuredContent: res,
	}, nil
}

func wireTool(d registry.Descriptor) mcp.Tool {
	t := mcp.Tool{
		Name:         d.Name,
		InputSchema:  d.InputSchema,
		OutputSchema: d.OutputSchema,
	}
	if d.Description != "" {
		t.Description = &d.Description
	}
	if len(d.Tags) > 0 || len(d.Meta) > 0 {
		t.Meta = make(map[string]any, len(d.Meta)+1)
		for k, v := range d.Meta {
			t.Meta[k] = v
		}
		if len(d.Tags) > 0 {
			t.Meta["tags"] = d.Tags
		}
	}
	return t
}
