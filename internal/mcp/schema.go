// Package mcp holds the Model Context Protocol message types and the stream
// plumbing shared by the server and the client.
package mcp

import (
	"slices"

	"github.com/google/jsonschema-go/jsonschema"
)

// LatestProtocolVersion is answered when the client asks for a version we do
// not speak.
const LatestProtocolVersion = "2025-06-18"

// SupportedProtocolVersions lists every version this implementation accepts,
// newest first.
var SupportedProtocolVersions = []string{
	LatestProtocolVersion,
	"2025-03-26",
	"2024-11-05",
}

// NegotiateVersion returns requested when it is supported and the latest
// version otherwise.
func NegotiateVersion(requested string) string {
	if slices.Contains(SupportedProtocolVersions, requested) {
		return requested
	}
	return LatestProtocolVersion
}

// Method names.
const (
	MethodInitialize  = "initialize"
	MethodInitialized = "notifications/initialized"
	MethodPing        = "ping"
	MethodToolsList   = "tools/list"
	MethodToolsCall   = "tools/call"
)

// Implementation names a client or server and its version.
type Implementation struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ClientCapabilities is accepted but not acted on.
type ClientCapabilities struct {
	Experimental map[string]any `json:"experimental,omitempty"`
}

// InitializeRequestParams are the params of "initialize".
type InitializeRequestParams struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ClientCapabilities `json:"capabilities"`
	ClientInfo      Implementation     `json:"clientInfo"`
}

// ServerCapabilitiesTools advertises the tools feature.
type ServerCapabilitiesTools struct {
	// ListChanged reports whether the server emits list_changed
	// notifications. The catalog is static so this is always false.
	ListChanged bool `json:"listChanged"`
}

// ServerCapabilities lists the features the server offers.
type ServerCapabilities struct {
	Tools *ServerCapabilitiesTools `json:"tools,omitempty"`
}

// InitializeResult answers "initialize".
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      Implementation     `json:"serverInfo"`
	Instructions    *string            `json:"instructions,omitempty"`
}

// Tool is the wire form of a registered tool descriptor.
type Tool struct {
	Name         string             `json:"name"`
	Description  *string            `json:"description,omitempty"`
	InputSchema  *jsonschema.Schema `json:"inputSchema"`
	OutputSchema *jsonschema.Schema `json:"outputSchema,omitempty"`
	Meta         map[string]any     `json:"_meta,omitempty"`
}

// ListToolsRequestParams are the params of "tools/list".
type ListToolsRequestParams struct {
	Cursor *string `json:"cursor,omitempty"`
}

// ListToolsResult is one page of tools. NextCursor is nil on the last page.
type ListToolsResult struct {
	Tools      []Tool  `json:"tools"`
	NextCursor *string `json:"nextCursor,omitempty"`
}

// CallToolRequestParams are the params of "tools/call".
type CallToolRequestParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// TextContent is the only content type produced by the tools served here.
type TextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// NewTextContent returns a content item of type "text".
func NewTextContent(text string) TextContent {
	return TextContent{Type: "text", Text: text}
}

// CallToolResult answers "tools/call". IsError marks a tool failure reported
// to the caller rather than a protocol error.
type CallToolResult struct {
	Content           []TextContent  `json:"content"`
	StructuredContent map[string]any `json:"structuredContent,omitempty"`
	IsError           bool           `json:"isError,omitempty"`
}

// Text concatenates the text content items of the result.
func (r *CallToolResult) Text() string {
	var out string
	for _, c := range r.Content {
		if c.Type == "text" {
			out += c.Text
		}
	}
	return out
}
