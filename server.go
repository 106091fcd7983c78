package mcptools

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/exp/jsonrpc2"

	"github.com/y0ug/mcptools/internal/mcp"
	"github.com/y0ug/mcptools/internal/registry"
)

// Server answers MCP requests from the tools held in a registry. The same
// Server can back any number of stdio or HTTP transports.
type Server struct {
	logger       *slog.Logger
	registry     *registry.Registry
	info         mcp.Implementation
	instructions string
	pageSize     int

	mu       sync.RWMutex
	handlers map[string]jsonrpc2.HandlerFunc
}

type Option func(*Server)

// WithServerInfo sets the implementation name and version reported by
// initialize.
func WithServerInfo(name, version string) Option {
	return func(s *Server) { s.info = mcp.Implementation{Name: name, Version: version} }
}

func WithInstructions(text string) Option {
	return func(s *Server) { s.instructions = text }
}

// WithPageSize splits tools/list results into pages of n tools. Zero keeps a
// single page.
func WithPageSize(n int) Option {
	return func(s *Server) { s.pageSize = n }
}

// NewServer creates a Server dispatching tools/call to reg.
func NewServer(logger *slog.Logger, reg *registry.Registry, opts ...Option) *Server {
	s := &Server{
		logger:   logger,
		registry: reg,
		info:     mcp.Implementation{Name: "mcp-tools", Version: "0.1.0"},
		handlers: make(map[string]jsonrpc2.HandlerFunc),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.AddHandler(mcp.MethodInitialize, s.handleInitialize)
	s.AddHandler(mcp.MethodInitialized, s.handleInitialized)
	s.AddHandler(mcp.MethodPing, s.handlePing)
	s.AddHandler(mcp.MethodToolsList, s.handleToolsList)
	s.AddHandler(mcp.MethodToolsCall, s.handleToolsCall)
	return s
}

// AddHandler sets the handler of a JSON-RPC method, replacing any previous
// one.
func (s *Server) AddHandler(method string, handler jsonrpc2.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method] = handler
}

// handle processes each incoming JSON-RPC 2.0 message by method name.
func (s *Server) handle(ctx context.Context, r *jsonrpc2.Request) (any, error) {
	s.logger.Debug("Server received request",
		"method", r.Method,
		"id", r.ID.Raw(),
		"params", string(r.Params))

	s.mu.RLock()
	handler, ok := s.handlers[r.Method]
	s.mu.RUnlock()
	if !ok {
		if !r.IsCall() {
			// unknown notifications are dropped
			return nil, nil
		}
		return nil, jsonrpc2.ErrNotHandled
	}
	return handler(ctx, r)
}
