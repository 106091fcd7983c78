package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"golang.org/x/exp/jsonrpc2"

	"github.com/y0ug/mcptools/internal/mcp"
)

// exitGrace is how long Close waits for the server to exit on EOF before
// killing it.
const exitGrace = 3 * time.Second

// ErrNotInitialized is returned by calls made before Initialize.
var ErrNotInitialized = errors.New("client not initialized")

// Client defines the interface for MCP client operations
type Client interface {
	// Initialize sends the initialize request to the server and stores the capabilities
	Initialize(ctx context.Context) (*ServerInfo, error)

	// Ping sends a ping request to check if the server is alive
	Ping(ctx context.Context) error

	// ListTools requests one page of the available tools
	ListTools(ctx context.Context, cursor *string) ([]mcp.Tool, *string, error)

	// CallTool executes a specific tool with given arguments
	CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error)

	// Close shuts down the connection and the server process, if any
	Close() error
}

type ServerInfo mcp.InitializeResult

type client struct {
	conn   *jsonrpc2.Connection
	logger *slog.Logger

	mu          sync.Mutex
	initialized bool

	// set when the client owns the server process
	cmd       *exec.Cmd
	exited    chan struct{}
	closeOnce sync.Once
}

func logHandler(logger *slog.Logger) jsonrpc2.HandlerFunc {
	return func(ctx context.Context, req *jsonrpc2.Request) (any, error) {
		logger.Debug("Request received",
			"method", req.Method,
			"id", req.ID.Raw(),
			"params", string(req.Params))
		return nil, jsonrpc2.ErrNotHandled
	}
}

// New starts serverCmd and connects to it over its stdin/stdout. The server's
// stderr is relayed to logger.
func New(
	ctx context.Context,
	logger *slog.Logger,
	serverCmd string,
	args ...string,
) (Client, error) {
	cmd := exec.Command(serverCmd, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start MCP server: %w", err)
	}

	c, err := dial(ctx, logger, stdout, stdin)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, err
	}
	c.cmd = cmd
	c.exited = make(chan struct{})

	stderrDone := make(chan struct{})
	go func() {
		defer close(stderrDone)
		c.relayStderr(stderr)
	}()
	go func() {
		<-stderrDone
		err := cmd.Wait()
		logger.Debug("MCP server process exited", "error", err)
		close(c.exited)
	}()
	return c, nil
}

// Dial connects to a server over an existing stream pair, r carrying the
// server's output and w its input.
func Dial(ctx context.Context, logger *slog.Logger, r io.Reader, w io.WriteCloser) (Client, error) {
	return dial(ctx, logger, r, w)
}

func dial(ctx context.Context, logger *slog.Logger, r io.Reader, w io.WriteCloser) (*client, error) {
	var framer jsonrpc2.Framer = mcp.NewLineFramer(logger)
	if logger.Enabled(ctx, slog.LevelDebug) {
		framer = &mcp.LoggingFramer{Base: framer, Logger: logger}
	}

	conn, err := jsonrpc2.Dial(
		ctx,
		mcp.NewStdioStream(r, w),
		jsonrpc2.ConnectionOptions{
			Handler: logHandler(logger),
			Framer:  framer,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("dial error: %w", err)
	}
	return &client{conn: conn, logger: logger}, nil
}

func (c *client) relayStderr(stderr io.Reader) {
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "level=error") || strings.Contains(lower, "fatal") {
			c.logger.Error("MCP server", "stderr", line)
			continue
		}
		c.logger.Debug("MCP server", "stderr", line)
	}
	if err := scanner.Err(); err != nil {
		c.logger.Debug("error reading stderr", "error", err)
	}
}

func (c *client) ready() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return ErrNotInitialized
	}
	return nil
}

// Initialize sends the initialize request to the server and stores the capabilities
func (c *client) Initialize(ctx context.Context) (*ServerInfo, error) {
	params := mcp.InitializeRequestParams{
		ProtocolVersion: mcp.LatestProtocolVersion,
		ClientInfo: mcp.Implementation{
			Name:    "mcp-tools-client",
			Version: "0.1.0",
		},
	}

	var result mcp.InitializeResult
	c.logger.Debug("Sending initialize request")
	if err := c.conn.Call(ctx, mcp.MethodInitialize, params).Await(ctx, &result); err != nil {
		return nil, fmt.Errorf("initialize failed: %w", err)
	}

	info := (*ServerInfo)(&result)
	c.logger.Debug("Server initialized",
		"name", info.ServerInfo.Name,
		"version", info.ServerInfo.Version,
		"protocol", info.ProtocolVersion)
	if info.Instructions != nil {
		c.logger.Debug("Server instructions", "instructions", *info.Instructions)
	}

	if err := c.conn.Notify(ctx, mcp.MethodInitialized, nil); err != nil {
		return nil, fmt.Errorf("failed to send initialized notification: %w", err)
	}

	c.mu.Lock()
	c.initialized = true
	c.mu.Unlock()
	return info, nil
}

// Ping sends a ping request to check if the server is alive
func (c *client) Ping(ctx context.Context) error {
	if err := c.ready(); err != nil {
		return err
	}
	if err := c.conn.Call(ctx, mcp.MethodPing, nil).Await(ctx, nil); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

// ListTools requests the list of available tools from the server
func (c *client) ListTools(ctx context.Context, cursor *string) ([]mcp.Tool, *string, error) {
	if err := c.ready(); err != nil {
		return nil, nil, err
	}
	params := &mcp.ListToolsRequestParams{Cursor: cursor}

	var result mcp.ListToolsResult
	if err := c.conn.Call(ctx, mcp.MethodToolsList, params).Await(ctx, &result); err != nil {
		return nil, nil, fmt.Errorf("list tools failed: %w", err)
	}
	return result.Tools, result.NextCursor, nil
}

// CallTool executes a specific tool with given arguments. Tool failures come
// back as a result with IsError set; the error return is for protocol
// failures such as an unknown tool.
func (c *client) CallTool(
	ctx context.Context,
	name string,
	args map[string]any,
) (*mcp.CallToolResult, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	params := mcp.CallToolRequestParams{
		Name:      name,
		Arguments: args,
	}
	var result mcp.CallToolResult
	if err := c.conn.Call(ctx, mcp.MethodToolsCall, params).Await(ctx, &result); err != nil {
		return nil, fmt.Errorf("tool call failed: %w", err)
	}
	return &result, nil
}

// Close shuts down the MCP client and the server process it started
func (c *client) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.initialized = false
		c.mu.Unlock()

		c.logger.Debug("Closing MCP client")
		// closing the stream sends EOF to the server
		_ = c.conn.Close()

		if c.cmd == nil || c.cmd.Process == nil {
			return
		}
		select {
		case <-c.exited:
		case <-time.After(exitGrace):
			if err := c.cmd.Process.Kill(); err != nil {
				c.logger.Error("failed to kill process", "error", err)
			}
			<-c.exited
		}
		c.logger.Debug("MCP client closed", "code", c.cmd.ProcessState.ExitCode())
	})
	return nil
}
