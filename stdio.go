package mcptools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/exp/jsonrpc2"

	"github.com/y0ug/mcptools/internal/mcp"
)

const shutdownGrace = 5 * time.Second

// Serve runs the server on stdin/stdout until EOF or ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	return s.ServeStream(ctx, os.Stdin, os.Stdout)
}

// ServeStream runs the server on a newline-delimited JSON-RPC stream. It
// returns nil when the peer closes the stream or ctx is done.
func (s *Server) ServeStream(ctx context.Context, r io.Reader, w io.WriteCloser) error {
	var framer jsonrpc2.Framer = mcp.NewLineFramer(s.logger)
	if s.logger.Enabled(ctx, slog.LevelDebug) {
		framer = &mcp.LoggingFramer{Base: framer, Logger: s.logger}
	}

	conn, err := jsonrpc2.Dial(
		ctx,
		mcp.NewStdioStream(r, w),
		jsonrpc2.ConnectionOptions{
			Handler: jsonrpc2.HandlerFunc(s.handle),
			Framer:  framer,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create the MCP server: %w", err)
	}

	done := make(chan error, 1)
	go func() { done <- conn.Wait() }()

	select {
	case err = <-done:
	case <-ctx.Done():
		s.logger.Info("Shutting down stdio transport")
		// A blocking read on a terminal stdin is not interrupted by Close,
		// so give up waiting after a grace period.
		go func() { _ = conn.Close() }()
		select {
		case err = <-done:
		case <-time.After(shutdownGrace):
			return nil
		}
	}
	if isClosed(err) {
		return nil
	}
	return err
}

// isClosed reports whether err only says the stream ended.
func isClosed(err error) bool {
	return err == nil ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, os.ErrClosed) ||
		errors.Is(err, context.Canceled)
}
