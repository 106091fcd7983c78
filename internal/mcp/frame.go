package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/exp/jsonrpc2"
)

// LoggingFramer is a Framer decorator that logs frames on read/write.
type LoggingFramer struct {
	Base   jsonrpc2.Framer // the underlying framer (e.g. LineFramer)
	Logger *slog.Logger
}

// Reader wraps the underlying framer's Reader with logging.
func (f *LoggingFramer) Reader(r io.Reader) jsonrpc2.Reader {
	return &loggingReader{base: f.Base.Reader(r), logger: f.Logger}
}

// Writer wraps the underlying framer's Writer with logging.
func (f *LoggingFramer) Writer(w io.Writer) jsonrpc2.Writer {
	return &loggingWriter{base: f.Base.Writer(w), logger: f.Logger}
}

type loggingReader struct {
	base   jsonrpc2.Reader
	logger *slog.Logger
}

func (r *loggingReader) Read(ctx context.Context) (jsonrpc2.Message, int64, error) {
	msg, n, err := r.base.Read(ctx)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			r.logger.Debug("frame read failed", "error", err)
		}
		return msg, n, err
	}
	r.logger.Debug("frame read", "bytes", n, "message", describe(msg))
	return msg, n, nil
}

type loggingWriter struct {
	base   jsonrpc2.Writer
	logger *slog.Logger
}

func (w *loggingWriter) Write(ctx context.Context, msg jsonrpc2.Message) (int64, error) {
	n, err := w.base.Write(ctx, msg)
	if err != nil {
		w.logger.Debug("frame write failed", "error", err)
		return n, err
	}
	w.logger.Debug("frame written", "bytes", n, "message", describe(msg))
	return n, nil
}

func describe(msg jsonrpc2.Message) string {
	switch m := msg.(type) {
	case *jsonrpc2.Request:
		if m.IsCall() {
			return fmt.Sprintf("call %s id=%v", m.Method, m.ID.Raw())
		}
		return "notify " + m.Method
	case *jsonrpc2.Response:
		if m.Error != nil {
			return fmt.Sprintf("error id=%v: %v", m.ID.Raw(), m.Error)
		}
		return fmt.Sprintf("result id=%v", m.ID.Raw())
	}
	return fmt.Sprintf("%T", msg)
}

// NewLineFramer returns a Framer that encodes/decodes raw JSON messages, one
// per line. This is the stdio framing MCP clients and servers expect. Lines
// that are not JSON-RPC messages are logged to logger, which may be nil, and
// skipped.
func NewLineFramer(logger *slog.Logger) jsonrpc2.Framer {
	return lineFramer{logger: logger}
}

type lineFramer struct {
	logger *slog.Logger
}

type lineReader struct {
	in     *bufio.Reader
	logger *slog.Logger
}

type lineWriter struct {
	out io.Writer
}

func (f lineFramer) Reader(r io.Reader) jsonrpc2.Reader {
	return &lineReader{in: bufio.NewReader(r), logger: f.logger}
}

func (lineFramer) Writer(w io.Writer) jsonrpc2.Writer {
	return &lineWriter{out: w}
}

// Read returns the next message. Blank and malformed lines are skipped and
// io.EOF is returned once the stream is exhausted.
func (r *lineReader) Read(ctx context.Context) (jsonrpc2.Message, int64, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		default:
		}

		line, err := r.in.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, 0, fmt.Errorf("failed to read line: %w", err)
		}
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) == 0 {
			if err != nil {
				return nil, 0, io.EOF
			}
			continue
		}

		msg, derr := decodeLine(trimmed)
		if derr == nil {
			return msg, int64(len(line)), nil
		}
		r.skipped(trimmed, derr)
		if err != nil {
			return nil, 0, io.EOF
		}
	}
}

func decodeLine(line []byte) (jsonrpc2.Message, error) {
	if !json.Valid(line) {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w", jsonrpc2.ErrParse)
	}
	return jsonrpc2.DecodeMessage(line)
}

func (r *lineReader) skipped(line []byte, err error) {
	if r.logger == nil {
		return
	}
	const maxLogged = 200
	if len(line) > maxLogged {
		line = line[:maxLogged]
	}
	r.logger.Debug("skipping malformed frame", "error", err, "frame", string(line))
}

func (w *lineWriter) Write(ctx context.Context, msg jsonrpc2.Message) (int64, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}

	data, err := jsonrpc2.EncodeMessage(msg)
	if err != nil {
		return 0, fmt.Errorf("marshaling message: %w", err)
	}
	data = append(data, '\n')

	n, err := w.out.Write(data)
	return int64(n), err
}
