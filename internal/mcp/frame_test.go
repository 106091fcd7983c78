package mcp

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"golang.org/x/exp/jsonrpc2"
)

func TestLineFramerRead(t *testing.T) {
	ctx := context.Background()
	input := "\n" +
		`{"jsonrpc":"2.0","id":1,"method":"ping"}` + "\n" +
		"   \n" +
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`

	r := NewLineFramer(nil).Reader(strings.NewReader(input))

	msg, _, err := r.Read(ctx)
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	req, ok := msg.(*jsonrpc2.Request)
	if !ok {
		t.Fatalf("expected *jsonrpc2.Request, got %T", msg)
	}
	if req.Method != "ping" || !req.IsCall() {
		t.Errorf("unexpected request: %+v", req)
	}

	msg, _, err = r.Read(ctx)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	req = msg.(*jsonrpc2.Request)
	if req.Method != MethodInitialized || req.IsCall() {
		t.Errorf("expected initialized notification, got %+v", req)
	}

	if _, _, err := r.Read(ctx); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestLineFramerSkipsMalformedLines(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	input := "{not json}\n" +
		`{"id":1}` + "\n" +
		`[1, 2, 3]` + "\n" +
		`{"jsonrpc":"2.0","id":2,"method":"ping"}` + "\n" +
		"{truncated"
	r := NewLineFramer(logger).Reader(strings.NewReader(input))

	msg, _, err := r.Read(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	req, ok := msg.(*jsonrpc2.Request)
	if !ok || req.Method != "ping" {
		t.Fatalf("expected the ping after the bad lines, got %+v", msg)
	}

	if _, _, err := r.Read(context.Background()); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF after a bad final line, got %v", err)
	}
	if got := strings.Count(logs.String(), "skipping malformed frame"); got != 4 {
		t.Errorf("logged %d skipped frames, want 4:\n%s", got, logs.String())
	}
}

func TestLineFramerWrite(t *testing.T) {
	var buf bytes.Buffer
	w := NewLineFramer(nil).Writer(&buf)

	call, err := jsonrpc2.NewCall(jsonrpc2.Int64ID(7), "tools/list", nil)
	if err != nil {
		t.Fatal(err)
	}
	n, err := w.Write(context.Background(), call)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if int(n) != buf.Len() {
		t.Errorf("reported %d bytes, buffer holds %d", n, buf.Len())
	}
	out := buf.String()
	if !strings.HasSuffix(out, "\n") || strings.Count(out, "\n") != 1 {
		t.Errorf("expected exactly one trailing newline, got %q", out)
	}
	if !strings.Contains(out, `"method":"tools/list"`) {
		t.Errorf("unexpected frame %q", out)
	}
}

func TestLoggingFramerPassesThrough(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	f := &LoggingFramer{Base: NewLineFramer(nil), Logger: logger}

	var wire bytes.Buffer
	call, _ := jsonrpc2.NewCall(jsonrpc2.Int64ID(1), "ping", nil)
	if _, err := f.Writer(&wire).Write(context.Background(), call); err != nil {
		t.Fatalf("write: %v", err)
	}

	msg, _, err := f.Reader(&wire).Read(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.(*jsonrpc2.Request).Method != "ping" {
		t.Errorf("round trip lost the method: %+v", msg)
	}
	if !strings.Contains(logs.String(), "frame written") || !strings.Contains(logs.String(), "frame read") {
		t.Errorf("expected both frames logged, got:\n%s", logs.String())
	}
}

func TestNegotiateVersion(t *testing.T) {
	tests := []struct {
		requested string
		want      string
	}{
		{"2024-11-05", "2024-11-05"},
		{"2025-03-26", "2025-03-26"},
		{LatestProtocolVersion, LatestProtocolVersion},
		{"1999-01-01", LatestProtocolVersion},
		{"", LatestProtocolVersion},
	}
	for _, tt := range tests {
		t.Run(tt.requested, func(t *testing.T) {
			if got := NegotiateVersion(tt.requested); got != tt.want {
				t.Errorf("NegotiateVersion(%q) = %q, want %q", tt.requested, got, tt.want)
			}
		})
	}
}
