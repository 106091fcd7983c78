package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/y0ug/mcptools/internal/config"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{"MCPTOOLS_TRANSPORT", "MCPTOOLS_ADDR", "MCPTOOLS_LOG_LEVEL", "MCPTOOLS_LOG_FORMAT", "MCPTOOLS_TOOLSETS"} {
		t.Setenv(key, "")
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestToolsCommand(t *testing.T) {
	isolate(t)

	out, err := run(t, "tools")
	if err != nil {
		t.Fatalf("tools: %v\n%s", err, out)
	}
	for _, want := range []string{"add", "subtract", "multiply", "divide", "get_weather", "Dividend", "location"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "add") > strings.Index(out, "get_weather") {
		t.Error("tools should be listed in registration order")
	}
}

func TestToolsCommandToolset(t *testing.T) {
	isolate(t)

	out, err := run(t, "tools", "--toolset", "weather")
	if err != nil {
		t.Fatalf("tools: %v", err)
	}
	if strings.Contains(out, "multiply") || !strings.Contains(out, "get_weather") {
		t.Errorf("unexpected output for weather toolset:\n%s", out)
	}

	if _, err := run(t, "tools", "--toolset", "astrology"); err == nil {
		t.Error("expected an error for an unknown toolset")
	}
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
toolsets = ["math"]

[transport]
kind = "http"
addr = ":9000"

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cmd := newServeCmd()
	cmd.Flags().String("config", "", "")
	if err := cmd.ParseFlags([]string{"--config", path, "--addr", "127.0.0.1:7000", "--log-level", "warn"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Transport.Kind != config.TransportHTTP {
		t.Errorf("transport = %q, want file value", cfg.Transport.Kind)
	}
	if cfg.Transport.Addr != "127.0.0.1:7000" {
		t.Errorf("addr = %q, want flag value", cfg.Transport.Addr)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log level = %q, want flag value", cfg.Log.Level)
	}
	if len(cfg.Toolsets) != 1 || cfg.Toolsets[0] != "math" {
		t.Errorf("toolsets = %v", cfg.Toolsets)
	}
}

func TestServeRejectsBadTransport(t *testing.T) {
	isolate(t)

	if _, err := run(t, "serve", "--transport", "carrier-pigeon"); err == nil {
		t.Error("expected an error for an unknown transport")
	}
}

func TestCallRejectsBadArgs(t *testing.T) {
	isolate(t)

	if _, err := run(t, "call", "add", "--args", "[1, 2]"); err == nil {
		t.Error("expected an error for non-object arguments")
	}
}
