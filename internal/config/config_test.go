package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if cfg.Name != want.Name || cfg.Transport != want.Transport || cfg.Log != want.Log {
		t.Errorf("expected defaults, got %+v", cfg)
	}
	if cfg.Source != "" {
		t.Errorf("Source = %q, want empty", cfg.Source)
	}
}

func TestLoadDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "mcp-tools")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	path := writeFile(t, dir, "config.toml", `name = "from-home"`)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "from-home" || cfg.Source != path {
		t.Errorf("got name %q source %q", cfg.Name, cfg.Source)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", `
name = "calc"
version = "1.2.3"
toolsets = ["math"]
page_size = 2

[transport]
kind = "http"
addr = "127.0.0.1:9000"

[log]
level = "debug"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "calc" || cfg.Version != "1.2.3" || cfg.PageSize != 2 {
		t.Errorf("unexpected top level values: %+v", cfg)
	}
	if !slices.Equal(cfg.Toolsets, []string{"math"}) {
		t.Errorf("toolsets = %v", cfg.Toolsets)
	}
	if cfg.Transport.Kind != TransportHTTP || cfg.Transport.Addr != "127.0.0.1:9000" {
		t.Errorf("transport = %+v", cfg.Transport)
	}
	if cfg.Transport.Path != "/mcp" {
		t.Errorf("unset path should keep default, got %q", cfg.Transport.Path)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
name: weather
toolsets: [weather]
transport:
  kind: http
  path: /rpc
log:
  format: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "weather" || cfg.Transport.Path != "/rpc" || cfg.Transport.Addr != ":8000" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Log.Format != "json" || cfg.Log.Level != "info" {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", `
[transport]
kind = "stdio"
`)
	t.Setenv("MCPTOOLS_TRANSPORT", "http")
	t.Setenv("MCPTOOLS_ADDR", ":7000")
	t.Setenv("MCPTOOLS_LOG_LEVEL", "warn")
	t.Setenv("MCPTOOLS_TOOLSETS", " math , ,weather")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Transport.Kind != TransportHTTP || cfg.Transport.Addr != ":7000" || cfg.Log.Level != "warn" {
		t.Errorf("env not applied: %+v", cfg)
	}
	if !slices.Equal(cfg.Toolsets, []string{"math", "weather"}) {
		t.Errorf("toolsets = %v", cfg.Toolsets)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{name: "syntax", file: "c.toml", content: "name = ", wantErr: "failed to parse"},
		{name: "transport", file: "c.toml", content: "[transport]\nkind = \"sse\"", wantErr: "unknown transport"},
		{name: "level", file: "c.toml", content: "[log]\nlevel = \"loud\"", wantErr: "unknown log level"},
		{name: "format", file: "c.yml", content: "log:\n  format: xml", wantErr: "unknown log format"},
		{name: "path", file: "c.toml", content: "[transport]\nkind = \"http\"\npath = \"mcp\"", wantErr: "must start with /"},
		{name: "page size", file: "c.toml", content: "page_size = -1", wantErr: "page_size"},
		{name: "empty name", file: "c.toml", content: `name = ""`, wantErr: "name must not be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.file, tt.content)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
