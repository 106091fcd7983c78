package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Transport kinds.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config is the persisted config file schema.
type Config struct {
	Name         string   `toml:"name" yaml:"name"`
	Version      string   `toml:"version" yaml:"version"`
	Instructions string   `toml:"instructions" yaml:"instructions"`
	Toolsets     []string `toml:"toolsets" yaml:"toolsets"`
	// PageSize bounds the number of tools per tools/list page, 0 means
	// everything in one page.
	PageSize  int       `toml:"page_size" yaml:"page_size"`
	Transport Transport `toml:"transport" yaml:"transport"`
	Log       Log       `toml:"log" yaml:"log"`

	Source string `toml:"-" yaml:"-"`
}

type Transport struct {
	Kind string `toml:"kind" yaml:"kind"`
	Addr string `toml:"addr" yaml:"addr"`
	Path string `toml:"path" yaml:"path"`
}

type Log struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

func Default() Config {
	return Config{
		Name:    "mcp-tools",
		Version: "0.1.0",
		Transport: Transport{
			Kind: TransportStdio,
			Addr: ":8000",
			Path: "/mcp",
		},
		Log: Log{Level: "info", Format: "text"},
	}
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "mcp-tools", "config.toml")
}

// Load reads path, or the default path when path is empty, on top of the
// defaults and applies MCPTOOLS_* environment overrides. A missing default
// file is not an error; a missing explicit file is.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	if path != "" {
		content, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decode(path, content, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
			cfg.Source = path
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func decode(path string, content []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(content, cfg)
	default:
		return toml.Unmarshal(content, cfg)
	}
}

func applyEnv(cfg *Config) {
	env := map[string]*string{
		"MCPTOOLS_TRANSPORT":  &cfg.Transport.Kind,
		"MCPTOOLS_ADDR":       &cfg.Transport.Addr,
		"MCPTOOLS_LOG_LEVEL":  &cfg.Log.Level,
		"MCPTOOLS_LOG_FORMAT": &cfg.Log.Format,
	}
	for key, dst := range env {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	if v := strings.TrimSpace(os.Getenv("MCPTOOLS_TOOLSETS")); v != "" {
		cfg.Toolsets = splitList(v)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var (
	transports = []string{TransportStdio, TransportHTTP}
	levels     = []string{"debug", "info", "warn", "error"}
	formats    = []string{"text", "json"}
)

// Validate checks enumerated values. Toolset names are checked by the
// catalog when tools are registered.
func (c Config) Validate() error {
	if c.Name == "" {
		return errors.New("config: name must not be empty")
	}
	if !slices.Contains(transports, c.Transport.Kind) {
		return fmt.Errorf("config: unknown transport %q (want one of %s)", c.Transport.Kind, strings.Join(transports, ", "))
	}
	if c.Transport.Kind == TransportHTTP {
		if c.Transport.Addr == "" {
			return errors.New("config: http transport needs an addr")
		}
		if !strings.HasPrefix(c.Transport.Path, "/") {
			return fmt.Errorf("config: http path %q must start with /", c.Transport.Path)
		}
	}
	if !slices.Contains(levels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("config: unknown log level %q", c.Log.Level)
	}
	if !slices.Contains(formats, strings.ToLower(c.Log.Format)) {
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	if c.PageSize < 0 {
		return errors.New("config: page_size must not be negative")
	}
	return nil
}
