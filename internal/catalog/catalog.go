// Package catalog declares the tools served by mcp-tools.
package catalog

import (
	"fmt"

	"github.com/y0ug/mcptools/internal/registry"
)

// Toolset names.
const (
	Math    = "math"
	Weather = "weather"
)

// Toolsets lists every toolset in registration order.
var Toolsets = []string{Math, Weather}

var builders = map[string]func() ([]*registry.Tool, error){
	Math:    mathTools,
	Weather: weatherTools,
}

// Register adds the tools of the named toolsets to reg, or every toolset when
// names is empty. Tools are registered in the order of Toolsets whatever the
// order of names.
func Register(reg *registry.Registry, names ...string) error {
	selected := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := builders[name]; !ok {
			return fmt.Errorf("unknown toolset %q", name)
		}
		selected[name] = true
	}

	for _, name := range Toolsets {
		if len(names) > 0 && !selected[name] {
			continue
		}
		tools, err := builders[name]()
		if err != nil {
			return fmt.Errorf("building toolset %s: %w", name, err)
		}
		for _, t := range tools {
			if err := reg.Register(t); err != nil {
				return fmt.Errorf("registering toolset %s: %w", name, err)
			}
		}
	}
	return nil
}
