package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mcp-tools",
		Short: "Serve a catalog of tools over the Model Context Protocol",
		Long: `mcp-tools exposes a small catalog of tools to MCP clients.

Toolsets:
  math     - add, subtract, multiply, divide
  weather  - get_weather`,
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "Path to config file (default ~/.config/mcp-tools/config.toml)")

	root.AddCommand(newServeCmd(), newToolsCmd(), newCallCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
