package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/spf13/cobra"

	"github.com/y0ug/mcptools/internal/registry"
)

var (
	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)
	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Padding(0, 1)
	descStyle = lipgloss.NewStyle().
			PaddingLeft(2)
	paramStyle = lipgloss.NewStyle().
			PaddingLeft(4).
			Foreground(lipgloss.Color("7"))
	requiredStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)

func newToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tools of the configured toolsets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			reg, err := buildRegistry(cfg)
			if err != nil {
				return err
			}
			renderTools(cmd.OutOrStdout(), reg.List())
			return nil
		},
	}
	cmd.Flags().StringSlice("toolset", nil, "Toolset to list, repeatable (default all)")
	return cmd
}

func renderTools(w io.Writer, tools []registry.Descriptor) {
	for i, d := range tools {
		if i > 0 {
			fmt.Fprintln(w)
		}
		header := nameStyle.Render(d.Name)
		if len(d.Tags) > 0 {
			header = lipgloss.JoinHorizontal(lipgloss.Top, header, " ", tagStyle.Render("["+strings.Join(d.Tags, ", ")+"]"))
		}
		fmt.Fprintln(w, header)
		if d.Description != "" {
			fmt.Fprintln(w, descStyle.Render(d.Description))
		}
		for _, line := range describeParams(d.InputSchema) {
			fmt.Fprintln(w, paramStyle.Render(line))
		}
	}
}

// describeParams renders one line per top-level property, sorted by name.
func describeParams(s *jsonschema.Schema) []string {
	if s == nil || len(s.Properties) == 0 {
		return nil
	}
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	slices.Sort(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		prop := s.Properties[name]
		line := name
		if prop.Type != "" {
			line += " (" + prop.Type + ")"
		}
		if slices.Contains(s.Required, name) {
			line += " " + requiredStyle.Render("required")
		}
		if prop.Description != "" {
			line += ": " + prop.Description
		}
		lines = append(lines, line)
	}
	return lines
}
