package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/y0ug/mcptools"
)

func newCallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call NAME",
		Short: "Call a tool through a spawned stdio server",
		Example: `  mcp-tools call add --args '{"a": 1, "b": 2}'
  mcp-tools call get_weather --args '{"location": "Paris"}'`,
		Args: cobra.ExactArgs(1),
		RunE: runCall,
	}
	cmd.Flags().String("args", "{}", "Tool arguments as a JSON object")
	cmd.Flags().Duration("timeout", 30*time.Second, "Timeout for the whole call")
	return cmd
}

func runCall(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	raw, _ := cmd.Flags().GetString("args")
	var toolArgs map[string]any
	if err := json.Unmarshal([]byte(raw), &toolArgs); err != nil {
		return fmt.Errorf("--args must be a JSON object: %w", err)
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")

	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}
	serverArgs := []string{"serve", "--transport", "stdio"}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		serverArgs = append(serverArgs, "--config", path)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	client, err := mcptools.NewClient(ctx, quietLogger(cfg), self, serverArgs...)
	if err != nil {
		return err
	}
	defer client.Close()

	if _, err := client.Initialize(ctx); err != nil {
		return err
	}
	result, err := client.CallTool(ctx, args[0], toolArgs)
	if err != nil {
		return err
	}
	if result.IsError {
		return errors.New(result.Text())
	}
	fmt.Fprintln(cmd.OutOrStdout(), result.Text())
	return nil
}
