package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/y0ug/mcptools"
	"github.com/y0ug/mcptools/internal/catalog"
	"github.com/y0ug/mcptools/internal/config"
	"github.com/y0ug/mcptools/internal/logging"
	"github.com/y0ug/mcptools/internal/registry"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio or HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().String("transport", "", "Transport to serve (stdio, http)")
	cmd.Flags().String("addr", "", "Listen address for the http transport")
	cmd.Flags().StringSlice("toolset", nil, "Toolset to serve, repeatable (default all)")
	cmd.Flags().String("log-level", "", "Log level (debug, info, warn, error)")
	return cmd
}

// loadConfig reads the config file and applies the flags that were set on
// cmd, which take precedence over the file and the environment.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Lookup("transport") != nil && flags.Changed("transport") {
		cfg.Transport.Kind, _ = flags.GetString("transport")
	}
	if flags.Lookup("addr") != nil && flags.Changed("addr") {
		cfg.Transport.Addr, _ = flags.GetString("addr")
	}
	if flags.Lookup("toolset") != nil && flags.Changed("toolset") {
		cfg.Toolsets, _ = flags.GetStringSlice("toolset")
	}
	if flags.Lookup("log-level") != nil && flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	return cfg, cfg.Validate()
}

func buildRegistry(cfg config.Config) (*registry.Registry, error) {
	reg := registry.New()
	if err := catalog.Register(reg, cfg.Toolsets...); err != nil {
		return nil, err
	}
	return reg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	if cfg.Source != "" {
		logger.Debug("Loaded config", "path", cfg.Source)
	}

	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	opts := []mcptools.Option{
		mcptools.WithServerInfo(cfg.Name, cfg.Version),
		mcptools.WithPageSize(cfg.PageSize),
	}
	if cfg.Instructions != "" {
		opts = append(opts, mcptools.WithInstructions(cfg.Instructions))
	}
	srv := mcptools.NewServer(logger, reg, opts...)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting server",
		"transport", cfg.Transport.Kind,
		"tools", reg.Len())
	if err := serve(ctx, srv, cfg); err != nil {
		logger.Error("Server exited with error", "error", err)
		return err
	}
	logger.Info("Server stopped")
	return nil
}

func serve(ctx context.Context, srv *mcptools.Server, cfg config.Config) error {
	switch cfg.Transport.Kind {
	case config.TransportStdio:
		return srv.Serve(ctx)
	case config.TransportHTTP:
		return srv.ListenAndServe(ctx, cfg.Transport.Addr, cfg.Transport.Path)
	default:
		return fmt.Errorf("unknown transport %q", cfg.Transport.Kind)
	}
}

// quietLogger is used by the client-side commands, whose stdout is for
// results only.
func quietLogger(cfg config.Config) *slog.Logger {
	level := cfg.Log.Level
	if level == "info" {
		level = "warn"
	}
	logger, err := logging.New(os.Stderr, level, cfg.Log.Format)
	if err != nil {
		return slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return logger
}
