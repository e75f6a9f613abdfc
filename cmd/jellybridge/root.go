package main

import (
	"fmt"

	"github.com/jonwraymond/jellybridge/bridge"
	"github.com/jonwraymond/jellybridge/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is injected at build time via -ldflags.
var Version = "dev"

// app holds state shared by subcommands after flag parsing.
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "jellybridge",
		Short: "String-in, string-out boundary for code execution, Candid parsing and link checking",
		Long: `jellybridge runs the boundary operations (execute_code, parse_service_candid,
check, ...) and prints their result envelope, {"ok":"..."} or {"err":"..."}.

The serve command exposes the same operations as MCP tools over stdio.`,
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg

			logger, err := newLogger(cfg.LogLevel, a.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "jellybridge.yaml", "path to the YAML configuration file")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newServeCommand(a))
	cmd.AddCommand(newCallCommand(a))
	cmd.AddCommand(newOperationsCommand())

	return cmd
}

// newBridge builds the Bridge described by the loaded configuration.
func (a *app) newBridge() (*bridge.Bridge, error) {
	b, err := bridge.NewDefaultWithConfig(bridge.DefaultConfig{
		ExecutionTimeout: a.cfg.Execution.Timeout,
		AllowedPackages:  a.cfg.Execution.AllowedPackages,
		Logger:           zapLogger{l: a.logger.Sugar()},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build bridge: %w", err)
	}
	return b, nil
}
