package main

import (
	"os/signal"
	"syscall"

	"github.com/jonwraymond/jellybridge/backend"
	"github.com/jonwraymond/jellybridge/bridge"
	"github.com/jonwraymond/jellybridge/gateway/mcpserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the operations as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			b, err := a.newBridge()
			if err != nil {
				return err
			}

			registry := backend.NewRegistry()
			if err := registry.Register(bridge.NewLocalBackend(b)); err != nil {
				return err
			}

			srv, err := mcpserver.New(ctx, mcpserver.Config{
				Name:       a.cfg.Server.Name,
				Version:    a.cfg.Server.Version,
				Aggregator: backend.NewAggregator(registry),
				Logger:     zapLogger{l: a.logger.Sugar()},
			})
			if err != nil {
				return err
			}

			a.logger.Info("serving mcp over stdio",
				zap.String("name", a.cfg.Server.Name),
				zap.Strings("tools", srv.Tools()))
			return srv.Run(ctx, &mcp.StdioTransport{})
		},
	}
}
