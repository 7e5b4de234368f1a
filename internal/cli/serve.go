package cli

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/usestring/harbind/pkg/mcpsrv"
)

func newServeCmd(logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server in stdio mode for AI assistants",
		Long: `Start the Model Context Protocol (MCP) server on stdin/stdout.

Logs go to stderr, or to LOG_FILE when set, so they never mix with protocol
messages.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			var opts []mcpsrv.Option
			if *logLevel != "" {
				opts = append(opts, mcpsrv.WithLogLevel(*logLevel))
			}
			server, err := mcpsrv.NewServer(opts...)
			if err != nil {
				return err
			}
			defer server.Close()

			slog.Info("starting harbind MCP server on stdio")
			if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			slog.Info("server stopped")
			return nil
		},
	}
}
