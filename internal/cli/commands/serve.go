package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sqldeck/sqldeck/internal/config"
	"github.com/sqldeck/sqldeck/internal/ui"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the workbench API over HTTP",
		Long: `Start the workbench HTTP API. The presentation layer consumes the
query, schema, graph, and snapshot contracts as JSON from this server.`,
		Example: `  # Serve on the default address
  sqldeck serve

  # Serve a DuckDB-backed session on a custom port
  sqldeck serve --engine duckdb --listen 127.0.0.1:9000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup := NewCommandContext(cmd)
			defer cleanup()

			addr := cmdCtx.Cfg.Listen
			if addr == "" {
				addr = config.DefaultListen
			}

			srv := ui.NewServer(ui.Config{
				Workbench: cmdCtx.Bench,
				Addr:      addr,
				Logger:    cmdCtx.Logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.Serve(ctx)
		},
	}
}
