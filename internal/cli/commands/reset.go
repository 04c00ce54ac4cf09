package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewResetCommand creates the reset command.
func NewResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Drop every user table in the session database",
		Long: `Drop all user tables, returning the session to an empty database.
Mainly useful with --database, where the file outlives the process.`,
		Example: `  # Wipe a file-backed session
  sqldeck reset --database deck.db`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup := NewCommandContext(cmd)
			defer cleanup()

			if err := cmdCtx.Bench.Initialize(cmd.Context()); err != nil {
				return err
			}
			if err := cmdCtx.Bench.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Session reset")
			return nil
		},
	}
}
