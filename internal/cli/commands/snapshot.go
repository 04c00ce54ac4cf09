package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewSnapshotCommand creates the snapshot command and its subcommands.
func NewSnapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Export or inspect database snapshots",
		Long: `Snapshots are opaque byte images of the full session database,
produced and consumed only by the embedded engine.`,
	}

	cmd.AddCommand(newSnapshotExportCommand())
	cmd.AddCommand(newSnapshotImportCommand())
	cmd.AddCommand(newSnapshotVerifyCommand())
	return cmd
}

func newSnapshotImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the session database with a snapshot file",
		Long: `Replace the session database wholesale with the snapshot's contents.
With --database the imported image is written back to the configured
file, so it survives the process.`,
		Example: `  # Restore a snapshot into a file-backed session
  sqldeck snapshot import --database deck.db --seed=false deck.snapshot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup := NewCommandContext(cmd)
			defer cleanup()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read snapshot: %w", err)
			}
			if err := cmdCtx.Bench.ImportSnapshot(cmd.Context(), data); err != nil {
				return err
			}

			tables := cmdCtx.Bench.Schema(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d bytes (%d table(s))\n", len(data), len(tables))
			return nil
		},
	}
}

func newSnapshotExportCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the session database to a snapshot file",
		Example: `  # Export the seeded session
  sqldeck snapshot export -f deck.snapshot`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup := NewCommandContext(cmd)
			defer cleanup()

			if err := cmdCtx.Bench.Initialize(cmd.Context()); err != nil {
				return err
			}

			data, err := cmdCtx.Bench.ExportSnapshot(cmd.Context())
			if err != nil {
				return err
			}

			if err := os.WriteFile(out, data, 0600); err != nil {
				return fmt.Errorf("failed to write snapshot: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d bytes to %s\n", len(data), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "file", "f", "deck.snapshot", "Output file")
	return cmd
}

func newSnapshotVerifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <file>",
		Short: "Verify that a snapshot file can be imported",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup := NewCommandContext(cmd)
			defer cleanup()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read snapshot: %w", err)
			}

			if err := cmdCtx.Bench.ImportSnapshot(cmd.Context(), data); err != nil {
				return err
			}

			tables := cmdCtx.Bench.Schema(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "Snapshot OK: %d table(s)\n", len(tables))
			return nil
		},
	}
}
