package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand() *cobra.Command {
	var snapshot string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Show the reflected schema of the workbench session",
		Example: `  # Schema of the seed dataset
  sqldeck schema

  # Schema of an exported snapshot, as JSON
  sqldeck schema --snapshot deck.snapshot -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup := NewCommandContext(cmd)
			defer cleanup()

			if snapshot != "" {
				data, err := os.ReadFile(snapshot)
				if err != nil {
					return fmt.Errorf("failed to read snapshot: %w", err)
				}
				if err := cmdCtx.Bench.ImportSnapshot(cmd.Context(), data); err != nil {
					return err
				}
			} else if err := cmdCtx.Bench.Initialize(cmd.Context()); err != nil {
				return err
			}

			return cmdCtx.Renderer.Schema(cmdCtx.Bench.Schema(cmd.Context()))
		},
	}

	cmd.Flags().StringVar(&snapshot, "snapshot", "", "Import a snapshot file before reflecting")
	return cmd
}

// NewGraphCommand creates the graph command.
func NewGraphCommand() *cobra.Command {
	var snapshot string

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Show the inferred relationship graph with initial layout",
		Long: `Reflect the schema, infer directed relationships from *_id column
naming, and print the laid-out nodes plus drawable edges.`,
		Example: `  # Graph of the seed dataset
  sqldeck graph

  # Graph of a snapshot, as JSON for external rendering
  sqldeck graph --snapshot deck.snapshot -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup := NewCommandContext(cmd)
			defer cleanup()

			if snapshot != "" {
				data, err := os.ReadFile(snapshot)
				if err != nil {
					return fmt.Errorf("failed to read snapshot: %w", err)
				}
				if err := cmdCtx.Bench.ImportSnapshot(cmd.Context(), data); err != nil {
					return err
				}
			} else if err := cmdCtx.Bench.Initialize(cmd.Context()); err != nil {
				return err
			}

			return cmdCtx.Renderer.Graph(cmdCtx.Bench.Graph(cmd.Context()))
		},
	}

	cmd.Flags().StringVar(&snapshot, "snapshot", "", "Import a snapshot file before reflecting")
	return cmd
}
