package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// ExecOptions holds options for the exec command.
type ExecOptions struct {
	Input    string
	Snapshot string
}

// NewExecCommand creates the exec command.
func NewExecCommand() *cobra.Command {
	opts := &ExecOptions{}

	cmd := &cobra.Command{
		Use:   "exec [SQL]",
		Short: "Execute a statement against the workbench session",
		Long: `Execute one statement against an ephemeral workbench session.

The session starts with the demonstration dataset unless --seed=false,
or with an imported snapshot when --snapshot is given. SELECT statements
return a result set; everything else reports affected rows.`,
		Example: `  # Query the seed dataset
  sqldeck exec "SELECT * FROM products"

  # Run a mutation and see the affected-row count
  sqldeck exec "INSERT INTO users (id, name, email) VALUES (6, 'Ada', 'a@b.c')"

  # Execute against an exported snapshot
  sqldeck exec --snapshot deck.snapshot "SELECT count(*) FROM orders"

  # Read SQL from a file, render as JSON
  sqldeck exec -i query.sql -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")
	cmd.Flags().StringVar(&opts.Snapshot, "snapshot", "", "Import a snapshot file before executing")

	return cmd
}

func runExec(cmd *cobra.Command, args []string, opts *ExecOptions) error {
	var stmt string
	switch {
	case len(args) > 0:
		stmt = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		stmt = string(content)
	case !isTerminal(os.Stdin):
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		stmt = string(content)
	default:
		return fmt.Errorf("no statement given (pass SQL as an argument, via -i, or on stdin)")
	}

	cmdCtx, cleanup := NewCommandContext(cmd)
	defer cleanup()

	if opts.Snapshot != "" {
		data, err := os.ReadFile(opts.Snapshot)
		if err != nil {
			return fmt.Errorf("failed to read snapshot: %w", err)
		}
		if err := cmdCtx.Bench.ImportSnapshot(cmd.Context(), data); err != nil {
			return err
		}
	}

	result, err := cmdCtx.Bench.Execute(cmd.Context(), stmt)
	if err != nil {
		return err
	}
	return cmdCtx.Renderer.Result(result)
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
