package commands

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sqldeck/sqldeck/internal/cli/output"
	"github.com/sqldeck/sqldeck/internal/config"
	"github.com/sqldeck/sqldeck/internal/workbench"
)

type cfgKey struct{}
type loggerKey struct{}

// WithRuntime stores the loaded config and logger in the command context.
func WithRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger) context.Context {
	ctx = context.WithValue(ctx, cfgKey{}, cfg)
	return context.WithValue(ctx, loggerKey{}, logger)
}

// getConfig retrieves the config from the command context.
func getConfig(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(cfgKey{}).(*config.Config); ok {
		return cfg
	}
	return &config.Config{
		Engine:   config.DefaultEngine,
		Seed:     true,
		Listen:   config.DefaultListen,
		LogLevel: config.DefaultLogLevel,
		Output:   config.DefaultOutput,
	}
}

// getLogger retrieves the logger from the command context.
func getLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Bench    *workbench.Workbench
	Renderer *output.Renderer
}

// NewCommandContext builds the workbench and renderer for a command.
// The returned cleanup must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func()) {
	cfg := getConfig(cmd.Context())
	logger := getLogger(cmd.Context())

	wb := workbench.New(workbench.Config{
		Engine: cfg.Engine,
		Path:   cfg.Database,
		Seed:   cfg.Seed,
		Logger: logger,
	})

	r := output.NewRenderer(cmd.OutOrStdout(), output.Mode(cfg.Output))

	cleanup := func() {
		_ = wb.Close()
	}
	return &CommandContext{Cfg: cfg, Logger: logger, Bench: wb, Renderer: r}, cleanup
}
