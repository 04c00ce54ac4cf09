package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Engine)
	assert.Equal(t, "", cfg.Database)
	assert.True(t, cfg.Seed)
	assert.Equal(t, "127.0.0.1:8484", cfg.Listen)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "table", cfg.Output)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sqldeck.yaml"), []byte(
		"engine: duckdb\nseed: false\nlisten: 0.0.0.0:9000\n"), 0o644))

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "duckdb", cfg.Engine)
	assert.False(t, cfg.Seed)
	assert.Equal(t, "0.0.0.0:9000", cfg.Listen)
	assert.Equal(t, "table", cfg.Output, "untouched keys keep their defaults")
}

func TestLoad_ExplicitFileBeatsDiscovered(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sqldeck.yaml"), []byte("engine: duckdb\n"), 0o644))
	explicit := filepath.Join(dir, "other.yaml")
	require.NoError(t, os.WriteFile(explicit, []byte("engine: sqlite\nlog_level: debug\n"), 0o644))

	cfg, err := Load(explicit, nil)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Engine)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sqldeck.yaml"), []byte("log_level: warn\n"), 0o644))
	t.Setenv("SQLDECK_LOG_LEVEL", "error")
	t.Setenv("SQLDECK_OUTPUT", "json")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "json", cfg.Output)
}

func TestLoad_FlagsOverrideEverything(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SQLDECK_ENGINE", "duckdb")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("engine", "sqlite", "")
	flags.String("log-level", "info", "")
	require.NoError(t, flags.Parse([]string{"--engine=sqlite", "--log-level=debug"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Engine)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_UnchangedFlagsIgnored(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SQLDECK_ENGINE", "duckdb")

	// A flag left at its default must not shadow the env override.
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("engine", "sqlite", "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "duckdb", cfg.Engine)
}

func TestLoad_Validation(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad engine", map[string]string{"SQLDECK_ENGINE": "oracle"}},
		{"bad output", map[string]string{"SQLDECK_OUTPUT": "xml"}},
		{"bad log level", map[string]string{"SQLDECK_LOG_LEVEL": "loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("", nil)
			assert.Error(t, err)
		})
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"ERROR":   slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}
