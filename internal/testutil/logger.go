// Package testutil provides shared test helpers.
package testutil

import (
	"log/slog"
	"testing"
)

// NewLogger returns a debug-level logger that writes through t.Log, so
// output only shows up on failure or with -v.
func NewLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(logWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type logWriter struct {
	t testing.TB
}

func (w logWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}
