// Package session owns the embedded engine's lifecycle and the single
// active database handle, and executes statements against it.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/sqldeck/sqldeck/internal/adapter"
)

// Config holds session configuration.
type Config struct {
	// Engine is the adapter type ("sqlite" or "duckdb"). Defaults to sqlite.
	Engine string
	// Path is the database file path. Empty means an ephemeral database
	// owned by the adapter.
	Path string
	// Seed controls whether the demonstration dataset is loaded on first
	// initialization.
	Seed bool
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// Session is the single owner of one live embedded-engine database.
// All session-touching operations are serialized behind one mutex: the
// engine blocks the caller for the full duration of any statement.
type Session struct {
	mu     sync.Mutex
	logger *slog.Logger
	cfg    Config
	adp    adapter.Adapter
	ready  bool
}

// New creates an Uninitialized session. The engine runtime is only
// loaded on the first Initialize (or lazily by Execute).
func New(cfg Config) *Session {
	if cfg.Engine == "" {
		cfg.Engine = "sqlite"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{logger: logger, cfg: cfg}
}

// Initialize bootstraps the engine. It is idempotent: a Ready session is
// left untouched. On failure the session stays Uninitialized and an
// *InitError is returned.
func (s *Session) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initializeLocked(ctx)
}

func (s *Session) initializeLocked(ctx context.Context) error {
	if s.ready {
		return nil
	}

	s.logger.Debug("initializing session", "engine", s.cfg.Engine)

	adp, err := adapter.New(adapter.Config{Type: s.cfg.Engine, Path: s.cfg.Path})
	if err != nil {
		return &InitError{Err: err}
	}
	if err := adp.Connect(ctx, adapter.Config{Type: s.cfg.Engine, Path: s.cfg.Path}); err != nil {
		return &InitError{Err: err}
	}

	if s.cfg.Seed {
		// Only a fresh database gets the demonstration dataset;
		// reopening a populated file leaves it untouched.
		tables, err := adp.ListTables(ctx)
		if err != nil {
			_ = adp.Close()
			return &InitError{Err: err}
		}
		if len(tables) == 0 {
			if err := loadSeedData(ctx, adp); err != nil {
				_ = adp.Close()
				return &InitError{Err: fmt.Errorf("failed to load seed dataset: %w", err)}
			}
		}
	}

	s.adp = adp
	s.ready = true
	s.logger.Debug("session ready", "dialect", adp.DialectName())
	return nil
}

// Ready reports whether the session has a live database.
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// Reset drops every user table. Per-table failures are logged and do not
// abort the remaining drops.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil
	}

	tables, err := s.adp.ListTables(ctx)
	if err != nil {
		return fmt.Errorf("failed to enumerate tables: %w", err)
	}

	for _, table := range tables {
		stmt := fmt.Sprintf("DROP TABLE %s", quoteIdent(table))
		if _, err := s.adp.Exec(ctx, stmt); err != nil {
			s.logger.Warn("failed to drop table during reset", "table", table, "error", err)
		}
	}
	return nil
}

// ExportSnapshot serializes the full database to an opaque byte
// sequence. An Uninitialized session yields nil bytes and no error.
func (s *Session) ExportSnapshot(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil, nil
	}

	data, err := s.adp.Serialize(ctx)
	if err != nil {
		return nil, &SnapshotError{Err: err}
	}
	return data, nil
}

// ImportSnapshot replaces the current database wholesale with the
// deserialized one. The engine runtime is loaded first if needed. The
// replacement is destructive, never a merge; on failure the current
// database is left untouched.
func (s *Session) ImportSnapshot(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		if err := s.initializeLocked(ctx); err != nil {
			return err
		}
	}

	if err := s.adp.Deserialize(ctx, data); err != nil {
		return &SnapshotError{Err: err}
	}

	s.logger.Debug("snapshot imported", "bytes", len(data))
	return nil
}

// ListTables returns user table names, or nil when Uninitialized.
func (s *Session) ListTables(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil, nil
	}
	return s.adp.ListTables(ctx)
}

// TableColumns returns column metadata for one user table.
func (s *Session) TableColumns(ctx context.Context, table string) ([]adapter.Column, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil, fmt.Errorf("session not initialized")
	}
	return s.adp.TableColumns(ctx, table)
}

// DialectName returns the engine's dialect name, or "" when Uninitialized.
func (s *Session) DialectName() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return ""
	}
	return s.adp.DialectName()
}

// Close releases the engine and any session-owned files.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.adp == nil {
		return nil
	}
	err := s.adp.Close()
	s.adp = nil
	s.ready = false
	return err
}

// quoteIdent quotes an identifier for safe interpolation.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
