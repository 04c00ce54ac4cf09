// Package adapter provides embedded database adapters for the SQLDeck
// workbench session.
package adapter

import (
	"context"
	"database/sql"
	"errors"
)

// ErrSnapshotUnsupported is returned by engines that cannot serialize
// their database to a byte image.
var ErrSnapshotUnsupported = errors.New("adapter: snapshots not supported by this engine")

// Config holds the configuration for opening an embedded database.
type Config struct {
	// Type specifies the engine type (e.g., "sqlite", "duckdb").
	Type string

	// Path is the database file path. Empty means an ephemeral database
	// owned by the adapter (removed on Close).
	Path string

	// Options contains additional driver-specific options.
	Options map[string]string
}

// Column describes one column of a user table, in declaration order.
type Column struct {
	// Name is the column name.
	Name string

	// Type is the raw declared type, unnormalized.
	Type string

	// NotNull reports whether the column rejects NULL values.
	NotNull bool

	// PrimaryKey reports whether the column is part of the primary key.
	PrimaryKey bool
}

// Rows wraps sql.Rows to provide a consistent interface across adapters.
type Rows struct {
	*sql.Rows
}

// Adapter is the interface every embedded engine must implement.
type Adapter interface {
	// Connect opens the database described by cfg.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database and releases any adapter-owned files.
	Close() error

	// Exec executes a statement that doesn't return rows and reports the
	// number of affected rows (zero for definition statements).
	Exec(ctx context.Context, sql string) (int64, error)

	// Query executes a statement that returns rows.
	Query(ctx context.Context, sql string) (*Rows, error)

	// ListTables returns the names of user tables, lexicographically
	// ordered, excluding engine-internal tables.
	ListTables(ctx context.Context) ([]string, error)

	// TableColumns returns column metadata for a table in the engine's
	// native declaration order.
	TableColumns(ctx context.Context, table string) ([]Column, error)

	// Serialize returns the full database as an opaque byte image.
	Serialize(ctx context.Context) ([]byte, error)

	// Deserialize replaces the current database wholesale with the one
	// encoded in data. The live database is only swapped after the image
	// has been validated and opened.
	Deserialize(ctx context.Context, data []byte) error

	// DialectName returns the SQL dialect name for this adapter.
	DialectName() string
}
