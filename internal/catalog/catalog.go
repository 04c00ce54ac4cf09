// Package catalog derives typed table and column metadata from the
// session's engine catalog.
package catalog

import (
	"context"
	"log/slog"

	"github.com/sqldeck/sqldeck/internal/adapter"
)

// Column is one column of a user table, in the engine's native
// declaration order.
type Column struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	NotNull    bool   `json:"notNull"`
	PrimaryKey bool   `json:"primaryKey"`
}

// Table is one user table and its ordered columns.
type Table struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// Session is the slice of the engine session the reflector needs.
type Session interface {
	Ready() bool
	ListTables(ctx context.Context) ([]string, error)
	TableColumns(ctx context.Context, table string) ([]adapter.Column, error)
}

// Reflector reads schema structure from a session.
type Reflector struct {
	sess   Session
	logger *slog.Logger
}

// NewReflector creates a reflector over the given session.
func NewReflector(sess Session, logger *slog.Logger) *Reflector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Reflector{sess: sess, logger: logger}
}

// Reflect returns every user table with its columns, lexicographically
// ordered by table name. An Uninitialized session yields an empty
// result, not an error. Any failure mid-traversal degrades to an empty
// result as well: callers never see a partial schema.
func (r *Reflector) Reflect(ctx context.Context) []Table {
	if !r.sess.Ready() {
		return []Table{}
	}

	names, err := r.sess.ListTables(ctx)
	if err != nil {
		r.logger.Warn("schema reflection failed", "error", err)
		return []Table{}
	}

	tables := make([]Table, 0, len(names))
	for _, name := range names {
		cols, err := r.sess.TableColumns(ctx, name)
		if err != nil {
			r.logger.Warn("schema reflection failed", "table", name, "error", err)
			return []Table{}
		}

		columns := make([]Column, len(cols))
		for i, c := range cols {
			columns[i] = Column{
				Name:       c.Name,
				Type:       c.Type,
				NotNull:    c.NotNull,
				PrimaryKey: c.PrimaryKey,
			}
		}
		tables = append(tables, Table{Name: name, Columns: columns})
	}
	return tables
}
