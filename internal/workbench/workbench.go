// Package workbench is the facade over the embedded engine: it wires
// the session, schema reflection, relationship inference, and graph
// layout into one orchestrator consumed by the CLI and the HTTP API.
package workbench

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sqldeck/sqldeck/internal/catalog"
	"github.com/sqldeck/sqldeck/internal/layout"
	"github.com/sqldeck/sqldeck/internal/relation"
	"github.com/sqldeck/sqldeck/internal/session"
)

// Config holds workbench configuration.
type Config struct {
	// Engine is the embedded engine type ("sqlite" or "duckdb").
	Engine string
	// Path is the database file path; empty means ephemeral.
	Path string
	// Seed controls loading of the demonstration dataset.
	Seed bool
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// Graph is the renderable node/edge set handed to the presentation
// layer. Edges referencing unpositioned nodes are already filtered out.
type Graph struct {
	Nodes []layout.Node   `json:"nodes"`
	Edges []relation.Edge `json:"edges"`
}

// Workbench ties the core components together.
type Workbench struct {
	sess      *session.Session
	reflector *catalog.Reflector
	logger    *slog.Logger

	layoutMu sync.Mutex
	layout   *layout.Layout
}

// New creates a workbench with an Uninitialized session; the engine is
// bootstrapped lazily by the first statement or explicitly via
// Initialize.
func New(cfg Config) *Workbench {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	sess := session.New(session.Config{
		Engine: cfg.Engine,
		Path:   cfg.Path,
		Seed:   cfg.Seed,
		Logger: logger,
	})

	return &Workbench{
		sess:      sess,
		reflector: catalog.NewReflector(sess, logger),
		logger:    logger,
		layout:    layout.New(),
	}
}

// Initialize bootstraps the engine session.
func (w *Workbench) Initialize(ctx context.Context) error {
	return w.sess.Initialize(ctx)
}

// Execute runs one statement and returns the normalized result.
func (w *Workbench) Execute(ctx context.Context, stmt string) (*session.QueryResult, error) {
	return w.sess.Execute(ctx, stmt)
}

// Schema returns the reflected table metadata.
func (w *Workbench) Schema(ctx context.Context) []catalog.Table {
	return w.reflector.Reflect(ctx)
}

// Graph reflects the schema, infers relationships, and returns the
// positioned nodes plus drawable edges. Positions for dropped tables
// are pruned on every refresh; the initial grid is computed only when
// the position map is empty, so placed nodes survive incremental
// schema changes.
func (w *Workbench) Graph(ctx context.Context) *Graph {
	tables := w.reflector.Reflect(ctx)
	edges := relation.Infer(tables)

	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}

	w.layoutMu.Lock()
	defer w.layoutMu.Unlock()

	w.layout.Prune(names)
	if w.layout.Empty() && len(names) > 0 {
		w.layout.ComputeInitial(names)
	}

	return &Graph{
		Nodes: w.layout.Nodes(),
		Edges: w.layout.DrawableEdges(edges),
	}
}

// MoveNode applies a manipulation displacement to a node and commits
// the new position immediately.
func (w *Workbench) MoveNode(table string, dx, dy float64) (layout.Node, bool) {
	w.layoutMu.Lock()
	defer w.layoutMu.Unlock()
	return w.layout.MoveBy(table, dx, dy)
}

// ResetLayout clears the committed position map; the next Graph call
// recomputes the initial grid.
func (w *Workbench) ResetLayout() {
	w.layoutMu.Lock()
	defer w.layoutMu.Unlock()
	w.layout.Clear()
}

// Reset drops all user tables and clears the layout.
func (w *Workbench) Reset(ctx context.Context) error {
	if err := w.sess.Reset(ctx); err != nil {
		return err
	}
	w.ResetLayout()
	return nil
}

// ExportSnapshot serializes the full database.
func (w *Workbench) ExportSnapshot(ctx context.Context) ([]byte, error) {
	return w.sess.ExportSnapshot(ctx)
}

// ImportSnapshot replaces the database wholesale and clears the layout
// so the next Graph call lays out the imported schema.
func (w *Workbench) ImportSnapshot(ctx context.Context, data []byte) error {
	if err := w.sess.ImportSnapshot(ctx, data); err != nil {
		return err
	}
	w.ResetLayout()
	return nil
}

// Ready reports whether the session has a live database.
func (w *Workbench) Ready() bool {
	return w.sess.Ready()
}

// DialectName returns the engine's dialect name, or "" before bootstrap.
func (w *Workbench) DialectName() string {
	return w.sess.DialectName()
}

// Close releases the session.
func (w *Workbench) Close() error {
	return w.sess.Close()
}
