package workbench

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqldeck/sqldeck/internal/layout"
	"github.com/sqldeck/sqldeck/internal/relation"
	"github.com/sqldeck/sqldeck/internal/testutil"
)

func newTestBench(t *testing.T) *Workbench {
	t.Helper()
	w := New(Config{Seed: true, Logger: testutil.NewLogger(t)})
	t.Cleanup(func() { _ = w.Close() })
	require.NoError(t, w.Initialize(context.Background()))
	return w
}

func nodeNames(nodes []layout.Node) []string {
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Table
	}
	return names
}

func TestGraph_SeedDataset(t *testing.T) {
	ctx := context.Background()
	w := newTestBench(t)

	g := w.Graph(ctx)
	assert.Equal(t, []string{"order_items", "orders", "products", "users"}, nodeNames(g.Nodes))
	assert.ElementsMatch(t, []relation.Edge{
		{From: "order_items", To: "orders"},
		{From: "order_items", To: "products"},
		{From: "orders", To: "users"},
	}, g.Edges)
}

func TestGraph_IdleSession(t *testing.T) {
	w := New(Config{Logger: testutil.NewLogger(t)})
	t.Cleanup(func() { _ = w.Close() })

	g := w.Graph(context.Background())
	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Edges)
}

func TestMoveNode_PersistsAcrossRefresh(t *testing.T) {
	ctx := context.Background()
	w := newTestBench(t)
	w.Graph(ctx)

	moved, ok := w.MoveNode("users", 30, -12.5)
	require.True(t, ok)

	g := w.Graph(ctx)
	for _, n := range g.Nodes {
		if n.Table == "users" {
			assert.Equal(t, moved.X, n.X)
			assert.Equal(t, moved.Y, n.Y)
			return
		}
	}
	t.Fatal("users node missing from refreshed graph")
}

func TestMoveNode_Unknown(t *testing.T) {
	w := newTestBench(t)
	w.Graph(context.Background())

	_, ok := w.MoveNode("ghosts", 1, 1)
	assert.False(t, ok)
}

func TestGraph_NewTableWaitsForLayoutReset(t *testing.T) {
	ctx := context.Background()
	w := newTestBench(t)
	w.Graph(ctx)

	// A table created after the initial grid has no committed position,
	// so neither it nor its edges are drawable until a layout reset.
	_, err := w.Execute(ctx, "CREATE TABLE reviews (id INTEGER PRIMARY KEY, product_id INTEGER)")
	require.NoError(t, err)

	g := w.Graph(ctx)
	assert.NotContains(t, nodeNames(g.Nodes), "reviews")
	assert.NotContains(t, g.Edges, relation.Edge{From: "reviews", To: "products"})

	w.ResetLayout()
	g = w.Graph(ctx)
	assert.Contains(t, nodeNames(g.Nodes), "reviews")
	assert.Contains(t, g.Edges, relation.Edge{From: "reviews", To: "products"})
}

func TestGraph_PrunesDroppedTables(t *testing.T) {
	ctx := context.Background()
	w := newTestBench(t)
	w.Graph(ctx)

	_, err := w.Execute(ctx, "DROP TABLE order_items")
	require.NoError(t, err)

	g := w.Graph(ctx)
	assert.Equal(t, []string{"orders", "products", "users"}, nodeNames(g.Nodes))
	assert.Equal(t, []relation.Edge{{From: "orders", To: "users"}}, g.Edges)
}

func TestReset_ClearsEverything(t *testing.T) {
	ctx := context.Background()
	w := newTestBench(t)
	w.Graph(ctx)

	require.NoError(t, w.Reset(ctx))
	assert.True(t, w.Ready())

	g := w.Graph(ctx)
	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Edges)
	assert.Empty(t, w.Schema(ctx))
}

func TestImportSnapshot_DiscardsLayout(t *testing.T) {
	ctx := context.Background()
	src := newTestBench(t)
	src.Graph(ctx)
	_, ok := src.MoveNode("users", 500, 500)
	require.True(t, ok)

	data, err := src.ExportSnapshot(ctx)
	require.NoError(t, err)

	dst := New(Config{Logger: testutil.NewLogger(t)})
	t.Cleanup(func() { _ = dst.Close() })
	require.NoError(t, dst.ImportSnapshot(ctx, data))

	// Importing replaces the database wholesale, so the committed
	// positions are discarded and the grid is recomputed fresh.
	g := dst.Graph(ctx)
	assert.Equal(t, []string{"order_items", "orders", "products", "users"}, nodeNames(g.Nodes))
	for _, n := range g.Nodes {
		assert.Less(t, n.X, 500.0, "node %s should sit on the fresh grid", n.Table)
	}
}

func TestSchema_MatchesSeed(t *testing.T) {
	ctx := context.Background()
	w := newTestBench(t)

	tables := w.Schema(ctx)
	require.Len(t, tables, 4)
	assert.Equal(t, "order_items", tables[0].Name)
	require.Len(t, tables[0].Columns, 4)
	assert.Equal(t, "order_id", tables[0].Columns[1].Name)
}
