// Package layout computes initial node placement for the schema graph
// and tracks incremental relocation.
package layout

import (
	"math"
	"sort"

	"github.com/sqldeck/sqldeck/internal/relation"
)

// Visual footprint of a node and the grid cell it is centered in.
// Positions refer to the node's top-left corner; centering offsets by
// half the footprint so the bounding box, not the anchor, is centered.
const (
	NodeWidth  = 180.0
	NodeHeight = 120.0
	CellWidth  = 260.0
	CellHeight = 200.0
)

// Node is one positioned table in the graph.
type Node struct {
	Table string  `json:"table"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type point struct {
	x, y float64
}

// Layout holds the committed position map. Node position updates are
// local and last-write-wins, so there is no locking here; callers
// serialize access the same way they serialize session access.
type Layout struct {
	positions map[string]point
}

// New creates an empty layout.
func New() *Layout {
	return &Layout{positions: make(map[string]point)}
}

// Empty reports whether no node has a committed position.
func (l *Layout) Empty() bool {
	return len(l.positions) == 0
}

// ComputeInitial places N tables on a ceil(√N)-column grid, each node's
// bounding box centered in its cell. It is intentionally not recomputed
// on schema changes: previously placed nodes keep their position until
// the map is explicitly cleared.
func (l *Layout) ComputeInitial(tables []string) {
	n := len(tables)
	if n == 0 {
		return
	}

	cols := int(math.Ceil(math.Sqrt(float64(n))))
	for i, table := range tables {
		row := i / cols
		col := i % cols
		l.positions[table] = point{
			x: float64(col)*CellWidth + (CellWidth-NodeWidth)/2,
			y: float64(row)*CellHeight + (CellHeight-NodeHeight)/2,
		}
	}
}

// MoveBy accumulates a manipulation displacement onto a node's absolute
// position. The committed map is updated on every event, not only on
// release, so edges can be redrawn live mid-manipulation. Unknown
// tables are ignored.
func (l *Layout) MoveBy(table string, dx, dy float64) (Node, bool) {
	p, ok := l.positions[table]
	if !ok {
		return Node{}, false
	}
	p.x += dx
	p.y += dy
	l.positions[table] = p
	return Node{Table: table, X: p.x, Y: p.y}, true
}

// Prune drops position entries for tables no longer in the schema, so
// removed tables don't leave stale nodes behind across refreshes.
func (l *Layout) Prune(tables []string) {
	keep := make(map[string]struct{}, len(tables))
	for _, t := range tables {
		keep[t] = struct{}{}
	}
	for table := range l.positions {
		if _, ok := keep[table]; !ok {
			delete(l.positions, table)
		}
	}
}

// Clear forgets all committed positions; the next ComputeInitial lays
// the graph out from scratch.
func (l *Layout) Clear() {
	l.positions = make(map[string]point)
}

// Nodes returns every positioned node, sorted by table name for stable
// output.
func (l *Layout) Nodes() []Node {
	nodes := make([]Node, 0, len(l.positions))
	for table, p := range l.positions {
		nodes = append(nodes, Node{Table: table, X: p.x, Y: p.y})
	}
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Table < nodes[j].Table
	})
	return nodes
}

// DrawableEdges filters edges down to those whose both endpoints have a
// known position; the rest are silently skipped.
func (l *Layout) DrawableEdges(edges []relation.Edge) []relation.Edge {
	out := make([]relation.Edge, 0, len(edges))
	for _, e := range edges {
		if _, ok := l.positions[e.From]; !ok {
			continue
		}
		if _, ok := l.positions[e.To]; !ok {
			continue
		}
		out = append(out, e)
	}
	return out
}
