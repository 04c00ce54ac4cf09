// Package relation infers directed edges between tables from
// column-naming convention. Declared foreign keys are not reliably
// introspectable across engines, so this is a best-effort advisory
// pass; inferred edges must never be used for integrity enforcement.
package relation

import (
	"strings"

	"github.com/sqldeck/sqldeck/internal/catalog"
)

// Edge is a directed relationship from one table to another.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Infer derives edges from the schema. For every column whose name ends
// in "_id" (case-insensitive), the suffix is stripped and the bare root,
// root+"s", and root+"es" are tried in order against the existing table
// names; the first exact match becomes the edge target. Edges are not
// deduplicated and self-references are allowed.
func Infer(tables []catalog.Table) []Edge {
	names := make(map[string]struct{}, len(tables))
	for _, t := range tables {
		names[t.Name] = struct{}{}
	}

	edges := make([]Edge, 0)
	for _, t := range tables {
		for _, col := range t.Columns {
			target, ok := matchTarget(col.Name, names)
			if !ok {
				continue
			}
			edges = append(edges, Edge{From: t.Name, To: target})
		}
	}
	return edges
}

// matchTarget resolves a candidate FK column name to a table name.
func matchTarget(column string, tables map[string]struct{}) (string, bool) {
	lower := strings.ToLower(column)
	if !strings.HasSuffix(lower, "_id") {
		return "", false
	}

	root := column[:len(column)-len("_id")]
	for _, candidate := range []string{root, root + "s", root + "es"} {
		if _, ok := tables[candidate]; ok {
			return candidate, true
		}
	}
	return "", false
}
