// Package output renders workbench results for the terminal. It is a
// presentation-layer consumer of the core contracts, not part of them.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sqldeck/sqldeck/internal/catalog"
	"github.com/sqldeck/sqldeck/internal/session"
	"github.com/sqldeck/sqldeck/internal/workbench"
)

// Mode selects the rendering format.
type Mode string

// Rendering modes.
const (
	ModeTable Mode = "table"
	ModeJSON  Mode = "json"
	ModeCSV   Mode = "csv"
)

// Renderer writes results in the selected mode.
type Renderer struct {
	out  io.Writer
	mode Mode
}

// NewRenderer creates a renderer writing to out.
func NewRenderer(out io.Writer, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeTable
	}
	return &Renderer{out: out, mode: mode}
}

// Result renders one query result.
func (r *Renderer) Result(res *session.QueryResult) error {
	if r.mode == ModeJSON {
		return r.writeJSON(res)
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(res.Columns))
	for i, c := range res.Columns {
		header[i] = c
	}
	t.AppendHeader(header)

	for _, row := range res.Rows {
		out := make(table.Row, len(row))
		for i, cell := range row {
			if cell == nil {
				out[i] = "NULL"
			} else {
				out[i] = cell
			}
		}
		t.AppendRow(out)
	}

	if r.mode == ModeCSV {
		t.RenderCSV()
	} else {
		t.Render()
		fmt.Fprintf(r.out, "%d row(s) in %.2f ms\n", len(res.Rows), res.ExecutionTimeMs)
		if res.RowsAffected != nil {
			fmt.Fprintf(r.out, "%d row(s) affected\n", *res.RowsAffected)
		}
	}
	return nil
}

// Schema renders the reflected table metadata.
func (r *Renderer) Schema(tables []catalog.Table) error {
	if r.mode == ModeJSON {
		return r.writeJSON(tables)
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"table", "column", "type", "not null", "pk"})

	for _, tbl := range tables {
		for _, col := range tbl.Columns {
			t.AppendRow(table.Row{tbl.Name, col.Name, col.Type, col.NotNull, col.PrimaryKey})
		}
	}

	if r.mode == ModeCSV {
		t.RenderCSV()
	} else {
		t.Render()
	}
	return nil
}

// Graph renders positioned nodes and drawable edges.
func (r *Renderer) Graph(g *workbench.Graph) error {
	if r.mode == ModeJSON {
		return r.writeJSON(g)
	}

	nodes := table.NewWriter()
	nodes.SetOutputMirror(r.out)
	nodes.SetStyle(table.StyleLight)
	nodes.AppendHeader(table.Row{"table", "x", "y"})
	for _, n := range g.Nodes {
		nodes.AppendRow(table.Row{n.Table, n.X, n.Y})
	}

	edges := table.NewWriter()
	edges.SetOutputMirror(r.out)
	edges.SetStyle(table.StyleLight)
	edges.AppendHeader(table.Row{"from", "to"})
	for _, e := range g.Edges {
		edges.AppendRow(table.Row{e.From, e.To})
	}

	if r.mode == ModeCSV {
		nodes.RenderCSV()
		edges.RenderCSV()
	} else {
		nodes.Render()
		edges.Render()
	}
	return nil
}

func (r *Renderer) writeJSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
