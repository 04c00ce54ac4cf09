package ui

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqldeck/sqldeck/internal/testutil"
	"github.com/sqldeck/sqldeck/internal/workbench"
)

func newTestServer(t *testing.T) (*httptest.Server, *workbench.Workbench) {
	t.Helper()
	wb := workbench.New(workbench.Config{Seed: true, Logger: testutil.NewLogger(t)})
	t.Cleanup(func() { _ = wb.Close() })

	srv := NewServer(Config{Workbench: wb, Logger: testutil.NewLogger(t)})
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, wb
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestQueryEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/query", map[string]string{"sql": "SELECT COUNT(*) AS n FROM products"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Columns         []string `json:"columns"`
		Rows            [][]any  `json:"rows"`
		ExecutionTimeMs float64  `json:"executionTimeMs"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, []string{"n"}, result.Columns)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, float64(10), result.Rows[0][0])
}

func TestQueryEndpoint_EngineError(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/query", map[string]string{"sql": "SELECT * FROM nope"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[map[string]string](t, resp)
	assert.Contains(t, body["error"], "nope")
}

func TestQueryEndpoint_MalformedBody(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/query", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSchemaEndpoint(t *testing.T) {
	ts, wb := newTestServer(t)
	require.NoError(t, wb.Initialize(t.Context()))

	resp, err := http.Get(ts.URL + "/api/schema")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	tables := decode[[]struct {
		Name    string `json:"name"`
		Columns []struct {
			Name       string `json:"name"`
			Type       string `json:"type"`
			PrimaryKey bool   `json:"primaryKey"`
		} `json:"columns"`
	}](t, resp)
	require.Len(t, tables, 4)
	assert.Equal(t, "order_items", tables[0].Name)
	assert.True(t, tables[0].Columns[0].PrimaryKey)
}

func TestGraphAndMoveEndpoints(t *testing.T) {
	ts, wb := newTestServer(t)
	require.NoError(t, wb.Initialize(t.Context()))

	resp, err := http.Get(ts.URL + "/api/graph")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	graph := decode[struct {
		Nodes []struct {
			Table string  `json:"table"`
			X     float64 `json:"x"`
			Y     float64 `json:"y"`
		} `json:"nodes"`
		Edges []struct {
			From string `json:"from"`
			To   string `json:"to"`
		} `json:"edges"`
	}](t, resp)
	require.Len(t, graph.Nodes, 4)
	require.Len(t, graph.Edges, 3)

	var before struct{ X, Y float64 }
	for _, n := range graph.Nodes {
		if n.Table == "users" {
			before.X, before.Y = n.X, n.Y
		}
	}

	moveResp := postJSON(t, ts.URL+"/api/graph/nodes/users/move", map[string]float64{"dx": 15, "dy": -5})
	require.Equal(t, http.StatusOK, moveResp.StatusCode)

	node := decode[struct {
		Table string  `json:"table"`
		X     float64 `json:"x"`
		Y     float64 `json:"y"`
	}](t, moveResp)
	assert.Equal(t, "users", node.Table)
	assert.Equal(t, before.X+15, node.X)
	assert.Equal(t, before.Y-5, node.Y)
}

func TestMoveEndpoint_UnknownNode(t *testing.T) {
	ts, wb := newTestServer(t)
	require.NoError(t, wb.Initialize(t.Context()))

	resp := postJSON(t, ts.URL+"/api/graph/nodes/ghosts/move", map[string]float64{"dx": 1, "dy": 1})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLayoutResetEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/graph/layout/reset", "application/json", nil)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestSnapshotEndpoints_RoundTrip(t *testing.T) {
	ts, wb := newTestServer(t)
	require.NoError(t, wb.Initialize(t.Context()))

	resp, err := http.Get(ts.URL + "/api/snapshot")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/octet-stream", resp.Header.Get("Content-Type"))
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	require.NotZero(t, buf.Len())

	// Wipe and restore through the API.
	_, err = wb.Execute(t.Context(), "DROP TABLE products")
	require.NoError(t, err)

	up, err := http.Post(ts.URL+"/api/snapshot", "application/octet-stream", &buf)
	require.NoError(t, err)
	defer func() { _ = up.Body.Close() }()
	require.Equal(t, http.StatusNoContent, up.StatusCode)

	res, err := wb.Execute(t.Context(), "SELECT COUNT(*) FROM products")
	require.NoError(t, err)
	assert.Equal(t, float64(10), res.Rows[0][0])
}

func TestSnapshotExport_Uninitialized(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/snapshot")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestSnapshotImport_Garbage(t *testing.T) {
	ts, wb := newTestServer(t)
	require.NoError(t, wb.Initialize(t.Context()))

	resp, err := http.Post(ts.URL+"/api/snapshot", "application/octet-stream", strings.NewReader("junk"))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestResetEndpoint(t *testing.T) {
	ts, wb := newTestServer(t)
	require.NoError(t, wb.Initialize(t.Context()))

	resp, err := http.Post(ts.URL+"/api/reset", "application/json", nil)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	tables := wb.Schema(t.Context())
	assert.Empty(t, tables)
}

func TestStatusEndpoint(t *testing.T) {
	ts, wb := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/status")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	status := decode[struct {
		Ready   bool   `json:"ready"`
		Dialect string `json:"dialect"`
	}](t, resp)
	_ = resp.Body.Close()
	assert.False(t, status.Ready)

	require.NoError(t, wb.Initialize(t.Context()))
	resp, err = http.Get(ts.URL + "/api/status")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	status = decode[struct {
		Ready   bool   `json:"ready"`
		Dialect string `json:"dialect"`
	}](t, resp)
	assert.True(t, status.Ready)
	assert.Equal(t, "sqlite", status.Dialect)
}
