package ui

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sqldeck/sqldeck/internal/session"
	"github.com/sqldeck/sqldeck/internal/workbench"
)

// maxSnapshotBytes bounds snapshot uploads.
const maxSnapshotBytes = 256 << 20

// handlers provides the JSON handlers for the workbench API.
type handlers struct {
	wb     *workbench.Workbench
	logger *slog.Logger
}

func newHandlers(wb *workbench.Workbench, logger *slog.Logger) *handlers {
	return &handlers{wb: wb, logger: logger}
}

type queryRequest struct {
	SQL string `json:"sql"`
}

type moveRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type statusResponse struct {
	Ready   bool   `json:"ready"`
	Dialect string `json:"dialect,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Query executes one statement and returns the normalized result.
func (h *handlers) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	result, err := h.wb.Execute(r.Context(), req.SQL)
	if err != nil {
		writeExecError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Schema returns the reflected table metadata.
func (h *handlers) Schema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.wb.Schema(r.Context()))
}

// Graph returns positioned nodes and drawable edges.
func (h *handlers) Graph(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.wb.Graph(r.Context()))
}

// MoveNode applies a displacement to one node.
func (h *handlers) MoveNode(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	node, ok := h.wb.MoveNode(table, req.DX, req.DY)
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("unknown node: "+table))
		return
	}
	writeJSON(w, http.StatusOK, node)
}

// ResetLayout clears all committed node positions.
func (h *handlers) ResetLayout(w http.ResponseWriter, _ *http.Request) {
	h.wb.ResetLayout()
	w.WriteHeader(http.StatusNoContent)
}

// ExportSnapshot streams the database image.
func (h *handlers) ExportSnapshot(w http.ResponseWriter, r *http.Request) {
	data, err := h.wb.ExportSnapshot(r.Context())
	if err != nil {
		writeExecError(w, err)
		return
	}
	if data == nil {
		writeError(w, http.StatusConflict, errors.New("session not initialized"))
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="sqldeck.snapshot"`)
	_, _ = w.Write(data)
}

// ImportSnapshot replaces the database with the uploaded image.
func (h *handlers) ImportSnapshot(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxSnapshotBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("failed to read snapshot body"))
		return
	}

	if err := h.wb.ImportSnapshot(r.Context(), data); err != nil {
		writeExecError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reset drops all user tables.
func (h *handlers) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.wb.Reset(r.Context()); err != nil {
		writeExecError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Status reports session readiness.
func (h *handlers) Status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Ready:   h.wb.Ready(),
		Dialect: h.wb.DialectName(),
	})
}

// writeExecError maps the core error taxonomy to HTTP status codes.
func writeExecError(w http.ResponseWriter, err error) {
	var (
		initErr *session.InitError
		execErr *session.ExecError
		snapErr *session.SnapshotError
	)
	switch {
	case errors.As(err, &initErr):
		writeError(w, http.StatusServiceUnavailable, err)
	case errors.As(err, &execErr):
		writeError(w, http.StatusBadRequest, err)
	case errors.As(err, &snapErr):
		writeError(w, http.StatusBadRequest, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
