package session

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Execute classifies and runs one statement against the session,
// normalizing the output. A statement whose leading keyword is SELECT
// (case-insensitive, whitespace-trimmed) takes the projection path;
// everything else is treated as mutation/definition. If the session is
// not yet Ready the first statement transparently absorbs the bootstrap
// cost; initialization is excluded from the reported timing.
func (s *Session) Execute(ctx context.Context, stmt string) (*QueryResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		if err := s.initializeLocked(ctx); err != nil {
			return nil, err
		}
	}

	if isProjection(stmt) {
		return s.runProjection(ctx, stmt)
	}
	return s.runMutation(ctx, stmt)
}

// isProjection reports whether the trimmed leading keyword is SELECT.
func isProjection(stmt string) bool {
	fields := strings.Fields(stmt)
	return len(fields) > 0 && strings.EqualFold(fields[0], "select")
}

func (s *Session) runProjection(ctx context.Context, stmt string) (*QueryResult, error) {
	start := time.Now()
	rows, err := s.adp.Query(ctx, stmt)
	if err != nil {
		return nil, &ExecError{Err: err}
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &ExecError{Err: err}
	}
	if len(cols) == 0 {
		// The engine produced no result set at all, distinct from a
		// result set with columns but zero rows.
		return &QueryResult{
			Columns:         []string{},
			Rows:            [][]any{},
			ExecutionTimeMs: millisSince(start),
		}, nil
	}

	out := make([][]any, 0)
	raw := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &ExecError{Err: err}
		}
		row := make([]any, len(cols))
		for i, v := range raw {
			cell, err := normalizeCell(v)
			if err != nil {
				return nil, &ExecError{Err: fmt.Errorf("column %q: %w", cols[i], err)}
			}
			row[i] = cell
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &ExecError{Err: err}
	}

	return &QueryResult{
		Columns:         cols,
		Rows:            out,
		ExecutionTimeMs: millisSince(start),
	}, nil
}

func (s *Session) runMutation(ctx context.Context, stmt string) (*QueryResult, error) {
	start := time.Now()
	affected, err := s.adp.Exec(ctx, stmt)
	elapsed := millisSince(start)
	if err != nil {
		return nil, &ExecError{Err: err}
	}

	return &QueryResult{
		Columns:         []string{"status"},
		Rows:            [][]any{{fmt.Sprintf("%d row(s) affected", affected)}},
		RowsAffected:    &affected,
		ExecutionTimeMs: elapsed,
	}, nil
}

// normalizeCell coerces a driver value into the closed set
// {string, float64, bool, nil}. Anything else is rejected.
func normalizeCell(v any) (any, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case bool:
		return v, nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case time.Time:
		return v.Format(time.RFC3339), nil
	default:
		return nil, fmt.Errorf("unsupported engine value of type %T", v)
	}
}

func millisSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
