package session

// QueryResult is the normalized output of one statement execution.
// Every row has exactly len(Columns) values, each one of
// string, float64, bool, or nil.
type QueryResult struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`

	// RowsAffected is present only for mutation/definition statements.
	RowsAffected *int64 `json:"rowsAffected,omitempty"`

	// ExecutionTimeMs is wall-clock time around the engine round-trip
	// only, excluding classification and lazy initialization.
	ExecutionTimeMs float64 `json:"executionTimeMs"`
}
