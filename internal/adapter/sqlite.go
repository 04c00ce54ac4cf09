package adapter

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	_ "modernc.org/sqlite" // sqlite driver
)

func init() {
	Register("sqlite", func() Adapter { return NewSQLiteAdapter() })
}

// sqliteMagic is the header every SQLite database image starts with.
var sqliteMagic = []byte("SQLite format 3\x00")

// SQLiteAdapter implements Adapter on top of an SQLite database file.
// When no path is configured, the database lives in an adapter-owned
// temporary directory and is removed on Close, making the session
// ephemeral while still supporting byte-level snapshots.
type SQLiteAdapter struct {
	db      *sql.DB
	path    string
	tempDir string // non-empty when the adapter owns the files
}

// NewSQLiteAdapter creates a new, unconnected SQLite adapter.
func NewSQLiteAdapter() *SQLiteAdapter {
	return &SQLiteAdapter{}
}

// Connect opens the SQLite database described by cfg.
func (a *SQLiteAdapter) Connect(ctx context.Context, cfg Config) error {
	path := cfg.Path
	if path == "" {
		dir, err := os.MkdirTemp("", "sqldeck-")
		if err != nil {
			return fmt.Errorf("failed to create session directory: %w", err)
		}
		a.tempDir = dir
		path = filepath.Join(dir, uuid.NewString()+".db")
	}

	db, err := openSQLite(ctx, path)
	if err != nil {
		if a.tempDir != "" {
			_ = os.RemoveAll(a.tempDir)
			a.tempDir = ""
		}
		return err
	}

	a.db = db
	a.path = path
	return nil
}

func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// The session model is strictly single-connection: the engine blocks
	// the caller for the duration of every statement.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	return db, nil
}

// Close closes the database and removes adapter-owned files.
func (a *SQLiteAdapter) Close() error {
	var err error
	if a.db != nil {
		err = a.db.Close()
		a.db = nil
	}
	if a.tempDir != "" {
		if rmErr := os.RemoveAll(a.tempDir); rmErr != nil && err == nil {
			err = rmErr
		}
		a.tempDir = ""
	}
	return err
}

// Exec executes a statement that doesn't return rows.
func (a *SQLiteAdapter) Exec(ctx context.Context, sqlStr string) (int64, error) {
	if a.db == nil {
		return 0, fmt.Errorf("database connection not established")
	}

	res, err := a.db.ExecContext(ctx, sqlStr)
	if err != nil {
		return 0, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		// Definition statements report no count; treat as zero.
		return 0, nil
	}
	return affected, nil
}

// Query executes a statement that returns rows.
func (a *SQLiteAdapter) Query(ctx context.Context, sqlStr string) (*Rows, error) {
	if a.db == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	//nolint:rowserrcheck // rows.Err() must be checked by caller after iteration completes
	rows, err := a.db.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, err
	}
	return &Rows{Rows: rows}, nil
}

// ListTables returns user table names in lexicographic order. The
// sqlite_* catalog tables are excluded.
func (a *SQLiteAdapter) ListTables(ctx context.Context) ([]string, error) {
	if a.db == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	const query = `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite\_%' ESCAPE '\'
		ORDER BY name
	`

	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}
	return names, nil
}

// TableColumns returns column metadata in declaration order, straight
// from PRAGMA table_info.
func (a *SQLiteAdapter) TableColumns(ctx context.Context, table string) ([]Column, error) {
	if a.db == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	query := fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table))
	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns for %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var columns []Column
	for rows.Next() {
		var (
			cid     int
			col     Column
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &col.Name, &col.Type, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		col.NotNull = notNull != 0
		col.PrimaryKey = pk > 0
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns: %w", err)
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}
	return columns, nil
}

// Serialize writes the full database to a compacted copy via VACUUM INTO
// and returns its bytes.
func (a *SQLiteAdapter) Serialize(ctx context.Context) ([]byte, error) {
	if a.db == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	dir := a.tempDir
	if dir == "" {
		dir = os.TempDir()
	}
	out := filepath.Join(dir, uuid.NewString()+".snapshot")
	defer func() { _ = os.Remove(out) }()

	stmt := fmt.Sprintf("VACUUM INTO %s", quoteString(out))
	if _, err := a.db.ExecContext(ctx, stmt); err != nil {
		return nil, fmt.Errorf("failed to serialize database: %w", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("failed to read serialized database: %w", err)
	}
	return data, nil
}

// Deserialize replaces the live database with the given image. The new
// database is written and opened first; the swap only happens once it is
// known to be a readable SQLite database. An adapter backed by a
// user-configured path stays backed by that path: the validated image is
// renamed over it instead of replacing it with a scratch file.
func (a *SQLiteAdapter) Deserialize(ctx context.Context, data []byte) error {
	if a.db == nil {
		return fmt.Errorf("database connection not established")
	}
	if !bytes.HasPrefix(data, sqliteMagic) {
		return fmt.Errorf("not an sqlite database image")
	}

	dir := a.tempDir
	if dir == "" {
		dir = filepath.Dir(a.path)
	}
	newPath := filepath.Join(dir, uuid.NewString()+".db")
	if err := os.WriteFile(newPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write database image: %w", err)
	}

	db, err := openSQLite(ctx, newPath)
	if err != nil {
		_ = os.Remove(newPath)
		return fmt.Errorf("invalid database image: %w", err)
	}
	var n int
	if err := db.QueryRowContext(ctx, "SELECT count(*) FROM sqlite_master").Scan(&n); err != nil {
		_ = db.Close()
		_ = os.Remove(newPath)
		return fmt.Errorf("invalid database image: %w", err)
	}

	if a.tempDir == "" {
		return a.swapConfiguredFile(ctx, db, newPath)
	}

	oldDB, oldPath := a.db, a.path
	a.db = db
	a.path = newPath
	_ = oldDB.Close()
	_ = os.Remove(oldPath)
	return nil
}

// swapConfiguredFile renames a validated image over the user-configured
// database file, then reopens it there. The rename is within one
// directory, so the configured file is never left half-replaced.
func (a *SQLiteAdapter) swapConfiguredFile(ctx context.Context, validated *sql.DB, newPath string) error {
	_ = validated.Close()
	_ = a.db.Close()
	a.db = nil

	if err := os.Rename(newPath, a.path); err != nil {
		_ = os.Remove(newPath)
		if reopened, openErr := openSQLite(ctx, a.path); openErr == nil {
			a.db = reopened
		}
		return fmt.Errorf("failed to replace database file: %w", err)
	}

	db, err := openSQLite(ctx, a.path)
	if err != nil {
		return fmt.Errorf("failed to reopen database: %w", err)
	}
	a.db = db
	return nil
}

// DialectName returns the SQL dialect name for this adapter.
func (a *SQLiteAdapter) DialectName() string {
	return "sqlite"
}

// quoteIdent quotes an identifier for safe interpolation.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// quoteString quotes a string literal for safe interpolation.
func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Ensure SQLiteAdapter implements Adapter interface
var _ Adapter = (*SQLiteAdapter)(nil)
