// Package config loads SQLDeck configuration from file, environment
// variables, and flags.
package config

// Defaults.
const (
	DefaultEngine   = "sqlite"
	DefaultListen   = "127.0.0.1:8484"
	DefaultLogLevel = "info"
	DefaultOutput   = "table"
)

// Config holds the resolved workbench configuration.
type Config struct {
	// Engine is the embedded engine type ("sqlite" or "duckdb").
	Engine string `koanf:"engine"`

	// Database is the database file path; empty keeps the session
	// ephemeral in a temp directory.
	Database string `koanf:"database"`

	// Seed controls loading of the demonstration dataset.
	Seed bool `koanf:"seed"`

	// Listen is the HTTP API listen address for the serve command.
	Listen string `koanf:"listen"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Output is the CLI result rendering mode (table, json, csv).
	Output string `koanf:"output"`
}
