package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_AutoRegistration(t *testing.T) {
	assert.True(t, IsRegistered("sqlite"), "sqlite adapter should be auto-registered")
	assert.True(t, IsRegistered("duckdb"), "duckdb adapter should be auto-registered")
	assert.False(t, IsRegistered("postgres"))
}

func TestRegistered_Sorted(t *testing.T) {
	names := Registered()
	assert.Contains(t, names, "sqlite")
	assert.Contains(t, names, "duckdb")
	assert.IsIncreasing(t, names)
}

func TestNew_Success(t *testing.T) {
	a, err := New(Config{Type: "sqlite"})
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "sqlite", a.DialectName())
}

func TestNew_UnknownType(t *testing.T) {
	_, err := New(Config{Type: "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown adapter type")
}
