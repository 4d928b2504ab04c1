package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMigrationManagerSQLite tests applying and rolling back the schema
func TestMigrationManagerSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "migrate.db")

	mm, err := NewMigrationManager(DriverSQLite, path)
	require.NoError(t, err)
	defer mm.Close()

	version, dirty, err := mm.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)
	assert.False(t, dirty)

	require.NoError(t, mm.Up())
	version, dirty, err = mm.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	// Up is idempotent
	require.NoError(t, mm.Up())

	require.NoError(t, mm.Down())
	version, _, err = mm.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)
}

// TestNewMigrationManagerUnknownDriver tests driver validation
func TestNewMigrationManagerUnknownDriver(t *testing.T) {
	_, err := NewMigrationManager("mysql", "localhost")
	assert.Error(t, err)
}

// TestMigrationURLs tests driver URL rewriting
func TestMigrationURLs(t *testing.T) {
	assert.Equal(t, "pgx5://u@h:5432/db", postgresMigrationURL("postgres://u@h:5432/db"))
	assert.Equal(t, "pgx5://u@h:5432/db", postgresMigrationURL("postgresql://u@h:5432/db"))
	assert.Equal(t, "pgx5://u@h/db", postgresMigrationURL("pgx5://u@h/db"))
	assert.Equal(t, "sqlite:///var/lib/statz.db", sqliteMigrationURL("/var/lib/statz.db"))
}
