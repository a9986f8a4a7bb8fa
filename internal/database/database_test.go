package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_CreatesTables(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "")
	require.NoError(t, err, "InitDB should not return an error")
	defer teardown()

	for _, table := range []string{"tracked_teams", "event_cache", "team_event_stats", "team_skills"} {
		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "Querying for %s table should not produce an error", table)
		assert.Equal(t, table, name)
	}
}

func TestInitDB_IsIdempotent(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "")
	require.NoError(t, err)
	defer teardown()

	// Re-running migrations on a migrated database is a no-op.
	require.NoError(t, migrate(db, "sqlite3"))

	var version int64
	err = db.QueryRow("SELECT MAX(version_id) FROM goose_db_version").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
}
