package db_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrsandeep/animelist/internal/db"
	"github.com/vrsandeep/animelist/internal/testutil"
)

func TestForeignKeyCascadeDelete(t *testing.T) {
	database := testutil.SetupTestDB(t)

	var foreignKeysEnabled int
	require.NoError(t, database.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeysEnabled))
	assert.Equal(t, 1, foreignKeysEnabled, "foreign keys should be enabled")

	_, err := database.Exec("INSERT INTO users (id, email, password_hash, created_at) VALUES ('u1', 'a@example.com', 'hash', datetime('now'))")
	require.NoError(t, err)
	_, err = database.Exec("INSERT INTO profiles (user_id, updated_at) VALUES ('u1', datetime('now'))")
	require.NoError(t, err)
	_, err = database.Exec("INSERT INTO sessions (token, user_id, expiry) VALUES ('t1', 'u1', datetime('now', '+1 day'))")
	require.NoError(t, err)
	_, err = database.Exec("INSERT INTO watchlist_entries (user_id, mal_id, status, added_at, payload) VALUES ('u1', 1, 'watching', 0, '{}')")
	require.NoError(t, err)

	_, err = database.Exec("DELETE FROM users WHERE id = 'u1'")
	require.NoError(t, err)

	for _, table := range []string{"profiles", "sessions", "watchlist_entries"} {
		var count int
		require.NoError(t, database.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&count))
		assert.Equal(t, 0, count, "%s rows should cascade", table)
	}
}

func TestWatchlistStatusConstraint(t *testing.T) {
	database := testutil.SetupTestDB(t)

	_, err := database.Exec("INSERT INTO users (id, email, password_hash, created_at) VALUES ('u1', 'a@example.com', 'hash', datetime('now'))")
	require.NoError(t, err)
	_, err = database.Exec("INSERT INTO profiles (user_id, updated_at) VALUES ('u1', datetime('now'))")
	require.NoError(t, err)

	_, err = database.Exec("INSERT INTO watchlist_entries (user_id, mal_id, status, added_at, payload) VALUES ('u1', 1, 'paused', 0, '{}')")
	assert.Error(t, err)
}

func TestInitDBAndMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "animelist.db")

	database, err := db.InitDB(path)
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, db.RunMigrations(database))
	require.NoError(t, db.RunMigrations(database))

	var count int
	require.NoError(t, database.QueryRow("SELECT COUNT(*) FROM users").Scan(&count))
	assert.Equal(t, 0, count)
}
