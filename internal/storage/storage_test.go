package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, store KeyValueStore) {
	t.Helper()

	_, ok, err := store.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set("auth", `{"userId":1}`))
	v, ok, err := store.Get("auth")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"userId":1}`, v)

	// Overwrite wins.
	require.NoError(t, store.Set("auth", `{"userId":2}`))
	v, ok, err = store.Get("auth")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"userId":2}`, v)

	require.NoError(t, store.Delete("auth"))
	_, ok, err = store.Get("auth")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting an absent key is not an error.
	require.NoError(t, store.Delete("auth"))
}

func TestMemory_RoundTrip(t *testing.T) {
	testStore(t, NewMemory())
}

func TestSQLite_RoundTrip(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	defer db.Close()

	testStore(t, db)
}

func TestSQLite_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	db, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, db.Set("auth", "persisted"))
	require.NoError(t, db.Close())

	db, err = OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()

	v, ok, err := db.Get("auth")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "persisted", v)
}
