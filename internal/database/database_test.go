package database

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/huadle/assets"
)

func TestMigrate_Idempotent(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "nested", "app.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db, assets.Migrations()))
	require.NoError(t, Migrate(db, assets.Migrations()))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n))
	assert.Equal(t, 2, n)

	for _, table := range []string{"users", "games", "daily_results", "characters", "character_aliases"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		assert.NoError(t, err, table)
	}
}

func TestMigrate_BadScriptFails(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	bad := fstest.MapFS{
		"001_ok.sql":  {Data: []byte(`CREATE TABLE a (x INTEGER);`)},
		"002_bad.sql": {Data: []byte(`CREATE TABLE (;`)},
	}
	err = Migrate(db, bad)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "002_bad.sql")

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n))
	assert.Equal(t, 1, n, "the failed script is not recorded")
}

func TestMigrate_SelfManagedScript(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	migrations := fstest.MapFS{
		"001_base.sql": {Data: []byte(`CREATE TABLE items (id INTEGER PRIMARY KEY, label TEXT);
INSERT INTO items (label) VALUES ('plum');`)},
		"002_rebuild.sql": {Data: []byte(`PRAGMA foreign_keys=OFF;
BEGIN TRANSACTION;
CREATE TABLE items_new (id INTEGER PRIMARY KEY, label TEXT NOT NULL DEFAULT '');
INSERT INTO items_new (id, label) SELECT id, label FROM items;
DROP TABLE items;
ALTER TABLE items_new RENAME TO items;
COMMIT;
PRAGMA foreign_keys=ON;`)},
	}

	require.NoError(t, Migrate(db, migrations))
	require.NoError(t, Migrate(db, migrations))

	var label string
	require.NoError(t, db.QueryRow(`SELECT label FROM items WHERE id=1`).Scan(&label))
	assert.Equal(t, "plum", label)
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n))
	assert.Equal(t, 2, n)
}
