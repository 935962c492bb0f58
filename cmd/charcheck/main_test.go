package main

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/huadle/internal/database"
)

func countCharacters(t *testing.T, path string) int {
	t.Helper()
	db, err := database.Open(path)
	require.NoError(t, err)
	defer func(db *sql.DB) { _ = db.Close() }(db)
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM characters`).Scan(&n))
	return n
}

func TestRun_DeletesByDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "check.db")

	require.NoError(t, run(context.Background(), path, true))

	assert.Zero(t, countCharacters(t, path))
}

func TestRun_Keep(t *testing.T) {
	path := filepath.Join(t.TempDir(), "check.db")

	require.NoError(t, run(context.Background(), path, false))

	assert.Equal(t, 1, countCharacters(t, path))
}

func TestRun_SecondKeepFailsOnDuplicateName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "check.db")
	require.NoError(t, run(context.Background(), path, false))

	assert.Error(t, run(context.Background(), path, false))
}
