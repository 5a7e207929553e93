package sqlitelocal

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	dsn := DSN("/data/dietlog.db")
	assert.True(t, strings.HasPrefix(dsn, "file:/data/dietlog.db?"), dsn)
	assert.Contains(t, dsn, "_txlock=immediate")
	assert.Contains(t, dsn, "journal_mode%28WAL%29")

	mem := DSN(MemoryPath)
	assert.Contains(t, mem, "mode=memory")
	assert.NotEqual(t, mem, DSN(MemoryPath), "every in-memory database is private")
}

func TestOpenCreatesSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "dietlog.db")

	local, err := Open(ctx, path)
	require.NoError(t, err)

	var tables int
	err = local.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('accounts', 'account_groups', 'meals', 'dishes')",
	).Scan(&tables)
	require.NoError(t, err)
	assert.Equal(t, 4, tables)

	var fk int
	require.NoError(t, local.DB.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)
	local.Close()

	// Opening again keeps the existing schema.
	local, err = Open(ctx, path)
	require.NoError(t, err)
	local.Close()
}

func TestOpenMemoryAndMissingPath(t *testing.T) {
	local, err := Open(context.Background(), MemoryPath)
	require.NoError(t, err)
	defer local.Close()
	assert.NoError(t, local.DB.Ping())

	_, err = Open(context.Background(), "")
	assert.ErrorIs(t, err, ErrDBPathNotFound)
}
