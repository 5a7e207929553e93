package txutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// openFileDB opens a file database that fails fast instead of waiting for
// locks, so conflicts surface immediately.
func openFileDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?_txlock=immediate&_pragma=busy_timeout(0)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func setupCounter(t *testing.T) (string, *sql.DB) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "txutil.db")
	db := openFileDB(t, path)
	_, err := db.Exec(`CREATE TABLE counter (n INTEGER NOT NULL); INSERT INTO counter (n) VALUES (0);`)
	require.NoError(t, err)
	return path, db
}

func readCounter(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT n FROM counter`).Scan(&n))
	return n
}

func TestRunCommits(t *testing.T) {
	ctx := context.Background()
	_, db := setupCounter(t)

	err := Run(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `UPDATE counter SET n = n + 1`)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, readCounter(t, db))
}

func TestRunRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	_, db := setupCounter(t)
	boom := errors.New("boom")

	calls := 0
	err := Run(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		calls++
		if _, err := tx.ExecContext(ctx, `UPDATE counter SET n = n + 1`); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls, "plain errors are not retried")
	assert.Equal(t, 0, readCounter(t, db))
}

func TestRunRetriesConflicts(t *testing.T) {
	ctx := context.Background()
	path, db := setupCounter(t)
	other := openFileDB(t, path)

	// Hold the write lock from another connection for a short while.
	holder, err := other.BeginTx(ctx, nil)
	require.NoError(t, err)
	_, err = holder.ExecContext(ctx, `UPDATE counter SET n = n + 10`)
	require.NoError(t, err)
	go func() {
		time.Sleep(30 * time.Millisecond)
		_ = holder.Commit()
	}()

	var attempts atomic.Int32
	err = RunWithOptions(ctx, db, Options{MaxAttempts: 20, Backoff: 5 * time.Millisecond}, func(ctx context.Context, tx *sql.Tx) error {
		attempts.Add(1)
		_, err := tx.ExecContext(ctx, `UPDATE counter SET n = n + 1`)
		return err
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, attempts.Load(), int32(1))
	assert.Equal(t, 11, readCounter(t, db))
}

func TestRunGivesUp(t *testing.T) {
	ctx := context.Background()
	path, db := setupCounter(t)
	other := openFileDB(t, path)

	holder, err := other.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer holder.Rollback()

	err = RunWithOptions(ctx, db, Options{MaxAttempts: 3, Backoff: time.Millisecond}, func(ctx context.Context, tx *sql.Tx) error {
		t.Fatal("unit of work must not run without the lock")
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTooManyAttempts)
	assert.True(t, IsConflict(err))
}

func TestIsConflict(t *testing.T) {
	assert.False(t, IsConflict(nil))
	assert.False(t, IsConflict(errors.New("busy")))
	assert.False(t, IsConflict(sql.ErrNoRows))
}
