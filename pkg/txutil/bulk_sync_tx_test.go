package txutil

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/dietlog/server/db/pkg/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testChange struct {
	ItemID string
	Owner  string
}

func ownerOf(c testChange) string {
	return c.Owner
}

func newTestTx(t *testing.T) (*sql.DB, *sql.Tx) {
	t.Helper()
	ctx := context.Background()
	db, err := dbtest.GetTestDB(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	return db, tx
}

func TestBulkSyncTx_GroupsByTopic(t *testing.T) {
	t.Parallel()
	_, tx := newTestTx(t)

	var topics []string
	published := map[string][]testChange{}
	publish := func(topic string, items []testChange) {
		topics = append(topics, topic)
		published[topic] = append(published[topic], items...)
	}

	stx := NewBulkSyncTx(tx, ownerOf)
	stx.Track(testChange{ItemID: "1", Owner: "b"})
	stx.Track(testChange{ItemID: "2", Owner: "a"}, testChange{ItemID: "3", Owner: "b"})
	assert.Equal(t, 3, stx.Tracked())

	require.NoError(t, stx.CommitAndPublish(context.Background(), publish))

	assert.Equal(t, []string{"b", "a"}, topics, "one publish per topic in order of first appearance")
	assert.Equal(t, []testChange{{ItemID: "1", Owner: "b"}, {ItemID: "3", Owner: "b"}}, published["b"])
	assert.Equal(t, []testChange{{ItemID: "2", Owner: "a"}}, published["a"])
	assert.Zero(t, stx.Tracked())
}

func TestBulkSyncTx_CommitFailure(t *testing.T) {
	t.Parallel()
	_, tx := newTestTx(t)

	// Force failure by rolling back transaction early
	require.NoError(t, tx.Rollback())

	called := false
	stx := NewBulkSyncTx(tx, ownerOf)
	stx.Track(testChange{ItemID: "1", Owner: "a"})

	err := stx.CommitAndPublish(context.Background(), func(string, []testChange) { called = true })
	assert.Error(t, err)
	assert.False(t, called, "publish should not be called on commit failure")
}

func TestBulkSyncTx_EmptyTracked(t *testing.T) {
	t.Parallel()
	_, tx := newTestTx(t)

	called := false
	stx := NewBulkSyncTx(tx, ownerOf)
	require.NoError(t, stx.CommitAndPublish(context.Background(), func(string, []testChange) { called = true }))
	assert.False(t, called, "publish should not be called when no items tracked")
}

func TestRunAndPublish(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db, err := dbtest.GetTestDB(ctx)
	require.NoError(t, err)
	defer db.Close()

	var published []testChange
	publish := func(_ string, items []testChange) { published = append(published, items...) }

	err = RunAndPublish(ctx, db, ownerOf, publish, func(ctx context.Context, stx *BulkSyncTx[testChange, string]) error {
		if _, err := stx.Tx().ExecContext(ctx, `SELECT 1`); err != nil {
			return err
		}
		stx.Track(testChange{ItemID: "ok", Owner: "a"})
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []testChange{{ItemID: "ok", Owner: "a"}}, published)

	boom := errors.New("boom")
	err = RunAndPublish(ctx, db, ownerOf, publish, func(ctx context.Context, stx *BulkSyncTx[testChange, string]) error {
		stx.Track(testChange{ItemID: "lost", Owner: "a"})
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Len(t, published, 1, "failed work publishes nothing")
}
