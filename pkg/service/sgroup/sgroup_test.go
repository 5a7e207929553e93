package sgroup_test

import (
	"context"
	"testing"

	"github.com/dietlog/server/pkg/idwrap"
	"github.com/dietlog/server/pkg/model/mgroup"
	"github.com/dietlog/server/pkg/movable"
	"github.com/dietlog/server/pkg/service/sgroup"
	"github.com/dietlog/server/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groupIDs(t *testing.T, gs sgroup.GroupService, adviserID idwrap.IDWrap) []idwrap.IDWrap {
	t.Helper()
	groups, err := gs.ListByAdviser(context.Background(), adviserID)
	require.NoError(t, err)
	ids := make([]idwrap.IDWrap, len(groups))
	for i, g := range groups {
		ids[i] = g.ID
	}
	return ids
}

func TestCreateAppendsInOrder(t *testing.T) {
	ctx := context.Background()
	base := testutil.CreateBaseDB(ctx, t)
	defer base.Close()
	gs := base.GetBaseServices().Gs

	adviser := base.CreateAccount("adviser", true)
	g1 := base.CreateGroup(adviser, "one")
	g2 := base.CreateGroup(adviser, "two")
	g3 := base.CreateGroup(adviser, "three")
	assert.Equal(t, []idwrap.IDWrap{g1, g2, g3}, groupIDs(t, gs, adviser))

	got, err := gs.Get(ctx, g2)
	require.NoError(t, err)
	assert.Equal(t, "two", got.Name)
	assert.False(t, got.Archived())
	assert.True(t, got.OwnedBy(adviser))
}

func TestCreateRequiresAdviser(t *testing.T) {
	ctx := context.Background()
	base := testutil.CreateBaseDB(ctx, t)
	defer base.Close()
	gs := base.GetBaseServices().Gs

	client := base.CreateAccount("client", false)
	err := gs.Create(ctx, mgroup.Group{ID: idwrap.NewNow(), Name: "x", LastAdviserID: &client})
	assert.ErrorIs(t, err, sgroup.ErrNotAdviser)

	err = gs.Create(ctx, mgroup.Group{ID: idwrap.NewNow(), Name: "x"})
	assert.ErrorIs(t, err, sgroup.ErrNoOwner)
}

func TestMoveGroup(t *testing.T) {
	ctx := context.Background()
	base := testutil.CreateBaseDB(ctx, t)
	defer base.Close()
	gs := base.GetBaseServices().Gs

	adviser := base.CreateAccount("adviser", true)
	a := base.CreateGroup(adviser, "a")
	b := base.CreateGroup(adviser, "b")
	c := base.CreateGroup(adviser, "c")

	require.NoError(t, gs.MoveToAdviser(ctx, a, adviser, 2))
	assert.Equal(t, []idwrap.IDWrap{b, c, a}, groupIDs(t, gs, adviser))

	require.NoError(t, gs.MoveToAdviser(ctx, a, adviser, 0))
	assert.Equal(t, []idwrap.IDWrap{a, b, c}, groupIDs(t, gs, adviser))

	err := gs.MoveToAdviser(ctx, a, adviser, 3)
	assert.ErrorIs(t, err, movable.ErrIndexOutOfRange)
	assert.Equal(t, []idwrap.IDWrap{a, b, c}, groupIDs(t, gs, adviser))

	// Handing a group over to another adviser.
	other := base.CreateAccount("other", true)
	require.NoError(t, gs.MoveToAdviser(ctx, b, other, 0))
	assert.Equal(t, []idwrap.IDWrap{a, c}, groupIDs(t, gs, adviser))
	assert.Equal(t, []idwrap.IDWrap{b}, groupIDs(t, gs, other))

	client := base.CreateAccount("client", false)
	assert.ErrorIs(t, gs.MoveToAdviser(ctx, a, client, 0), sgroup.ErrNotAdviser)
}

func TestArchiveAndRestore(t *testing.T) {
	ctx := context.Background()
	base := testutil.CreateBaseDB(ctx, t)
	defer base.Close()
	gs := base.GetBaseServices().Gs

	adviser := base.CreateAccount("adviser", true)
	a := base.CreateGroup(adviser, "a")
	b := base.CreateGroup(adviser, "b")
	c := base.CreateGroup(adviser, "c")

	require.NoError(t, gs.Archive(ctx, b))
	assert.Equal(t, []idwrap.IDWrap{a, c}, groupIDs(t, gs, adviser))

	archived, err := gs.ListArchived(ctx, adviser)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, b, archived[0].ID)
	assert.True(t, archived[0].Archived())
	assert.True(t, archived[0].OwnedBy(adviser))

	require.NoError(t, gs.Restore(ctx, b))
	assert.Equal(t, []idwrap.IDWrap{a, c, b}, groupIDs(t, gs, adviser))

	// Restoring an active group changes nothing.
	require.NoError(t, gs.Restore(ctx, a))
	assert.Equal(t, []idwrap.IDWrap{a, c, b}, groupIDs(t, gs, adviser))
}

func TestDeleteGroup(t *testing.T) {
	ctx := context.Background()
	base := testutil.CreateBaseDB(ctx, t)
	defer base.Close()
	services := base.GetBaseServices()
	gs, as := services.Gs, services.As

	adviser := base.CreateAccount("adviser", true)
	a := base.CreateGroup(adviser, "a")
	b := base.CreateGroup(adviser, "b")
	c := base.CreateGroup(adviser, "c")
	member := base.CreateAccount("member", false)
	require.NoError(t, as.MoveToGroup(ctx, member, b, 0))

	assert.ErrorIs(t, gs.Delete(ctx, b), sgroup.ErrGroupNotEmpty)

	require.NoError(t, as.LeaveGroup(ctx, member))
	require.NoError(t, gs.Delete(ctx, b))
	assert.Equal(t, []idwrap.IDWrap{a, c}, groupIDs(t, gs, adviser))

	_, err := gs.Get(ctx, b)
	assert.ErrorIs(t, err, sgroup.ErrNoGroupFound)
	assert.ErrorIs(t, gs.Delete(ctx, b), sgroup.ErrNoGroupFound)

	require.NoError(t, gs.Rename(ctx, a, "renamed"))
	got, err := gs.Get(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
}
