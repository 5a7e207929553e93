package smeal_test

import (
	"context"
	"testing"

	"github.com/dietlog/server/pkg/idwrap"
	"github.com/dietlog/server/pkg/model/mmeal"
	"github.com/dietlog/server/pkg/movable"
	"github.com/dietlog/server/pkg/service/sdish"
	"github.com/dietlog/server/pkg/service/smeal"
	"github.com/dietlog/server/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	monday  = "2024-05-06"
	tuesday = "2024-05-07"
)

func mealIDs(t *testing.T, ms smeal.MealService, accountID idwrap.IDWrap, day string) []idwrap.IDWrap {
	t.Helper()
	meals, err := ms.ListByDay(context.Background(), accountID, day)
	require.NoError(t, err)
	ids := make([]idwrap.IDWrap, len(meals))
	for i, m := range meals {
		ids[i] = m.ID
	}
	return ids
}

func TestMealsPerDay(t *testing.T) {
	ctx := context.Background()
	base := testutil.CreateBaseDB(ctx, t)
	defer base.Close()
	ms := base.GetBaseServices().Ms

	owner := base.CreateAccount("owner", false)
	breakfast := base.CreateMeal(owner, monday, "breakfast")
	lunch := base.CreateMeal(owner, monday, "lunch")
	dinner := base.CreateMeal(owner, tuesday, "dinner")

	assert.Equal(t, []idwrap.IDWrap{breakfast, lunch}, mealIDs(t, ms, owner, monday))
	assert.Equal(t, []idwrap.IDWrap{dinner}, mealIDs(t, ms, owner, tuesday))

	// Another account's days are separate lists.
	other := base.CreateAccount("other", false)
	assert.Empty(t, mealIDs(t, ms, other, monday))

	got, err := ms.Get(ctx, lunch)
	require.NoError(t, err)
	key, ok := got.Key()
	require.True(t, ok)
	assert.Equal(t, mmeal.DayKey{AccountID: owner, Day: monday}, key)
}

func TestMoveMeal(t *testing.T) {
	ctx := context.Background()
	base := testutil.CreateBaseDB(ctx, t)
	defer base.Close()
	ms := base.GetBaseServices().Ms

	owner := base.CreateAccount("owner", false)
	a := base.CreateMeal(owner, monday, "a")
	b := base.CreateMeal(owner, monday, "b")
	c := base.CreateMeal(owner, monday, "c")

	require.NoError(t, ms.MoveToDay(ctx, a, monday, 2))
	assert.Equal(t, []idwrap.IDWrap{b, c, a}, mealIDs(t, ms, owner, monday))

	require.NoError(t, ms.MoveToDay(ctx, c, tuesday, 0))
	assert.Equal(t, []idwrap.IDWrap{b, a}, mealIDs(t, ms, owner, monday))
	assert.Equal(t, []idwrap.IDWrap{c}, mealIDs(t, ms, owner, tuesday))

	moved, err := ms.Get(ctx, c)
	require.NoError(t, err)
	require.NotNil(t, moved.Day)
	assert.Equal(t, tuesday, *moved.Day)

	err = ms.MoveToDay(ctx, b, tuesday, 2)
	assert.ErrorIs(t, err, movable.ErrIndexOutOfRange)
	assert.Equal(t, []idwrap.IDWrap{b, a}, mealIDs(t, ms, owner, monday))

	assert.ErrorIs(t, ms.MoveToDay(ctx, b, "06/05/2024", 0), mmeal.ErrInvalidDay)
	_, err = ms.ListByDay(ctx, owner, "someday")
	assert.ErrorIs(t, err, mmeal.ErrInvalidDay)

	assert.ErrorIs(t, ms.MoveToDay(ctx, idwrap.NewNow(), monday, 0), smeal.ErrNoMealFound)
}

func TestMealStoreRejectsForeignDay(t *testing.T) {
	ctx := context.Background()
	base := testutil.CreateBaseDB(ctx, t)
	defer base.Close()
	ms := base.GetBaseServices().Ms

	owner := base.CreateAccount("owner", false)
	other := base.CreateAccount("other", false)
	meal := base.CreateMeal(owner, monday, "meal")

	err := ms.Order().MoveToIndex(ctx, meal, mmeal.DayKey{AccountID: other, Day: monday}, 0)
	assert.ErrorIs(t, err, movable.ErrCrossPartition)
}

func TestDeleteMealDeletesDishes(t *testing.T) {
	ctx := context.Background()
	base := testutil.CreateBaseDB(ctx, t)
	defer base.Close()
	services := base.GetBaseServices()
	ms, ds := services.Ms, services.Ds

	owner := base.CreateAccount("owner", false)
	a := base.CreateMeal(owner, monday, "a")
	b := base.CreateMeal(owner, monday, "b")
	c := base.CreateMeal(owner, monday, "c")
	d1 := base.CreateDish(owner, b, "oats", 80)
	d2 := base.CreateDish(owner, b, "milk", 200)
	keep := base.CreateDish(owner, a, "egg", 60)

	require.NoError(t, ms.Delete(ctx, b))
	assert.Equal(t, []idwrap.IDWrap{a, c}, mealIDs(t, ms, owner, monday))

	for _, id := range []idwrap.IDWrap{d1, d2} {
		_, err := ds.Get(ctx, id)
		assert.ErrorIs(t, err, sdish.ErrNoDishFound)
	}
	_, err := ds.Get(ctx, keep)
	assert.NoError(t, err)

	assert.ErrorIs(t, ms.Delete(ctx, b), smeal.ErrNoMealFound)
}

func TestRenameMeal(t *testing.T) {
	ctx := context.Background()
	base := testutil.CreateBaseDB(ctx, t)
	defer base.Close()
	ms := base.GetBaseServices().Ms

	owner := base.CreateAccount("owner", false)
	meal := base.CreateMeal(owner, monday, "snack")
	require.NoError(t, ms.Rename(ctx, meal, "second breakfast"))

	got, err := ms.Get(ctx, meal)
	require.NoError(t, err)
	assert.Equal(t, "second breakfast", got.Name)
}
