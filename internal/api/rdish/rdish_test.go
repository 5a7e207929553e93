package rdish_test

import (
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dietlog/server/internal/api"
	"github.com/dietlog/server/internal/api/apitest"
	"github.com/dietlog/server/internal/api/rdish"
	"github.com/dietlog/server/pkg/idwrap"
	"github.com/dietlog/server/pkg/model/mevent"
	"github.com/dietlog/server/pkg/testutil"
	"github.com/dietlog/server/pkg/translate/tdish"
)

const day = "2024-03-04"

func newEnv(t *testing.T) *apitest.Env {
	return apitest.New(t, func(db *sql.DB, s testutil.BaseTestServices, stream api.Streamer) []api.Service {
		return []api.Service{rdish.New(db, s.Ms, s.Ds, stream)}
	})
}

func dishNames(t *testing.T, env *apitest.Env, user, mealID idwrap.IDWrap) []string {
	t.Helper()
	rec := env.Do(http.MethodGet, "/meals/"+mealID.String()+"/dishes", nil, &user)
	apitest.Status(t, http.StatusOK, rec)
	names := []string{}
	for _, d := range apitest.Decode[rdish.DishListResponse](t, rec).Items {
		names = append(names, d.Name)
	}
	return names
}

func createDish(t *testing.T, env *apitest.Env, user, mealID idwrap.IDWrap, name string, index *int) tdish.Dish {
	t.Helper()
	rec := env.Do(http.MethodPost, "/meals/"+mealID.String()+"/dishes", rdish.DishCreateRequest{Name: name, Grams: 100, Index: index}, &user)
	apitest.Status(t, http.StatusCreated, rec)
	return apitest.Decode[tdish.Dish](t, rec)
}

func TestDishesOfAMeal(t *testing.T) {
	env := newEnv(t)
	user := env.CreateAccount("ann", false)
	meal := env.CreateMeal(user, day, "lunch")

	createDish(t, env, user, meal, "soup", nil)
	createDish(t, env, user, meal, "bread", nil)
	createDish(t, env, user, meal, "salad", apitest.Ptr(1))
	assert.Equal(t, []string{"soup", "salad", "bread"}, dishNames(t, env, user, meal))

	rec := env.Do(http.MethodPost, "/meals/"+meal.String()+"/dishes", rdish.DishCreateRequest{Name: "cake", Grams: -1}, &user)
	apitest.Status(t, http.StatusBadRequest, rec)
	rec = env.Do(http.MethodPost, "/meals/"+meal.String()+"/dishes", rdish.DishCreateRequest{Name: "cake", Index: apitest.Ptr(-1)}, &user)
	apitest.Status(t, http.StatusBadRequest, rec)
	assert.Equal(t, []string{"soup", "salad", "bread"}, dishNames(t, env, user, meal))
}

func TestMoveDishBetweenMeals(t *testing.T) {
	env := newEnv(t)
	user := env.CreateAccount("ann", false)
	lunch := env.CreateMeal(user, day, "lunch")
	dinner := env.CreateMeal(user, day, "dinner")
	soup := createDish(t, env, user, lunch, "soup", nil)
	createDish(t, env, user, lunch, "bread", nil)
	createDish(t, env, user, dinner, "steak", nil)
	events := env.Subscribe(user)

	rec := env.Do(http.MethodPut, "/dishes/"+soup.DishId+"/position", rdish.DishMoveRequest{MealId: dinner.String(), Index: apitest.Ptr(1)}, &user)
	apitest.Status(t, http.StatusNoContent, rec)
	assert.Equal(t, []string{"bread"}, dishNames(t, env, user, lunch))
	assert.Equal(t, []string{"steak", "soup"}, dishNames(t, env, user, dinner))

	removed := apitest.NextEvent(t, events)
	assert.Equal(t, mevent.KindRemoved, removed.Kind)
	assert.Equal(t, lunch.String(), removed.ListID)
	moved := apitest.NextEvent(t, events)
	assert.Equal(t, mevent.ListDishes, moved.List)
	assert.Equal(t, dinner.String(), moved.ListID)
	assert.Equal(t, 1, moved.Index)

	rec = env.Do(http.MethodPut, "/dishes/"+soup.DishId+"/position", rdish.DishMoveRequest{MealId: idwrap.NewNow().String(), Index: apitest.Ptr(0)}, &user)
	apitest.Status(t, http.StatusNotFound, rec)
	rec = env.Do(http.MethodPut, "/dishes/"+soup.DishId+"/position", rdish.DishMoveRequest{MealId: "nope", Index: apitest.Ptr(0)}, &user)
	apitest.Status(t, http.StatusBadRequest, rec)

	rec = env.Do(http.MethodPut, "/dishes/"+soup.DishId+"/position", rdish.DishMoveRequest{MealId: lunch.String()}, &user)
	apitest.Status(t, http.StatusBadRequest, rec)
	assert.Equal(t, []string{"bread"}, dishNames(t, env, user, lunch))
	assert.Equal(t, []string{"steak", "soup"}, dishNames(t, env, user, dinner))
}

func TestDishOwnership(t *testing.T) {
	env := newEnv(t)
	user := env.CreateAccount("ann", false)
	other := env.CreateAccount("bob", false)
	lunch := env.CreateMeal(user, day, "lunch")
	foreignMeal := env.CreateMeal(other, day, "lunch")
	soup := createDish(t, env, user, lunch, "soup", nil)

	rec := env.Do(http.MethodGet, "/meals/"+lunch.String()+"/dishes", nil, &other)
	apitest.Status(t, http.StatusForbidden, rec)

	rec = env.Do(http.MethodPost, "/meals/"+lunch.String()+"/dishes", rdish.DishCreateRequest{Name: "x"}, &other)
	apitest.Status(t, http.StatusForbidden, rec)

	rec = env.Do(http.MethodPut, "/dishes/"+soup.DishId+"/position", rdish.DishMoveRequest{MealId: foreignMeal.String(), Index: apitest.Ptr(0)}, &user)
	apitest.Status(t, http.StatusForbidden, rec)
	assert.Equal(t, []string{"soup"}, dishNames(t, env, user, lunch))

	rec = env.Do(http.MethodDelete, "/dishes/"+soup.DishId, nil, &other)
	apitest.Status(t, http.StatusForbidden, rec)
}

func TestUpdateAndDeleteDish(t *testing.T) {
	env := newEnv(t)
	user := env.CreateAccount("ann", false)
	lunch := env.CreateMeal(user, day, "lunch")
	soup := createDish(t, env, user, lunch, "soup", nil)
	createDish(t, env, user, lunch, "bread", nil)

	rec := env.Do(http.MethodPatch, "/dishes/"+soup.DishId, rdish.DishUpdateRequest{Name: "broth", Grams: 250}, &user)
	apitest.Status(t, http.StatusOK, rec)
	updated := apitest.Decode[tdish.Dish](t, rec)
	assert.Equal(t, "broth", updated.Name)
	assert.InDelta(t, 250, updated.Grams, 0.001)
	require.NotNil(t, updated.MealId)
	assert.Equal(t, lunch.String(), *updated.MealId)

	rec = env.Do(http.MethodDelete, "/dishes/"+soup.DishId, nil, &user)
	apitest.Status(t, http.StatusNoContent, rec)
	assert.Equal(t, []string{"bread"}, dishNames(t, env, user, lunch))
}
