package rdish

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dietlog/server/internal/api"
	"github.com/dietlog/server/internal/api/rmeal"
	"github.com/dietlog/server/pkg/idwrap"
	"github.com/dietlog/server/pkg/model/mdish"
	"github.com/dietlog/server/pkg/model/mevent"
	"github.com/dietlog/server/pkg/permcheck"
	"github.com/dietlog/server/pkg/service/sdish"
	"github.com/dietlog/server/pkg/service/smeal"
	"github.com/dietlog/server/pkg/translate/tdish"
	"github.com/dietlog/server/pkg/translate/tgeneric"
)

var ErrEmptyName = errors.New("name must not be empty")

type DishRPC struct {
	DB *sql.DB

	ms smeal.MealService
	ds sdish.DishService

	stream api.Streamer
}

func New(db *sql.DB, ms smeal.MealService, ds sdish.DishService, stream api.Streamer) *DishRPC {
	return &DishRPC{
		DB:     db,
		ms:     ms,
		ds:     ds,
		stream: stream,
	}
}

func (d *DishRPC) Register(e *echo.Echo, auth echo.MiddlewareFunc) {
	e.GET("/meals/:mealId/dishes", d.DishList, auth)
	e.POST("/meals/:mealId/dishes", d.DishCreate, auth)

	dishes := e.Group("/dishes", auth)
	dishes.PATCH("/:dishId", d.DishUpdate)
	dishes.PUT("/:dishId/position", d.DishMove)
	dishes.DELETE("/:dishId", d.DishDelete)
}

func CheckOwnerDish(ctx context.Context, ds sdish.DishService, dishID, userID idwrap.IDWrap) (bool, error) {
	dish, err := ds.Get(ctx, dishID)
	if err != nil {
		return false, err
	}
	return dish.AccountID.Compare(userID) == 0, nil
}

type DishCreateRequest struct {
	Name  string  `json:"name"`
	Grams float64 `json:"grams"`
	Index *int    `json:"index,omitempty"`
}

type DishUpdateRequest struct {
	Name  string  `json:"name"`
	Grams float64 `json:"grams"`
}

type DishMoveRequest struct {
	MealId string `json:"mealId"`
	Index  *int   `json:"index"`
}

type DishListResponse struct {
	MealId string       `json:"mealId"`
	Items  []tdish.Dish `json:"items"`
}

func (d *DishRPC) DishList(c echo.Context) error {
	userID, err := api.UserID(c)
	if err != nil {
		return err
	}
	mealID, err := api.ParamID(c, "mealId")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if err := permcheck.CheckPerm(rmeal.CheckOwnerMeal(ctx, d.ms, mealID, userID)); err != nil {
		return err
	}

	dishes, err := d.ds.ListByMeal(ctx, mealID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, DishListResponse{
		MealId: mealID.String(),
		Items:  tgeneric.MassConvert(dishes, tdish.SerializeModelToRPC),
	})
}

// DishCreate stores a dish in the meal of the path, at index or last.
func (d *DishRPC) DishCreate(c echo.Context) error {
	userID, err := api.UserID(c)
	if err != nil {
		return err
	}
	mealID, err := api.ParamID(c, "mealId")
	if err != nil {
		return err
	}
	req, err := api.Bind[DishCreateRequest](c)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return api.BadRequest(ErrEmptyName)
	}

	dish := mdish.Dish{ID: idwrap.NewNow(), AccountID: userID, Name: name, Grams: req.Grams}
	err = api.RunTx(c.Request().Context(), d.DB, d.stream, func(ctx context.Context, stx *api.SyncTx) error {
		ms := d.ms.TX(stx.Tx())
		ds := d.ds.TX(stx.Tx())
		if err := permcheck.CheckPerm(rmeal.CheckOwnerMeal(ctx, ms, mealID, userID)); err != nil {
			return err
		}
		if err := ds.Create(ctx, dish); err != nil {
			return err
		}
		var placeErr error
		if req.Index != nil {
			placeErr = ds.MoveToMeal(ctx, dish.ID, mealID, *req.Index)
		} else {
			placeErr = ds.AppendToMeal(ctx, dish.ID, mealID)
		}
		if placeErr != nil {
			return placeErr
		}
		return trackDish(ctx, stx, ds, mevent.KindCreated, dish.ID, userID, mealID)
	})
	if err != nil {
		return err
	}
	dish.MealID = &mealID
	return c.JSON(http.StatusCreated, tdish.SerializeModelToRPC(dish))
}

func (d *DishRPC) DishUpdate(c echo.Context) error {
	userID, err := api.UserID(c)
	if err != nil {
		return err
	}
	dishID, err := api.ParamID(c, "dishId")
	if err != nil {
		return err
	}
	req, err := api.Bind[DishUpdateRequest](c)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return api.BadRequest(ErrEmptyName)
	}

	var updated *mdish.Dish
	err = api.RunTx(c.Request().Context(), d.DB, d.stream, func(ctx context.Context, stx *api.SyncTx) error {
		ds := d.ds.TX(stx.Tx())
		if err := permcheck.CheckPerm(CheckOwnerDish(ctx, ds, dishID, userID)); err != nil {
			return err
		}
		if err := ds.Update(ctx, mdish.Dish{ID: dishID, Name: name, Grams: req.Grams}); err != nil {
			return err
		}
		dish, err := ds.Get(ctx, dishID)
		updated = dish
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tdish.SerializeModelToRPC(*updated))
}

// DishMove places the dish at index inside mealId, which may be another meal
// of the same account.
func (d *DishRPC) DishMove(c echo.Context) error {
	userID, err := api.UserID(c)
	if err != nil {
		return err
	}
	dishID, err := api.ParamID(c, "dishId")
	if err != nil {
		return err
	}
	req, err := api.Bind[DishMoveRequest](c)
	if err != nil {
		return err
	}
	index, err := api.RequireIndex(req.Index)
	if err != nil {
		return err
	}
	mealID, err := idwrap.NewText(req.MealId)
	if err != nil {
		return api.BadRequest(err)
	}

	err = api.RunTx(c.Request().Context(), d.DB, d.stream, func(ctx context.Context, stx *api.SyncTx) error {
		ds := d.ds.TX(stx.Tx())
		if err := permcheck.CheckPerm(CheckOwnerDish(ctx, ds, dishID, userID)); err != nil {
			return err
		}
		before, err := ds.Get(ctx, dishID)
		if err != nil {
			return err
		}
		if err := ds.MoveToMeal(ctx, dishID, mealID, index); err != nil {
			return err
		}
		if before.MealID != nil && before.MealID.Compare(mealID) != 0 {
			stx.Track(mevent.OrderEvent{
				Owner:  userID,
				Kind:   mevent.KindRemoved,
				List:   mevent.ListDishes,
				ListID: before.MealID.String(),
				ItemID: dishID,
				Index:  -1,
			})
		}
		return trackDish(ctx, stx, ds, mevent.KindMoved, dishID, userID, mealID)
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (d *DishRPC) DishDelete(c echo.Context) error {
	userID, err := api.UserID(c)
	if err != nil {
		return err
	}
	dishID, err := api.ParamID(c, "dishId")
	if err != nil {
		return err
	}

	err = api.RunTx(c.Request().Context(), d.DB, d.stream, func(ctx context.Context, stx *api.SyncTx) error {
		ds := d.ds.TX(stx.Tx())
		if err := permcheck.CheckPerm(CheckOwnerDish(ctx, ds, dishID, userID)); err != nil {
			return err
		}
		dish, err := ds.Get(ctx, dishID)
		if err != nil {
			return err
		}
		if err := ds.Delete(ctx, dishID); err != nil {
			return err
		}
		if dish.MealID != nil {
			stx.Track(mevent.OrderEvent{
				Owner:  userID,
				Kind:   mevent.KindDeleted,
				List:   mevent.ListDishes,
				ListID: dish.MealID.String(),
				ItemID: dishID,
				Index:  -1,
			})
		}
		return nil
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func trackDish(ctx context.Context, stx *api.SyncTx, ds sdish.DishService, kind mevent.Kind, dishID, accountID, mealID idwrap.IDWrap) error {
	index, err := ds.Order().Position(ctx, dishID)
	if err != nil {
		return err
	}
	stx.Track(mevent.OrderEvent{
		Owner:  accountID,
		Kind:   kind,
		List:   mevent.ListDishes,
		ListID: mealID.String(),
		ItemID: dishID,
		Index:  index,
	})
	return nil
}
