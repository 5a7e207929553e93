package rmeal

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dietlog/server/internal/api"
	"github.com/dietlog/server/pkg/idwrap"
	"github.com/dietlog/server/pkg/model/mevent"
	"github.com/dietlog/server/pkg/model/mmeal"
	"github.com/dietlog/server/pkg/permcheck"
	"github.com/dietlog/server/pkg/service/smeal"
	"github.com/dietlog/server/pkg/translate/tgeneric"
	"github.com/dietlog/server/pkg/translate/tmeal"
)

var ErrEmptyName = errors.New("name must not be empty")

type MealRPC struct {
	DB *sql.DB

	ms smeal.MealService

	stream api.Streamer
}

func New(db *sql.DB, ms smeal.MealService, stream api.Streamer) *MealRPC {
	return &MealRPC{
		DB:     db,
		ms:     ms,
		stream: stream,
	}
}

func (m *MealRPC) Register(e *echo.Echo, auth echo.MiddlewareFunc) {
	e.GET("/days/:day/meals", m.MealList, auth)
	e.POST("/days/:day/meals", m.MealCreate, auth)

	meals := e.Group("/meals", auth)
	meals.PATCH("/:mealId", m.MealUpdate)
	meals.PUT("/:mealId/position", m.MealMove)
	meals.DELETE("/:mealId", m.MealDelete)
}

func CheckOwnerMeal(ctx context.Context, ms smeal.MealService, mealID, userID idwrap.IDWrap) (bool, error) {
	meal, err := ms.Get(ctx, mealID)
	if err != nil {
		return false, err
	}
	return meal.AccountID.Compare(userID) == 0, nil
}

type MealCreateRequest struct {
	Name  string `json:"name"`
	Index *int   `json:"index,omitempty"`
}

type MealUpdateRequest struct {
	Name string `json:"name"`
}

type MealMoveRequest struct {
	Day   string `json:"day"`
	Index *int   `json:"index"`
}

type MealListResponse struct {
	Day   string       `json:"day"`
	Items []tmeal.Meal `json:"items"`
}

func (m *MealRPC) MealList(c echo.Context) error {
	userID, err := api.UserID(c)
	if err != nil {
		return err
	}
	day, err := mmeal.ParseDay(c.Param("day"))
	if err != nil {
		return err
	}
	meals, err := m.ms.ListByDay(c.Request().Context(), userID, day)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MealListResponse{Day: day, Items: tgeneric.MassConvert(meals, tmeal.SerializeModelToRPC)})
}

// MealCreate stores a meal for the caller on the day in the path, at index or
// last.
func (m *MealRPC) MealCreate(c echo.Context) error {
	userID, err := api.UserID(c)
	if err != nil {
		return err
	}
	day, err := mmeal.ParseDay(c.Param("day"))
	if err != nil {
		return err
	}
	req, err := api.Bind[MealCreateRequest](c)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return api.BadRequest(ErrEmptyName)
	}

	meal := mmeal.Meal{ID: idwrap.NewNow(), AccountID: userID, Name: name}
	err = api.RunTx(c.Request().Context(), m.DB, m.stream, func(ctx context.Context, stx *api.SyncTx) error {
		ms := m.ms.TX(stx.Tx())
		if err := ms.Create(ctx, meal); err != nil {
			return err
		}
		var placeErr error
		if req.Index != nil {
			placeErr = ms.MoveToDay(ctx, meal.ID, day, *req.Index)
		} else {
			placeErr = ms.AppendToDay(ctx, meal.ID, day)
		}
		if placeErr != nil {
			return placeErr
		}
		return trackMeal(ctx, stx, ms, mevent.KindCreated, meal.ID, userID, day)
	})
	if err != nil {
		return err
	}
	meal.Day = &day
	return c.JSON(http.StatusCreated, tmeal.SerializeModelToRPC(meal))
}

func (m *MealRPC) MealUpdate(c echo.Context) error {
	userID, err := api.UserID(c)
	if err != nil {
		return err
	}
	mealID, err := api.ParamID(c, "mealId")
	if err != nil {
		return err
	}
	req, err := api.Bind[MealUpdateRequest](c)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return api.BadRequest(ErrEmptyName)
	}

	var updated *mmeal.Meal
	err = api.RunTx(c.Request().Context(), m.DB, m.stream, func(ctx context.Context, stx *api.SyncTx) error {
		ms := m.ms.TX(stx.Tx())
		if err := permcheck.CheckPerm(CheckOwnerMeal(ctx, ms, mealID, userID)); err != nil {
			return err
		}
		if err := ms.Rename(ctx, mealID, name); err != nil {
			return err
		}
		meal, err := ms.Get(ctx, mealID)
		updated = meal
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tmeal.SerializeModelToRPC(*updated))
}

// MealMove places the meal at index on day. Moving to another day takes it
// off the day it was on.
func (m *MealRPC) MealMove(c echo.Context) error {
	userID, err := api.UserID(c)
	if err != nil {
		return err
	}
	mealID, err := api.ParamID(c, "mealId")
	if err != nil {
		return err
	}
	req, err := api.Bind[MealMoveRequest](c)
	if err != nil {
		return err
	}
	index, err := api.RequireIndex(req.Index)
	if err != nil {
		return err
	}
	day, err := mmeal.ParseDay(req.Day)
	if err != nil {
		return err
	}

	err = api.RunTx(c.Request().Context(), m.DB, m.stream, func(ctx context.Context, stx *api.SyncTx) error {
		ms := m.ms.TX(stx.Tx())
		if err := permcheck.CheckPerm(CheckOwnerMeal(ctx, ms, mealID, userID)); err != nil {
			return err
		}
		before, err := ms.Get(ctx, mealID)
		if err != nil {
			return err
		}
		if err := ms.MoveToDay(ctx, mealID, day, index); err != nil {
			return err
		}
		if before.Day != nil && *before.Day != day {
			stx.Track(mevent.OrderEvent{
				Owner:  userID,
				Kind:   mevent.KindRemoved,
				List:   mevent.ListMeals,
				ListID: *before.Day,
				ItemID: mealID,
				Index:  -1,
			})
		}
		return trackMeal(ctx, stx, ms, mevent.KindMoved, mealID, userID, day)
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// MealDelete removes the meal and its dishes.
func (m *MealRPC) MealDelete(c echo.Context) error {
	userID, err := api.UserID(c)
	if err != nil {
		return err
	}
	mealID, err := api.ParamID(c, "mealId")
	if err != nil {
		return err
	}

	err = api.RunTx(c.Request().Context(), m.DB, m.stream, func(ctx context.Context, stx *api.SyncTx) error {
		ms := m.ms.TX(stx.Tx())
		if err := permcheck.CheckPerm(CheckOwnerMeal(ctx, ms, mealID, userID)); err != nil {
			return err
		}
		meal, err := ms.Get(ctx, mealID)
		if err != nil {
			return err
		}
		if err := ms.Delete(ctx, mealID); err != nil {
			return err
		}
		if meal.Day != nil {
			stx.Track(mevent.OrderEvent{
				Owner:  userID,
				Kind:   mevent.KindDeleted,
				List:   mevent.ListMeals,
				ListID: *meal.Day,
				ItemID: mealID,
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

func trackMeal(ctx context.Context, stx *api.SyncTx, ms smeal.MealService, kind mevent.Kind, mealID, accountID idwrap.IDWrap, day string) error {
	index, err := ms.Order().Position(ctx, mealID)
	if err != nil {
		return err
	}
	stx.Track(mevent.OrderEvent{
		Owner:  accountID,
		Kind:   kind,
		List:   mevent.ListMeals,
		ListID: day,
		ItemID: mealID,
		Index:  index,
	})
	return nil
}
