package smeal

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/dietlog/server/db/pkg/sqlc/gen"
	"github.com/dietlog/server/pkg/idwrap"
	"github.com/dietlog/server/pkg/model/mmeal"
	"github.com/dietlog/server/pkg/movable"
)

type MealService struct {
	queries *gen.Queries
	logger  *slog.Logger
}

var ErrNoMealFound = sql.ErrNoRows

func New(queries *gen.Queries, logger *slog.Logger) MealService {
	if logger == nil {
		logger = slog.Default()
	}
	return MealService{
		queries: queries,
		logger:  logger,
	}
}

func (s MealService) TX(tx *sql.Tx) MealService {
	if tx == nil {
		return s
	}
	return MealService{
		queries: s.queries.WithTx(tx),
		logger:  s.logger,
	}
}

func (s MealService) Order() *movable.Index[idwrap.IDWrap, mmeal.DayKey] {
	return movable.New(NewDayOrderStore(s.queries))
}

func (s MealService) Get(ctx context.Context, id idwrap.IDWrap) (*mmeal.Meal, error) {
	meal, err := s.queries.GetMeal(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoMealFound
		}
		return nil, err
	}
	return ConvertToModelMeal(meal), nil
}

// Create stores a meal that is not yet placed on any day.
func (s MealService) Create(ctx context.Context, meal mmeal.Meal) error {
	return s.queries.CreateMeal(ctx, gen.CreateMealParams{
		ID:        meal.ID,
		AccountID: meal.AccountID,
		Name:      meal.Name,
	})
}

func (s MealService) Rename(ctx context.Context, id idwrap.IDWrap, name string) error {
	return s.queries.UpdateMealName(ctx, gen.UpdateMealNameParams{
		Name: name,
		ID:   id,
	})
}

// Delete removes the meal together with its dishes.
func (s MealService) Delete(ctx context.Context, id idwrap.IDWrap) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.Order().Unlink(ctx, id); err != nil {
		return err
	}

	// The dishes form one whole list, so dropping all of them leaves no
	// dangling successor behind.
	dishes, err := s.queries.GetDishesByMealID(ctx, &id)
	if err != nil {
		return err
	}
	for _, dish := range dishes {
		if err := s.queries.DeleteDish(ctx, dish.ID); err != nil {
			return err
		}
	}
	return s.queries.DeleteMeal(ctx, id)
}

// ListByDay returns the meals of accountID on day in order.
func (s MealService) ListByDay(ctx context.Context, accountID idwrap.IDWrap, day string) ([]mmeal.Meal, error) {
	day, err := mmeal.ParseDay(day)
	if err != nil {
		return nil, err
	}
	rows, err := s.queries.GetMealsByDay(ctx, gen.GetMealsByDayParams{
		AccountID: accountID,
		Day:       &day,
	})
	if err != nil {
		return nil, err
	}
	ordered, err := movable.OrderRows(rows, mealNode)
	if err != nil {
		s.logger.ErrorContext(ctx, "meal order is corrupt", "account_id", accountID.String(), "day", day, "error", err)
		return nil, err
	}
	meals := make([]mmeal.Meal, len(ordered))
	for i, row := range ordered {
		meals[i] = *ConvertToModelMeal(row)
	}
	return meals, nil
}

// MoveToDay places the meal at index on day. Meals never change owner, so
// the target list is always a day of the meal's own account.
func (s MealService) MoveToDay(ctx context.Context, mealID idwrap.IDWrap, day string, index int) error {
	key, err := s.dayKey(ctx, mealID, day)
	if err != nil {
		return err
	}
	if err := s.Order().MoveToIndex(ctx, mealID, key, index); err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "meal moved", "meal_id", mealID.String(), "day", key.Day, "index", index)
	return nil
}

// AppendToDay places the meal last on day.
func (s MealService) AppendToDay(ctx context.Context, mealID idwrap.IDWrap, day string) error {
	key, err := s.dayKey(ctx, mealID, day)
	if err != nil {
		return err
	}
	return s.Order().Append(ctx, mealID, key)
}

func (s MealService) dayKey(ctx context.Context, mealID idwrap.IDWrap, day string) (mmeal.DayKey, error) {
	day, err := mmeal.ParseDay(day)
	if err != nil {
		return mmeal.DayKey{}, err
	}
	meal, err := s.Get(ctx, mealID)
	if err != nil {
		return mmeal.DayKey{}, err
	}
	return mmeal.DayKey{AccountID: meal.AccountID, Day: day}, nil
}
