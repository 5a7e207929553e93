package sdish

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dietlog/server/db/pkg/sqlc/gen"
	"github.com/dietlog/server/pkg/idwrap"
	"github.com/dietlog/server/pkg/model/mdish"
	"github.com/dietlog/server/pkg/movable"
)

type DishService struct {
	queries *gen.Queries
	logger  *slog.Logger
}

var (
	ErrNoDishFound  = sql.ErrNoRows
	ErrInvalidGrams = errors.New("grams must not be negative")
	ErrForeignMeal  = errors.New("meal belongs to another account")
	ErrNoTargetMeal = errors.New("target meal not found")
)

func New(queries *gen.Queries, logger *slog.Logger) DishService {
	if logger == nil {
		logger = slog.Default()
	}
	return DishService{
		queries: queries,
		logger:  logger,
	}
}

func (s DishService) TX(tx *sql.Tx) DishService {
	if tx == nil {
		return s
	}
	return DishService{
		queries: s.queries.WithTx(tx),
		logger:  s.logger,
	}
}

func (s DishService) Order() *movable.Index[idwrap.IDWrap, idwrap.IDWrap] {
	return movable.New(NewMealOrderStore(s.queries))
}

func (s DishService) Get(ctx context.Context, id idwrap.IDWrap) (*mdish.Dish, error) {
	dish, err := s.queries.GetDish(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoDishFound
		}
		return nil, err
	}
	return ConvertToModelDish(dish), nil
}

// Create stores a dish that is not yet part of any meal.
func (s DishService) Create(ctx context.Context, dish mdish.Dish) error {
	if dish.Grams < 0 {
		return ErrInvalidGrams
	}
	return s.queries.CreateDish(ctx, gen.CreateDishParams{
		ID:        dish.ID,
		AccountID: dish.AccountID,
		Name:      dish.Name,
		Grams:     dish.Grams,
	})
}

func (s DishService) Update(ctx context.Context, dish mdish.Dish) error {
	if dish.Grams < 0 {
		return ErrInvalidGrams
	}
	return s.queries.UpdateDish(ctx, gen.UpdateDishParams{
		Name:  dish.Name,
		Grams: dish.Grams,
		ID:    dish.ID,
	})
}

func (s DishService) Delete(ctx context.Context, id idwrap.IDWrap) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.Order().Unlink(ctx, id); err != nil {
		return err
	}
	return s.queries.DeleteDish(ctx, id)
}

// ListByMeal returns the dishes of a meal in order.
func (s DishService) ListByMeal(ctx context.Context, mealID idwrap.IDWrap) ([]mdish.Dish, error) {
	rows, err := s.queries.GetDishesByMealID(ctx, &mealID)
	if err != nil {
		return nil, err
	}
	ordered, err := movable.OrderRows(rows, dishNode)
	if err != nil {
		s.logger.ErrorContext(ctx, "dish order is corrupt", "meal_id", mealID.String(), "error", err)
		return nil, err
	}
	dishes := make([]mdish.Dish, len(ordered))
	for i, row := range ordered {
		dishes[i] = *ConvertToModelDish(row)
	}
	return dishes, nil
}

// MoveToMeal places the dish at index inside mealID. Both must belong to the
// same account.
func (s DishService) MoveToMeal(ctx context.Context, dishID, mealID idwrap.IDWrap, index int) error {
	if err := s.checkMeal(ctx, dishID, mealID); err != nil {
		return err
	}
	if err := s.Order().MoveToIndex(ctx, dishID, mealID, index); err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "dish moved", "dish_id", dishID.String(), "meal_id", mealID.String(), "index", index)
	return nil
}

// AppendToMeal places the dish last in mealID.
func (s DishService) AppendToMeal(ctx context.Context, dishID, mealID idwrap.IDWrap) error {
	if err := s.checkMeal(ctx, dishID, mealID); err != nil {
		return err
	}
	return s.Order().Append(ctx, dishID, mealID)
}

func (s DishService) checkMeal(ctx context.Context, dishID, mealID idwrap.IDWrap) error {
	dish, err := s.Get(ctx, dishID)
	if err != nil {
		return err
	}
	meal, err := s.queries.GetMeal(ctx, mealID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrNoTargetMeal, mealID)
		}
		return err
	}
	if meal.AccountID.Compare(dish.AccountID) != 0 {
		return ErrForeignMeal
	}
	return nil
}
