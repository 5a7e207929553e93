package sdish

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dietlog/server/db/pkg/sqlc/gen"
	"github.com/dietlog/server/pkg/idwrap"
	"github.com/dietlog/server/pkg/movable"
)

// MealOrderStore orders dishes inside a meal. The partition key is the meal
// id.
type MealOrderStore struct {
	queries *gen.Queries
}

var _ movable.Store[idwrap.IDWrap, idwrap.IDWrap] = (*MealOrderStore)(nil)

func NewMealOrderStore(queries *gen.Queries) *MealOrderStore {
	return &MealOrderStore{queries: queries}
}

func (r *MealOrderStore) TX(tx *sql.Tx) *MealOrderStore {
	return &MealOrderStore{queries: r.queries.WithTx(tx)}
}

func (r *MealOrderStore) Get(ctx context.Context, id idwrap.IDWrap) (movable.Node[idwrap.IDWrap, idwrap.IDWrap], error) {
	dish, err := r.queries.GetDish(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return movable.Node[idwrap.IDWrap, idwrap.IDWrap]{}, fmt.Errorf("%w: dish %s", movable.ErrNodeNotFound, id)
		}
		return movable.Node[idwrap.IDWrap, idwrap.IDWrap]{}, err
	}
	return dishNode(dish), nil
}

func (r *MealOrderStore) List(ctx context.Context, mealID idwrap.IDWrap) ([]movable.Node[idwrap.IDWrap, idwrap.IDWrap], error) {
	dishes, err := r.queries.GetDishesByMealID(ctx, &mealID)
	if err != nil {
		return nil, err
	}
	nodes := make([]movable.Node[idwrap.IDWrap, idwrap.IDWrap], len(dishes))
	for i, d := range dishes {
		nodes[i] = dishNode(d)
	}
	return nodes, nil
}

func (r *MealOrderStore) Predecessor(ctx context.Context, id idwrap.IDWrap) (*movable.Node[idwrap.IDWrap, idwrap.IDWrap], error) {
	dish, err := r.queries.GetDishByNextID(ctx, &id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	node := dishNode(dish)
	return &node, nil
}

func (r *MealOrderStore) SetNext(ctx context.Context, id idwrap.IDWrap, next *idwrap.IDWrap) error {
	return r.queries.UpdateDishNext(ctx, gen.UpdateDishNextParams{
		NextID: next,
		ID:     id,
	})
}

func (r *MealOrderStore) Attach(ctx context.Context, id idwrap.IDWrap, mealID idwrap.IDWrap, next *idwrap.IDWrap) error {
	return r.queries.AttachDishToMeal(ctx, gen.AttachDishToMealParams{
		MealID: &mealID,
		NextID: next,
		ID:     id,
	})
}

func (r *MealOrderStore) Detach(ctx context.Context, id idwrap.IDWrap) error {
	return r.queries.DetachDishFromMeal(ctx, id)
}

func (r *MealOrderStore) LockPartition(ctx context.Context, mealID idwrap.IDWrap) error {
	n, err := r.queries.BumpMealOrderVersion(ctx, mealID)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: meal %s", movable.ErrPartitionNotFound, mealID)
	}
	return nil
}
