package smeal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dietlog/server/db/pkg/sqlc/gen"
	"github.com/dietlog/server/pkg/idwrap"
	"github.com/dietlog/server/pkg/model/mmeal"
	"github.com/dietlog/server/pkg/movable"
)

// DayOrderStore orders the meals of one account per calendar day. Detaching
// a meal clears its day.
type DayOrderStore struct {
	queries *gen.Queries
}

var _ movable.Store[idwrap.IDWrap, mmeal.DayKey] = (*DayOrderStore)(nil)

func NewDayOrderStore(queries *gen.Queries) *DayOrderStore {
	return &DayOrderStore{queries: queries}
}

func (r *DayOrderStore) TX(tx *sql.Tx) *DayOrderStore {
	return &DayOrderStore{queries: r.queries.WithTx(tx)}
}

func (r *DayOrderStore) Get(ctx context.Context, id idwrap.IDWrap) (movable.Node[idwrap.IDWrap, mmeal.DayKey], error) {
	meal, err := r.queries.GetMeal(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return movable.Node[idwrap.IDWrap, mmeal.DayKey]{}, fmt.Errorf("%w: meal %s", movable.ErrNodeNotFound, id)
		}
		return movable.Node[idwrap.IDWrap, mmeal.DayKey]{}, err
	}
	return mealNode(meal), nil
}

func (r *DayOrderStore) List(ctx context.Context, key mmeal.DayKey) ([]movable.Node[idwrap.IDWrap, mmeal.DayKey], error) {
	meals, err := r.queries.GetMealsByDay(ctx, gen.GetMealsByDayParams{
		AccountID: key.AccountID,
		Day:       &key.Day,
	})
	if err != nil {
		return nil, err
	}
	nodes := make([]movable.Node[idwrap.IDWrap, mmeal.DayKey], len(meals))
	for i, m := range meals {
		nodes[i] = mealNode(m)
	}
	return nodes, nil
}

func (r *DayOrderStore) Predecessor(ctx context.Context, id idwrap.IDWrap) (*movable.Node[idwrap.IDWrap, mmeal.DayKey], error) {
	meal, err := r.queries.GetMealByNextID(ctx, &id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	node := mealNode(meal)
	return &node, nil
}

func (r *DayOrderStore) SetNext(ctx context.Context, id idwrap.IDWrap, next *idwrap.IDWrap) error {
	return r.queries.UpdateMealNext(ctx, gen.UpdateMealNextParams{
		NextID: next,
		ID:     id,
	})
}

// Attach only places a meal on a day of the account that owns it.
func (r *DayOrderStore) Attach(ctx context.Context, id idwrap.IDWrap, key mmeal.DayKey, next *idwrap.IDWrap) error {
	n, err := r.queries.AttachMealToDay(ctx, gen.AttachMealToDayParams{
		Day:       &key.Day,
		NextID:    next,
		ID:        id,
		AccountID: key.AccountID,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: meal %s is not owned by %s", movable.ErrCrossPartition, id, key.AccountID)
	}
	return nil
}

func (r *DayOrderStore) Detach(ctx context.Context, id idwrap.IDWrap) error {
	return r.queries.DetachMealFromDay(ctx, id)
}

// LockPartition locks every day of the account at once by bumping the
// account's order_version.
func (r *DayOrderStore) LockPartition(ctx context.Context, key mmeal.DayKey) error {
	n, err := r.queries.BumpAccountOrderVersion(ctx, key.AccountID)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: account %s", movable.ErrPartitionNotFound, key.AccountID)
	}
	return nil
}
