package sdish

import (
	"github.com/dietlog/server/db/pkg/sqlc/gen"
	"github.com/dietlog/server/pkg/idwrap"
	"github.com/dietlog/server/pkg/model/mdish"
	"github.com/dietlog/server/pkg/movable"
)

func ConvertToModelDish(d gen.Dish) *mdish.Dish {
	return &mdish.Dish{
		ID:        d.ID,
		AccountID: d.AccountID,
		MealID:    d.MealID,
		Name:      d.Name,
		Grams:     d.Grams,
	}
}

func dishNode(d gen.Dish) movable.Node[idwrap.IDWrap, idwrap.IDWrap] {
	return movable.Node[idwrap.IDWrap, idwrap.IDWrap]{
		ID:        d.ID,
		Partition: d.MealID,
		Next:      d.NextID,
	}
}
