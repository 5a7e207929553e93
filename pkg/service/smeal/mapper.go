package smeal

import (
	"github.com/dietlog/server/db/pkg/sqlc/gen"
	"github.com/dietlog/server/pkg/idwrap"
	"github.com/dietlog/server/pkg/model/mmeal"
	"github.com/dietlog/server/pkg/movable"
)

func ConvertToModelMeal(m gen.Meal) *mmeal.Meal {
	return &mmeal.Meal{
		ID:        m.ID,
		AccountID: m.AccountID,
		Day:       m.Day,
		Name:      m.Name,
	}
}

func mealNode(m gen.Meal) movable.Node[idwrap.IDWrap, mmeal.DayKey] {
	node := movable.Node[idwrap.IDWrap, mmeal.DayKey]{
		ID:   m.ID,
		Next: m.NextID,
	}
	if m.Day != nil {
		node.Partition = &mmeal.DayKey{AccountID: m.AccountID, Day: *m.Day}
	}
	return node
}
