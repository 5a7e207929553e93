package tmeal

import (
	"github.com/dietlog/server/pkg/model/mmeal"
)

type Meal struct {
	MealId string  `json:"mealId"`
	Name   string  `json:"name"`
	Day    *string `json:"day,omitempty"`
}

func SerializeModelToRPC(m mmeal.Meal) *Meal {
	return &Meal{
		MealId: m.ID.String(),
		Name:   m.Name,
		Day:    m.Day,
	}
}
