package tdish

import (
	"github.com/dietlog/server/pkg/model/mdish"
)

type Dish struct {
	DishId string  `json:"dishId"`
	MealId *string `json:"mealId,omitempty"`
	Name   string  `json:"name"`
	Grams  float64 `json:"grams"`
}

func SerializeModelToRPC(d mdish.Dish) *Dish {
	var mealID *string
	if d.MealID != nil {
		s := d.MealID.String()
		mealID = &s
	}
	return &Dish{
		DishId: d.ID.String(),
		MealId: mealID,
		Name:   d.Name,
		Grams:  d.Grams,
	}
}
