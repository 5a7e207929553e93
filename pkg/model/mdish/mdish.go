package mdish

import (
	"github.com/dietlog/server/pkg/idwrap"
)

type Dish struct {
	ID        idwrap.IDWrap
	AccountID idwrap.IDWrap
	MealID    *idwrap.IDWrap
	Name      string
	Grams     float64
}
