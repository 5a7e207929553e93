package mmeal

import (
	"errors"
	"fmt"
	"time"

	"github.com/dietlog/server/pkg/idwrap"
)

const DayLayout = time.DateOnly

var ErrInvalidDay = errors.New("day must be formatted as YYYY-MM-DD")

// DayKey identifies the meals of one account on one calendar day.
type DayKey struct {
	AccountID idwrap.IDWrap
	Day       string
}

func (k DayKey) String() string {
	return fmt.Sprintf("%s/%s", k.AccountID, k.Day)
}

// ParseDay validates a calendar day and returns it in canonical form.
func ParseDay(s string) (string, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDay, s)
	}
	return t.Format(DayLayout), nil
}

type Meal struct {
	ID        idwrap.IDWrap
	AccountID idwrap.IDWrap
	// Day is nil while the meal is not placed on any day.
	Day  *string
	Name string
}

func (m Meal) Key() (DayKey, bool) {
	if m.Day == nil {
		return DayKey{}, false
	}
	return DayKey{AccountID: m.AccountID, Day: *m.Day}, true
}
