package mmeal

import (
	"testing"

	"github.com/dietlog/server/pkg/idwrap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	day, err := ParseDay("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", day)

	for _, bad := range []string{"", "2023-02-29", "29-02-2024", "2024-2-1", "today"} {
		_, err := ParseDay(bad)
		assert.ErrorIs(t, err, ErrInvalidDay, bad)
	}
}

func TestMealKey(t *testing.T) {
	owner := idwrap.NewNow()
	meal := Meal{ID: idwrap.NewNow(), AccountID: owner}

	_, ok := meal.Key()
	assert.False(t, ok, "detached meal has no key")

	day := "2024-03-01"
	meal.Day = &day
	key, ok := meal.Key()
	require.True(t, ok)
	assert.Equal(t, DayKey{AccountID: owner, Day: day}, key)
}
