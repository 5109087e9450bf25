package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlotDateKey(t *testing.T) {
	t.Run("prints without leading zeros", func(t *testing.T) {
		key := FormatSlotDateKey(time.Date(2026, 3, 5, 0, 0, 0, 0, time.Local))
		assert.Equal(t, "5_3_2026", key)
	})

	t.Run("round trips", func(t *testing.T) {
		day := time.Date(2026, 11, 28, 0, 0, 0, 0, time.Local)
		parsed, err := ParseSlotDateKey(FormatSlotDateKey(day))
		assert.NoError(t, err)
		assert.True(t, parsed.Equal(day))
	})

	t.Run("rejects malformed keys", func(t *testing.T) {
		for _, key := range []string{"", "5-3-2026", "32_13_2026", "0_1_2026"} {
			_, err := ParseSlotDateKey(key)
			assert.Error(t, err, key)
		}
	})
}

func TestIsTodayOrFuture(t *testing.T) {
	now := time.Date(2026, 3, 5, 15, 30, 0, 0, time.Local)

	today, err := IsTodayOrFuture("5_3_2026", now)
	assert.NoError(t, err)
	assert.True(t, today)

	future, err := IsTodayOrFuture("6_3_2026", now)
	assert.NoError(t, err)
	assert.True(t, future)

	past, err := IsTodayOrFuture("4_3_2026", now)
	assert.NoError(t, err)
	assert.False(t, past)
}

func TestFormatSlotTime(t *testing.T) {
	assert.Equal(t, "10:30 AM", FormatSlotTime(time.Date(2026, 3, 5, 10, 30, 0, 0, time.Local)))
	assert.Equal(t, "08:30 PM", FormatSlotTime(time.Date(2026, 3, 5, 20, 30, 0, 0, time.Local)))
}
