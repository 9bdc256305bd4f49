package accountsdomain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDailyReward(t *testing.T) {
	assert.Equal(t, int64(100), DailyReward(0, false))
	assert.Equal(t, int64(160), DailyReward(3, false))
	assert.Equal(t, int64(320), DailyReward(3, true))
	assert.Equal(t, int64(2100), DailyReward(100, false))
	assert.Equal(t, int64(2100), DailyReward(500, false), "streak is capped")
	assert.Equal(t, int64(100), DailyReward(-2, false))
}

func TestDailyAvailableAt(t *testing.T) {
	last := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), DailyAvailableAt(last))
	assert.Equal(t, "user:9:daily", DailyStreakKey(9))
}
