package accountsdomain

import (
	"strconv"
	"time"
)

const (
	dailyBase        = 100
	dailyStreakBonus = 20
	maxDailyStreak   = 100

	// DailyCooldown is the wait between two daily claims.
	DailyCooldown = 23 * time.Hour
	// DailyStreakTTL is how long a streak survives without a claim.
	DailyStreakTTL = 48 * time.Hour
)

// DailyReward is the mekos paid for a claim at the given streak.
func DailyReward(streak int, donator bool) int64 {
	streak = min(max(streak, 0), maxDailyStreak)
	amount := int64(dailyBase + dailyStreakBonus*streak)
	if donator {
		amount *= 2
	}
	return amount
}

// DailyAvailableAt is when the next claim opens after lastClaim.
func DailyAvailableAt(lastClaim time.Time) time.Time {
	return lastClaim.Add(DailyCooldown)
}

// DailyStreakKey is the cache key of a user's claim streak.
func DailyStreakKey(userID int64) string {
	return "user:" + strconv.FormatInt(userID, 10) + ":daily"
}
