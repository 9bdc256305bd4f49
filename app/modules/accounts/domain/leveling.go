package accountsdomain

import "math"

// levelFactor scales the quadratic experience curve: T(L) = levelFactor * L^2.
const levelFactor = 10

// maxLevel is the highest level whose threshold fits in an int64.
const maxLevel = 960383883

// CalculateLevelExperience returns the experience needed to reach level.
// Levels <= 0 need nothing; levels past maxLevel saturate at math.MaxInt64.
func CalculateLevelExperience(level int) int64 {
	if level <= 0 {
		return 0
	}
	if level > maxLevel {
		return math.MaxInt64
	}
	l := int64(level)
	return levelFactor * l * l
}

// CalculateLevel returns the greatest level whose threshold does not exceed experience.
func CalculateLevel(experience int64) int {
	if experience <= 0 {
		return 0
	}

	// The float estimate can be off by one either way near large squares.
	level := int(math.Sqrt(float64(experience / levelFactor)))
	if level > maxLevel {
		level = maxLevel
	}
	for level > 0 && CalculateLevelExperience(level) > experience {
		level--
	}
	for level < maxLevel && CalculateLevelExperience(level+1) <= experience {
		level++
	}
	return level
}

// LevelProgress describes where an experience total sits inside its level.
type LevelProgress struct {
	Level      int
	Experience int64
	// Current is the experience earned since the level threshold.
	Current int64
	// Span is the experience between this level and the next.
	Span int64
	// Next is the threshold of the next level.
	Next int64
}

// Progress computes the level and in-level progress for an experience total.
// Global and guild-local totals both go through here.
func Progress(experience int64) LevelProgress {
	if experience < 0 {
		experience = 0
	}
	level := CalculateLevel(experience)
	floor := CalculateLevelExperience(level)
	next := CalculateLevelExperience(level + 1)

	return LevelProgress{
		Level:      level,
		Experience: experience,
		Current:    experience - floor,
		Span:       next - floor,
		Next:       next,
	}
}
