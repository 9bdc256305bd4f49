package accountsdomain

// LevelAchievementName is the achievement unlocked by level brackets.
const LevelAchievementName = "levelachievements"

// levelBrackets maps half-open level ranges [From, next From) to achievement ranks.
var levelBrackets = []struct {
	From int
	Rank int
}{
	{150, 7},
	{100, 6},
	{50, 5},
	{30, 4},
	{20, 3},
	{10, 2},
	{5, 1},
	{3, 0},
}

// LevelAchievementRank returns the rank unlocked at level, or false below the first bracket.
func LevelAchievementRank(level int) (int, bool) {
	for _, b := range levelBrackets {
		if level >= b.From {
			return b.Rank, true
		}
	}
	return 0, false
}
