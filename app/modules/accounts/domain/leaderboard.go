package accountsdomain

import (
	"strconv"
	"strings"
)

// LeaderboardType selects the metric a leaderboard is ranked by.
type LeaderboardType string

const (
	LeaderboardExperience LeaderboardType = "experience"
	LeaderboardCurrency   LeaderboardType = "currency"
	LeaderboardReputation LeaderboardType = "reputation"
	LeaderboardPasta      LeaderboardType = "pasta"
	LeaderboardCommands   LeaderboardType = "commands"
	LeaderboardGuilds     LeaderboardType = "guilds"
)

const (
	// LeaderboardPageSize is the number of entries per page.
	LeaderboardPageSize = 12
	// leaderboardPageDivisor converts the API page count to the displayed count.
	// It differs from LeaderboardPageSize; kept as the ranking API reports it.
	leaderboardPageDivisor = 10
)

var leaderboardAliases = map[string]LeaderboardType{
	"commands":   LeaderboardCommands,
	"cmds":       LeaderboardCommands,
	"currency":   LeaderboardCurrency,
	"mekos":      LeaderboardCurrency,
	"money":      LeaderboardCurrency,
	"bal":        LeaderboardCurrency,
	"rep":        LeaderboardReputation,
	"reputation": LeaderboardReputation,
	"pasta":      LeaderboardPasta,
	"pastas":     LeaderboardPasta,
	"experience": LeaderboardExperience,
	"exp":        LeaderboardExperience,
	"guild":      LeaderboardGuilds,
	"guilds":     LeaderboardGuilds,
}

// Title is the display name of the leaderboard type.
func (t LeaderboardType) Title() string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

// LeaderboardQuery is one parsed leaderboard request.
type LeaderboardQuery struct {
	Type LeaderboardType
	// GuildID is 0 for the global scope.
	GuildID   int64
	PageIndex int
}

// Offset is the index of the first entry of the requested page.
func (q LeaderboardQuery) Offset() int {
	return LeaderboardOffset(q.PageIndex)
}

// ParseLeaderboardArgs reads "[type] [local] [page]". Unknown or missing type
// means experience; "local" scopes to guildID except for pasta.
func ParseLeaderboardArgs(args []string, guildID int64) LeaderboardQuery {
	q := LeaderboardQuery{Type: LeaderboardExperience, PageIndex: 1}

	i := 0
	if i < len(args) {
		if t, ok := leaderboardAliases[strings.ToLower(args[i])]; ok {
			q.Type = t
			i++
		}
	}
	if i < len(args) && strings.EqualFold(args[i], "local") {
		if q.Type != LeaderboardPasta {
			q.GuildID = guildID
		}
		i++
	}
	if i < len(args) {
		if n, err := strconv.Atoi(args[i]); err == nil {
			q.PageIndex = n
		}
	}
	return q
}

// LeaderboardOffset converts a 1-based page index to an entry offset.
func LeaderboardOffset(pageIndex int) int {
	return max(0, pageIndex-1) * LeaderboardPageSize
}

// DisplayPageCount is the total page count shown in the footer.
func DisplayPageCount(totalPages int) int {
	if totalPages <= 0 {
		return 0
	}
	return (totalPages + leaderboardPageDivisor - 1) / leaderboardPageDivisor
}

// EntryRank is the 1-based rank of the i-th entry on a page.
func EntryRank(currentPage, i int) int {
	return currentPage*LeaderboardPageSize + i + 1
}
