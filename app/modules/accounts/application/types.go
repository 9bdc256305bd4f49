package accountsservice

import (
	"time"

	accountsdomain "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/domain"
	accountscontent "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/infrastructure/content"
	"github.com/Black-And-White-Club/accounts-bot/internal/discord"
	"github.com/Black-And-White-Club/accounts-bot/internal/mikiapi"
)

// ExperienceView is one scope of a profile's experience block.
type ExperienceView struct {
	Progress accountsdomain.LevelProgress
	Rank     int
	// Ranked is false when no rank has been computed for the user yet.
	Ranked bool
}

// AchievementView is one unlocked achievement rank.
type AchievementView struct {
	Name         string
	Icon         string
	ResourceName string
	Points       int
	UnlockedAt   time.Time
}

// ProfileView is everything the profile embed shows.
type ProfileView struct {
	User         discord.User
	Title        string
	Donator      bool
	Local        ExperienceView
	Global       ExperienceView
	Reputation   int64
	Currency     int64
	Achievements []AchievementView
	// ShowBar is false when the channel forbids external emojis.
	ShowBar bool
	Color   int
}

// ReputationInfo is the no-argument reputation overview.
type ReputationInfo struct {
	TotalReceived int64
	ResetIn       time.Duration
	PointsLeft    int
}

// ReputationChange is one recipient of a committed distribution.
type ReputationChange struct {
	User   discord.User
	Old    int64
	New    int64
	Amount int
}

// ReputationView is the outcome of a reputation command. Info is set in
// overview mode; otherwise Given lists the committed increments.
type ReputationView struct {
	Info          *ReputationInfo
	Given         []ReputationChange
	PointsLeft    int
	MentionedSelf bool
}

// LeaderboardView is one rendered leaderboard page.
type LeaderboardView struct {
	Query accountsdomain.LeaderboardQuery
	Page  mikiapi.LeaderboardPage
	URL   string
	// Chart is a PNG bar chart of the page, nil when rendering failed.
	Chart []byte
}

// MekosView is a balance lookup.
type MekosView struct {
	User    discord.User
	Balance int64
}

// GiveView is a completed transfer.
type GiveView struct {
	Sender   discord.User
	Receiver discord.User
	Amount   int64
}

// DailyView is a completed daily claim.
type DailyView struct {
	Amount  int64
	Balance int64
	Streak  int
}

// BackgroundPurchaseView is either a preview or a completed purchase.
type BackgroundPurchaseView struct {
	Background accountscontent.Background
	Purchased  bool
	// MissingID is set when no id was given.
	MissingID bool
}

// BackgroundsOwnedView lists owned background ids.
type BackgroundsOwnedView struct {
	User discord.User
	IDs  []int
}

// ColorView is a colour change. Help is set when the input had no colour.
type ColorView struct {
	Layer string
	Hex   string
	Help  bool
}

// AchievementsView lists a user's achievements.
type AchievementsView struct {
	User        discord.User
	Items       []AchievementView
	TotalPoints int
}

// SyncNameView is a completed name sync.
type SyncNameView struct {
	Name string
}

// ExpCardView is the experience card image.
type ExpCardView struct {
	Image []byte
}

// ExperienceGainView is the outcome of an experience gain.
type ExperienceGainView struct {
	GuildID   int64
	ChannelID int64
	UserID    int64
	Username  string
	OldLevel  int
	NewLevel  int
	LeveledUp bool
	NewLocal  int64
	NewTotal  int64
}

// LevelUpOutcome records what the observers did for one level-up.
type LevelUpOutcome struct {
	GrantedRoles        []discord.Role
	MatchedRules        int
	Notified            bool
	AchievementUnlocked bool
	AchievementRank     int
	Errors              []string
}

// AccountSummary is the JSON profile served over HTTP.
type AccountSummary struct {
	ID              int64  `json:"id,string"`
	Name            string `json:"name"`
	Title           string `json:"title,omitempty"`
	Currency        int64  `json:"currency"`
	Reputation      int64  `json:"reputation"`
	TotalExperience int64  `json:"totalExperience"`
	Level           int    `json:"level"`
	GlobalRank      *int   `json:"globalRank,omitempty"`
}

// LevelUpNotice is an unsolicited level-up message.
type LevelUpNotice struct {
	GuildID   int64    `json:"guild_id,string"`
	ChannelID int64    `json:"channel_id,string"`
	UserID    int64    `json:"user_id,string"`
	Username  string   `json:"username"`
	Level     int      `json:"level"`
	RoleNames []string `json:"role_names,omitempty"`
}

// AchievementNotice is an unsolicited achievement message.
type AchievementNotice struct {
	ChannelID    int64  `json:"channel_id,string"`
	UserID       int64  `json:"user_id,string"`
	Username     string `json:"username"`
	Icon         string `json:"icon"`
	ResourceName string `json:"resource_name"`
}
