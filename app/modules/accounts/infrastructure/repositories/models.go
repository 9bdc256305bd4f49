package accountsdb

import (
	"time"

	"github.com/uptrace/bun"
)

// User is the global account row shared by every guild.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID              int64     `bun:"id,pk"`
	Name            string    `bun:"name,notnull"`
	Title           string    `bun:"title,notnull,default:''"`
	Currency        int64     `bun:"currency,notnull,default:0"`
	Reputation      int64     `bun:"reputation,notnull,default:0"`
	TotalExperience int64     `bun:"total_experience,notnull,default:0"`
	LastDailyTime   time.Time `bun:"last_daily_time,nullzero"`
	DonatorUntil    time.Time `bun:"donator_until,nullzero"`
	Banned          bool      `bun:"banned,notnull,default:false"`
	CreatedAt       time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt       time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// IsDonator reports whether the donator period is still running at now.
func (u *User) IsDonator(now time.Time) bool {
	return !u.DonatorUntil.IsZero() && u.DonatorUntil.After(now)
}

// LocalExperience is a user's experience counter inside one guild.
type LocalExperience struct {
	bun.BaseModel `bun:"table:local_experience,alias:le"`

	GuildID    int64  `bun:"guild_id,pk"`
	UserID     int64  `bun:"user_id,pk"`
	Experience int64  `bun:"experience,notnull,default:0"`
	Username   string `bun:"username,notnull,default:''"`
}

// LevelRole is a guild role granted at a required local level.
type LevelRole struct {
	bun.BaseModel `bun:"table:level_roles,alias:lr"`

	GuildID       int64 `bun:"guild_id,pk"`
	RoleID        int64 `bun:"role_id,pk"`
	RequiredLevel int   `bun:"required_level,notnull"`
	Automatic     bool  `bun:"automatic,notnull,default:false"`
	Optable       bool  `bun:"optable,notnull,default:false"`
	Price         int64 `bun:"price,notnull,default:0"`
}

// ChannelSetting is an integer setting scoped to one channel.
type ChannelSetting struct {
	bun.BaseModel `bun:"table:channel_settings,alias:cs"`

	ChannelID int64  `bun:"channel_id,pk"`
	SettingID string `bun:"setting_id,pk"`
	Value     int    `bun:"value,notnull"`
}

// SettingLevelUps selects the level-up notification mode of a channel.
const SettingLevelUps = "level_ups"

// Achievement is the highest unlocked rank of a named achievement.
type Achievement struct {
	bun.BaseModel `bun:"table:achievements,alias:a"`

	UserID     int64     `bun:"user_id,pk"`
	Name       string    `bun:"name,pk"`
	Rank       int       `bun:"rank,notnull"`
	UnlockedAt time.Time `bun:"unlocked_at,nullzero,notnull,default:current_timestamp"`
}

// BackgroundOwned records one purchased profile background.
type BackgroundOwned struct {
	bun.BaseModel `bun:"table:backgrounds_owned,alias:bo"`

	UserID       int64     `bun:"user_id,pk"`
	BackgroundID int       `bun:"background_id,pk"`
	PurchasedAt  time.Time `bun:"purchased_at,nullzero,notnull,default:current_timestamp"`
}

// ProfileVisuals holds the cosmetic profile selection of a user.
type ProfileVisuals struct {
	bun.BaseModel `bun:"table:profile_visuals,alias:pv"`

	UserID          int64  `bun:"user_id,pk"`
	BackgroundID    int    `bun:"background_id,notnull,default:0"`
	BackgroundColor string `bun:"background_color,notnull,default:'000000'"`
	ForegroundColor string `bun:"foreground_color,notnull,default:'FFFFFF'"`
}

// DefaultProfileVisuals is what a user without a profile_visuals row sees.
func DefaultProfileVisuals(userID int64) *ProfileVisuals {
	return &ProfileVisuals{
		UserID:          userID,
		BackgroundColor: "000000",
		ForegroundColor: "FFFFFF",
	}
}

// ProcessedMessage marks a bus message whose writes were already committed.
type ProcessedMessage struct {
	bun.BaseModel `bun:"table:processed_messages,alias:pm"`

	MessageID   string    `bun:"message_id,pk"`
	Operation   string    `bun:"operation,pk"`
	ProcessedAt time.Time `bun:"processed_at,nullzero,notnull,default:current_timestamp"`
}
