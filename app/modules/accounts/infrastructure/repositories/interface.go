package accountsdb

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// ColorLayer names a profile colour column.
type ColorLayer string

const (
	ColorLayerBackground ColorLayer = "background_color"
	ColorLayerForeground ColorLayer = "foreground_color"
)

// ExperienceChange is the local counter before and after a gain.
type ExperienceChange struct {
	OldLocal int64
	NewLocal int64
	NewTotal int64
}

// Repository defines the contract for account persistence.
type Repository interface {
	// GetUser retrieves a user by id.
	GetUser(ctx context.Context, db bun.IDB, userID int64) (*User, error)

	// GetOrCreateUser returns the user row, inserting a fresh one when missing.
	GetOrCreateUser(ctx context.Context, db bun.IDB, userID int64, name string) (*User, error)

	// UpdateName updates a user's stored name.
	UpdateName(ctx context.Context, db bun.IDB, userID int64, name string) error

	// AddCurrency credits amount mekos to a user.
	AddCurrency(ctx context.Context, db bun.IDB, userID, amount int64) (int64, error)

	// RemoveCurrency debits amount mekos only when the balance covers it.
	RemoveCurrency(ctx context.Context, db bun.IDB, userID, amount int64) (int64, error)

	// AddReputation increments a user's received reputation.
	AddReputation(ctx context.Context, db bun.IDB, userID, amount int64) (int64, error)

	// ClaimDaily credits the daily reward when the cooldown since the last claim elapsed.
	ClaimDaily(ctx context.Context, db bun.IDB, userID, amount int64, now time.Time, cooldown time.Duration) (int64, error)

	// AddExperience adds to the global total and the guild-local counter.
	AddExperience(ctx context.Context, db bun.IDB, guildID, userID int64, username string, amount int64) (ExperienceChange, error)

	// GetLocalExperience retrieves a user's counter inside a guild.
	GetLocalExperience(ctx context.Context, db bun.IDB, guildID, userID int64) (*LocalExperience, error)

	// GetLocalRank returns the 1-based rank of a user inside a guild.
	GetLocalRank(ctx context.Context, db bun.IDB, guildID, userID int64) (int, error)

	// GetGlobalRank returns the 1-based global rank, or false when the user has none yet.
	GetGlobalRank(ctx context.Context, db bun.IDB, userID int64) (int, bool, error)

	// GetLevelRoles returns the automatic role rules for a guild and level.
	GetLevelRoles(ctx context.Context, db bun.IDB, guildID int64, level int) ([]LevelRole, error)

	// GetChannelSetting returns a channel setting, or false when unset.
	GetChannelSetting(ctx context.Context, db bun.IDB, channelID int64, settingID string) (int, bool, error)

	// UnlockAchievement raises the stored rank; it reports false when rank was already reached.
	UnlockAchievement(ctx context.Context, db bun.IDB, userID int64, name string, rank int) (bool, error)

	// GetAchievements lists a user's unlocked achievements.
	GetAchievements(ctx context.Context, db bun.IDB, userID int64) ([]Achievement, error)

	// HasBackground reports whether a user owns a background.
	HasBackground(ctx context.Context, db bun.IDB, userID int64, backgroundID int) (bool, error)

	// AddBackground records a purchase; it reports false when it was already owned.
	AddBackground(ctx context.Context, db bun.IDB, userID int64, backgroundID int) (bool, error)

	// GetBackgroundsOwned lists a user's purchased backgrounds.
	GetBackgroundsOwned(ctx context.Context, db bun.IDB, userID int64) ([]BackgroundOwned, error)

	// GetProfileVisuals returns the profile selection, defaulted when absent.
	GetProfileVisuals(ctx context.Context, db bun.IDB, userID int64) (*ProfileVisuals, error)

	// SetBackground selects an owned background for the profile.
	SetBackground(ctx context.Context, db bun.IDB, userID int64, backgroundID int) error

	// SetColor stores a hex colour on a profile layer.
	SetColor(ctx context.Context, db bun.IDB, userID int64, layer ColorLayer, hex string) error

	// MarkProcessed records a message for an operation; it reports false when
	// the message was already recorded.
	MarkProcessed(ctx context.Context, db bun.IDB, messageID, operation string) (bool, error)
}
