package accountsdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new accounts repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// GetUser retrieves a user by id.
func (r *Impl) GetUser(ctx context.Context, db bun.IDB, userID int64) (*User, error) {
	db = r.resolveDB(db)
	user := new(User)
	err := db.NewSelect().
		Model(user).
		Where("id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetOrCreateUser returns the user row, inserting a fresh one when missing.
func (r *Impl) GetOrCreateUser(ctx context.Context, db bun.IDB, userID int64, name string) (*User, error) {
	db = r.resolveDB(db)
	now := time.Now().UTC()
	user := &User{ID: userID, Name: name, CreatedAt: now, UpdatedAt: now}
	if _, err := db.NewInsert().
		Model(user).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return r.GetUser(ctx, db, userID)
}

// UpdateName updates a user's stored name.
func (r *Impl) UpdateName(ctx context.Context, db bun.IDB, userID int64, name string) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*User)(nil)).
		Set("name = ?", name).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update user name: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// AddCurrency credits amount mekos to a user and returns the new balance.
func (r *Impl) AddCurrency(ctx context.Context, db bun.IDB, userID, amount int64) (int64, error) {
	db = r.resolveDB(db)
	var balance int64
	err := db.NewUpdate().
		Model((*User)(nil)).
		Set("currency = currency + ?", amount).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", userID).
		Returning("currency").
		Scan(ctx, &balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to add currency: %w", err)
	}
	return balance, nil
}

// RemoveCurrency debits amount mekos only when the balance covers it.
func (r *Impl) RemoveCurrency(ctx context.Context, db bun.IDB, userID, amount int64) (int64, error) {
	db = r.resolveDB(db)
	var balance int64
	err := db.NewUpdate().
		Model((*User)(nil)).
		Set("currency = currency - ?", amount).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", userID).
		Where("currency >= ?", amount).
		Returning("currency").
		Scan(ctx, &balance)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to remove currency: %w", err)
	}
	exists, err := db.NewSelect().
		Model((*User)(nil)).
		Where("id = ?", userID).
		Exists(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return 0, ErrNotFound
	}
	return 0, ErrInsufficientFunds
}

// AddReputation increments a user's received reputation.
func (r *Impl) AddReputation(ctx context.Context, db bun.IDB, userID, amount int64) (int64, error) {
	db = r.resolveDB(db)
	var total int64
	err := db.NewUpdate().
		Model((*User)(nil)).
		Set("reputation = reputation + ?", amount).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", userID).
		Returning("reputation").
		Scan(ctx, &total)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to add reputation: %w", err)
	}
	return total, nil
}

// ClaimDaily credits the daily reward and stamps the claim time. It returns
// ErrNoRowsAffected when the previous claim is younger than cooldown.
func (r *Impl) ClaimDaily(ctx context.Context, db bun.IDB, userID, amount int64, now time.Time, cooldown time.Duration) (int64, error) {
	db = r.resolveDB(db)
	var balance int64
	err := db.NewUpdate().
		Model((*User)(nil)).
		Set("currency = currency + ?", amount).
		Set("last_daily_time = ?", now).
		Set("updated_at = ?", now).
		Where("id = ?", userID).
		WhereGroup(" AND ", func(q *bun.UpdateQuery) *bun.UpdateQuery {
			return q.Where("last_daily_time IS NULL").
				WhereOr("last_daily_time <= ?", now.Add(-cooldown))
		}).
		Returning("currency").
		Scan(ctx, &balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNoRowsAffected
		}
		return 0, fmt.Errorf("failed to claim daily: %w", err)
	}
	return balance, nil
}

// AddExperience adds amount to the global total and the guild-local counter,
// creating either row when missing.
func (r *Impl) AddExperience(ctx context.Context, db bun.IDB, guildID, userID int64, username string, amount int64) (ExperienceChange, error) {
	db = r.resolveDB(db)
	now := time.Now().UTC()

	var change ExperienceChange
	if err := db.NewRaw(`
		INSERT INTO users (id, name, total_experience, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET total_experience = users.total_experience + EXCLUDED.total_experience,
			updated_at = EXCLUDED.updated_at
		RETURNING total_experience`,
		userID, username, amount, now, now,
	).Scan(ctx, &change.NewTotal); err != nil {
		return ExperienceChange{}, fmt.Errorf("failed to add global experience: %w", err)
	}

	if err := db.NewRaw(`
		INSERT INTO local_experience (guild_id, user_id, experience, username)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (guild_id, user_id) DO UPDATE
		SET experience = local_experience.experience + EXCLUDED.experience,
			username = EXCLUDED.username
		RETURNING experience`,
		guildID, userID, amount, username,
	).Scan(ctx, &change.NewLocal); err != nil {
		return ExperienceChange{}, fmt.Errorf("failed to add local experience: %w", err)
	}

	change.OldLocal = change.NewLocal - amount
	return change, nil
}

// GetLocalExperience retrieves a user's counter inside a guild.
func (r *Impl) GetLocalExperience(ctx context.Context, db bun.IDB, guildID, userID int64) (*LocalExperience, error) {
	db = r.resolveDB(db)
	local := new(LocalExperience)
	err := db.NewSelect().
		Model(local).
		Where("guild_id = ?", guildID).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get local experience: %w", err)
	}
	return local, nil
}

// GetLocalRank returns the 1-based rank of a user inside a guild.
func (r *Impl) GetLocalRank(ctx context.Context, db bun.IDB, guildID, userID int64) (int, error) {
	db = r.resolveDB(db)
	local, err := r.GetLocalExperience(ctx, db, guildID, userID)
	if err != nil {
		return 0, err
	}
	ahead, err := db.NewSelect().
		Model((*LocalExperience)(nil)).
		Where("guild_id = ?", guildID).
		Where("experience > ?", local.Experience).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count local rank: %w", err)
	}
	return ahead + 1, nil
}

// GetGlobalRank returns the 1-based global rank. Users without any
// experience are not ranked yet.
func (r *Impl) GetGlobalRank(ctx context.Context, db bun.IDB, userID int64) (int, bool, error) {
	db = r.resolveDB(db)
	user, err := r.GetUser(ctx, db, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	if user.TotalExperience <= 0 {
		return 0, false, nil
	}
	ahead, err := db.NewSelect().
		Model((*User)(nil)).
		Where("total_experience > ?", user.TotalExperience).
		Where("banned = FALSE").
		Count(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("failed to count global rank: %w", err)
	}
	return ahead + 1, true, nil
}

// GetLevelRoles returns the automatic role rules for a guild and level.
func (r *Impl) GetLevelRoles(ctx context.Context, db bun.IDB, guildID int64, level int) ([]LevelRole, error) {
	db = r.resolveDB(db)
	var roles []LevelRole
	err := db.NewSelect().
		Model(&roles).
		Where("guild_id = ?", guildID).
		Where("required_level = ?", level).
		Where("automatic = TRUE").
		Order("role_id ASC").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get level roles: %w", err)
	}
	return roles, nil
}

// GetChannelSetting returns a channel setting, or false when unset.
func (r *Impl) GetChannelSetting(ctx context.Context, db bun.IDB, channelID int64, settingID string) (int, bool, error) {
	db = r.resolveDB(db)
	setting := new(ChannelSetting)
	err := db.NewSelect().
		Model(setting).
		Where("channel_id = ?", channelID).
		Where("setting_id = ?", settingID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get channel setting: %w", err)
	}
	return setting.Value, true, nil
}

// UnlockAchievement raises the stored rank of an achievement. A rank that is
// already reached leaves the row untouched and reports false.
func (r *Impl) UnlockAchievement(ctx context.Context, db bun.IDB, userID int64, name string, rank int) (bool, error) {
	db = r.resolveDB(db)
	result, err := db.ExecContext(ctx, `
		INSERT INTO achievements (user_id, name, rank, unlocked_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, name) DO UPDATE
		SET rank = EXCLUDED.rank, unlocked_at = EXCLUDED.unlocked_at
		WHERE achievements.rank < EXCLUDED.rank`,
		userID, name, rank, time.Now().UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to unlock achievement: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// GetAchievements lists a user's unlocked achievements, oldest first.
func (r *Impl) GetAchievements(ctx context.Context, db bun.IDB, userID int64) ([]Achievement, error) {
	db = r.resolveDB(db)
	var achievements []Achievement
	err := db.NewSelect().
		Model(&achievements).
		Where("user_id = ?", userID).
		Order("unlocked_at ASC", "name ASC").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get achievements: %w", err)
	}
	return achievements, nil
}

// HasBackground reports whether a user owns a background.
func (r *Impl) HasBackground(ctx context.Context, db bun.IDB, userID int64, backgroundID int) (bool, error) {
	db = r.resolveDB(db)
	exists, err := db.NewSelect().
		Model((*BackgroundOwned)(nil)).
		Where("user_id = ?", userID).
		Where("background_id = ?", backgroundID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check background ownership: %w", err)
	}
	return exists, nil
}

// AddBackground records a purchase; it reports false when it was already owned.
func (r *Impl) AddBackground(ctx context.Context, db bun.IDB, userID int64, backgroundID int) (bool, error) {
	db = r.resolveDB(db)
	result, err := db.NewInsert().
		Model(&BackgroundOwned{UserID: userID, BackgroundID: backgroundID, PurchasedAt: time.Now().UTC()}).
		On("CONFLICT (user_id, background_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to add background: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// GetBackgroundsOwned lists a user's purchased backgrounds.
func (r *Impl) GetBackgroundsOwned(ctx context.Context, db bun.IDB, userID int64) ([]BackgroundOwned, error) {
	db = r.resolveDB(db)
	var owned []BackgroundOwned
	err := db.NewSelect().
		Model(&owned).
		Where("user_id = ?", userID).
		Order("background_id ASC").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get owned backgrounds: %w", err)
	}
	return owned, nil
}

// GetProfileVisuals returns the profile selection, defaulted when absent.
func (r *Impl) GetProfileVisuals(ctx context.Context, db bun.IDB, userID int64) (*ProfileVisuals, error) {
	db = r.resolveDB(db)
	visuals := new(ProfileVisuals)
	err := db.NewSelect().
		Model(visuals).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return DefaultProfileVisuals(userID), nil
		}
		return nil, fmt.Errorf("failed to get profile visuals: %w", err)
	}
	return visuals, nil
}

// SetBackground selects a background for the profile.
func (r *Impl) SetBackground(ctx context.Context, db bun.IDB, userID int64, backgroundID int) error {
	db = r.resolveDB(db)
	visuals := DefaultProfileVisuals(userID)
	visuals.BackgroundID = backgroundID
	_, err := db.NewInsert().
		Model(visuals).
		On("CONFLICT (user_id) DO UPDATE").
		Set("background_id = EXCLUDED.background_id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set background: %w", err)
	}
	return nil
}

// SetColor stores a hex colour on a profile layer.
func (r *Impl) SetColor(ctx context.Context, db bun.IDB, userID int64, layer ColorLayer, hex string) error {
	db = r.resolveDB(db)
	visuals := DefaultProfileVisuals(userID)
	switch layer {
	case ColorLayerBackground:
		visuals.BackgroundColor = hex
	case ColorLayerForeground:
		visuals.ForegroundColor = hex
	default:
		return fmt.Errorf("unknown colour layer %q", layer)
	}
	_, err := db.NewInsert().
		Model(visuals).
		On("CONFLICT (user_id) DO UPDATE").
		Set("? = EXCLUDED.?", bun.Ident(string(layer)), bun.Ident(string(layer))).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", layer, err)
	}
	return nil
}

// MarkProcessed records a message for an operation; it reports false when
// the message was already recorded.
func (r *Impl) MarkProcessed(ctx context.Context, db bun.IDB, messageID, operation string) (bool, error) {
	db = r.resolveDB(db)
	result, err := db.NewInsert().
		Model(&ProcessedMessage{MessageID: messageID, Operation: operation, ProcessedAt: time.Now().UTC()}).
		On("CONFLICT (message_id, operation) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to mark message processed: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}
