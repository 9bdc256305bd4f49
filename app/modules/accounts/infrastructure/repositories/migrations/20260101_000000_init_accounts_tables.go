package accountsmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating accounts tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS users (
					id BIGINT PRIMARY KEY,
					name VARCHAR(100) NOT NULL,
					title VARCHAR(100) NOT NULL DEFAULT '',
					currency BIGINT NOT NULL DEFAULT 0 CHECK (currency >= 0),
					reputation BIGINT NOT NULL DEFAULT 0,
					total_experience BIGINT NOT NULL DEFAULT 0,
					last_daily_time TIMESTAMPTZ,
					donator_until TIMESTAMPTZ,
					banned BOOLEAN NOT NULL DEFAULT FALSE,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_users_total_experience ON users(total_experience DESC);
			`); err != nil {
				return fmt.Errorf("failed to create users table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS local_experience (
					guild_id BIGINT NOT NULL,
					user_id BIGINT NOT NULL,
					experience BIGINT NOT NULL DEFAULT 0,
					username VARCHAR(100) NOT NULL DEFAULT '',
					PRIMARY KEY (guild_id, user_id)
				);
				CREATE INDEX IF NOT EXISTS idx_local_experience_guild_exp ON local_experience(guild_id, experience DESC);
			`); err != nil {
				return fmt.Errorf("failed to create local_experience table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS level_roles (
					guild_id BIGINT NOT NULL,
					role_id BIGINT NOT NULL,
					required_level INTEGER NOT NULL,
					automatic BOOLEAN NOT NULL DEFAULT FALSE,
					optable BOOLEAN NOT NULL DEFAULT FALSE,
					price BIGINT NOT NULL DEFAULT 0,
					PRIMARY KEY (guild_id, role_id)
				);
				CREATE INDEX IF NOT EXISTS idx_level_roles_guild_level ON level_roles(guild_id, required_level);
			`); err != nil {
				return fmt.Errorf("failed to create level_roles table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS channel_settings (
					channel_id BIGINT NOT NULL,
					setting_id VARCHAR(50) NOT NULL,
					value INTEGER NOT NULL,
					PRIMARY KEY (channel_id, setting_id)
				);
			`); err != nil {
				return fmt.Errorf("failed to create channel_settings table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS achievements (
					user_id BIGINT NOT NULL,
					name VARCHAR(50) NOT NULL,
					rank INTEGER NOT NULL,
					unlocked_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					PRIMARY KEY (user_id, name)
				);
			`); err != nil {
				return fmt.Errorf("failed to create achievements table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS backgrounds_owned (
					user_id BIGINT NOT NULL,
					background_id INTEGER NOT NULL,
					purchased_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					PRIMARY KEY (user_id, background_id)
				);
				CREATE TABLE IF NOT EXISTS profile_visuals (
					user_id BIGINT PRIMARY KEY,
					background_id INTEGER NOT NULL DEFAULT 0,
					background_color VARCHAR(6) NOT NULL DEFAULT '000000',
					foreground_color VARCHAR(6) NOT NULL DEFAULT 'FFFFFF'
				);
			`); err != nil {
				return fmt.Errorf("failed to create profile tables: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping accounts tables...")

		_, err := db.ExecContext(ctx, `
			DROP TABLE IF EXISTS profile_visuals;
			DROP TABLE IF EXISTS backgrounds_owned;
			DROP TABLE IF EXISTS achievements;
			DROP TABLE IF EXISTS channel_settings;
			DROP TABLE IF EXISTS level_roles;
			DROP TABLE IF EXISTS local_experience;
			DROP TABLE IF EXISTS users;
		`)
		if err != nil {
			return fmt.Errorf("failed to drop accounts tables: %w", err)
		}
		return nil
	})
}
