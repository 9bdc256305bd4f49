package accountsmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating processed_messages table...")

		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS processed_messages (
				message_id VARCHAR(64) NOT NULL,
				operation VARCHAR(64) NOT NULL,
				processed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				PRIMARY KEY (message_id, operation)
			);
			CREATE INDEX IF NOT EXISTS idx_processed_messages_processed_at ON processed_messages(processed_at);
		`)
		if err != nil {
			return fmt.Errorf("failed to create processed_messages table: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping processed_messages table...")

		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS processed_messages;`); err != nil {
			return fmt.Errorf("failed to drop processed_messages table: %w", err)
		}
		return nil
	})
}
