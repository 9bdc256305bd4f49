package bundb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// SlowQueryThreshold is the duration above which queries are logged at warn level.
const SlowQueryThreshold = 250 * time.Millisecond

// NewBunDB opens a Postgres pool through pgdriver and wraps it in bun.
func NewBunDB(ctx context.Context, dsn string, logger *slog.Logger) (*bun.DB, error) {
	sqldb, err := pgConn(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := bun.NewDB(sqldb, pgdialect.New())
	if logger != nil {
		db.AddQueryHook(NewQueryLogger(logger, SlowQueryThreshold))
	}
	return db, nil
}

func pgConn(ctx context.Context, dsn string) (*sql.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))

	if err := sqldb.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return sqldb, nil
}

// QueryLogger is a bun.QueryHook that reports failed and slow queries.
type QueryLogger struct {
	logger    *slog.Logger
	threshold time.Duration
}

var _ bun.QueryHook = (*QueryLogger)(nil)

func NewQueryLogger(logger *slog.Logger, threshold time.Duration) *QueryLogger {
	return &QueryLogger{logger: logger, threshold: threshold}
}

func (h *QueryLogger) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *QueryLogger) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	took := time.Since(event.StartTime)

	switch {
	case event.Err != nil && event.Err != sql.ErrNoRows:
		h.logger.WarnContext(ctx, "Query failed",
			slog.String("operation", event.Operation()),
			slog.Duration("took", took),
			slog.String("error", event.Err.Error()),
		)
	case took >= h.threshold:
		h.logger.WarnContext(ctx, "Slow query",
			slog.String("operation", event.Operation()),
			slog.Duration("took", took),
			slog.String("query", event.Query),
		)
	}
}
