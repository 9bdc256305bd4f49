package accountsqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	accountsservice "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/application"
	"github.com/Black-And-White-Club/accounts-bot/internal/localization"
	"github.com/Black-And-White-Club/accounts-bot/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/riverqueue/river/rivertype"
)

// Ensure Service implements the application notifier.
var _ accountsservice.Notifier = (*Service)(nil)

// inserter is the subset of the River client used to enqueue jobs.
type inserter interface {
	Insert(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error)
}

// Service is the River outbox for unsolicited accounts messages.
type Service struct {
	client  *river.Client[pgx.Tx]
	jobs    inserter
	pool    *pgxpool.Pool
	logger  *slog.Logger
	metrics observability.OperationMetrics
}

// NewService connects River to Postgres, applies River's schema and
// registers the notification workers.
func NewService(
	ctx context.Context,
	dsn string,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	sender Sender,
	locales *localization.Catalog,
) (*Service, error) {
	ctxLogger := logger.With(
		slog.String("operation", "new_accounts_queue_service"),
		slog.String("component", "river_queue"),
	)

	start := time.Now()
	metrics.RecordOperationAttempt(ctx, "initialize_service", "river")

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, err
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewLevelUpNotificationWorker(ctxLogger, sender, locales))
	river.AddWorker(workers, NewAchievementNotificationWorker(ctxLogger, sender, locales))

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			QueueName: {MaxWorkers: 10},
		},
		Workers: workers,
		Logger:  ctxLogger,
	})
	if err != nil {
		pool.Close()
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	metrics.RecordOperationSuccess(ctx, "initialize_service", "river")
	metrics.RecordOperationDuration(ctx, "initialize_service", "river", time.Since(start))

	ctxLogger.Info("Accounts queue service initialized")
	return &Service{
		client:  client,
		jobs:    client,
		pool:    pool,
		logger:  ctxLogger,
		metrics: metrics,
	}, nil
}

// Migrate brings River's own tables up to date.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create River migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		return fmt.Errorf("failed to migrate River schema: %w", err)
	}
	return nil
}

// Start starts the River workers.
func (s *Service) Start(ctx context.Context) error {
	if err := s.client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start River client: %w", err)
	}
	s.logger.Info("Accounts queue service started")
	return nil
}

// Stop waits for running jobs and closes the pool.
func (s *Service) Stop(ctx context.Context) error {
	defer s.pool.Close()
	if err := s.client.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	s.logger.Info("Accounts queue service stopped")
	return nil
}

// NotifyLevelUp enqueues the level-up embed. Duplicate notices for the
// same user and level within an hour collapse into one job.
func (s *Service) NotifyLevelUp(ctx context.Context, notice accountsservice.LevelUpNotice) error {
	return s.insert(ctx, "notify_level_up", LevelUpNotificationJob{Notice: notice}, slog.Int64("user_id", notice.UserID), slog.Int("level", notice.Level))
}

// NotifyAchievement enqueues the achievement unlocked embed.
func (s *Service) NotifyAchievement(ctx context.Context, notice accountsservice.AchievementNotice) error {
	return s.insert(ctx, "notify_achievement", AchievementNotificationJob{Notice: notice}, slog.Int64("user_id", notice.UserID), slog.String("achievement", notice.ResourceName))
}

func (s *Service) insert(ctx context.Context, operation string, args river.JobArgs, attrs ...any) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, operation, "river")

	res, err := s.jobs.Insert(ctx, args, &river.InsertOpts{
		Queue:       QueueName,
		MaxAttempts: 5,
		UniqueOpts: river.UniqueOpts{
			ByArgs:   true,
			ByPeriod: time.Hour,
		},
	})
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, operation, "river")
		return fmt.Errorf("failed to enqueue %s: %w", args.Kind(), err)
	}

	s.metrics.RecordOperationSuccess(ctx, operation, "river")
	s.metrics.RecordOperationDuration(ctx, operation, "river", time.Since(start))

	logAttrs := append([]any{observability.CorrelationAttr(ctx), slog.String("kind", args.Kind())}, attrs...)
	if res != nil && res.UniqueSkippedAsDuplicate {
		s.logger.DebugContext(ctx, "Notification already queued", logAttrs...)
		return nil
	}
	s.logger.InfoContext(ctx, "Notification queued", logAttrs...)
	return nil
}
