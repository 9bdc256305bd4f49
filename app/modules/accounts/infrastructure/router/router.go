package accountsrouter

import (
	"context"
	"log/slog"

	accountsevents "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/domain/events"
	accountshandlers "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/infrastructure/handlers"
	"github.com/Black-And-White-Club/accounts-bot/internal/handlerwrapper"
	"github.com/Black-And-White-Club/accounts-bot/internal/observability"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

// AccountsRouter handles Watermill handler registration for accounts events.
type AccountsRouter struct {
	logger     *slog.Logger
	Router     *message.Router
	subscriber message.Subscriber
	publisher  message.Publisher
	tracer     trace.Tracer
	metrics    observability.OperationMetrics

	metricsBuilder *metrics.PrometheusMetricsBuilder
}

// NewAccountsRouter creates a new AccountsRouter. A nil registry disables
// the router metrics.
func NewAccountsRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber message.Subscriber,
	publisher message.Publisher,
	tracer trace.Tracer,
	opMetrics observability.OperationMetrics,
	registry *prometheus.Registry,
) *AccountsRouter {
	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if registry != nil {
		b := metrics.NewPrometheusMetricsBuilder(registry, "accounts", "router")
		metricsBuilder = &b
	}

	return &AccountsRouter{
		logger:         logger,
		Router:         router,
		subscriber:     subscriber,
		publisher:      publisher,
		tracer:         tracer,
		metrics:        opMetrics,
		metricsBuilder: metricsBuilder,
	}
}

// Configure sets up the router with handlers.
func (r *AccountsRouter) Configure(_ context.Context, handlers accountshandlers.Handlers) error {
	if r.metricsBuilder != nil {
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	r.registerHandlers(handlers)
	return nil
}

// handlerDeps bundles dependencies for handler registration.
type handlerDeps struct {
	router     *message.Router
	subscriber message.Subscriber
	publisher  message.Publisher
	logger     *slog.Logger
	tracer     trace.Tracer
	metrics    observability.OperationMetrics
}

// registerHandlers wires NATS subjects to handler methods.
func (r *AccountsRouter) registerHandlers(h accountshandlers.Handlers) {
	deps := handlerDeps{
		router:     r.Router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
		metrics:    r.metrics,
	}

	r.logger.Info("Registering accounts module handlers", slog.String("stream_subjects", accountsevents.StreamSubjects))

	registerHandler(deps, accountsevents.ProfileRequestedV1, h.HandleProfileRequested)
	registerHandler(deps, accountsevents.ReputationRequestedV1, h.HandleReputationRequested)
	registerHandler(deps, accountsevents.LeaderboardRequestedV1, h.HandleLeaderboardRequested)
	registerHandler(deps, accountsevents.MekosRequestedV1, h.HandleMekosRequested)
	registerHandler(deps, accountsevents.GiveRequestedV1, h.HandleGiveRequested)
	registerHandler(deps, accountsevents.DailyRequestedV1, h.HandleDailyRequested)
	registerHandler(deps, accountsevents.BackgroundBuyRequestedV1, h.HandleBackgroundBuyRequested)
	registerHandler(deps, accountsevents.BackgroundSetRequestedV1, h.HandleBackgroundSetRequested)
	registerHandler(deps, accountsevents.BackgroundsOwnedRequestedV1, h.HandleBackgroundsOwnedRequested)
	registerHandler(deps, accountsevents.ColorRequestedV1, h.HandleColorRequested)
	registerHandler(deps, accountsevents.AchievementsRequestedV1, h.HandleAchievementsRequested)
	registerHandler(deps, accountsevents.SyncNameRequestedV1, h.HandleSyncNameRequested)
	registerHandler(deps, accountsevents.ExpCardRequestedV1, h.HandleExpCardRequested)

	registerHandler(deps, accountsevents.ExperienceGainedV1, h.HandleExperienceGained)
	registerHandler(deps, accountsevents.LevelUpV1, h.HandleLevelUp)

	r.logger.Info("Accounts module handlers registered successfully")
}

// registerHandler is a generic function for type-safe Watermill handler registration.
func registerHandler[T any](
	deps handlerDeps,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "accounts." + topic

	deps.router.AddHandler(
		handlerName,
		topic,
		deps.subscriber,
		"", // the publisher routes each result by its topic metadata
		deps.publisher,
		handlerwrapper.WrapTransformingTyped(
			handlerName,
			deps.logger,
			deps.tracer,
			deps.metrics,
			handler,
		),
	)
}

// Close shuts down the router.
func (r *AccountsRouter) Close() error {
	return r.Router.Close()
}
