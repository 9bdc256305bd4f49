package accounts

import (
	"context"
	"fmt"
	"sync"

	accountsservice "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/application"
	accountsevents "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/domain/events"
	accountscontent "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/infrastructure/content"
	accountshandlers "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/infrastructure/handlers"
	accountsdb "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/infrastructure/repositories"
	accountsrouter "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/infrastructure/router"
	"github.com/Black-And-White-Club/accounts-bot/internal/discord"
	"github.com/Black-And-White-Club/accounts-bot/internal/eventbus"
	"github.com/Black-And-White-Club/accounts-bot/internal/kvcache"
	"github.com/Black-And-White-Club/accounts-bot/internal/localization"
	"github.com/Black-And-White-Club/accounts-bot/internal/observability"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// Dependencies are the shared handles the accounts module is built from.
type Dependencies struct {
	DB       *bun.DB
	EventBus eventbus.EventBus
	Router   *message.Router
	Cache    kvcache.Store
	Platform discord.Platform
	Ranking  accountsservice.RankingAPI
	Notifier accountsservice.Notifier
	Locales  *localization.Catalog
}

// Module represents the accounts module.
type Module struct {
	EventBus        eventbus.EventBus
	AccountsService accountsservice.Service
	Handlers        accountshandlers.Handlers
	AccountsRouter  *accountsrouter.AccountsRouter
	cancelFunc      context.CancelFunc
	observability   observability.Observability
}

// NewAccountsModule creates a new instance of the Accounts module.
func NewAccountsModule(ctx context.Context, obs observability.Observability, deps Dependencies) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "accounts.NewAccountsModule called")

	content, err := accountscontent.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts content: %w", err)
	}

	if err := deps.EventBus.CreateStream(ctx, accountsevents.StreamName, accountsevents.StreamSubjects); err != nil {
		return nil, fmt.Errorf("failed to create accounts stream: %w", err)
	}

	service := accountsservice.NewAccountsService(
		accountsdb.NewRepository(deps.DB),
		deps.Cache,
		deps.Platform,
		deps.Ranking,
		deps.Notifier,
		content,
		logger,
		obs.Metrics,
		obs.Tracer,
		deps.DB,
	)

	handlers := accountshandlers.NewAccountsHandlers(service, deps.Locales, logger, obs.Tracer)

	router := accountsrouter.NewAccountsRouter(logger, deps.Router, deps.EventBus, deps.EventBus, obs.Tracer, obs.Metrics, obs.Registry)
	if err := router.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure accounts router: %w", err)
	}

	return &Module{
		EventBus:        deps.EventBus,
		AccountsService: service,
		Handlers:        handlers,
		AccountsRouter:  router,
		observability:   obs,
	}, nil
}

// Run starts the accounts module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting accounts module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Accounts module goroutine stopped")
}

// Close stops the accounts module.
func (m *Module) Close() error {
	m.observability.Logger.Info("Stopping accounts module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.observability.Logger.Info("Accounts module stopped")
	return nil
}
