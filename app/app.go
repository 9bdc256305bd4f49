package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Black-And-White-Club/accounts-bot/app/modules/accounts"
	accountsqueue "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/infrastructure/queue"
	"github.com/Black-And-White-Club/accounts-bot/config"
	"github.com/Black-And-White-Club/accounts-bot/internal/db/bundb"
	"github.com/Black-And-White-Club/accounts-bot/internal/discord"
	"github.com/Black-And-White-Club/accounts-bot/internal/eventbus"
	"github.com/Black-And-White-Club/accounts-bot/internal/kvcache"
	"github.com/Black-And-White-Club/accounts-bot/internal/localization"
	"github.com/Black-And-White-Club/accounts-bot/internal/mikiapi"
	"github.com/Black-And-White-Club/accounts-bot/internal/observability"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/bwmarrin/discordgo"
	"github.com/uptrace/bun"
	"golang.org/x/sync/errgroup"
)

// App holds every long-lived component of the process.
type App struct {
	Config        *config.Config
	Observability observability.Observability
	DB            *bun.DB
	EventBus      eventbus.EventBus
	Router        *message.Router
	Queue         *accountsqueue.Service
	Session       *discordgo.Session
	Modules       *Modules
	HTTPServer    *http.Server
}

// Modules groups the feature modules.
type Modules struct {
	Accounts *accounts.Module
}

// Initialize builds the application from cfg. Every component that was
// opened is closed again when a later step fails.
func (app *App) Initialize(ctx context.Context, cfg *config.Config, obs observability.Observability) (err error) {
	app.Config = cfg
	app.Observability = obs
	logger := obs.Logger

	defer func() {
		if err != nil {
			app.closeResources(context.Background())
		}
	}()

	app.DB, err = bundb.NewBunDB(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	app.EventBus, err = eventbus.NewEventBus(ctx, eventbus.Config{
		URL:        cfg.NATS.URL,
		QueueGroup: cfg.NATS.QueueGroup,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create event bus: %w", err)
	}

	cache, err := kvcache.NewJetStreamStore(ctx, app.EventBus.JetStream(), config.ToBucketConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to create cache bucket: %w", err)
	}

	locales, err := localization.LoadCatalog()
	if err != nil {
		return fmt.Errorf("failed to load locales: %w", err)
	}

	app.Session, err = discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return fmt.Errorf("failed to create discord session: %w", err)
	}
	platform := discord.NewAdapter(app.Session)

	app.Queue, err = accountsqueue.NewService(ctx, cfg.Postgres.DSN, logger, obs.Metrics, platform, locales)
	if err != nil {
		return fmt.Errorf("failed to create queue service: %w", err)
	}

	app.Router, err = message.NewRouter(message.RouterConfig{CloseTimeout: 10 * time.Second}, watermill.NewSlogLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create watermill router: %w", err)
	}
	app.Router.AddMiddleware(
		middleware.Recoverer,
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 500 * time.Millisecond,
			Multiplier:      2,
			Logger:          watermill.NewSlogLogger(logger),
		}.Middleware,
	)

	accountsModule, err := accounts.NewAccountsModule(ctx, obs, accounts.Dependencies{
		DB:       app.DB,
		EventBus: app.EventBus,
		Router:   app.Router,
		Cache:    cache,
		Platform: platform,
		Ranking:  mikiapi.NewClient(config.ToMikiAPIConfig(cfg)),
		Notifier: app.Queue,
		Locales:  locales,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize accounts module: %w", err)
	}
	app.Modules = &Modules{Accounts: accountsModule}

	app.HTTPServer = &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           app.newHTTPHandler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.InfoContext(ctx, "Application initialized")
	return nil
}

// Run runs the router, the queue workers and the HTTP server until ctx
// is cancelled or one of them fails.
func (app *App) Run(ctx context.Context) error {
	logger := app.Observability.Logger

	if err := app.Queue.Start(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go app.Modules.Accounts.Run(gctx, &wg)

	g.Go(func() error {
		if err := app.Router.Run(gctx); err != nil {
			return fmt.Errorf("watermill router stopped: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		logger.InfoContext(gctx, "HTTP server listening", "address", app.HTTPServer.Addr)
		if err := app.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server stopped: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.HTTPServer.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	wg.Wait()
	return err
}

// Close releases every component in reverse start order.
func (app *App) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return app.closeResources(ctx)
}

func (app *App) closeResources(ctx context.Context) error {
	var errs []error

	if app.Modules != nil && app.Modules.Accounts != nil {
		errs = append(errs, app.Modules.Accounts.Close())
	}
	if app.Router != nil {
		errs = append(errs, app.Router.Close())
	}
	if app.Queue != nil {
		errs = append(errs, app.Queue.Stop(ctx))
	}
	if app.Session != nil {
		errs = append(errs, app.Session.Close())
	}
	if app.EventBus != nil {
		errs = append(errs, app.EventBus.Close())
	}
	if app.DB != nil {
		errs = append(errs, app.DB.Close())
	}
	errs = append(errs, app.Observability.Shutdown(ctx))
	return errors.Join(errs...)
}
