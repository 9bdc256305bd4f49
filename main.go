package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Black-And-White-Club/accounts-bot/app"
	"github.com/Black-And-White-Club/accounts-bot/config"
	"github.com/Black-And-White-Club/accounts-bot/internal/observability"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observability.New(ctx, config.ToObsConfig(cfg))
	if err != nil {
		log.Fatalf("failed to set up observability: %v", err)
	}
	logger := obs.Logger
	slog.SetDefault(logger)

	application := &app.App{}
	if err := application.Initialize(ctx, cfg, obs); err != nil {
		logger.Error("Failed to initialize application", observability.ErrorAttr(err))
		os.Exit(1)
	}

	runErr := application.Run(ctx)
	if runErr != nil {
		logger.Error("Application stopped with error", observability.ErrorAttr(runErr))
	}

	logger.Info("Shutting down application")
	if err := application.Close(); err != nil {
		logger.Error("Error during shutdown", observability.ErrorAttr(err))
	}

	if runErr != nil {
		os.Exit(1)
	}
	logger.Info("Application shut down gracefully")
}
