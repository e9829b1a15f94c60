package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ghuser/kitchenledger/pkg/app"
	"github.com/ghuser/kitchenledger/pkg/cache"
	"github.com/ghuser/kitchenledger/pkg/config"
	"github.com/ghuser/kitchenledger/pkg/database"
	"github.com/ghuser/kitchenledger/pkg/events"
	"github.com/ghuser/kitchenledger/pkg/logger"
	"github.com/ghuser/kitchenledger/pkg/telemetry"
	"github.com/ghuser/kitchenledger/pkg/workflows"
	appsvcs "github.com/ghuser/kitchenledger/services/costing/application/services"
	"github.com/ghuser/kitchenledger/services/costing/application/subscribers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	if cfg.UsesMemory() {
		// The memory backend recomputes dependents inside the API process.
		log.Info("memory storage backend selected, nothing for the worker to consume")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DefinitionDatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close()
	log.Info("database pool connected")

	eventBus, err := events.NewEventBus(cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	appConfig := &app.Application{
		Config:   cfg,
		Db:       pool,
		Logger:   log,
		EventBus: eventBus,
		Redis:    redisClient,
	}

	if cfg.TemporalEnabled {
		temporalClient, err := workflows.NewTemporalClient(ctx, cfg, log)
		if err != nil {
			log.Error("failed to initialize temporal client", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer temporalClient.Close()
		appConfig.TemporalClient = temporalClient
	}

	svcs, err := appsvcs.New(appConfig)
	if err != nil {
		log.Error("failed to wire costing services", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	dispatcher := subscribers.NewDispatcher(svcs.Recipes, log)
	if tc := appConfig.TemporalClient; tc != nil {
		dispatcher = dispatcher.WithWorkflows(tc, cfg.TemporalTaskQueue)

		w := tc.NewRecostWorker(cfg.TemporalTaskQueue, &workflows.RecostActivities{
			Recost: subscribers.ActivityFunc(svcs.Recipes),
		})
		if err := w.Start(); err != nil {
			log.Error("failed to start temporal worker", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer w.Stop()
		log.Info("temporal worker started", "task_queue", cfg.TemporalTaskQueue)
	}

	if err := subscribers.Register(ctx, eventBus, dispatcher, log); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	<-ctx.Done()
	log.Info("shutting down worker...")

	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}
