package app

import (
	"github.com/ghuser/kitchenledger/pkg/cache"
	"github.com/ghuser/kitchenledger/pkg/config"
	"github.com/ghuser/kitchenledger/pkg/database"
	"github.com/ghuser/kitchenledger/pkg/events"
	"github.com/ghuser/kitchenledger/pkg/logger"
	"github.com/ghuser/kitchenledger/pkg/workflows"
)

// Application holds shared infrastructure dependencies for all services.
// Pass to every service's route registration during server initialization.
//
// Logging: app.Logger is backed by a trace-aware handler; use slog's context methods
// and trace_id, span_id, and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "recosting recipe", "recipe_id", id)
//	app.Logger.ErrorContext(ctx, "failed to save", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
//
// Db, EventBus and Redis are nil with the memory storage backend; services
// fall back to in-process repositories and skip caching.
type Application struct {
	Config         *config.Config
	Db             *database.Database
	Logger         logger.Logger
	EventBus       *events.EventBus
	Redis          *cache.RedisClient
	TemporalClient *workflows.TemporalClient // nil unless TEMPORAL_ENABLED
}
