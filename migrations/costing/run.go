// Command costing applies the costing schema migrations to DEFINITION_DATABASE_URL.
package main

import (
	"context"
	"embed"
	"log/slog"
	"os"

	"github.com/ghuser/kitchenledger/pkg/config"
	"github.com/ghuser/kitchenledger/pkg/logger"
	"github.com/ghuser/kitchenledger/pkg/migrator"
)

//go:embed *.sql
var MigrationsFS embed.FS

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg)
	if err := migrator.RunMigrations(context.Background(), cfg.DefinitionDatabaseURL, MigrationsFS, log); err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}
}
