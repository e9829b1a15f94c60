package services

import (
	"github.com/ghuser/kitchenledger/pkg/app"
	"github.com/ghuser/kitchenledger/pkg/cache"
	"github.com/ghuser/kitchenledger/pkg/logger"
	"github.com/ghuser/kitchenledger/services/costing/domain/repositories"
	"github.com/ghuser/kitchenledger/services/costing/infrastructure/persistence/memory"
	"github.com/ghuser/kitchenledger/services/costing/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for the costing context.
// It wires the costing engine with its infrastructure implementations.
type Services struct {
	Engine      *Engine
	Units       *UnitService
	Ingredients *IngredientService
	Recipes     *RecipeService
	Ledger      *LedgerService
	Pricing     *PricingService
}

// Repositories groups the persistence ports the services run on.
type Repositories struct {
	Ingredients repositories.IngredientRepository
	Recipes     repositories.RecipeRepository
	Ledger      repositories.LedgerRepository
}

// MemoryRepositories returns repositories over a fresh in-process store.
func MemoryRepositories() Repositories {
	store := memory.NewStore()
	return Repositories{
		Ingredients: store.Ingredients(),
		Recipes:     store.Recipes(),
		Ledger:      store.Ledger(),
	}
}

// New wires all costing services with infrastructure from the Application
// container. Without a database the services run on in-process repositories
// and recompute dependents synchronously on every write.
func New(a *app.Application) (*Services, error) {
	engine, err := EngineFromConfig(a.Config)
	if err != nil {
		return nil, err
	}

	if a.Db == nil {
		return NewWithRepositories(MemoryRepositories(), engine, nil, a.Logger, true), nil
	}

	repos := Repositories{
		Ingredients: postgres.NewIngredientRepository(a.Db, a.EventBus),
		Recipes:     postgres.NewRecipeRepository(a.Db, a.EventBus),
		Ledger:      postgres.NewLedgerRepository(a.Db),
	}
	var costCache *cache.CostCache
	if a.Redis != nil {
		costCache = cache.NewCostCache(a.Redis)
	}
	// Without an event bus nothing else will recompute dependents.
	return NewWithRepositories(repos, engine, costCache, a.Logger, a.EventBus == nil), nil
}

// NewWithRepositories wires the services over explicit repositories. inline
// makes writes recompute dependent recipes before returning.
func NewWithRepositories(repos Repositories, engine *Engine, costCache *cache.CostCache, log logger.Logger, inline bool) *Services {
	recipes := NewRecipeService(repos.Recipes, repos.Ingredients, engine, costCache, log, inline)
	var recoster dependentRecoster
	if inline {
		recoster = recipes
	}
	var costs costInvalidator
	if costCache != nil {
		costs = recipes
	}
	return &Services{
		Engine:      engine,
		Units:       NewUnitService(engine),
		Ingredients: NewIngredientService(repos.Ingredients, engine, recoster, costs, log),
		Recipes:     recipes,
		Ledger:      NewLedgerService(repos.Ledger, repos.Recipes, repos.Ingredients, engine, log),
		Pricing:     NewPricingService(repos.Recipes),
	}
}
