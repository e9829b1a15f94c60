package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/kitchenledger/services/costing/domain/models"
)

// QueryOpts contains pagination parameters for list queries. Zero Limit means no limit.
type QueryOpts struct {
	Limit  int // Maximum number of records to return
	Offset int // Number of records to skip
}

// RecipeFilter narrows recipe list queries. Empty fields match everything.
type RecipeFilter struct {
	Category string
	Type     models.RecipeType
	QueryOpts
}

// IngredientRepository is the persistence interface for the Ingredient aggregate.
// Implementations that publish events emit IngredientUpdatedEvent in the same
// transaction as every write.
type IngredientRepository interface {
	Save(ctx context.Context, ing *models.Ingredient) error
	Update(ctx context.Context, ing *models.Ingredient) error

	// UpdatePrices persists new unit costs for several ingredients atomically.
	UpdatePrices(ctx context.Context, ings []*models.Ingredient) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Ingredient, error)
	List(ctx context.Context) ([]*models.Ingredient, error)

	// Delete removes an ingredient. Returns ErrIngredientInUse while a recipe line references it.
	Delete(ctx context.Context, id uuid.UUID) error
}

// RecipeRepository is the persistence interface for the Recipe aggregate.
// Writes are optimistic: recipe.Version must equal the stored version, and on
// success the repository increments it. Stale writes return ErrRecipeVersionConflict.
type RecipeRepository interface {
	// Save inserts a new recipe and publishes RecipeSavedEvent.
	Save(ctx context.Context, recipe *models.Recipe) error

	// Update replaces a recipe's fields and lines and publishes RecipeSavedEvent.
	Update(ctx context.Context, recipe *models.Recipe) error

	// SaveCosts writes only cached totals and line cost snapshots. No event is
	// published, so recomputing dependents does not fan out again.
	SaveCosts(ctx context.Context, recipe *models.Recipe) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	List(ctx context.Context, filter RecipeFilter) ([]*models.Recipe, error)

	// Delete removes a recipe. Returns ErrRecipeInUse while another recipe uses it as a sub-recipe.
	Delete(ctx context.Context, id uuid.UUID) error
}

// LedgerRepository is the append-only store of production, waste and sale
// entries and of ingredient stock movements.
type LedgerRepository interface {
	AppendEntry(ctx context.Context, entry *models.LedgerEntry) error
	// ListEntries returns entries newest first. Empty kind matches all kinds.
	ListEntries(ctx context.Context, kind models.EntryKind, opts QueryOpts) ([]*models.LedgerEntry, error)

	AppendMovement(ctx context.Context, m *models.StockMovement) error
	// ListMovements returns movements newest first. Nil ingredientID matches all ingredients.
	ListMovements(ctx context.Context, ingredientID *uuid.UUID, opts QueryOpts) ([]*models.StockMovement, error)
}
