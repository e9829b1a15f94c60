package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/kitchenledger/pkg/logger"
	"github.com/ghuser/kitchenledger/services/costing/domain/models"
	"github.com/ghuser/kitchenledger/services/costing/domain/repositories"
)

// EntryInput records portions of a recipe produced, wasted or sold.
type EntryInput struct {
	RecipeID uuid.UUID
	Kind     models.EntryKind
	Quantity float64
	Reason   string
}

// MovementInput records an ingredient bought, wasted or adjusted. An empty
// Unit means the ingredient's purchase unit.
type MovementInput struct {
	IngredientID uuid.UUID
	Kind         models.MovementKind
	Quantity     float64
	Unit         string
	Reason       string
}

// LedgerService appends production, waste and sale entries and stock
// movements, each priced at the cost current when recorded.
type LedgerService struct {
	ledger      repositories.LedgerRepository
	recipes     repositories.RecipeRepository
	ingredients repositories.IngredientRepository
	engine      *Engine
	log         logger.Logger
	now         func() time.Time
}

// NewLedgerService returns a LedgerService.
func NewLedgerService(
	ledger repositories.LedgerRepository,
	recipes repositories.RecipeRepository,
	ingredients repositories.IngredientRepository,
	engine *Engine,
	log logger.Logger,
) *LedgerService {
	return &LedgerService{
		ledger:      ledger,
		recipes:     recipes,
		ingredients: ingredients,
		engine:      engine,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// RecordEntry snapshots the recipe's cost per portion into a new entry.
func (s *LedgerService) RecordEntry(ctx context.Context, in EntryInput) (*models.LedgerEntry, error) {
	recipe, err := s.recipes.GetByID(ctx, in.RecipeID)
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	entry, err := models.NewLedgerEntry(recipe, in.Kind, in.Quantity, in.Reason, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.ledger.AppendEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("append entry: %w", err)
	}
	s.log.InfoContext(ctx, "ledger entry recorded",
		"recipe_id", entry.RecipeID,
		"kind", entry.Kind,
		"total_cost", entry.TotalCost.String(),
	)
	return entry, nil
}

// RecordMovement prices quantity in unit against the ingredient's purchase
// terms and appends the movement.
func (s *LedgerService) RecordMovement(ctx context.Context, in MovementInput) (*models.StockMovement, error) {
	ing, err := s.ingredients.GetByID(ctx, in.IngredientID)
	if err != nil {
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	unit := ing.PurchaseUnit
	if in.Unit != "" {
		u, err := s.engine.Units.Lookup(in.Unit)
		if err != nil {
			return nil, err
		}
		unit = u.ID
	}
	line, err := s.engine.Calculator.LineCost(in.Quantity, unit, ing.PurchaseUnit, ing.UnitCost, ing.Density)
	if err != nil {
		return nil, err
	}
	m, err := models.NewStockMovement(ing, in.Kind, in.Quantity, unit, line.Cost, in.Reason, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.ledger.AppendMovement(ctx, m); err != nil {
		return nil, fmt.Errorf("append movement: %w", err)
	}
	if line.Degraded {
		s.log.WarnContext(ctx, "stock movement priced without unit conversion",
			"ingredient_id", ing.ID, "unit", unit, "purchase_unit", ing.PurchaseUnit)
	}
	return m, nil
}

// ListEntries returns entries newest first.
func (s *LedgerService) ListEntries(ctx context.Context, kind models.EntryKind, opts repositories.QueryOpts) ([]*models.LedgerEntry, error) {
	entries, err := s.ledger.ListEntries(ctx, kind, opts)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// ListMovements returns movements newest first.
func (s *LedgerService) ListMovements(ctx context.Context, ingredientID *uuid.UUID, opts repositories.QueryOpts) ([]*models.StockMovement, error) {
	ms, err := s.ledger.ListMovements(ctx, ingredientID, opts)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return ms, nil
}
