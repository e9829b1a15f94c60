package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/kitchenledger/pkg/logger"
	costingdomain "github.com/ghuser/kitchenledger/services/costing/domain"
	"github.com/ghuser/kitchenledger/services/costing/domain/models"
	"github.com/ghuser/kitchenledger/services/costing/domain/repositories"
)

// PriceChange is a new unit cost for one ingredient.
type PriceChange struct {
	IngredientID uuid.UUID
	UnitCost     float64
}

// dependentRecoster recomputes recipes affected by changed ingredients.
type dependentRecoster interface {
	RecostDependents(ctx context.Context, changedRecipes, changedIngredients []uuid.UUID) (*RecostResult, error)
}

// costInvalidator drops cached live costs of recipes using changed ingredients.
type costInvalidator interface {
	InvalidateDependents(ctx context.Context, ingredientIDs ...uuid.UUID)
}

// IngredientService manages the ingredient catalog. Price and unit changes
// reach dependent recipes through IngredientUpdatedEvent, or synchronously
// when the service runs without an event bus.
type IngredientService struct {
	repo   repositories.IngredientRepository
	engine *Engine
	recost dependentRecoster
	costs  costInvalidator
	log    logger.Logger
	now    func() time.Time
}

// NewIngredientService returns an IngredientService. recost is used only in
// inline mode and may be nil otherwise. costs may be nil when no live cost
// cache is configured.
func NewIngredientService(repo repositories.IngredientRepository, engine *Engine, recost dependentRecoster, costs costInvalidator, log logger.Logger) *IngredientService {
	return &IngredientService{
		repo:   repo,
		engine: engine,
		recost: recost,
		costs:  costs,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Create validates and persists a new ingredient. The purchase unit is stored
// under its canonical registry id.
func (s *IngredientService) Create(ctx context.Context, p models.IngredientParams) (*models.Ingredient, error) {
	if err := s.canonicalUnit(&p); err != nil {
		return nil, err
	}
	ing, err := models.NewIngredient(p)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, ing); err != nil {
		return nil, fmt.Errorf("save ingredient: %w", err)
	}
	s.log.InfoContext(ctx, "ingredient created", "ingredient_id", ing.ID, "purchase_unit", ing.PurchaseUnit)
	return ing, nil
}

// Update overwrites an ingredient's editable fields.
func (s *IngredientService) Update(ctx context.Context, id uuid.UUID, p models.IngredientParams) (*models.Ingredient, error) {
	if err := s.canonicalUnit(&p); err != nil {
		return nil, err
	}
	ing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	if err := ing.Apply(p, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, ing); err != nil {
		return nil, fmt.Errorf("update ingredient: %w", err)
	}
	s.log.InfoContext(ctx, "ingredient updated", "ingredient_id", ing.ID, "unit_cost", ing.UnitCost)
	s.invalidateCosts(ctx, ing.ID)
	s.recostInline(ctx, ing.ID)
	return ing, nil
}

// UpdatePrices applies several price changes in one write. Either every
// change is stored or none is.
func (s *IngredientService) UpdatePrices(ctx context.Context, changes []PriceChange) ([]*models.Ingredient, error) {
	if len(changes) == 0 {
		return []*models.Ingredient{}, nil
	}
	at := s.now()
	ings := make([]*models.Ingredient, 0, len(changes))
	ids := make([]uuid.UUID, 0, len(changes))
	for _, c := range changes {
		ing, err := s.repo.GetByID(ctx, c.IngredientID)
		if err != nil {
			return nil, fmt.Errorf("get ingredient %s: %w", c.IngredientID, err)
		}
		if err := ing.Reprice(c.UnitCost, at); err != nil {
			return nil, err
		}
		ings = append(ings, ing)
		ids = append(ids, ing.ID)
	}
	if err := s.repo.UpdatePrices(ctx, ings); err != nil {
		return nil, fmt.Errorf("update prices: %w", err)
	}
	s.log.InfoContext(ctx, "ingredient prices updated", "ingredients", len(ings))
	s.invalidateCosts(ctx, ids...)
	s.recostInline(ctx, ids...)
	return ings, nil
}

// Get returns one ingredient.
func (s *IngredientService) Get(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	ing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	return ing, nil
}

// List returns every ingredient ordered by name.
func (s *IngredientService) List(ctx context.Context) ([]*models.Ingredient, error) {
	ings, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return ings, nil
}

// Delete removes an ingredient no recipe line or stock movement references.
func (s *IngredientService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete ingredient: %w", err)
	}
	s.log.InfoContext(ctx, "ingredient deleted", "ingredient_id", id)
	return nil
}

func (s *IngredientService) canonicalUnit(p *models.IngredientParams) error {
	if p.PurchaseUnit == "" {
		return fmt.Errorf("%w: purchase unit is required", costingdomain.ErrInvalidIngredient)
	}
	u, err := s.engine.Units.Lookup(p.PurchaseUnit)
	if err != nil {
		return err
	}
	p.PurchaseUnit = u.ID
	return nil
}

// invalidateCosts runs before any recompute so Cost never serves a total
// priced with the old unit cost.
func (s *IngredientService) invalidateCosts(ctx context.Context, ids ...uuid.UUID) {
	if s.costs == nil {
		return
	}
	s.costs.InvalidateDependents(ctx, ids...)
}

func (s *IngredientService) recostInline(ctx context.Context, ids ...uuid.UUID) {
	if s.recost == nil {
		return
	}
	if _, err := s.recost.RecostDependents(ctx, nil, ids); err != nil {
		s.log.WarnContext(ctx, "inline recost failed", "ingredients", len(ids), "error", err)
	}
}
