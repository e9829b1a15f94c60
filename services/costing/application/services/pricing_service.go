package services

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	costingdomain "github.com/ghuser/kitchenledger/services/costing/domain"
	"github.com/ghuser/kitchenledger/services/costing/domain/repositories"
	domainsvcs "github.com/ghuser/kitchenledger/services/costing/domain/services"
	"github.com/ghuser/kitchenledger/services/costing/domain/units"
)

// SuggestInput prices either a stored recipe or a bare cost per portion.
// A nil TargetMargin means DefaultTargetMargin.
type SuggestInput struct {
	RecipeID       *uuid.UUID
	CostPerPortion *float64
	TargetMargin   *float64
}

// Suggestion is a sell price that achieves TargetMargin on CostPerPortion.
type Suggestion struct {
	RecipeID       *uuid.UUID
	CostPerPortion float64
	TargetMargin   float64
	SuggestedPrice float64
	CurrentPrice   float64
	CurrentMargin  float64
}

// PricingService suggests sell prices.
type PricingService struct {
	recipes repositories.RecipeRepository
}

// NewPricingService returns a PricingService.
func NewPricingService(recipes repositories.RecipeRepository) *PricingService {
	return &PricingService{recipes: recipes}
}

// Suggest prices the recipe's cached cost per portion, or in.CostPerPortion
// when no recipe is given.
func (s *PricingService) Suggest(ctx context.Context, in SuggestInput) (*Suggestion, error) {
	margin := domainsvcs.DefaultTargetMargin
	if in.TargetMargin != nil {
		margin = *in.TargetMargin
	}

	out := &Suggestion{TargetMargin: margin}
	switch {
	case in.RecipeID != nil:
		r, err := s.recipes.GetByID(ctx, *in.RecipeID)
		if err != nil {
			return nil, fmt.Errorf("get recipe: %w", err)
		}
		out.RecipeID = &r.ID
		out.CostPerPortion = r.CostPerPortion()
		out.CurrentPrice = r.SellPrice
		out.CurrentMargin = r.MarginPercent
	case in.CostPerPortion != nil:
		out.CostPerPortion = *in.CostPerPortion
	default:
		return nil, fmt.Errorf("%w: recipe id or cost per portion is required", costingdomain.ErrInvalidRecipe)
	}

	price, err := domainsvcs.SuggestPrice(out.CostPerPortion, margin)
	if err != nil {
		return nil, err
	}
	out.SuggestedPrice = math.Round(price*100) / 100
	return out, nil
}

// UnitService exposes the unit registry and converter.
type UnitService struct {
	engine *Engine
}

// NewUnitService returns a UnitService.
func NewUnitService(engine *Engine) *UnitService {
	return &UnitService{engine: engine}
}

// ConvertResult is a converted quantity with the canonical unit ids used.
type ConvertResult struct {
	Quantity float64
	From     string
	To       string
	Value    float64
	Degraded bool
}

// List returns every registered unit ordered by dimension then size.
func (s *UnitService) List() []units.Unit {
	return s.engine.Units.All()
}

// Convert converts quantity between two units. density is in g/ml; zero means unset.
func (s *UnitService) Convert(quantity float64, from, to string, density float64) (*ConvertResult, error) {
	fu, err := s.engine.Units.Lookup(from)
	if err != nil {
		return nil, err
	}
	tu, err := s.engine.Units.Lookup(to)
	if err != nil {
		return nil, err
	}
	c := s.engine.Calculator.Converter().ConvertUnits(quantity, fu, tu, density)
	return &ConvertResult{Quantity: quantity, From: fu.ID, To: tu.ID, Value: c.Value, Degraded: c.Degraded}, nil
}
