package models

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/kitchenledger/services/costing/domain"
)

// Ingredient is a purchasable raw material. UnitCost is the price of one
// PurchaseUnit. Density is mass per volume in g/ml; zero means unset.
type Ingredient struct {
	ID           uuid.UUID
	Name         Name
	Category     string
	PurchaseUnit string
	UnitCost     float64
	Density      float64
	Supplier     string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IngredientParams carries the user-editable fields of an Ingredient.
type IngredientParams struct {
	Name         string
	Category     string
	PurchaseUnit string
	UnitCost     float64
	Density      float64
	Supplier     string
	Active       bool
}

// NewIngredient constructs an Ingredient with generated ID and current timestamps.
// The purchase unit is not resolved here; callers check it against the unit registry.
func NewIngredient(p IngredientParams) (*Ingredient, error) {
	now := time.Now().UTC()
	ing := &Ingredient{
		ID:        uuid.New(),
		CreatedAt: now,
	}
	if err := ing.Apply(p, now); err != nil {
		return nil, err
	}
	return ing, nil
}

// Apply validates p and overwrites the editable fields.
func (i *Ingredient) Apply(p IngredientParams, at time.Time) error {
	name, err := NewName(p.Name)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidIngredient, err)
	}
	if p.PurchaseUnit == "" {
		return fmt.Errorf("%w: purchase unit is required", domain.ErrInvalidIngredient)
	}
	if err := validateCost(p.UnitCost); err != nil {
		return err
	}
	if math.IsNaN(p.Density) || math.IsInf(p.Density, 0) || p.Density < 0 {
		return fmt.Errorf("%w: density must be zero or positive", domain.ErrInvalidIngredient)
	}

	i.Name = name
	i.Category = p.Category
	i.PurchaseUnit = p.PurchaseUnit
	i.UnitCost = p.UnitCost
	i.Density = p.Density
	i.Supplier = p.Supplier
	i.Active = p.Active
	i.UpdatedAt = at
	return nil
}

// Reprice changes the unit cost only.
func (i *Ingredient) Reprice(unitCost float64, at time.Time) error {
	if err := validateCost(unitCost); err != nil {
		return err
	}
	i.UnitCost = unitCost
	i.UpdatedAt = at
	return nil
}

func validateCost(c float64) error {
	if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 {
		return fmt.Errorf("%w: unit cost must be zero or positive", domain.ErrInvalidIngredient)
	}
	return nil
}
