package models

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/kitchenledger/services/costing/domain"
)

// RecipeType distinguishes dishes sold to guests from preparations used as sub-recipes.
type RecipeType string

const (
	RecipeTypeDish        RecipeType = "dish"
	RecipeTypePreparation RecipeType = "preparation"
)

// Step is one preparation instruction. DurationMinutes is zero when unset.
type Step struct {
	Title           string
	Description     string
	DurationMinutes int
}

// Recipe is the costing aggregate. TotalCost and MarginPercent are derived
// caches written by the aggregator on save; Version guards concurrent writers.
type Recipe struct {
	ID            uuid.UUID
	Name          Name
	Description   string
	Category      string
	Type          RecipeType
	Portions      int
	SellPrice     float64
	PrepMinutes   int
	Steps         []Step
	Lines         []LineItem
	TotalCost     float64
	MarginPercent float64
	Active        bool
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RecipeParams carries the user-editable fields of a Recipe.
type RecipeParams struct {
	Name        string
	Description string
	Category    string
	Type        RecipeType
	Portions    int
	SellPrice   float64
	PrepMinutes int
	Steps       []Step
	Lines       []LineItem
	Active      bool
}

// NewRecipe constructs a Recipe with generated ID, version 1 and current timestamps.
func NewRecipe(p RecipeParams) (*Recipe, error) {
	now := time.Now().UTC()
	r := &Recipe{
		ID:        uuid.New(),
		Version:   1,
		CreatedAt: now,
	}
	if err := r.Apply(p, now); err != nil {
		return nil, err
	}
	return r, nil
}

// Apply validates p and replaces the editable fields, lines included.
func (r *Recipe) Apply(p RecipeParams, at time.Time) error {
	name, err := NewName(p.Name)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidRecipe, err)
	}
	typ := p.Type
	if typ == "" {
		typ = RecipeTypeDish
	}
	if typ != RecipeTypeDish && typ != RecipeTypePreparation {
		return fmt.Errorf("%w: unknown recipe type %q", domain.ErrInvalidRecipe, p.Type)
	}
	if p.Portions < 1 {
		return fmt.Errorf("%w: portions must be at least 1", domain.ErrInvalidRecipe)
	}
	if math.IsNaN(p.SellPrice) || math.IsInf(p.SellPrice, 0) || p.SellPrice < 0 {
		return fmt.Errorf("%w: sell price must be zero or positive", domain.ErrInvalidRecipe)
	}
	if p.PrepMinutes < 0 {
		return fmt.Errorf("%w: preparation time must not be negative", domain.ErrInvalidRecipe)
	}
	seen := make(map[uuid.UUID]bool, len(p.Lines))
	for _, l := range p.Lines {
		if l.Source == nil {
			return &domain.MalformedLineItemError{LineID: l.ID, Reason: "no source"}
		}
		if !(l.Quantity > 0) || math.IsInf(l.Quantity, 0) {
			return fmt.Errorf("%w: line %s quantity must be positive", domain.ErrInvalidRecipe, l.ID)
		}
		if seen[l.ID] {
			return fmt.Errorf("%w: duplicate line id %s", domain.ErrInvalidRecipe, l.ID)
		}
		seen[l.ID] = true
		if sub, ok := l.Source.(SubRecipeSource); ok && sub.RecipeID == r.ID {
			return fmt.Errorf("%w: %s", domain.ErrSelfReference, r.ID)
		}
	}

	r.Name = name
	r.Description = p.Description
	r.Category = p.Category
	r.Type = typ
	r.Portions = p.Portions
	r.SellPrice = p.SellPrice
	r.PrepMinutes = p.PrepMinutes
	r.Steps = append([]Step(nil), p.Steps...)
	r.Lines = append([]LineItem(nil), p.Lines...)
	r.UpdatedAt = at
	return nil
}

// CostPerPortion is the cached total divided by portions, or 0 without portions.
func (r *Recipe) CostPerPortion() float64 {
	if r.Portions <= 0 {
		return 0
	}
	return r.TotalCost / float64(r.Portions)
}

// SubRecipeIDs lists the recipes referenced by the lines, in line order, without duplicates.
func (r *Recipe) SubRecipeIDs() []uuid.UUID {
	var out []uuid.UUID
	seen := make(map[uuid.UUID]bool)
	for _, l := range r.Lines {
		if sub, ok := l.Source.(SubRecipeSource); ok && !seen[sub.RecipeID] {
			seen[sub.RecipeID] = true
			out = append(out, sub.RecipeID)
		}
	}
	return out
}

// IngredientIDs lists the ingredients referenced by the lines, in line order, without duplicates.
func (r *Recipe) IngredientIDs() []uuid.UUID {
	var out []uuid.UUID
	seen := make(map[uuid.UUID]bool)
	for _, l := range r.Lines {
		if ing, ok := l.Source.(IngredientSource); ok && !seen[ing.IngredientID] {
			seen[ing.IngredientID] = true
			out = append(out, ing.IngredientID)
		}
	}
	return out
}

// Clone returns a deep copy so callers can mutate cached fields without sharing slices.
func (r *Recipe) Clone() *Recipe {
	c := *r
	c.Steps = append([]Step(nil), r.Steps...)
	c.Lines = append([]LineItem(nil), r.Lines...)
	return &c
}
