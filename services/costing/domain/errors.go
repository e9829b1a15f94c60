package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Sentinel errors for the costing domain. Use errors.Is() to check these.
var (
	// ErrUnknownUnit indicates a unit id that is absent from the unit registry.
	ErrUnknownUnit = errors.New("unknown unit")

	// ErrInvalidUnitTable indicates a unit table that cannot back a registry.
	ErrInvalidUnitTable = errors.New("invalid unit table")

	// ErrMalformedLineItem indicates a line item with both or neither source references.
	ErrMalformedLineItem = errors.New("malformed line item")

	// ErrInvalidPortionCount indicates a sub-recipe with a non-positive portion count.
	ErrInvalidPortionCount = errors.New("invalid portion count")

	// ErrCyclicRecipeReference indicates a chain of sub-recipe references that loops back on itself.
	ErrCyclicRecipeReference = errors.New("cyclic recipe reference")

	// ErrSelfReference indicates a recipe that lists itself as a sub-recipe.
	ErrSelfReference = errors.New("recipe references itself")

	// ErrInvalidThresholds indicates a profitability threshold pair with low > high or negative bounds.
	ErrInvalidThresholds = errors.New("invalid profitability thresholds")

	// ErrIngredientNotFound indicates the requested ingredient does not exist.
	ErrIngredientNotFound = errors.New("ingredient not found")

	// ErrIngredientAlreadyExists indicates an ingredient with the same name already exists.
	ErrIngredientAlreadyExists = errors.New("ingredient already exists")

	// ErrIngredientInUse indicates an ingredient still referenced by a recipe line or stock movement.
	ErrIngredientInUse = errors.New("ingredient is still referenced")

	// ErrInvalidIngredient indicates the ingredient violates domain constraints.
	ErrInvalidIngredient = errors.New("invalid ingredient")

	// ErrRecipeNotFound indicates the requested recipe does not exist.
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrRecipeInUse indicates a recipe still used as a sub-recipe or recorded in the ledger.
	ErrRecipeInUse = errors.New("recipe is still referenced")

	// ErrInvalidRecipe indicates the recipe violates domain constraints.
	ErrInvalidRecipe = errors.New("invalid recipe")

	// ErrRecipeVersionConflict indicates the recipe was modified since the caller read it.
	ErrRecipeVersionConflict = errors.New("recipe version conflict")

	// ErrInvalidLedgerEntry indicates a ledger entry or stock movement that violates domain constraints.
	ErrInvalidLedgerEntry = errors.New("invalid ledger entry")

	// ErrInvalidTargetMargin indicates a target margin outside [0, 100).
	ErrInvalidTargetMargin = errors.New("invalid target margin")
)

// UnknownUnitError reports the unit id that could not be resolved.
type UnknownUnitError struct {
	UnitID string
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("unknown unit %q: select a compatible unit", e.UnitID)
}

// Is matches ErrUnknownUnit.
func (e *UnknownUnitError) Is(target error) bool { return target == ErrUnknownUnit }

// MalformedLineItemError reports a line item whose source is missing or ambiguous.
type MalformedLineItemError struct {
	LineID uuid.UUID
	Reason string
}

func (e *MalformedLineItemError) Error() string {
	return fmt.Sprintf("malformed line item %s: %s", e.LineID, e.Reason)
}

// Is matches ErrMalformedLineItem.
func (e *MalformedLineItemError) Is(target error) bool { return target == ErrMalformedLineItem }

// InvalidPortionCountError reports a sub-recipe that cannot be divided into portions.
type InvalidPortionCountError struct {
	RecipeID uuid.UUID
	Portions int
}

func (e *InvalidPortionCountError) Error() string {
	return fmt.Sprintf("recipe %s has %d portions: set portions > 0 before using it as a sub-recipe", e.RecipeID, e.Portions)
}

// Is matches ErrInvalidPortionCount.
func (e *InvalidPortionCountError) Is(target error) bool { return target == ErrInvalidPortionCount }

// CyclicRecipeReferenceError reports the recipe ids forming a reference cycle.
// The first and last elements of Path are the same recipe.
type CyclicRecipeReferenceError struct {
	Path []uuid.UUID
}

func (e *CyclicRecipeReferenceError) Error() string {
	ids := make([]string, len(e.Path))
	for i, id := range e.Path {
		ids[i] = id.String()
	}
	return "cyclic recipe reference: " + strings.Join(ids, " -> ")
}

// Is matches ErrCyclicRecipeReference.
func (e *CyclicRecipeReferenceError) Is(target error) bool { return target == ErrCyclicRecipeReference }
