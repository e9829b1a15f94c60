package models

import (
	"github.com/google/uuid"

	"github.com/ghuser/kitchenledger/services/costing/domain"
)

// LineSource is what a line item draws from: an IngredientSource or a SubRecipeSource.
type LineSource interface {
	isLineSource()
}

// IngredientSource is a base-ingredient line. Quantity is expressed in Unit.
type IngredientSource struct {
	IngredientID uuid.UUID
	Unit         string
}

// SubRecipeSource is a sub-recipe line. Quantity counts portions of the recipe.
type SubRecipeSource struct {
	RecipeID uuid.UUID
}

func (IngredientSource) isLineSource() {}
func (SubRecipeSource) isLineSource()  {}

// LineItem is one entry of a recipe. ComputedCost and DisplayName are
// snapshots written when the owning recipe is costed.
type LineItem struct {
	ID           uuid.UUID
	Source       LineSource
	Quantity     float64
	ComputedCost float64
	DisplayName  string
}

// NewIngredientLine returns a line consuming quantity of an ingredient in unit.
func NewIngredientLine(ingredientID uuid.UUID, unit string, quantity float64) LineItem {
	return LineItem{
		ID:       uuid.New(),
		Source:   IngredientSource{IngredientID: ingredientID, Unit: unit},
		Quantity: quantity,
	}
}

// NewSubRecipeLine returns a line consuming portions of another recipe.
func NewSubRecipeLine(recipeID uuid.UUID, portions float64) LineItem {
	return LineItem{
		ID:       uuid.New(),
		Source:   SubRecipeSource{RecipeID: recipeID},
		Quantity: portions,
	}
}

// NewLineItemFromRefs builds a line from a nullable pair of references, as
// stored in a table row or received from a client. Exactly one must be set.
func NewLineItemFromRefs(id uuid.UUID, ingredientID, subRecipeID *uuid.UUID, unit string, quantity float64) (LineItem, error) {
	switch {
	case ingredientID != nil && subRecipeID != nil:
		return LineItem{}, &domain.MalformedLineItemError{LineID: id, Reason: "both an ingredient and a sub-recipe are referenced"}
	case ingredientID == nil && subRecipeID == nil:
		return LineItem{}, &domain.MalformedLineItemError{LineID: id, Reason: "neither an ingredient nor a sub-recipe is referenced"}
	case ingredientID != nil:
		return LineItem{ID: id, Source: IngredientSource{IngredientID: *ingredientID, Unit: unit}, Quantity: quantity}, nil
	default:
		return LineItem{ID: id, Source: SubRecipeSource{RecipeID: *subRecipeID}, Quantity: quantity}, nil
	}
}

// Refs splits the line back into its nullable reference pair.
// Sub-recipe lines report the piece unit.
func (l LineItem) Refs() (ingredientID, subRecipeID *uuid.UUID, unit string) {
	switch src := l.Source.(type) {
	case IngredientSource:
		id := src.IngredientID
		return &id, nil, src.Unit
	case SubRecipeSource:
		id := src.RecipeID
		return nil, &id, "piece"
	default:
		return nil, nil, ""
	}
}
