package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	// TopicIngredientUpdated is published when an ingredient's costing inputs change.
	TopicIngredientUpdated = "ingredient.updated"

	// TopicRecipeSaved is published when a recipe's lines or cached totals are saved by a user edit.
	TopicRecipeSaved = "recipe.saved"
)

// SchemaVersion is the current payload version of every costing event.
const SchemaVersion = 1

// IngredientUpdatedEvent is published after an ingredient is created, edited or repriced.
// Consumers recost every recipe that depends on the ingredient.
type IngredientUpdatedEvent struct {
	EventID      uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version      int       `json:"version"`  // Schema version; increment on breaking changes
	IngredientID uuid.UUID `json:"ingredient_id"`
	PurchaseUnit string    `json:"purchase_unit"`
	UnitCost     float64   `json:"unit_cost"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// RecipeSavedEvent is published after a recipe is created or edited.
// Consumers recost every recipe that uses it as a sub-recipe.
type RecipeSavedEvent struct {
	EventID       uuid.UUID `json:"event_id"`
	Version       int       `json:"version"`
	RecipeID      uuid.UUID `json:"recipe_id"`
	RecipeVersion int       `json:"recipe_version"`
	TotalCost     float64   `json:"total_cost"`
	Portions      int       `json:"portions"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewIngredientUpdated builds an IngredientUpdatedEvent with a fresh event id.
func NewIngredientUpdated(ingredientID uuid.UUID, purchaseUnit string, unitCost float64, at time.Time) IngredientUpdatedEvent {
	return IngredientUpdatedEvent{
		EventID:      uuid.New(),
		Version:      SchemaVersion,
		IngredientID: ingredientID,
		PurchaseUnit: purchaseUnit,
		UnitCost:     unitCost,
		OccurredAt:   at,
	}
}

// NewRecipeSaved builds a RecipeSavedEvent with a fresh event id.
func NewRecipeSaved(recipeID uuid.UUID, recipeVersion int, totalCost float64, portions int, at time.Time) RecipeSavedEvent {
	return RecipeSavedEvent{
		EventID:       uuid.New(),
		Version:       SchemaVersion,
		RecipeID:      recipeID,
		RecipeVersion: recipeVersion,
		TotalCost:     totalCost,
		Portions:      portions,
		OccurredAt:    at,
	}
}
