package services

import (
	"github.com/google/uuid"

	"github.com/ghuser/kitchenledger/services/costing/domain/models"
)

// Catalog resolves the ingredients and sub-recipes a recipe references.
type Catalog interface {
	Ingredient(id uuid.UUID) (*models.Ingredient, bool)
	Recipe(id uuid.UUID) (*models.Recipe, bool)
}

// Arena is an in-memory Catalog indexed by id. It is not safe for concurrent
// mutation; build it, then share it read-only.
type Arena struct {
	ingredients map[uuid.UUID]*models.Ingredient
	recipes     map[uuid.UUID]*models.Recipe
	order       []uuid.UUID
}

// NewArena indexes the given records.
func NewArena(ingredients []*models.Ingredient, recipes []*models.Recipe) *Arena {
	a := &Arena{
		ingredients: make(map[uuid.UUID]*models.Ingredient, len(ingredients)),
		recipes:     make(map[uuid.UUID]*models.Recipe, len(recipes)),
	}
	for _, ing := range ingredients {
		a.ingredients[ing.ID] = ing
	}
	for _, r := range recipes {
		a.PutRecipe(r)
	}
	return a
}

// Ingredient implements Catalog.
func (a *Arena) Ingredient(id uuid.UUID) (*models.Ingredient, bool) {
	ing, ok := a.ingredients[id]
	return ing, ok
}

// Recipe implements Catalog.
func (a *Arena) Recipe(id uuid.UUID) (*models.Recipe, bool) {
	r, ok := a.recipes[id]
	return r, ok
}

// PutIngredient adds or replaces an ingredient.
func (a *Arena) PutIngredient(ing *models.Ingredient) {
	a.ingredients[ing.ID] = ing
}

// PutRecipe adds or replaces a recipe.
func (a *Arena) PutRecipe(r *models.Recipe) {
	if _, ok := a.recipes[r.ID]; !ok {
		a.order = append(a.order, r.ID)
	}
	a.recipes[r.ID] = r
}

// Recipes returns every recipe in insertion order.
func (a *Arena) Recipes() []*models.Recipe {
	out := make([]*models.Recipe, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.recipes[id])
	}
	return out
}
