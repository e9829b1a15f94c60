// Package memory provides in-process implementations of the costing repositories.
// They back the memory storage backend and the application-layer tests; they do
// not publish events.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	costingdomain "github.com/ghuser/kitchenledger/services/costing/domain"
	"github.com/ghuser/kitchenledger/services/costing/domain/models"
	"github.com/ghuser/kitchenledger/services/costing/domain/repositories"
)

// Compile-time interface checks.
var (
	_ repositories.IngredientRepository = (*IngredientRepository)(nil)
	_ repositories.RecipeRepository     = (*RecipeRepository)(nil)
	_ repositories.LedgerRepository     = (*LedgerRepository)(nil)
)

// Store holds all costing records behind one lock so cross-aggregate checks
// (an ingredient still in use, a recipe still used as a sub-recipe) are consistent.
// Safe for concurrent access.
type Store struct {
	mu          sync.RWMutex
	ingredients map[uuid.UUID]*models.Ingredient
	recipes     map[uuid.UUID]*models.Recipe
	entries     []*models.LedgerEntry
	movements   []*models.StockMovement
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		ingredients: make(map[uuid.UUID]*models.Ingredient),
		recipes:     make(map[uuid.UUID]*models.Recipe),
	}
}

// Ingredients returns the ingredient repository view of the store.
func (s *Store) Ingredients() *IngredientRepository { return &IngredientRepository{s: s} }

// Recipes returns the recipe repository view of the store.
func (s *Store) Recipes() *RecipeRepository { return &RecipeRepository{s: s} }

// Ledger returns the ledger repository view of the store.
func (s *Store) Ledger() *LedgerRepository { return &LedgerRepository{s: s} }

// IngredientRepository implements repositories.IngredientRepository in memory.
type IngredientRepository struct{ s *Store }

func (r *IngredientRepository) Save(_ context.Context, ing *models.Ingredient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.ingredients[ing.ID]; ok || r.s.nameTaken(ing) {
		return costingdomain.ErrIngredientAlreadyExists
	}
	c := *ing
	r.s.ingredients[ing.ID] = &c
	return nil
}

func (r *IngredientRepository) Update(_ context.Context, ing *models.Ingredient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.ingredients[ing.ID]; !ok {
		return costingdomain.ErrIngredientNotFound
	}
	if r.s.nameTaken(ing) {
		return costingdomain.ErrIngredientAlreadyExists
	}
	c := *ing
	r.s.ingredients[ing.ID] = &c
	return nil
}

func (r *IngredientRepository) UpdatePrices(_ context.Context, ings []*models.Ingredient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, ing := range ings {
		if _, ok := r.s.ingredients[ing.ID]; !ok {
			return costingdomain.ErrIngredientNotFound
		}
	}
	for _, ing := range ings {
		stored := r.s.ingredients[ing.ID]
		stored.UnitCost = ing.UnitCost
		stored.UpdatedAt = ing.UpdatedAt
	}
	return nil
}

func (r *IngredientRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Ingredient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ing, ok := r.s.ingredients[id]
	if !ok {
		return nil, costingdomain.ErrIngredientNotFound
	}
	c := *ing
	return &c, nil
}

// List returns ingredients ordered by name.
func (r *IngredientRepository) List(_ context.Context) ([]*models.Ingredient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.Ingredient, 0, len(r.s.ingredients))
	for _, ing := range r.s.ingredients {
		c := *ing
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *IngredientRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.ingredients[id]; !ok {
		return costingdomain.ErrIngredientNotFound
	}
	for _, rec := range r.s.recipes {
		for _, used := range rec.IngredientIDs() {
			if used == id {
				return costingdomain.ErrIngredientInUse
			}
		}
	}
	for _, m := range r.s.movements {
		if m.IngredientID == id {
			return costingdomain.ErrIngredientInUse
		}
	}
	delete(r.s.ingredients, id)
	return nil
}

// nameTaken reports whether another ingredient already uses ing's name. Caller holds the lock.
func (s *Store) nameTaken(ing *models.Ingredient) bool {
	for id, other := range s.ingredients {
		if id != ing.ID && strings.EqualFold(other.Name.String(), ing.Name.String()) {
			return true
		}
	}
	return false
}

// RecipeRepository implements repositories.RecipeRepository in memory.
type RecipeRepository struct{ s *Store }

func (r *RecipeRepository) Save(_ context.Context, recipe *models.Recipe) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.recipes[recipe.ID]; ok {
		return costingdomain.ErrInvalidRecipe
	}
	r.s.recipes[recipe.ID] = recipe.Clone()
	return nil
}

func (r *RecipeRepository) Update(_ context.Context, recipe *models.Recipe) error {
	return r.write(recipe, func(stored *models.Recipe) *models.Recipe {
		return recipe.Clone()
	})
}

func (r *RecipeRepository) SaveCosts(_ context.Context, recipe *models.Recipe) error {
	return r.write(recipe, func(stored *models.Recipe) *models.Recipe {
		next := stored.Clone()
		next.TotalCost = recipe.TotalCost
		next.MarginPercent = recipe.MarginPercent
		costs := make(map[uuid.UUID]models.LineItem, len(recipe.Lines))
		for _, l := range recipe.Lines {
			costs[l.ID] = l
		}
		for i := range next.Lines {
			if l, ok := costs[next.Lines[i].ID]; ok {
				next.Lines[i].ComputedCost = l.ComputedCost
				next.Lines[i].DisplayName = l.DisplayName
			}
		}
		return next
	})
}

// write applies an optimistic update: recipe.Version must match the stored version.
func (r *RecipeRepository) write(recipe *models.Recipe, next func(stored *models.Recipe) *models.Recipe) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.recipes[recipe.ID]
	if !ok {
		return costingdomain.ErrRecipeNotFound
	}
	if stored.Version != recipe.Version {
		return costingdomain.ErrRecipeVersionConflict
	}
	n := next(stored)
	n.Version = stored.Version + 1
	r.s.recipes[recipe.ID] = n
	recipe.Version = n.Version
	return nil
}

func (r *RecipeRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Recipe, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.recipes[id]
	if !ok {
		return nil, costingdomain.ErrRecipeNotFound
	}
	return rec.Clone(), nil
}

// List returns matching recipes ordered by name.
func (r *RecipeRepository) List(_ context.Context, f repositories.RecipeFilter) ([]*models.Recipe, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.Recipe, 0, len(r.s.recipes))
	for _, rec := range r.s.recipes {
		if f.Category != "" && !strings.EqualFold(rec.Category, f.Category) {
			continue
		}
		if f.Type != "" && rec.Type != f.Type {
			continue
		}
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].Name < out[j].Name
	})
	return paginate(out, f.QueryOpts), nil
}

func (r *RecipeRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.recipes[id]; !ok {
		return costingdomain.ErrRecipeNotFound
	}
	for otherID, rec := range r.s.recipes {
		if otherID == id {
			continue
		}
		for _, sub := range rec.SubRecipeIDs() {
			if sub == id {
				return costingdomain.ErrRecipeInUse
			}
		}
	}
	for _, e := range r.s.entries {
		if e.RecipeID == id {
			return costingdomain.ErrRecipeInUse
		}
	}
	delete(r.s.recipes, id)
	return nil
}

// LedgerRepository implements repositories.LedgerRepository in memory.
type LedgerRepository struct{ s *Store }

func (r *LedgerRepository) AppendEntry(_ context.Context, e *models.LedgerEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.recipes[e.RecipeID]; !ok {
		return costingdomain.ErrRecipeNotFound
	}
	c := *e
	r.s.entries = append(r.s.entries, &c)
	return nil
}

func (r *LedgerRepository) ListEntries(_ context.Context, kind models.EntryKind, opts repositories.QueryOpts) ([]*models.LedgerEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*models.LedgerEntry
	for i := len(r.s.entries) - 1; i >= 0; i-- {
		e := r.s.entries[i]
		if kind != "" && e.Kind != kind {
			continue
		}
		c := *e
		out = append(out, &c)
	}
	return paginate(out, opts), nil
}

func (r *LedgerRepository) AppendMovement(_ context.Context, m *models.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.ingredients[m.IngredientID]; !ok {
		return costingdomain.ErrIngredientNotFound
	}
	c := *m
	r.s.movements = append(r.s.movements, &c)
	return nil
}

func (r *LedgerRepository) ListMovements(_ context.Context, ingredientID *uuid.UUID, opts repositories.QueryOpts) ([]*models.StockMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*models.StockMovement
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if ingredientID != nil && m.IngredientID != *ingredientID {
			continue
		}
		c := *m
		out = append(out, &c)
	}
	return paginate(out, opts), nil
}

func paginate[T any](items []T, opts repositories.QueryOpts) []T {
	if items == nil {
		items = []T{}
	}
	if opts.Offset > 0 {
		if opts.Offset >= len(items) {
			return items[:0]
		}
		items = items[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(items) {
		items = items[:opts.Limit]
	}
	return items
}
