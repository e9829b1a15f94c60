package services

import (
	"github.com/google/uuid"

	"github.com/ghuser/kitchenledger/services/costing/domain"
	"github.com/ghuser/kitchenledger/services/costing/domain/models"
)

// RecostOrder returns the recipes whose cached totals are stale after the
// given recipes and ingredients changed: recipes using a changed ingredient,
// plus every recipe that transitively uses one of those or a changed recipe.
// Changed recipes themselves are not included. The result is ordered so each
// recipe follows every affected sub-recipe it uses; ties keep input order.
func RecostOrder(recipes []*models.Recipe, changedRecipes, changedIngredients []uuid.UUID) ([]*models.Recipe, error) {
	byID := make(map[uuid.UUID]*models.Recipe, len(recipes))
	position := make(map[uuid.UUID]int, len(recipes))
	dependents := make(map[uuid.UUID][]uuid.UUID)
	usedBy := make(map[uuid.UUID][]uuid.UUID)
	for i, r := range recipes {
		byID[r.ID] = r
		position[r.ID] = i
		for _, sub := range r.SubRecipeIDs() {
			dependents[sub] = append(dependents[sub], r.ID)
		}
		for _, ing := range r.IngredientIDs() {
			usedBy[ing] = append(usedBy[ing], r.ID)
		}
	}

	affected := make(map[uuid.UUID]bool)
	var queue []uuid.UUID
	mark := func(id uuid.UUID) {
		if _, known := byID[id]; known && !affected[id] {
			affected[id] = true
			queue = append(queue, id)
		}
	}
	for _, ing := range changedIngredients {
		for _, id := range usedBy[ing] {
			mark(id)
		}
	}
	changed := make(map[uuid.UUID]bool, len(changedRecipes))
	for _, id := range changedRecipes {
		changed[id] = true
		queue = append(queue, id)
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, dep := range dependents[id] {
			mark(dep)
		}
	}
	for id := range changed {
		delete(affected, id)
	}

	// Kahn over the affected subgraph: edges run from sub-recipe to user.
	indegree := make(map[uuid.UUID]int, len(affected))
	for id := range affected {
		for _, sub := range byID[id].SubRecipeIDs() {
			if affected[sub] {
				indegree[id]++
			}
		}
	}
	var ready []uuid.UUID
	for _, r := range recipes {
		if affected[r.ID] && indegree[r.ID] == 0 {
			ready = append(ready, r.ID)
		}
	}

	out := make([]*models.Recipe, 0, len(affected))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		out = append(out, byID[id])
		for _, dep := range dependents[id] {
			if !affected[dep] {
				continue
			}
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = insertByPosition(ready, dep, position)
			}
		}
	}

	if len(out) < len(affected) {
		remaining := make(map[uuid.UUID]bool)
		for id := range affected {
			if indegree[id] > 0 {
				remaining[id] = true
			}
		}
		return nil, findCycle(byID, remaining, recipes)
	}
	return out, nil
}

func insertByPosition(ids []uuid.UUID, id uuid.UUID, position map[uuid.UUID]int) []uuid.UUID {
	i := len(ids)
	for i > 0 && position[ids[i-1]] > position[id] {
		i--
	}
	ids = append(ids, uuid.Nil)
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}

// findCycle walks sub-recipe edges inside within until it revisits a recipe.
func findCycle(byID map[uuid.UUID]*models.Recipe, within map[uuid.UUID]bool, recipes []*models.Recipe) error {
	for _, r := range recipes {
		if !within[r.ID] {
			continue
		}
		if path := cycleFrom(r.ID, func(id uuid.UUID) []uuid.UUID {
			var next []uuid.UUID
			for _, sub := range byID[id].SubRecipeIDs() {
				if within[sub] {
					next = append(next, sub)
				}
			}
			return next
		}); path != nil {
			return &domain.CyclicRecipeReferenceError{Path: path}
		}
	}
	return &domain.CyclicRecipeReferenceError{}
}

// CheckAcyclic reports whether saving root would close a sub-recipe cycle.
// Sub-recipes resolve through cat, except root's own id which resolves to root.
// Unresolvable references are ignored here; the aggregator reports them.
func CheckAcyclic(cat Catalog, root *models.Recipe) error {
	next := func(id uuid.UUID) []uuid.UUID {
		if id == root.ID {
			return root.SubRecipeIDs()
		}
		if r, ok := cat.Recipe(id); ok {
			return r.SubRecipeIDs()
		}
		return nil
	}
	if path := cycleFrom(root.ID, next); path != nil {
		return &domain.CyclicRecipeReferenceError{Path: path}
	}
	return nil
}

// cycleFrom runs a depth-first search from start and returns the first cycle
// found as a path whose first and last ids match, or nil.
func cycleFrom(start uuid.UUID, next func(uuid.UUID) []uuid.UUID) []uuid.UUID {
	var stack []uuid.UUID
	onStack := make(map[uuid.UUID]bool)
	done := make(map[uuid.UUID]bool)

	var visit func(id uuid.UUID) []uuid.UUID
	visit = func(id uuid.UUID) []uuid.UUID {
		if onStack[id] {
			for i, s := range stack {
				if s == id {
					return append(append([]uuid.UUID(nil), stack[i:]...), id)
				}
			}
		}
		if done[id] {
			return nil
		}
		stack = append(stack, id)
		onStack[id] = true
		for _, n := range next(id) {
			if path := visit(n); path != nil {
				return path
			}
		}
		stack = stack[:len(stack)-1]
		onStack[id] = false
		done[id] = true
		return nil
	}
	return visit(start)
}
