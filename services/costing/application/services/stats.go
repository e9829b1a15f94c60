package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/ghuser/kitchenledger/services/costing/domain/repositories"
	domainsvcs "github.com/ghuser/kitchenledger/services/costing/domain/services"
)

// CategoryCount is the number of recipes in one category.
type CategoryCount struct {
	Category string
	Recipes  int
}

// LowMarginRecipe is a recipe whose cached margin is under the configured floor.
type LowMarginRecipe struct {
	ID            uuid.UUID
	Name          string
	MarginPercent float64
}

// Stats is the dashboard summary of the catalog.
type Stats struct {
	TotalRecipes       int
	ActiveRecipes      int
	TotalIngredients   int
	ActiveIngredients  int
	OptimalRecipes     int
	AverageCost        float64
	AverageMargin      float64
	RecipesPerCategory []CategoryCount
	LowMarginRecipes   []LowMarginRecipe
	LowMarginPercent   float64
}

// Stats summarizes cached recipe totals. Averages cover every recipe and are
// zero for an empty catalog.
func (s *RecipeService) Stats(ctx context.Context) (*Stats, error) {
	recipes, err := s.recipes.List(ctx, repositories.RecipeFilter{})
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	ings, err := s.ingredients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}

	st := &Stats{
		TotalRecipes:       len(recipes),
		TotalIngredients:   len(ings),
		RecipesPerCategory: []CategoryCount{},
		LowMarginRecipes:   []LowMarginRecipe{},
		LowMarginPercent:   s.engine.LowMarginPercent,
	}
	for _, ing := range ings {
		if ing.Active {
			st.ActiveIngredients++
		}
	}

	perCategory := make(map[string]int)
	var costSum, marginSum float64
	for _, r := range recipes {
		if r.Active {
			st.ActiveRecipes++
		}
		if s.engine.Thresholds.Classify(r.TotalCost, r.SellPrice) == domainsvcs.ProfitabilityOptimal {
			st.OptimalRecipes++
		}
		if r.MarginPercent < s.engine.LowMarginPercent {
			st.LowMarginRecipes = append(st.LowMarginRecipes, LowMarginRecipe{
				ID:            r.ID,
				Name:          r.Name.String(),
				MarginPercent: r.MarginPercent,
			})
		}
		perCategory[r.Category]++
		costSum += r.TotalCost
		marginSum += r.MarginPercent
	}
	if n := len(recipes); n > 0 {
		st.AverageCost = costSum / float64(n)
		st.AverageMargin = marginSum / float64(n)
	}

	for c, n := range perCategory {
		st.RecipesPerCategory = append(st.RecipesPerCategory, CategoryCount{Category: c, Recipes: n})
	}
	sort.Slice(st.RecipesPerCategory, func(i, j int) bool {
		return st.RecipesPerCategory[i].Category < st.RecipesPerCategory[j].Category
	})
	sort.Slice(st.LowMarginRecipes, func(i, j int) bool {
		return st.LowMarginRecipes[i].MarginPercent < st.LowMarginRecipes[j].MarginPercent
	})
	return st, nil
}
