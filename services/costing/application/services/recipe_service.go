package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	pkgcache "github.com/ghuser/kitchenledger/pkg/cache"
	"github.com/ghuser/kitchenledger/pkg/logger"
	costingdomain "github.com/ghuser/kitchenledger/services/costing/domain"
	"github.com/ghuser/kitchenledger/services/costing/domain/models"
	"github.com/ghuser/kitchenledger/services/costing/domain/repositories"
	domainsvcs "github.com/ghuser/kitchenledger/services/costing/domain/services"
)

// maxCostWriteAttempts bounds retries of a cost write that lost a version race.
const maxCostWriteAttempts = 3

// LineInput is one requested recipe line. Exactly one of IngredientID and
// SubRecipeID must be set. A nil ID asks for a fresh line id.
type LineInput struct {
	ID           *uuid.UUID
	IngredientID *uuid.UUID
	SubRecipeID  *uuid.UUID
	Unit         string
	Quantity     float64
}

// RecipeInput carries the editable recipe fields and lines.
type RecipeInput struct {
	models.RecipeParams
	Lines []LineInput
}

// RecipeView is a recipe with its cached totals rated against the active thresholds.
type RecipeView struct {
	*models.Recipe
	CostPerPortion    float64
	CostRatio         float64
	Profitability     domainsvcs.Profitability
	ThresholdsVersion string
}

// LiveCost is a deep cost computed from current ingredient prices and
// sub-recipe lines, rated against the active thresholds.
type LiveCost struct {
	domainsvcs.RecipeCost
	RecipeVersion     int
	SellPrice         float64
	Profitability     domainsvcs.Profitability
	ThresholdsVersion string
	ComputedAt        time.Time
	Cached            bool
}

// RecostResult summarizes one dependent recompute pass.
type RecostResult struct {
	Recosted []uuid.UUID
	Failed   []uuid.UUID
}

// costStore is the read model for live costs. *pkgcache.CostCache implements it.
type costStore interface {
	Get(ctx context.Context, recipeID uuid.UUID) (*pkgcache.CachedCost, error)
	Set(ctx context.Context, cost *pkgcache.CachedCost) error
	Delete(ctx context.Context, recipeIDs ...uuid.UUID) error
}

// RecipeService costs recipes on save, serves live costs and keeps dependents
// current after ingredient or sub-recipe changes.
// Writes publish events through the repository; when the repositories do not
// publish (inline mode) dependents are recomputed synchronously instead.
type RecipeService struct {
	recipes     repositories.RecipeRepository
	ingredients repositories.IngredientRepository
	engine      *Engine
	cache       costStore
	log         logger.Logger
	metrics     *metrics
	inline      bool
	now         func() time.Time
}

// NewRecipeService returns a RecipeService. costCache may be nil.
func NewRecipeService(
	recipes repositories.RecipeRepository,
	ingredients repositories.IngredientRepository,
	engine *Engine,
	costCache *pkgcache.CostCache,
	log logger.Logger,
	inline bool,
) *RecipeService {
	s := &RecipeService{
		recipes:     recipes,
		ingredients: ingredients,
		engine:      engine,
		log:         log,
		metrics:     newMetrics(),
		inline:      inline,
		now:         func() time.Time { return time.Now().UTC() },
	}
	if costCache != nil {
		s.cache = costCache
	}
	return s
}

// Create validates, costs and persists a new recipe.
func (s *RecipeService) Create(ctx context.Context, in RecipeInput) (*RecipeView, error) {
	ctx, span := tracer.Start(ctx, "RecipeService.Create")
	defer span.End()

	lines, err := buildLines(in.Lines)
	if err != nil {
		return nil, spanErr(span, err)
	}
	params := in.RecipeParams
	params.Lines = lines
	recipe, err := models.NewRecipe(params)
	if err != nil {
		return nil, spanErr(span, err)
	}

	if err := s.costForSave(ctx, recipe); err != nil {
		return nil, spanErr(span, err)
	}
	if err := s.recipes.Save(ctx, recipe); err != nil {
		return nil, spanErr(span, fmt.Errorf("save recipe: %w", err))
	}
	span.SetAttributes(attribute.String("recipe_id", recipe.ID.String()))
	s.log.InfoContext(ctx, "recipe created", "recipe_id", recipe.ID, "total_cost", recipe.TotalCost)
	return s.view(recipe), nil
}

// Update replaces the fields and lines of a recipe the caller read at version.
func (s *RecipeService) Update(ctx context.Context, id uuid.UUID, version int, in RecipeInput) (*RecipeView, error) {
	ctx, span := tracer.Start(ctx, "RecipeService.Update", trace.WithAttributes(attribute.String("recipe_id", id.String())))
	defer span.End()

	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return nil, spanErr(span, fmt.Errorf("get recipe: %w", err))
	}
	if recipe.Version != version {
		return nil, spanErr(span, fmt.Errorf("%w: have %d, stored %d", costingdomain.ErrRecipeVersionConflict, version, recipe.Version))
	}

	lines, err := buildLines(in.Lines)
	if err != nil {
		return nil, spanErr(span, err)
	}
	params := in.RecipeParams
	params.Lines = lines
	if err := recipe.Apply(params, s.now()); err != nil {
		return nil, spanErr(span, err)
	}

	if err := s.costForSave(ctx, recipe); err != nil {
		return nil, spanErr(span, err)
	}
	if err := s.recipes.Update(ctx, recipe); err != nil {
		return nil, spanErr(span, fmt.Errorf("update recipe: %w", err))
	}
	s.invalidate(ctx, recipe.ID)
	s.log.InfoContext(ctx, "recipe updated", "recipe_id", recipe.ID, "version", recipe.Version, "total_cost", recipe.TotalCost)

	if s.inline {
		if _, err := s.RecostDependents(ctx, []uuid.UUID{recipe.ID}, nil); err != nil {
			s.log.WarnContext(ctx, "inline recost failed", "recipe_id", recipe.ID, "error", err)
		}
	}
	return s.view(recipe), nil
}

// costForSave checks references and cycles against the stored graph, then
// snapshots the recipe's cost into it.
func (s *RecipeService) costForSave(ctx context.Context, recipe *models.Recipe) error {
	arena, err := s.loadArena(ctx)
	if err != nil {
		return err
	}
	if err := checkReferences(arena, recipe); err != nil {
		return err
	}
	arena.PutRecipe(recipe)
	if err := domainsvcs.CheckAcyclic(arena, recipe); err != nil {
		return err
	}
	cost, err := s.engine.Aggregator.Aggregate(arena, recipe)
	if err != nil {
		return err
	}
	domainsvcs.Apply(recipe, cost)
	s.metrics.costed(ctx, "snapshot", cost.DegradedLines())
	if n := cost.DegradedLines(); n > 0 {
		s.log.WarnContext(ctx, "recipe costed with unconverted lines", "recipe_id", recipe.ID, "degraded_lines", n)
	}
	return nil
}

// Get returns a recipe with line names resolved against current records.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*RecipeView, error) {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	cat, err := s.catalogFor(ctx, recipe)
	if err != nil {
		return nil, err
	}
	for i := range recipe.Lines {
		recipe.Lines[i].DisplayName = domainsvcs.DisplayName(cat, recipe.Lines[i])
	}
	return s.view(recipe), nil
}

// List returns recipes matching filter.
func (s *RecipeService) List(ctx context.Context, filter repositories.RecipeFilter) ([]*RecipeView, error) {
	recipes, err := s.recipes.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	out := make([]*RecipeView, len(recipes))
	for i, r := range recipes {
		out[i] = s.view(r)
	}
	return out, nil
}

// Delete removes a recipe. Refused while another recipe uses it.
func (s *RecipeService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.recipes.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	s.invalidate(ctx, id)
	s.log.InfoContext(ctx, "recipe deleted", "recipe_id", id)
	return nil
}

// Cost returns the live deep cost of a recipe. Cached results are reused
// while the recipe version they were computed at is current.
func (s *RecipeService) Cost(ctx context.Context, id uuid.UUID) (*LiveCost, error) {
	ctx, span := tracer.Start(ctx, "RecipeService.Cost", trace.WithAttributes(attribute.String("recipe_id", id.String())))
	defer span.End()

	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return nil, spanErr(span, fmt.Errorf("get recipe: %w", err))
	}
	if live, ok := s.cachedCost(ctx, recipe); ok {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		return live, nil
	}

	arena, err := s.loadArena(ctx)
	if err != nil {
		return nil, spanErr(span, err)
	}
	arena.PutRecipe(recipe)
	live, err := s.liveCost(ctx, arena, recipe)
	if err != nil {
		return nil, spanErr(span, err)
	}
	s.warm(ctx, live)
	return live, nil
}

// Recost recomputes a recipe's snapshot now, then every recipe depending on it.
func (s *RecipeService) Recost(ctx context.Context, id uuid.UUID) (*RecipeView, *RecostResult, error) {
	ctx, span := tracer.Start(ctx, "RecipeService.Recost", trace.WithAttributes(attribute.String("recipe_id", id.String())))
	defer span.End()

	var recipe *models.Recipe
	err := s.retryCostWrite(ctx, id, func(arena *domainsvcs.Arena, r *models.Recipe) error {
		cost, err := s.engine.Aggregator.Aggregate(arena, r)
		if err != nil {
			return err
		}
		domainsvcs.Apply(r, cost)
		s.metrics.costed(ctx, "snapshot", cost.DegradedLines())
		recipe = r
		return nil
	})
	if err != nil {
		return nil, nil, spanErr(span, err)
	}
	s.invalidate(ctx, id)

	res, err := s.RecostDependents(ctx, []uuid.UUID{id}, nil)
	if err != nil {
		return nil, nil, spanErr(span, err)
	}
	return s.view(recipe), res, nil
}

// RecostDependents recomputes, in dependency order, every recipe whose cached
// totals are stale after the given recipes and ingredients changed. New
// totals are written with SaveCosts and do not emit further recipe events.
// A recipe that fails to cost is logged and reported in Failed; the pass continues.
func (s *RecipeService) RecostDependents(ctx context.Context, changedRecipes, changedIngredients []uuid.UUID) (*RecostResult, error) {
	ctx, span := tracer.Start(ctx, "RecipeService.RecostDependents")
	defer span.End()

	arena, err := s.loadArena(ctx)
	if err != nil {
		return nil, spanErr(span, err)
	}
	order, err := domainsvcs.RecostOrder(arena.Recipes(), changedRecipes, changedIngredients)
	if err != nil {
		return nil, spanErr(span, err)
	}
	span.SetAttributes(attribute.Int("pass_size", len(order)))
	s.metrics.recostPassSize.Record(ctx, int64(len(order)))

	res := &RecostResult{Recosted: []uuid.UUID{}, Failed: []uuid.UUID{}}
	for _, r := range order {
		if err := s.recostOne(ctx, arena, r); err != nil {
			s.log.ErrorContext(ctx, "recost failed", "recipe_id", r.ID, "error", err)
			res.Failed = append(res.Failed, r.ID)
			continue
		}
		res.Recosted = append(res.Recosted, r.ID)
	}
	s.invalidate(ctx, res.Recosted...)

	if len(order) > 0 {
		s.log.InfoContext(ctx, "dependents recosted",
			"recosted", len(res.Recosted),
			"failed", len(res.Failed),
		)
	}
	return res, nil
}

// recostOne costs r against arena and writes the result. On a version race
// the stored recipe is reloaded, recosted and written again. arena is
// updated in place so recipes later in the pass see the new totals.
func (s *RecipeService) recostOne(ctx context.Context, arena *domainsvcs.Arena, r *models.Recipe) error {
	current := r
	for attempt := 1; ; attempt++ {
		next := current.Clone()
		cost, err := s.engine.Aggregator.Aggregate(arena, next)
		if err != nil {
			return err
		}
		domainsvcs.Apply(next, cost)
		s.metrics.costed(ctx, "snapshot", cost.DegradedLines())

		err = s.recipes.SaveCosts(ctx, next)
		if err == nil {
			arena.PutRecipe(next)
			return nil
		}
		if !errors.Is(err, costingdomain.ErrRecipeVersionConflict) || attempt >= maxCostWriteAttempts {
			return fmt.Errorf("save costs: %w", err)
		}
		if current, err = s.recipes.GetByID(ctx, r.ID); err != nil {
			return fmt.Errorf("reload recipe: %w", err)
		}
	}
}

// retryCostWrite loads recipe id against a fresh arena, lets fn update its
// costs and writes them, retrying on version races.
func (s *RecipeService) retryCostWrite(ctx context.Context, id uuid.UUID, fn func(*domainsvcs.Arena, *models.Recipe) error) error {
	for attempt := 1; ; attempt++ {
		arena, err := s.loadArena(ctx)
		if err != nil {
			return err
		}
		r, ok := arena.Recipe(id)
		if !ok {
			return costingdomain.ErrRecipeNotFound
		}
		if err := fn(arena, r); err != nil {
			return err
		}
		err = s.recipes.SaveCosts(ctx, r)
		if err == nil {
			return nil
		}
		if !errors.Is(err, costingdomain.ErrRecipeVersionConflict) || attempt >= maxCostWriteAttempts {
			return fmt.Errorf("save costs: %w", err)
		}
	}
}

func (s *RecipeService) liveCost(ctx context.Context, cat domainsvcs.Catalog, r *models.Recipe) (*LiveCost, error) {
	cost, err := s.engine.Aggregator.AggregateDeep(cat, r)
	if err != nil {
		return nil, err
	}
	s.metrics.costed(ctx, "deep", cost.DegradedLines())
	return &LiveCost{
		RecipeCost:        cost,
		RecipeVersion:     r.Version,
		SellPrice:         r.SellPrice,
		Profitability:     s.engine.Thresholds.Classify(cost.TotalCost, r.SellPrice),
		ThresholdsVersion: s.engine.Thresholds.Version,
		ComputedAt:        s.now(),
	}, nil
}

func (s *RecipeService) cachedCost(ctx context.Context, r *models.Recipe) (*LiveCost, bool) {
	if s.cache == nil {
		return nil, false
	}
	c, err := s.cache.Get(ctx, r.ID)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.WarnContext(ctx, "cost cache read failed", "recipe_id", r.ID, "error", err)
		}
		return nil, false
	}
	if c.RecipeVersion != r.Version || c.ThresholdsVersion != s.engine.Thresholds.Version {
		return nil, false
	}
	lines := make([]domainsvcs.LineCost, len(c.Lines))
	for i, l := range c.Lines {
		lines[i] = domainsvcs.LineCost{LineID: l.LineID, Name: l.Name, Cost: l.Cost, Degraded: l.Degraded}
	}
	return &LiveCost{
		RecipeCost: domainsvcs.RecipeCost{
			RecipeID:       r.ID,
			TotalCost:      c.TotalCost,
			MarginPercent:  c.MarginPercent,
			CostPerPortion: c.CostPerPortion,
			Lines:          lines,
			Degraded:       c.Degraded,
		},
		RecipeVersion:     c.RecipeVersion,
		SellPrice:         r.SellPrice,
		Profitability:     domainsvcs.Profitability(c.Profitability),
		ThresholdsVersion: c.ThresholdsVersion,
		ComputedAt:        c.ComputedAt,
		Cached:            true,
	}, true
}

func (s *RecipeService) warm(ctx context.Context, live *LiveCost) {
	if s.cache == nil {
		return
	}
	lines := make([]pkgcache.CachedLine, len(live.Lines))
	for i, l := range live.Lines {
		lines[i] = pkgcache.CachedLine{LineID: l.LineID, Name: l.Name, Cost: l.Cost, Degraded: l.Degraded}
	}
	if err := s.cache.Set(ctx, &pkgcache.CachedCost{
		RecipeID:          live.RecipeID,
		RecipeVersion:     live.RecipeVersion,
		TotalCost:         live.TotalCost,
		CostPerPortion:    live.CostPerPortion,
		MarginPercent:     live.MarginPercent,
		Profitability:     string(live.Profitability),
		ThresholdsVersion: live.ThresholdsVersion,
		Degraded:          live.Degraded,
		Lines:             lines,
		ComputedAt:        live.ComputedAt,
	}); err != nil {
		// Caching is best-effort.
		s.log.WarnContext(ctx, "cost cache write failed", "recipe_id", live.RecipeID, "error", err)
	}
}

// InvalidateDependents drops the cached live cost of every recipe that uses
// one of the given ingredients, directly or through a sub-recipe. Snapshots
// are left alone; they are recomputed by RecostDependents.
func (s *RecipeService) InvalidateDependents(ctx context.Context, ingredientIDs ...uuid.UUID) {
	if s.cache == nil || len(ingredientIDs) == 0 {
		return
	}
	recipes, err := s.recipes.List(ctx, repositories.RecipeFilter{})
	if err != nil {
		s.log.WarnContext(ctx, "cost cache invalidation failed", "ingredients", len(ingredientIDs), "error", err)
		return
	}
	order, err := domainsvcs.RecostOrder(recipes, nil, ingredientIDs)
	if err != nil {
		s.log.WarnContext(ctx, "cost cache invalidation failed", "ingredients", len(ingredientIDs), "error", err)
		return
	}
	ids := make([]uuid.UUID, len(order))
	for i, r := range order {
		ids[i] = r.ID
	}
	s.invalidate(ctx, ids...)
}

func (s *RecipeService) invalidate(ctx context.Context, ids ...uuid.UUID) {
	if s.cache == nil || len(ids) == 0 {
		return
	}
	if err := s.cache.Delete(ctx, ids...); err != nil {
		s.log.WarnContext(ctx, "cost cache invalidation failed", "recipes", len(ids), "error", err)
	}
}

// loadArena reads every ingredient and recipe into a catalog.
func (s *RecipeService) loadArena(ctx context.Context) (*domainsvcs.Arena, error) {
	ings, err := s.ingredients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ingredients: %w", err)
	}
	recipes, err := s.recipes.List(ctx, repositories.RecipeFilter{})
	if err != nil {
		return nil, fmt.Errorf("load recipes: %w", err)
	}
	return domainsvcs.NewArena(ings, recipes), nil
}

// catalogFor fetches only the records r references. Missing ones are left out.
func (s *RecipeService) catalogFor(ctx context.Context, r *models.Recipe) (*domainsvcs.Arena, error) {
	arena := domainsvcs.NewArena(nil, nil)
	for _, id := range r.IngredientIDs() {
		ing, err := s.ingredients.GetByID(ctx, id)
		if errors.Is(err, costingdomain.ErrIngredientNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get ingredient %s: %w", id, err)
		}
		arena.PutIngredient(ing)
	}
	for _, id := range r.SubRecipeIDs() {
		sub, err := s.recipes.GetByID(ctx, id)
		if errors.Is(err, costingdomain.ErrRecipeNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get sub-recipe %s: %w", id, err)
		}
		arena.PutRecipe(sub)
	}
	return arena, nil
}

func (s *RecipeService) view(r *models.Recipe) *RecipeView {
	// Rated on total cost against sell price, the same basis as MarginPercent.
	return &RecipeView{
		Recipe:            r,
		CostPerPortion:    r.CostPerPortion(),
		CostRatio:         domainsvcs.CostRatio(r.TotalCost, r.SellPrice),
		Profitability:     s.engine.Thresholds.Classify(r.TotalCost, r.SellPrice),
		ThresholdsVersion: s.engine.Thresholds.Version,
	}
}

// checkReferences rejects lines pointing at records absent from cat.
func checkReferences(cat domainsvcs.Catalog, r *models.Recipe) error {
	for _, l := range r.Lines {
		switch src := l.Source.(type) {
		case models.IngredientSource:
			if _, ok := cat.Ingredient(src.IngredientID); !ok {
				return fmt.Errorf("%w: line %s references unknown ingredient %s", costingdomain.ErrInvalidRecipe, l.ID, src.IngredientID)
			}
		case models.SubRecipeSource:
			if _, ok := cat.Recipe(src.RecipeID); !ok && src.RecipeID != r.ID {
				return fmt.Errorf("%w: line %s references unknown recipe %s", costingdomain.ErrInvalidRecipe, l.ID, src.RecipeID)
			}
		}
	}
	return nil
}

func buildLines(in []LineInput) ([]models.LineItem, error) {
	lines := make([]models.LineItem, 0, len(in))
	for _, l := range in {
		id := uuid.New()
		if l.ID != nil {
			id = *l.ID
		}
		line, err := models.NewLineItemFromRefs(id, l.IngredientID, l.SubRecipeID, l.Unit, l.Quantity)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func spanErr(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
