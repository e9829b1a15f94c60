package services_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/ghuser/kitchenledger/pkg/logger"
	"github.com/ghuser/kitchenledger/services/costing/application/services"
	costingdomain "github.com/ghuser/kitchenledger/services/costing/domain"
	"github.com/ghuser/kitchenledger/services/costing/domain/models"
	"github.com/ghuser/kitchenledger/services/costing/domain/repositories"
	domainsvcs "github.com/ghuser/kitchenledger/services/costing/domain/services"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func ptr[T any](v T) *T { return &v }

// kitchen is a small catalog: dough uses flour and butter, pie uses dough and apples.
type kitchen struct {
	svc                   *services.Services
	flour, butter, apples *models.Ingredient
	dough, pie            *services.RecipeView
}

func newServices(inline bool) *services.Services {
	return services.NewWithRepositories(services.MemoryRepositories(), services.DefaultEngine(), nil, logger.Discard(), inline)
}

func newKitchen(t *testing.T, inline bool) *kitchen {
	t.Helper()
	ctx := context.Background()
	k := &kitchen{svc: newServices(inline)}

	mustIngredient := func(name, unit string, cost float64) *models.Ingredient {
		t.Helper()
		ing, err := k.svc.Ingredients.Create(ctx, models.IngredientParams{Name: name, PurchaseUnit: unit, UnitCost: cost, Active: true})
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		return ing
	}
	k.flour = mustIngredient("Flour", "kg", 2)
	k.butter = mustIngredient("Butter", "kg", 10)
	k.apples = mustIngredient("Apples", "kilo", 3)

	var err error
	k.dough, err = k.svc.Recipes.Create(ctx, services.RecipeInput{
		RecipeParams: models.RecipeParams{Name: "Dough", Category: "bases", Type: models.RecipeTypePreparation, Portions: 4, SellPrice: 8, Active: true},
		Lines: []services.LineInput{
			{IngredientID: &k.flour.ID, Unit: "g", Quantity: 500},
			{IngredientID: &k.butter.ID, Unit: "g", Quantity: 100},
		},
	})
	if err != nil {
		t.Fatalf("create dough: %v", err)
	}
	k.pie, err = k.svc.Recipes.Create(ctx, services.RecipeInput{
		RecipeParams: models.RecipeParams{Name: "Apple pie", Category: "desserts", Portions: 2, SellPrice: 5, Active: true},
		Lines: []services.LineInput{
			{SubRecipeID: &k.dough.ID, Quantity: 2},
			{IngredientID: &k.apples.ID, Unit: "kg", Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("create pie: %v", err)
	}
	return k
}

func TestIngredientService_Create(t *testing.T) {
	svc := newServices(true)
	ctx := context.Background()

	ing, err := svc.Ingredients.Create(ctx, models.IngredientParams{Name: "Milk", PurchaseUnit: "Litro", UnitCost: 1.2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ing.PurchaseUnit != "l" {
		t.Errorf("purchase unit = %q, want canonical id l", ing.PurchaseUnit)
	}

	_, err = svc.Ingredients.Create(ctx, models.IngredientParams{Name: "Sand", PurchaseUnit: "bucket", UnitCost: 1})
	if !errors.Is(err, costingdomain.ErrUnknownUnit) {
		t.Errorf("expected ErrUnknownUnit, got %v", err)
	}

	_, err = svc.Ingredients.Create(ctx, models.IngredientParams{Name: "milk", PurchaseUnit: "l", UnitCost: 1})
	if !errors.Is(err, costingdomain.ErrIngredientAlreadyExists) {
		t.Errorf("expected ErrIngredientAlreadyExists, got %v", err)
	}
}

func TestRecipeService_CreateCostsOnSave(t *testing.T) {
	k := newKitchen(t, true)

	if !approx(k.dough.TotalCost, 2) {
		t.Errorf("dough total = %v, want 2", k.dough.TotalCost)
	}
	if !approx(k.dough.CostPerPortion, 0.5) {
		t.Errorf("dough cost per portion = %v, want 0.5", k.dough.CostPerPortion)
	}
	if !approx(k.dough.MarginPercent, 75) {
		t.Errorf("dough margin = %v, want 75", k.dough.MarginPercent)
	}
	if k.dough.Profitability != domainsvcs.ProfitabilityOptimal {
		t.Errorf("dough profitability = %q, want optimal", k.dough.Profitability)
	}

	// 2 portions of dough at 0.5 plus 1 kg of apples at 3.
	if !approx(k.pie.TotalCost, 4) {
		t.Errorf("pie total = %v, want 4", k.pie.TotalCost)
	}
	if got := k.pie.Lines[0].DisplayName; got != "(Sub) Dough" {
		t.Errorf("sub-recipe line name = %q", got)
	}
	if !approx(k.pie.Lines[1].ComputedCost, 3) {
		t.Errorf("apple line cost = %v, want 3", k.pie.Lines[1].ComputedCost)
	}
	// total 4 against price 5 is an 80% ratio.
	if k.pie.Profitability != domainsvcs.ProfitabilityCritical {
		t.Errorf("pie profitability = %q, want critical", k.pie.Profitability)
	}
}

func TestRecipeService_CreateRejects(t *testing.T) {
	k := newKitchen(t, true)
	ctx := context.Background()
	missing := uuid.New()

	tests := []struct {
		name  string
		lines []services.LineInput
		want  error
	}{
		{
			name:  "unknown ingredient",
			lines: []services.LineInput{{IngredientID: &missing, Unit: "g", Quantity: 1}},
			want:  costingdomain.ErrInvalidRecipe,
		},
		{
			name:  "unknown sub-recipe",
			lines: []services.LineInput{{SubRecipeID: &missing, Quantity: 1}},
			want:  costingdomain.ErrInvalidRecipe,
		},
		{
			name:  "both references",
			lines: []services.LineInput{{IngredientID: &k.flour.ID, SubRecipeID: &k.dough.ID, Quantity: 1}},
			want:  costingdomain.ErrMalformedLineItem,
		},
		{
			name:  "no reference",
			lines: []services.LineInput{{Unit: "g", Quantity: 1}},
			want:  costingdomain.ErrMalformedLineItem,
		},
		{
			name:  "unknown unit",
			lines: []services.LineInput{{IngredientID: &k.flour.ID, Unit: "furlong", Quantity: 1}},
			want:  costingdomain.ErrUnknownUnit,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := k.svc.Recipes.Create(ctx, services.RecipeInput{
				RecipeParams: models.RecipeParams{Name: "Broken " + tt.name, Portions: 1},
				Lines:        tt.lines,
			})
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRecipeService_UpdateRejectsCyclesAndStaleVersions(t *testing.T) {
	k := newKitchen(t, true)
	ctx := context.Background()

	withPie := services.RecipeInput{
		RecipeParams: models.RecipeParams{Name: "Dough", Portions: 4, SellPrice: 8},
		Lines:        []services.LineInput{{SubRecipeID: &k.pie.ID, Quantity: 1}},
	}
	_, err := k.svc.Recipes.Update(ctx, k.dough.ID, k.dough.Version, withPie)
	if !errors.Is(err, costingdomain.ErrCyclicRecipeReference) {
		t.Fatalf("expected ErrCyclicRecipeReference, got %v", err)
	}

	self := services.RecipeInput{
		RecipeParams: models.RecipeParams{Name: "Dough", Portions: 4},
		Lines:        []services.LineInput{{SubRecipeID: &k.dough.ID, Quantity: 1}},
	}
	_, err = k.svc.Recipes.Update(ctx, k.dough.ID, k.dough.Version, self)
	if !errors.Is(err, costingdomain.ErrSelfReference) {
		t.Fatalf("expected ErrSelfReference, got %v", err)
	}

	_, err = k.svc.Recipes.Update(ctx, k.dough.ID, k.dough.Version+5, services.RecipeInput{
		RecipeParams: models.RecipeParams{Name: "Dough", Portions: 4},
	})
	if !errors.Is(err, costingdomain.ErrRecipeVersionConflict) {
		t.Fatalf("expected ErrRecipeVersionConflict, got %v", err)
	}
}

func TestRecipeService_UpdateRecostsDependentsInline(t *testing.T) {
	k := newKitchen(t, true)
	ctx := context.Background()

	// Dough doubles its portions: each portion costs 0.25.
	updated, err := k.svc.Recipes.Update(ctx, k.dough.ID, k.dough.Version, services.RecipeInput{
		RecipeParams: models.RecipeParams{Name: "Dough", Category: "bases", Portions: 8, SellPrice: 8},
		Lines: []services.LineInput{
			{ID: &k.dough.Lines[0].ID, IngredientID: &k.flour.ID, Unit: "g", Quantity: 500},
			{ID: &k.dough.Lines[1].ID, IngredientID: &k.butter.ID, Unit: "g", Quantity: 100},
		},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Version != k.dough.Version+1 {
		t.Errorf("version = %d, want %d", updated.Version, k.dough.Version+1)
	}

	pie, err := k.svc.Recipes.Get(ctx, k.pie.ID)
	if err != nil {
		t.Fatalf("get pie: %v", err)
	}
	if !approx(pie.TotalCost, 3.5) {
		t.Errorf("pie total = %v, want 3.5", pie.TotalCost)
	}
}

func TestIngredientService_UpdatePricesRecostsDependentsInline(t *testing.T) {
	k := newKitchen(t, true)
	ctx := context.Background()

	if _, err := k.svc.Ingredients.UpdatePrices(ctx, []services.PriceChange{{IngredientID: k.flour.ID, UnitCost: 4}}); err != nil {
		t.Fatalf("update prices: %v", err)
	}

	dough, _ := k.svc.Recipes.Get(ctx, k.dough.ID)
	if !approx(dough.TotalCost, 3) {
		t.Errorf("dough total = %v, want 3", dough.TotalCost)
	}
	pie, _ := k.svc.Recipes.Get(ctx, k.pie.ID)
	// 2 portions of dough at 0.75 plus apples at 3.
	if !approx(pie.TotalCost, 4.5) {
		t.Errorf("pie total = %v, want 4.5", pie.TotalCost)
	}
}

func TestIngredientService_UpdatePricesIsAllOrNothing(t *testing.T) {
	k := newKitchen(t, true)
	ctx := context.Background()

	_, err := k.svc.Ingredients.UpdatePrices(ctx, []services.PriceChange{
		{IngredientID: k.flour.ID, UnitCost: 4},
		{IngredientID: k.butter.ID, UnitCost: -1},
	})
	if !errors.Is(err, costingdomain.ErrInvalidIngredient) {
		t.Fatalf("expected ErrInvalidIngredient, got %v", err)
	}
	flour, _ := k.svc.Ingredients.Get(ctx, k.flour.ID)
	if flour.UnitCost != 2 {
		t.Errorf("flour unit cost = %v, want unchanged 2", flour.UnitCost)
	}
}

func TestRecipeService_DeferredRecost(t *testing.T) {
	k := newKitchen(t, false)
	ctx := context.Background()

	if _, err := k.svc.Ingredients.UpdatePrices(ctx, []services.PriceChange{{IngredientID: k.flour.ID, UnitCost: 4}}); err != nil {
		t.Fatalf("update prices: %v", err)
	}

	// Snapshots wait for the recompute pass; the live cost does not.
	pie, _ := k.svc.Recipes.Get(ctx, k.pie.ID)
	if !approx(pie.TotalCost, 4) {
		t.Errorf("stale pie total = %v, want 4", pie.TotalCost)
	}
	live, err := k.svc.Recipes.Cost(ctx, k.pie.ID)
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	if !approx(live.TotalCost, 4.5) {
		t.Errorf("live pie total = %v, want 4.5", live.TotalCost)
	}

	res, err := k.svc.Recipes.RecostDependents(ctx, nil, []uuid.UUID{k.flour.ID})
	if err != nil {
		t.Fatalf("recost: %v", err)
	}
	if len(res.Recosted) != 2 || res.Recosted[0] != k.dough.ID || res.Recosted[1] != k.pie.ID {
		t.Fatalf("recosted = %v, want dough then pie", res.Recosted)
	}
	if len(res.Failed) != 0 {
		t.Errorf("failed = %v", res.Failed)
	}
	pie, _ = k.svc.Recipes.Get(ctx, k.pie.ID)
	if !approx(pie.TotalCost, 4.5) {
		t.Errorf("recosted pie total = %v, want 4.5", pie.TotalCost)
	}
}

func TestRecipeService_Recost(t *testing.T) {
	k := newKitchen(t, false)
	ctx := context.Background()

	if _, err := k.svc.Ingredients.UpdatePrices(ctx, []services.PriceChange{{IngredientID: k.butter.ID, UnitCost: 20}}); err != nil {
		t.Fatalf("update prices: %v", err)
	}
	dough, res, err := k.svc.Recipes.Recost(ctx, k.dough.ID)
	if err != nil {
		t.Fatalf("recost: %v", err)
	}
	if !approx(dough.TotalCost, 3) {
		t.Errorf("dough total = %v, want 3", dough.TotalCost)
	}
	if len(res.Recosted) != 1 || res.Recosted[0] != k.pie.ID {
		t.Errorf("recosted = %v, want only pie", res.Recosted)
	}

	if _, _, err := k.svc.Recipes.Recost(ctx, uuid.New()); !errors.Is(err, costingdomain.ErrRecipeNotFound) {
		t.Errorf("expected ErrRecipeNotFound, got %v", err)
	}
}

func TestRecipeService_Cost(t *testing.T) {
	k := newKitchen(t, true)

	live, err := k.svc.Recipes.Cost(context.Background(), k.pie.ID)
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	if !approx(live.TotalCost, 4) || !approx(live.CostPerPortion, 2) {
		t.Errorf("live = %+v", live.RecipeCost)
	}
	if live.RecipeVersion != k.pie.Version {
		t.Errorf("recipe version = %d, want %d", live.RecipeVersion, k.pie.Version)
	}
	if live.ThresholdsVersion != domainsvcs.DefaultThresholds.Version {
		t.Errorf("thresholds version = %q", live.ThresholdsVersion)
	}
	if live.Cached {
		t.Error("no cache is configured")
	}
	if len(live.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(live.Lines))
	}
}

func TestRecipeService_DeleteGuards(t *testing.T) {
	k := newKitchen(t, true)
	ctx := context.Background()

	if err := k.svc.Recipes.Delete(ctx, k.dough.ID); !errors.Is(err, costingdomain.ErrRecipeInUse) {
		t.Errorf("delete used sub-recipe: expected ErrRecipeInUse, got %v", err)
	}
	if err := k.svc.Ingredients.Delete(ctx, k.flour.ID); !errors.Is(err, costingdomain.ErrIngredientInUse) {
		t.Errorf("delete used ingredient: expected ErrIngredientInUse, got %v", err)
	}
	if err := k.svc.Recipes.Delete(ctx, k.pie.ID); err != nil {
		t.Fatalf("delete pie: %v", err)
	}
	if err := k.svc.Recipes.Delete(ctx, k.dough.ID); err != nil {
		t.Errorf("delete dough after pie: %v", err)
	}
	if _, err := k.svc.Recipes.Get(ctx, k.dough.ID); !errors.Is(err, costingdomain.ErrRecipeNotFound) {
		t.Errorf("expected ErrRecipeNotFound, got %v", err)
	}
}

func TestRecipeService_ListFilters(t *testing.T) {
	k := newKitchen(t, true)
	ctx := context.Background()

	got, err := k.svc.Recipes.List(ctx, repositories.RecipeFilter{Type: models.RecipeTypePreparation})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != k.dough.ID {
		t.Errorf("preparations = %v", got)
	}
	got, _ = k.svc.Recipes.List(ctx, repositories.RecipeFilter{Category: "desserts"})
	if len(got) != 1 || got[0].ID != k.pie.ID {
		t.Errorf("desserts = %v", got)
	}
}

func TestRecipeService_Stats(t *testing.T) {
	k := newKitchen(t, true)

	st, err := k.svc.Recipes.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalRecipes != 2 || st.ActiveRecipes != 2 {
		t.Errorf("recipes = %d/%d", st.TotalRecipes, st.ActiveRecipes)
	}
	if st.TotalIngredients != 3 || st.ActiveIngredients != 3 {
		t.Errorf("ingredients = %d/%d", st.TotalIngredients, st.ActiveIngredients)
	}
	if st.OptimalRecipes != 1 {
		t.Errorf("optimal = %d, want 1", st.OptimalRecipes)
	}
	if !approx(st.AverageCost, 3) {
		t.Errorf("average cost = %v, want 3", st.AverageCost)
	}
	// dough 75% and pie (5-4)/5 = 20%.
	if !approx(st.AverageMargin, 47.5) {
		t.Errorf("average margin = %v, want 47.5", st.AverageMargin)
	}
	if len(st.LowMarginRecipes) != 1 || st.LowMarginRecipes[0].ID != k.pie.ID {
		t.Errorf("low margin = %v, want pie", st.LowMarginRecipes)
	}
	want := []services.CategoryCount{{Category: "bases", Recipes: 1}, {Category: "desserts", Recipes: 1}}
	if len(st.RecipesPerCategory) != len(want) {
		t.Fatalf("categories = %v", st.RecipesPerCategory)
	}
	for i := range want {
		if st.RecipesPerCategory[i] != want[i] {
			t.Errorf("category %d = %v, want %v", i, st.RecipesPerCategory[i], want[i])
		}
	}
}

func TestRecipeService_NegativeMarginIsNotOptimal(t *testing.T) {
	svc := newServices(true)
	ctx := context.Background()

	beef, err := svc.Ingredients.Create(ctx, models.IngredientParams{Name: "Beef", PurchaseUnit: "kg", UnitCost: 40, Active: true})
	if err != nil {
		t.Fatalf("create beef: %v", err)
	}
	// 5 per portion looks cheap against the price, but the whole batch costs 40 for a price of 20.
	stew, err := svc.Recipes.Create(ctx, services.RecipeInput{
		RecipeParams: models.RecipeParams{Name: "Stew", Portions: 8, SellPrice: 20, Active: true},
		Lines:        []services.LineInput{{IngredientID: &beef.ID, Unit: "kg", Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create stew: %v", err)
	}

	if !approx(stew.MarginPercent, -100) {
		t.Errorf("margin = %v, want -100", stew.MarginPercent)
	}
	if !approx(stew.CostRatio, 200) {
		t.Errorf("cost ratio = %v, want 200", stew.CostRatio)
	}
	if stew.Profitability != domainsvcs.ProfitabilityCritical {
		t.Errorf("profitability = %q, want critical", stew.Profitability)
	}

	live, err := svc.Recipes.Cost(ctx, stew.ID)
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	if live.Profitability != domainsvcs.ProfitabilityCritical {
		t.Errorf("live profitability = %q, want critical", live.Profitability)
	}

	st, err := svc.Recipes.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.OptimalRecipes != 0 {
		t.Errorf("optimal = %d, want 0", st.OptimalRecipes)
	}
	if len(st.LowMarginRecipes) != 1 || st.LowMarginRecipes[0].ID != stew.ID {
		t.Errorf("low margin = %v, want stew", st.LowMarginRecipes)
	}
}

func TestRecipeService_StatsEmptyCatalog(t *testing.T) {
	st, err := newServices(true).Recipes.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.AverageCost != 0 || st.AverageMargin != 0 || len(st.LowMarginRecipes) != 0 {
		t.Errorf("stats = %+v", st)
	}
}

func TestLedgerService(t *testing.T) {
	k := newKitchen(t, true)
	ctx := context.Background()

	entry, err := k.svc.Ledger.RecordEntry(ctx, services.EntryInput{RecipeID: k.dough.ID, Kind: models.EntryProduction, Quantity: 10})
	if err != nil {
		t.Fatalf("record entry: %v", err)
	}
	if entry.UnitCostSnapshot.String() != "0.5" || entry.TotalCost.String() != "5" {
		t.Errorf("entry snapshot = %s total = %s", entry.UnitCostSnapshot, entry.TotalCost)
	}

	_, err = k.svc.Ledger.RecordEntry(ctx, services.EntryInput{RecipeID: k.dough.ID, Kind: models.EntryWaste, Quantity: 1})
	if !errors.Is(err, costingdomain.ErrInvalidLedgerEntry) {
		t.Errorf("waste without reason: expected ErrInvalidLedgerEntry, got %v", err)
	}
	_, err = k.svc.Ledger.RecordEntry(ctx, services.EntryInput{RecipeID: uuid.New(), Kind: models.EntrySale, Quantity: 1})
	if !errors.Is(err, costingdomain.ErrRecipeNotFound) {
		t.Errorf("unknown recipe: expected ErrRecipeNotFound, got %v", err)
	}

	m, err := k.svc.Ledger.RecordMovement(ctx, services.MovementInput{IngredientID: k.flour.ID, Kind: models.MovementPurchase, Quantity: 500, Unit: "gram"})
	if err != nil {
		t.Fatalf("record movement: %v", err)
	}
	if m.Unit != "g" || m.TotalCost.String() != "1" {
		t.Errorf("movement unit = %q total = %s", m.Unit, m.TotalCost)
	}
	m, err = k.svc.Ledger.RecordMovement(ctx, services.MovementInput{IngredientID: k.flour.ID, Kind: models.MovementAdjustment, Quantity: 2})
	if err != nil {
		t.Fatalf("record movement: %v", err)
	}
	if m.Unit != "kg" || m.TotalCost.String() != "4" {
		t.Errorf("default unit movement = %q total = %s", m.Unit, m.TotalCost)
	}

	entries, _ := k.svc.Ledger.ListEntries(ctx, "", repositories.QueryOpts{})
	if len(entries) != 1 {
		t.Errorf("entries = %d, want 1", len(entries))
	}
	moves, _ := k.svc.Ledger.ListMovements(ctx, &k.flour.ID, repositories.QueryOpts{})
	if len(moves) != 2 {
		t.Errorf("movements = %d, want 2", len(moves))
	}

	if err := k.svc.Recipes.Delete(ctx, k.pie.ID); err != nil {
		t.Fatalf("delete pie: %v", err)
	}
	if err := k.svc.Recipes.Delete(ctx, k.dough.ID); !errors.Is(err, costingdomain.ErrRecipeInUse) {
		t.Errorf("delete recipe with ledger history: expected ErrRecipeInUse, got %v", err)
	}
}

func TestPricingService_Suggest(t *testing.T) {
	k := newKitchen(t, true)
	ctx := context.Background()

	tests := []struct {
		name    string
		in      services.SuggestInput
		want    float64
		wantErr error
	}{
		{name: "bare cost default margin", in: services.SuggestInput{CostPerPortion: ptr(3.0)}, want: 10},
		{name: "bare cost zero margin", in: services.SuggestInput{CostPerPortion: ptr(3.0), TargetMargin: ptr(0.0)}, want: 3},
		{name: "recipe", in: services.SuggestInput{RecipeID: &k.dough.ID, TargetMargin: ptr(50.0)}, want: 1},
		{name: "margin of 100", in: services.SuggestInput{CostPerPortion: ptr(3.0), TargetMargin: ptr(100.0)}, wantErr: costingdomain.ErrInvalidTargetMargin},
		{name: "negative margin", in: services.SuggestInput{CostPerPortion: ptr(3.0), TargetMargin: ptr(-1.0)}, wantErr: costingdomain.ErrInvalidTargetMargin},
		{name: "nothing to price", in: services.SuggestInput{}, wantErr: costingdomain.ErrInvalidRecipe},
		{name: "unknown recipe", in: services.SuggestInput{RecipeID: ptr(uuid.New())}, wantErr: costingdomain.ErrRecipeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := k.svc.Pricing.Suggest(ctx, tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !approx(got.SuggestedPrice, tt.want) {
				t.Errorf("suggested = %v, want %v", got.SuggestedPrice, tt.want)
			}
		})
	}
}

func TestUnitService(t *testing.T) {
	svc := newServices(true)

	if len(svc.Units.List()) == 0 {
		t.Fatal("expected registered units")
	}
	got, err := svc.Units.Convert(1, "kilo", "g", 0)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if got.From != "kg" || got.To != "g" || !approx(got.Value, 1000) || got.Degraded {
		t.Errorf("convert = %+v", got)
	}
	got, err = svc.Units.Convert(3, "piece", "kg", 0)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !got.Degraded || got.Value != 3 {
		t.Errorf("count to mass = %+v, want degraded passthrough", got)
	}
	if _, err := svc.Units.Convert(1, "furlong", "g", 0); !errors.Is(err, costingdomain.ErrUnknownUnit) {
		t.Errorf("expected ErrUnknownUnit, got %v", err)
	}
}
