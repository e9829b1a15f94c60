package services

import (
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/ghuser/kitchenledger/services/costing/domain"
	"github.com/ghuser/kitchenledger/services/costing/domain/models"
	"github.com/ghuser/kitchenledger/services/costing/domain/units"
)

func newAggregator() *Aggregator {
	return NewAggregator(NewCalculator(units.NewConverter(units.Default())))
}

func approx(t *testing.T, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func ingredient(name, unit string, cost, density float64) *models.Ingredient {
	return &models.Ingredient{ID: uuid.New(), Name: models.Name(name), PurchaseUnit: unit, UnitCost: cost, Density: density, Active: true}
}

func recipe(name string, portions int, price float64, lines ...models.LineItem) *models.Recipe {
	return &models.Recipe{ID: uuid.New(), Name: models.Name(name), Portions: portions, SellPrice: price, Lines: lines, Version: 1}
}

func TestCalculator_LineCost(t *testing.T) {
	calc := NewCalculator(units.NewConverter(units.Default()))

	t.Run("olive oil by the milliliter", func(t *testing.T) {
		lc, err := calc.LineCost(250, "ml", "l", 85.50, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		approx(t, lc.Cost, 21.375)
	})

	t.Run("flour by volume through density", func(t *testing.T) {
		lc, err := calc.LineCost(500, "ml", "kg", 20, 0.6)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		approx(t, lc.Cost, 6)
	})

	t.Run("count against mass is degraded", func(t *testing.T) {
		lc, err := calc.LineCost(2, "piece", "kg", 95, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !lc.Degraded {
			t.Fatal("expected degraded result")
		}
		approx(t, lc.Cost, 190)
	})

	t.Run("unknown unit", func(t *testing.T) {
		if _, err := calc.LineCost(1, "stone", "kg", 1, 0); !errors.Is(err, domain.ErrUnknownUnit) {
			t.Fatalf("expected ErrUnknownUnit, got %v", err)
		}
	})

	t.Run("non-negative for non-negative inputs", func(t *testing.T) {
		for _, q := range []float64{0, 0.5, 10} {
			lc, err := calc.LineCost(q, "g", "lb", 3, 0)
			if err != nil || lc.Cost < 0 {
				t.Fatalf("q=%v: cost %v err %v", q, lc.Cost, err)
			}
		}
	})
}

func TestAggregate_IngredientLines(t *testing.T) {
	oil := ingredient("Olive Oil", "l", 85.50, 0)
	flour := ingredient("Flour", "kg", 20, 0.6)
	r := recipe("Focaccia", 2, 100,
		models.NewIngredientLine(oil.ID, "ml", 250),
		models.NewIngredientLine(flour.ID, "ml", 500),
	)
	cat := NewArena([]*models.Ingredient{oil, flour}, []*models.Recipe{r})

	cost, err := newAggregator().Aggregate(cat, r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	approx(t, cost.TotalCost, 27.375)
	approx(t, cost.MarginPercent, 72.625)
	approx(t, cost.CostPerPortion, 13.6875)
	if len(cost.Lines) != 2 || cost.Lines[0].Name != "Olive Oil" || cost.Lines[0].LineID != r.Lines[0].ID {
		t.Fatalf("unexpected lines: %+v", cost.Lines)
	}
	if cost.Degraded || cost.DegradedLines() != 0 {
		t.Fatal("no line should be degraded")
	}
}

func TestAggregate_SubRecipeLine(t *testing.T) {
	sauce := recipe("Tomato Sauce", 8, 0)
	sauce.TotalCost = 40
	dish := recipe("Pasta", 1, 40, models.NewSubRecipeLine(sauce.ID, 2))
	cat := NewArena(nil, []*models.Recipe{sauce, dish})

	cost, err := newAggregator().Aggregate(cat, dish)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	approx(t, cost.Lines[0].Cost, 10)
	approx(t, cost.TotalCost, 10)
	approx(t, cost.MarginPercent, 75)
	if cost.Lines[0].Name != "(Sub) Tomato Sauce" {
		t.Fatalf("unexpected name %q", cost.Lines[0].Name)
	}
}

func TestAggregate_ZeroPortionSubRecipe(t *testing.T) {
	sauce := recipe("Broken Sauce", 0, 0)
	sauce.TotalCost = 40
	dish := recipe("Pasta", 1, 40, models.NewSubRecipeLine(sauce.ID, 2))
	cat := NewArena(nil, []*models.Recipe{sauce, dish})

	_, err := newAggregator().Aggregate(cat, dish)
	var pe *domain.InvalidPortionCountError
	if !errors.As(err, &pe) {
		t.Fatalf("expected InvalidPortionCountError, got %v", err)
	}
	if pe.RecipeID != sauce.ID {
		t.Fatalf("error names recipe %s, want %s", pe.RecipeID, sauce.ID)
	}
}

func TestAggregate_EdgeCases(t *testing.T) {
	agg := newAggregator()

	t.Run("empty recipe costs zero", func(t *testing.T) {
		r := recipe("Water", 1, 10)
		cost, err := agg.Aggregate(NewArena(nil, nil), r)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cost.TotalCost != 0 || cost.MarginPercent != 100 {
			t.Fatalf("unexpected cost: %+v", cost)
		}
	})

	t.Run("zero price gives zero margin", func(t *testing.T) {
		salt := ingredient("Salt", "kg", 15, 0)
		r := recipe("Staff meal", 1, 0, models.NewIngredientLine(salt.ID, "g", 10))
		cost, err := agg.Aggregate(NewArena([]*models.Ingredient{salt}, nil), r)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cost.MarginPercent != 0 || math.IsNaN(cost.MarginPercent) || math.IsInf(cost.MarginPercent, 0) {
			t.Fatalf("margin must be exactly 0, got %v", cost.MarginPercent)
		}
	})

	t.Run("malformed line", func(t *testing.T) {
		r := recipe("Mystery", 1, 10, models.LineItem{ID: uuid.New(), Quantity: 1})
		if _, err := agg.Aggregate(NewArena(nil, nil), r); !errors.Is(err, domain.ErrMalformedLineItem) {
			t.Fatalf("expected ErrMalformedLineItem, got %v", err)
		}
	})

	t.Run("missing ingredient", func(t *testing.T) {
		r := recipe("Ghost", 1, 10, models.NewIngredientLine(uuid.New(), "g", 1))
		if _, err := agg.Aggregate(NewArena(nil, nil), r); !errors.Is(err, domain.ErrIngredientNotFound) {
			t.Fatalf("expected ErrIngredientNotFound, got %v", err)
		}
	})

	t.Run("missing sub-recipe", func(t *testing.T) {
		r := recipe("Ghost", 1, 10, models.NewSubRecipeLine(uuid.New(), 1))
		if _, err := agg.Aggregate(NewArena(nil, nil), r); !errors.Is(err, domain.ErrRecipeNotFound) {
			t.Fatalf("expected ErrRecipeNotFound, got %v", err)
		}
	})

	t.Run("degraded line is flagged", func(t *testing.T) {
		eggs := ingredient("Eggs", "dozen", 36, 0)
		flour := ingredient("Flour", "kg", 20, 0)
		r := recipe("Batter", 1, 10,
			models.NewIngredientLine(eggs.ID, "g", 100),
			models.NewIngredientLine(flour.ID, "g", 100),
		)
		cost, err := agg.Aggregate(NewArena([]*models.Ingredient{eggs, flour}, nil), r)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !cost.Degraded || cost.DegradedLines() != 1 || !cost.Lines[0].Degraded {
			t.Fatalf("expected exactly the eggs line degraded: %+v", cost)
		}
	})
}

func TestAggregate_SnapshotVersusDeep(t *testing.T) {
	tomato := ingredient("Roma Tomato", "kg", 28.50, 0)
	sauce := recipe("Tomato Sauce", 4, 0, models.NewIngredientLine(tomato.ID, "kg", 2))
	sauce.TotalCost = 10 // stale snapshot
	dish := recipe("Pasta", 1, 60, models.NewSubRecipeLine(sauce.ID, 1))
	cat := NewArena([]*models.Ingredient{tomato}, []*models.Recipe{sauce, dish})
	agg := newAggregator()

	snap, err := agg.Aggregate(cat, dish)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	approx(t, snap.TotalCost, 2.5)

	deep, err := agg.AggregateDeep(cat, dish)
	if err != nil {
		t.Fatalf("deep: %v", err)
	}
	approx(t, deep.TotalCost, 57.0/4)
}

func TestAggregateDeep_SharedSubRecipeAndNesting(t *testing.T) {
	salt := ingredient("Salt", "kg", 15, 0)
	stock := recipe("Stock", 10, 0, models.NewIngredientLine(salt.ID, "kg", 2))
	sauce := recipe("Sauce", 5, 0, models.NewSubRecipeLine(stock.ID, 5))
	dish := recipe("Plate", 1, 50,
		models.NewSubRecipeLine(sauce.ID, 1),
		models.NewSubRecipeLine(stock.ID, 2),
	)
	cat := NewArena([]*models.Ingredient{salt}, []*models.Recipe{stock, sauce, dish})

	cost, err := newAggregator().AggregateDeep(cat, dish)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// stock = 30 (3/portion), sauce = 15 (3/portion), plate = 3 + 6
	approx(t, cost.TotalCost, 9)
}

func TestAggregateDeep_Cycle(t *testing.T) {
	a := recipe("A", 1, 10)
	b := recipe("B", 1, 10)
	a.Lines = []models.LineItem{models.NewSubRecipeLine(b.ID, 1)}
	b.Lines = []models.LineItem{models.NewSubRecipeLine(a.ID, 1)}
	cat := NewArena(nil, []*models.Recipe{a, b})

	_, err := newAggregator().AggregateDeep(cat, a)
	var ce *domain.CyclicRecipeReferenceError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CyclicRecipeReferenceError, got %v", err)
	}
	if len(ce.Path) != 3 || ce.Path[0] != a.ID || ce.Path[1] != b.ID || ce.Path[2] != a.ID {
		t.Fatalf("unexpected path %v", ce.Path)
	}
}

func TestApply(t *testing.T) {
	oil := ingredient("Olive Oil", "l", 85.50, 0)
	r := recipe("Dressing", 1, 50, models.NewIngredientLine(oil.ID, "ml", 250))
	cat := NewArena([]*models.Ingredient{oil}, nil)

	cost, err := newAggregator().Aggregate(cat, r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Apply(r, cost)
	approx(t, r.TotalCost, 21.375)
	approx(t, r.Lines[0].ComputedCost, 21.375)
	approx(t, r.MarginPercent, Margin(50, 21.375))
	if r.Lines[0].DisplayName != "Olive Oil" {
		t.Fatalf("display name snapshot: %q", r.Lines[0].DisplayName)
	}
}

func TestDisplayName_Fallbacks(t *testing.T) {
	cat := NewArena(nil, nil)
	if got := DisplayName(cat, models.NewIngredientLine(uuid.New(), "g", 1)); got != DeletedIngredientName {
		t.Fatalf("got %q", got)
	}
	if got := DisplayName(cat, models.NewSubRecipeLine(uuid.New(), 1)); got != UnknownSubRecipeName {
		t.Fatalf("got %q", got)
	}
}
