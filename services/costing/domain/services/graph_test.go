package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/ghuser/kitchenledger/services/costing/domain"
	"github.com/ghuser/kitchenledger/services/costing/domain/models"
)

func ids(rs []*models.Recipe) []uuid.UUID {
	out := make([]uuid.UUID, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func indexOf(list []uuid.UUID, id uuid.UUID) int {
	for i, v := range list {
		if v == id {
			return i
		}
	}
	return -1
}

func TestRecostOrder_IngredientChange(t *testing.T) {
	tomato := uuid.New()
	salt := uuid.New()

	sauce := recipe("Sauce", 4, 0, models.NewIngredientLine(tomato, "kg", 1))
	pizza := recipe("Pizza", 1, 80, models.NewSubRecipeLine(sauce.ID, 1))
	lasagna := recipe("Lasagna", 1, 90, models.NewSubRecipeLine(sauce.ID, 2), models.NewSubRecipeLine(pizza.ID, 1))
	fries := recipe("Fries", 1, 30, models.NewIngredientLine(salt, "g", 5))

	// input order deliberately puts users before their sub-recipes
	order, err := RecostOrder([]*models.Recipe{lasagna, fries, pizza, sauce}, nil, []uuid.UUID{tomato})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := ids(order)
	if len(got) != 3 {
		t.Fatalf("expected sauce, pizza, lasagna; got %v", got)
	}
	if indexOf(got, fries.ID) != -1 {
		t.Fatal("fries does not use tomato")
	}
	if !(indexOf(got, sauce.ID) < indexOf(got, pizza.ID) && indexOf(got, pizza.ID) < indexOf(got, lasagna.ID)) {
		t.Fatalf("not topologically ordered: %v", got)
	}
}

func TestRecostOrder_RecipeChangeExcludesChanged(t *testing.T) {
	base := recipe("Base", 2, 0)
	mid := recipe("Mid", 1, 0, models.NewSubRecipeLine(base.ID, 1))
	top := recipe("Top", 1, 10, models.NewSubRecipeLine(mid.ID, 1))
	other := recipe("Other", 1, 10)

	order, err := RecostOrder([]*models.Recipe{top, other, mid, base}, []uuid.UUID{base.ID}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := ids(order)
	if len(got) != 2 || got[0] != mid.ID || got[1] != top.ID {
		t.Fatalf("expected [mid top], got %v", got)
	}
}

func TestRecostOrder_NothingAffected(t *testing.T) {
	r := recipe("Solo", 1, 10)
	order, err := RecostOrder([]*models.Recipe{r}, nil, []uuid.UUID{uuid.New()})
	if err != nil || len(order) != 0 {
		t.Fatalf("expected empty order, got %v (%v)", ids(order), err)
	}
}

func TestRecostOrder_Cycle(t *testing.T) {
	ing := uuid.New()
	a := recipe("A", 1, 0, models.NewIngredientLine(ing, "g", 1))
	b := recipe("B", 1, 0)
	c := recipe("C", 1, 0)
	a.Lines = append(a.Lines, models.NewSubRecipeLine(c.ID, 1))
	b.Lines = []models.LineItem{models.NewSubRecipeLine(a.ID, 1)}
	c.Lines = []models.LineItem{models.NewSubRecipeLine(b.ID, 1)}

	_, err := RecostOrder([]*models.Recipe{a, b, c}, nil, []uuid.UUID{ing})
	var ce *domain.CyclicRecipeReferenceError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CyclicRecipeReferenceError, got %v", err)
	}
	if len(ce.Path) != 4 || ce.Path[0] != ce.Path[3] {
		t.Fatalf("expected closed path of three recipes, got %v", ce.Path)
	}
}

func TestCheckAcyclic(t *testing.T) {
	a := recipe("A", 1, 0)
	b := recipe("B", 1, 0, models.NewSubRecipeLine(a.ID, 1))
	cat := NewArena(nil, []*models.Recipe{a, b})

	if err := CheckAcyclic(cat, b); err != nil {
		t.Fatalf("b -> a is acyclic: %v", err)
	}

	edited := a.Clone()
	edited.Lines = []models.LineItem{models.NewSubRecipeLine(b.ID, 1)}
	err := CheckAcyclic(cat, edited)
	var ce *domain.CyclicRecipeReferenceError
	if !errors.As(err, &ce) {
		t.Fatalf("a -> b -> a must be rejected, got %v", err)
	}
	if ce.Path[0] != a.ID || ce.Path[len(ce.Path)-1] != a.ID {
		t.Fatalf("path should start and end at a: %v", ce.Path)
	}

	dangling := recipe("D", 1, 0, models.NewSubRecipeLine(uuid.New(), 1))
	if err := CheckAcyclic(cat, dangling); err != nil {
		t.Fatalf("unresolvable references are not cycles: %v", err)
	}
}
