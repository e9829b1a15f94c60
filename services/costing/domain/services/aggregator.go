package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/kitchenledger/services/costing/domain"
	"github.com/ghuser/kitchenledger/services/costing/domain/models"
)

// Display names used when a line's reference no longer resolves.
const (
	DeletedIngredientName = "Deleted ingredient"
	UnknownSubRecipeName  = "(Sub) Unknown"
	subRecipePrefix       = "(Sub) "
)

// RecipeCost is the costing result for one recipe.
type RecipeCost struct {
	RecipeID       uuid.UUID  `json:"recipe_id"`
	TotalCost      float64    `json:"total_cost"`
	MarginPercent  float64    `json:"margin_percent"`
	CostPerPortion float64    `json:"cost_per_portion"`
	Lines          []LineCost `json:"lines"`
	Degraded       bool       `json:"degraded"`
}

// DegradedLines counts lines priced without a unit conversion.
func (c RecipeCost) DegradedLines() int {
	n := 0
	for _, l := range c.Lines {
		if l.Degraded {
			n++
		}
	}
	return n
}

// Margin returns (sellPrice-totalCost)/sellPrice*100, or 0 when sellPrice <= 0.
func Margin(sellPrice, totalCost float64) float64 {
	if sellPrice <= 0 {
		return 0
	}
	return (sellPrice - totalCost) / sellPrice * 100
}

// Aggregator sums line costs into recipe costs.
type Aggregator struct {
	calc *Calculator
}

// NewAggregator returns an Aggregator pricing ingredient lines with calc.
func NewAggregator(calc *Calculator) *Aggregator {
	return &Aggregator{calc: calc}
}

// Aggregate costs r with sub-recipes contributing their cached TotalCost.
// This is the recompute-on-save contract: a sub-recipe edited after r was
// saved is not reflected until r is costed again.
func (a *Aggregator) Aggregate(cat Catalog, r *models.Recipe) (RecipeCost, error) {
	return a.aggregate(cat, r, func(sub *models.Recipe) (float64, error) {
		return sub.TotalCost, nil
	})
}

// AggregateDeep costs r recomputing every sub-recipe from its own lines.
// Shared sub-recipes are costed once. A reference cycle fails with
// *domain.CyclicRecipeReferenceError.
func (a *Aggregator) AggregateDeep(cat Catalog, r *models.Recipe) (RecipeCost, error) {
	d := &deepRun{
		agg:     a,
		cat:     cat,
		memo:    make(map[uuid.UUID]float64),
		onStack: make(map[uuid.UUID]bool),
	}
	return d.cost(r)
}

type deepRun struct {
	agg     *Aggregator
	cat     Catalog
	memo    map[uuid.UUID]float64
	stack   []uuid.UUID
	onStack map[uuid.UUID]bool
}

func (d *deepRun) cost(r *models.Recipe) (RecipeCost, error) {
	if d.onStack[r.ID] {
		return RecipeCost{}, d.cycle(r.ID)
	}
	d.stack = append(d.stack, r.ID)
	d.onStack[r.ID] = true
	defer func() {
		d.stack = d.stack[:len(d.stack)-1]
		delete(d.onStack, r.ID)
	}()

	res, err := d.agg.aggregate(d.cat, r, d.total)
	if err != nil {
		return RecipeCost{}, err
	}
	d.memo[r.ID] = res.TotalCost
	return res, nil
}

func (d *deepRun) total(sub *models.Recipe) (float64, error) {
	if v, ok := d.memo[sub.ID]; ok {
		return v, nil
	}
	res, err := d.cost(sub)
	if err != nil {
		return 0, err
	}
	return res.TotalCost, nil
}

func (d *deepRun) cycle(id uuid.UUID) error {
	start := 0
	for i, s := range d.stack {
		if s == id {
			start = i
			break
		}
	}
	path := append(append([]uuid.UUID(nil), d.stack[start:]...), id)
	return &domain.CyclicRecipeReferenceError{Path: path}
}

func (a *Aggregator) aggregate(cat Catalog, r *models.Recipe, subTotal func(*models.Recipe) (float64, error)) (RecipeCost, error) {
	out := RecipeCost{
		RecipeID: r.ID,
		Lines:    make([]LineCost, 0, len(r.Lines)),
	}
	for _, l := range r.Lines {
		lc, err := a.lineCost(cat, l, subTotal)
		if err != nil {
			return RecipeCost{}, fmt.Errorf("recipe %s: %w", r.ID, err)
		}
		out.TotalCost += lc.Cost
		out.Degraded = out.Degraded || lc.Degraded
		out.Lines = append(out.Lines, lc)
	}
	out.MarginPercent = Margin(r.SellPrice, out.TotalCost)
	if r.Portions > 0 {
		out.CostPerPortion = out.TotalCost / float64(r.Portions)
	}
	return out, nil
}

func (a *Aggregator) lineCost(cat Catalog, l models.LineItem, subTotal func(*models.Recipe) (float64, error)) (LineCost, error) {
	switch src := l.Source.(type) {
	case models.IngredientSource:
		ing, ok := cat.Ingredient(src.IngredientID)
		if !ok {
			return LineCost{}, fmt.Errorf("line %s: %w: %s", l.ID, domain.ErrIngredientNotFound, src.IngredientID)
		}
		lc, err := a.calc.LineCost(l.Quantity, src.Unit, ing.PurchaseUnit, ing.UnitCost, ing.Density)
		if err != nil {
			return LineCost{}, fmt.Errorf("line %s: %w", l.ID, err)
		}
		lc.LineID = l.ID
		lc.Name = ing.Name.String()
		return lc, nil

	case models.SubRecipeSource:
		sub, ok := cat.Recipe(src.RecipeID)
		if !ok {
			return LineCost{}, fmt.Errorf("line %s: %w: %s", l.ID, domain.ErrRecipeNotFound, src.RecipeID)
		}
		if sub.Portions <= 0 {
			return LineCost{}, &domain.InvalidPortionCountError{RecipeID: sub.ID, Portions: sub.Portions}
		}
		total, err := subTotal(sub)
		if err != nil {
			return LineCost{}, err
		}
		return LineCost{
			LineID: l.ID,
			Name:   subRecipePrefix + sub.Name.String(),
			Cost:   l.Quantity * (total / float64(sub.Portions)),
		}, nil

	default:
		return LineCost{}, &domain.MalformedLineItemError{LineID: l.ID, Reason: "no source"}
	}
}

// Apply writes cost into r's cached totals and each line's cost and name snapshot.
// Lines are matched by id; cost must come from costing r.
func Apply(r *models.Recipe, cost RecipeCost) {
	byID := make(map[uuid.UUID]LineCost, len(cost.Lines))
	for _, lc := range cost.Lines {
		byID[lc.LineID] = lc
	}
	for i := range r.Lines {
		if lc, ok := byID[r.Lines[i].ID]; ok {
			r.Lines[i].ComputedCost = lc.Cost
			r.Lines[i].DisplayName = lc.Name
		}
	}
	r.TotalCost = cost.TotalCost
	r.MarginPercent = cost.MarginPercent
}

// DisplayName resolves a line's name against cat, falling back to the
// placeholders for references that no longer exist.
func DisplayName(cat Catalog, l models.LineItem) string {
	switch src := l.Source.(type) {
	case models.IngredientSource:
		if ing, ok := cat.Ingredient(src.IngredientID); ok {
			return ing.Name.String()
		}
		return DeletedIngredientName
	case models.SubRecipeSource:
		if sub, ok := cat.Recipe(src.RecipeID); ok {
			return subRecipePrefix + sub.Name.String()
		}
		return UnknownSubRecipeName
	default:
		return ""
	}
}
