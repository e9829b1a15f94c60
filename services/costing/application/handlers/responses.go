package handlers

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/kitchenledger/pkg/httpx"
	appsvcs "github.com/ghuser/kitchenledger/services/costing/application/services"
	"github.com/ghuser/kitchenledger/services/costing/domain/models"
	"github.com/ghuser/kitchenledger/services/costing/domain/repositories"
)

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"recipe not found"`
} // @name ErrorResponse

// IngredientResponse is the JSON form of an ingredient.
type IngredientResponse struct {
	ID           uuid.UUID `json:"id"            example:"123e4567-e89b-12d3-a456-426614174000"`
	Name         string    `json:"name"          example:"Flour"`
	Category     string    `json:"category"      example:"dry goods"`
	PurchaseUnit string    `json:"purchase_unit" example:"kg"`
	UnitCost     float64   `json:"unit_cost"     example:"1.25"`
	Density      float64   `json:"density"       example:"0.59"`
	Supplier     string    `json:"supplier"      example:"Mill & Co"`
	Active       bool      `json:"active"        example:"true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
} // @name IngredientResponse

// LineResponse is one recipe line. Exactly one of ingredient_id and sub_recipe_id is set.
type LineResponse struct {
	ID           uuid.UUID  `json:"id"`
	IngredientID *uuid.UUID `json:"ingredient_id,omitempty"`
	SubRecipeID  *uuid.UUID `json:"sub_recipe_id,omitempty"`
	Unit         string     `json:"unit,omitempty" example:"g"`
	Quantity     float64    `json:"quantity"       example:"250"`
	Cost         float64    `json:"cost"           example:"0.31"`
	Name         string     `json:"name"           example:"Flour"`
} // @name LineResponse

// StepDTO is one preparation step, in requests and responses.
type StepDTO struct {
	Title           string `json:"title"            validate:"required,max=255" example:"Knead"`
	Description     string `json:"description"      example:"Knead for ten minutes until smooth"`
	DurationMinutes int    `json:"duration_minutes" validate:"gte=0"          example:"10"`
} // @name Step

// RecipeResponse is a recipe with its cached totals and classification.
// cost_ratio is omitted when the sell price is zero.
type RecipeResponse struct {
	ID                uuid.UUID      `json:"id"`
	Name              string         `json:"name"               example:"Apple pie"`
	Description       string         `json:"description"`
	Category          string         `json:"category"           example:"desserts"`
	Type              string         `json:"type"               example:"dish"`
	Portions          int            `json:"portions"           example:"8"`
	SellPrice         float64        `json:"sell_price"         example:"4.5"`
	PrepMinutes       int            `json:"prep_minutes"       example:"45"`
	Steps             []StepDTO      `json:"steps"`
	Lines             []LineResponse `json:"lines"`
	TotalCost         float64        `json:"total_cost"         example:"9.6"`
	CostPerPortion    float64        `json:"cost_per_portion"   example:"1.2"`
	MarginPercent     float64        `json:"margin_percent"     example:"73.3"`
	CostRatio         *float64       `json:"cost_ratio,omitempty" example:"26.7"`
	Profitability     string         `json:"profitability"      example:"optimal"`
	ThresholdsVersion string         `json:"thresholds_version" example:"cost-ratio-v1"`
	Active            bool           `json:"active"`
	Version           int            `json:"version"            example:"3"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
} // @name RecipeResponse

func toIngredientResponse(ing *models.Ingredient) IngredientResponse {
	return IngredientResponse{
		ID:           ing.ID,
		Name:         ing.Name.String(),
		Category:     ing.Category,
		PurchaseUnit: ing.PurchaseUnit,
		UnitCost:     ing.UnitCost,
		Density:      ing.Density,
		Supplier:     ing.Supplier,
		Active:       ing.Active,
		CreatedAt:    ing.CreatedAt,
		UpdatedAt:    ing.UpdatedAt,
	}
}

func toRecipeResponse(v *appsvcs.RecipeView) RecipeResponse {
	r := v.Recipe
	resp := RecipeResponse{
		ID:                r.ID,
		Name:              r.Name.String(),
		Description:       r.Description,
		Category:          r.Category,
		Type:              string(r.Type),
		Portions:          r.Portions,
		SellPrice:         r.SellPrice,
		PrepMinutes:       r.PrepMinutes,
		Steps:             make([]StepDTO, len(r.Steps)),
		Lines:             make([]LineResponse, len(r.Lines)),
		TotalCost:         r.TotalCost,
		CostPerPortion:    v.CostPerPortion,
		MarginPercent:     r.MarginPercent,
		CostRatio:         finite(v.CostRatio),
		Profitability:     string(v.Profitability),
		ThresholdsVersion: v.ThresholdsVersion,
		Active:            r.Active,
		Version:           r.Version,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
	for i, s := range r.Steps {
		resp.Steps[i] = StepDTO{Title: s.Title, Description: s.Description, DurationMinutes: s.DurationMinutes}
	}
	for i, l := range r.Lines {
		ingID, subID, unit := l.Refs()
		resp.Lines[i] = LineResponse{
			ID:           l.ID,
			IngredientID: ingID,
			SubRecipeID:  subID,
			Unit:         unit,
			Quantity:     l.Quantity,
			Cost:         l.ComputedCost,
			Name:         l.DisplayName,
		}
	}
	return resp
}

// finite returns nil for NaN and infinities, which JSON cannot carry.
func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// pathUUID parses the {id} URL parameter, writing 400 when it is not a UUID.
func pathUUID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// queryOpts reads limit and offset, writing 400 when either is not a
// non-negative integer.
func queryOpts(w http.ResponseWriter, r *http.Request) (repositories.QueryOpts, bool) {
	var opts repositories.QueryOpts
	for _, p := range []struct {
		name string
		dst  *int
	}{{"limit", &opts.Limit}, {"offset", &opts.Offset}} {
		raw := r.URL.Query().Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httpx.JSONError(w, http.StatusBadRequest, "invalid "+p.name)
			return opts, false
		}
		*p.dst = n
	}
	return opts, true
}
