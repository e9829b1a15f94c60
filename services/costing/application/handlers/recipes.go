package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/kitchenledger/pkg/errhttp"
	"github.com/ghuser/kitchenledger/pkg/httpx"
	pkgvalidator "github.com/ghuser/kitchenledger/pkg/validator"
	appsvcs "github.com/ghuser/kitchenledger/services/costing/application/services"
	"github.com/ghuser/kitchenledger/services/costing/domain/models"
	"github.com/ghuser/kitchenledger/services/costing/domain/repositories"
)

// LineRequest is one recipe line. Set exactly one of ingredient_id and
// sub_recipe_id. Sub-recipe quantities count portions and take no unit.
type LineRequest struct {
	ID           *uuid.UUID `json:"id,omitempty"`
	IngredientID *uuid.UUID `json:"ingredient_id,omitempty"`
	SubRecipeID  *uuid.UUID `json:"sub_recipe_id,omitempty"`
	Unit         string     `json:"unit"     validate:"required_with=IngredientID" example:"g"`
	Quantity     float64    `json:"quantity" validate:"gt=0"                       example:"250"`
} // @name LineRequest

// RecipeRequest is the request body for creating a recipe.
type RecipeRequest struct {
	Name        string        `json:"name"         validate:"required,min=1,max=255" example:"Apple pie"`
	Description string        `json:"description"  validate:"max=2000"`
	Category    string        `json:"category"     validate:"max=100"                example:"desserts"`
	Type        string        `json:"type"         validate:"omitempty,oneof=dish preparation" example:"dish"`
	Portions    int           `json:"portions"     validate:"gte=1"                  example:"8"`
	SellPrice   float64       `json:"sell_price"   validate:"gte=0"                  example:"4.5"`
	PrepMinutes int           `json:"prep_minutes" validate:"gte=0"                  example:"45"`
	Steps       []StepDTO     `json:"steps"        validate:"dive"`
	Lines       []LineRequest `json:"lines"        validate:"dive"`
	Active      *bool         `json:"active"       example:"true"`
} // @name RecipeRequest

// UpdateRecipeRequest replaces a recipe read at Version.
type UpdateRecipeRequest struct {
	RecipeRequest
	Version int `json:"version" validate:"gte=1" example:"3"`
} // @name UpdateRecipeRequest

func (req *RecipeRequest) input() appsvcs.RecipeInput {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	in := appsvcs.RecipeInput{
		RecipeParams: models.RecipeParams{
			Name:        req.Name,
			Description: req.Description,
			Category:    req.Category,
			Type:        models.RecipeType(req.Type),
			Portions:    req.Portions,
			SellPrice:   req.SellPrice,
			PrepMinutes: req.PrepMinutes,
			Steps:       make([]models.Step, len(req.Steps)),
			Active:      active,
		},
		Lines: make([]appsvcs.LineInput, len(req.Lines)),
	}
	for i, s := range req.Steps {
		in.Steps[i] = models.Step{Title: s.Title, Description: s.Description, DurationMinutes: s.DurationMinutes}
	}
	for i, l := range req.Lines {
		in.Lines[i] = appsvcs.LineInput{
			ID:           l.ID,
			IngredientID: l.IngredientID,
			SubRecipeID:  l.SubRecipeID,
			Unit:         l.Unit,
			Quantity:     l.Quantity,
		}
	}
	return in
}

// LineCostResponse is one line of a live cost breakdown.
type LineCostResponse struct {
	LineID   uuid.UUID `json:"line_id"`
	Name     string    `json:"name"     example:"(Sub) Pie dough"`
	Cost     float64   `json:"cost"     example:"1.8"`
	Degraded bool      `json:"degraded" example:"false"`
} // @name LineCostResponse

// CostResponse is the live cost of a recipe. degraded reports that at least
// one line was priced without a unit conversion.
type CostResponse struct {
	RecipeID          uuid.UUID          `json:"recipe_id"`
	RecipeVersion     int                `json:"recipe_version"     example:"3"`
	TotalCost         float64            `json:"total_cost"         example:"9.6"`
	CostPerPortion    float64            `json:"cost_per_portion"   example:"1.2"`
	MarginPercent     float64            `json:"margin_percent"     example:"73.3"`
	SellPrice         float64            `json:"sell_price"         example:"4.5"`
	Profitability     string             `json:"profitability"      example:"optimal"`
	ThresholdsVersion string             `json:"thresholds_version" example:"cost-ratio-v1"`
	Degraded          bool               `json:"degraded"`
	Lines             []LineCostResponse `json:"lines"`
	ComputedAt        time.Time          `json:"computed_at"`
	Cached            bool               `json:"cached"`
} // @name CostResponse

// RecostResponse reports a recipe recomputed with its dependents.
type RecostResponse struct {
	Recipe   RecipeResponse `json:"recipe"`
	Recosted []uuid.UUID    `json:"recosted"`
	Failed   []uuid.UUID    `json:"failed"`
} // @name RecostResponse

// CategoryCountResponse is the number of recipes in one category.
type CategoryCountResponse struct {
	Category string `json:"category" example:"desserts"`
	Recipes  int    `json:"recipes"  example:"12"`
} // @name CategoryCountResponse

// LowMarginResponse is a recipe under the margin floor.
type LowMarginResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"           example:"Lobster roll"`
	MarginPercent float64   `json:"margin_percent" example:"31.5"`
} // @name LowMarginResponse

// StatsResponse is the dashboard summary.
type StatsResponse struct {
	TotalRecipes       int                     `json:"total_recipes"        example:"40"`
	ActiveRecipes      int                     `json:"active_recipes"       example:"35"`
	TotalIngredients   int                     `json:"total_ingredients"    example:"120"`
	ActiveIngredients  int                     `json:"active_ingredients"   example:"110"`
	OptimalRecipes     int                     `json:"optimal_recipes"      example:"22"`
	AverageCost        float64                 `json:"average_cost"         example:"6.4"`
	AverageMargin      float64                 `json:"average_margin"       example:"64.2"`
	LowMarginPercent   float64                 `json:"low_margin_percent"   example:"50"`
	RecipesPerCategory []CategoryCountResponse `json:"recipes_per_category"`
	LowMarginRecipes   []LowMarginResponse     `json:"low_margin_recipes"`
} // @name StatsResponse

// ListRecipesHandler handles GET /recipes.
type ListRecipesHandler struct {
	svc *appsvcs.Services
}

// NewListRecipesHandler returns a ListRecipesHandler.
func NewListRecipesHandler(svc *appsvcs.Services) *ListRecipesHandler {
	return &ListRecipesHandler{svc: svc}
}

// Execute lists recipes.
//
//	@Summary	List recipes
//	@Tags		recipes
//	@Produce	json
//	@Param		category	query		string	false	"Category"
//	@Param		type		query		string	false	"dish or preparation"
//	@Param		limit		query		int		false	"Page size"
//	@Param		offset		query		int		false	"Records to skip"
//	@Success	200			{array}		RecipeResponse
//	@Failure	400			{object}	ErrorResponse
//	@Router		/recipes [get]
func (h *ListRecipesHandler) Execute(w http.ResponseWriter, r *http.Request) {
	opts, ok := queryOpts(w, r)
	if !ok {
		return
	}
	typ := models.RecipeType(r.URL.Query().Get("type"))
	if typ != "" && typ != models.RecipeTypeDish && typ != models.RecipeTypePreparation {
		httpx.JSONError(w, http.StatusBadRequest, "invalid type")
		return
	}
	views, err := h.svc.Recipes.List(r.Context(), repositories.RecipeFilter{
		Category:  r.URL.Query().Get("category"),
		Type:      typ,
		QueryOpts: opts,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	out := make([]RecipeResponse, len(views))
	for i, v := range views {
		out[i] = toRecipeResponse(v)
	}
	httpx.JSON(w, http.StatusOK, out)
}

// PostRecipeHandler handles POST /recipes.
type PostRecipeHandler struct {
	svc *appsvcs.Services
}

// NewPostRecipeHandler returns a PostRecipeHandler.
func NewPostRecipeHandler(svc *appsvcs.Services) *PostRecipeHandler {
	return &PostRecipeHandler{svc: svc}
}

// Execute creates a recipe and costs it.
//
//	@Summary		Create recipe
//	@Description	Lines may reference ingredients or other recipes; totals are computed on save
//	@Tags			recipes
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RecipeRequest	true	"Recipe"
//	@Success		201		{object}	RecipeResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/recipes [post]
func (h *PostRecipeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[RecipeRequest](w, r)
	if !ok {
		return
	}
	view, err := h.svc.Recipes.Create(r.Context(), req.input())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toRecipeResponse(view))
}

// GetRecipeHandler handles GET /recipes/{id}.
type GetRecipeHandler struct {
	svc *appsvcs.Services
}

// NewGetRecipeHandler returns a GetRecipeHandler.
func NewGetRecipeHandler(svc *appsvcs.Services) *GetRecipeHandler {
	return &GetRecipeHandler{svc: svc}
}

// Execute fetches one recipe with its cached totals.
//
//	@Summary	Get recipe
//	@Tags		recipes
//	@Produce	json
//	@Param		id	path		string	true	"Recipe ID"
//	@Success	200	{object}	RecipeResponse
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/recipes/{id} [get]
func (h *GetRecipeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	view, err := h.svc.Recipes.Get(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toRecipeResponse(view))
}

// PutRecipeHandler handles PUT /recipes/{id}.
type PutRecipeHandler struct {
	svc *appsvcs.Services
}

// NewPutRecipeHandler returns a PutRecipeHandler.
func NewPutRecipeHandler(svc *appsvcs.Services) *PutRecipeHandler {
	return &PutRecipeHandler{svc: svc}
}

// Execute replaces a recipe, refusing stale versions.
//
//	@Summary		Update recipe
//	@Description	version must match the stored recipe; recipes using this one are recosted
//	@Tags			recipes
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Recipe ID"
//	@Param			request	body		UpdateRecipeRequest	true	"Recipe"
//	@Success		200		{object}	RecipeResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/recipes/{id} [put]
func (h *PutRecipeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[UpdateRecipeRequest](w, r)
	if !ok {
		return
	}
	view, err := h.svc.Recipes.Update(r.Context(), id, req.Version, req.input())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toRecipeResponse(view))
}

// DeleteRecipeHandler handles DELETE /recipes/{id}.
type DeleteRecipeHandler struct {
	svc *appsvcs.Services
}

// NewDeleteRecipeHandler returns a DeleteRecipeHandler.
func NewDeleteRecipeHandler(svc *appsvcs.Services) *DeleteRecipeHandler {
	return &DeleteRecipeHandler{svc: svc}
}

// Execute deletes a recipe nothing else references.
//
//	@Summary	Delete recipe
//	@Tags		recipes
//	@Param		id	path	string	true	"Recipe ID"
//	@Success	204
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Failure	409	{object}	ErrorResponse	"used as a sub-recipe or recorded in the ledger"
//	@Router		/recipes/{id} [delete]
func (h *DeleteRecipeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Recipes.Delete(r.Context(), id); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.NoContent(w)
}

// GetRecipeCostHandler handles GET /recipes/{id}/cost.
type GetRecipeCostHandler struct {
	svc *appsvcs.Services
}

// NewGetRecipeCostHandler returns a GetRecipeCostHandler.
func NewGetRecipeCostHandler(svc *appsvcs.Services) *GetRecipeCostHandler {
	return &GetRecipeCostHandler{svc: svc}
}

// Execute computes the live cost of a recipe from current prices.
//
//	@Summary		Live recipe cost
//	@Description	Recomputes every sub-recipe from its own lines; fails on reference cycles
//	@Tags			recipes
//	@Produce		json
//	@Param			id	path		string	true	"Recipe ID"
//	@Success		200	{object}	CostResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Router			/recipes/{id}/cost [get]
func (h *GetRecipeCostHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	live, err := h.svc.Recipes.Cost(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	resp := CostResponse{
		RecipeID:          live.RecipeID,
		RecipeVersion:     live.RecipeVersion,
		TotalCost:         live.TotalCost,
		CostPerPortion:    live.CostPerPortion,
		MarginPercent:     live.MarginPercent,
		SellPrice:         live.SellPrice,
		Profitability:     string(live.Profitability),
		ThresholdsVersion: live.ThresholdsVersion,
		Degraded:          live.Degraded,
		Lines:             make([]LineCostResponse, len(live.Lines)),
		ComputedAt:        live.ComputedAt,
		Cached:            live.Cached,
	}
	for i, l := range live.Lines {
		resp.Lines[i] = LineCostResponse{LineID: l.LineID, Name: l.Name, Cost: l.Cost, Degraded: l.Degraded}
	}
	httpx.JSON(w, http.StatusOK, resp)
}

// RecostRecipeHandler handles POST /recipes/{id}/recost.
type RecostRecipeHandler struct {
	svc *appsvcs.Services
}

// NewRecostRecipeHandler returns a RecostRecipeHandler.
func NewRecostRecipeHandler(svc *appsvcs.Services) *RecostRecipeHandler {
	return &RecostRecipeHandler{svc: svc}
}

// Execute recomputes a recipe's totals and then its dependents.
//
//	@Summary	Recost recipe
//	@Tags		recipes
//	@Produce	json
//	@Param		id	path		string	true	"Recipe ID"
//	@Success	200	{object}	RecostResponse
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Failure	422	{object}	ErrorResponse
//	@Router		/recipes/{id}/recost [post]
func (h *RecostRecipeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	view, res, err := h.svc.Recipes.Recost(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, RecostResponse{
		Recipe:   toRecipeResponse(view),
		Recosted: res.Recosted,
		Failed:   res.Failed,
	})
}

// RecipeStatsHandler handles GET /recipes/stats.
type RecipeStatsHandler struct {
	svc *appsvcs.Services
}

// NewRecipeStatsHandler returns a RecipeStatsHandler.
func NewRecipeStatsHandler(svc *appsvcs.Services) *RecipeStatsHandler {
	return &RecipeStatsHandler{svc: svc}
}

// Execute summarizes the catalog.
//
//	@Summary	Dashboard statistics
//	@Tags		recipes
//	@Produce	json
//	@Success	200	{object}	StatsResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/recipes/stats [get]
func (h *RecipeStatsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Recipes.Stats(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	resp := StatsResponse{
		TotalRecipes:       st.TotalRecipes,
		ActiveRecipes:      st.ActiveRecipes,
		TotalIngredients:   st.TotalIngredients,
		ActiveIngredients:  st.ActiveIngredients,
		OptimalRecipes:     st.OptimalRecipes,
		AverageCost:        st.AverageCost,
		AverageMargin:      st.AverageMargin,
		LowMarginPercent:   st.LowMarginPercent,
		RecipesPerCategory: make([]CategoryCountResponse, len(st.RecipesPerCategory)),
		LowMarginRecipes:   make([]LowMarginResponse, len(st.LowMarginRecipes)),
	}
	for i, c := range st.RecipesPerCategory {
		resp.RecipesPerCategory[i] = CategoryCountResponse{Category: c.Category, Recipes: c.Recipes}
	}
	for i, l := range st.LowMarginRecipes {
		resp.LowMarginRecipes[i] = LowMarginResponse{ID: l.ID, Name: l.Name, MarginPercent: l.MarginPercent}
	}
	httpx.JSON(w, http.StatusOK, resp)
}
